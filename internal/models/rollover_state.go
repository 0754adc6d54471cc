package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RolloverState tracks the last calendar date successfully processed by the
// rollover batch for one user. A zero LastRolloverDate is the "never
// processed" sentinel. The date is non-decreasing over time.
type RolloverState struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	LastRolloverDate time.Time          `bson:"lastRolloverDate" json:"lastRolloverDate"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
