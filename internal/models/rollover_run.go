package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RolloverRunStatus represents the outcome of one batch invocation
type RolloverRunStatus string

const (
	RolloverRunSuccess        RolloverRunStatus = "success"
	RolloverRunPartialSuccess RolloverRunStatus = "partial_success"
)

// RolloverRun is the append-only log record of one batch execution.
type RolloverRun struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RunID          string             `bson:"runId" json:"runId"`
	ExecutionDate  time.Time          `bson:"executionDate" json:"executionDate"`
	ExecutionTime  time.Time          `bson:"executionTime" json:"executionTime"`
	UsersProcessed int                `bson:"usersProcessed" json:"usersProcessed"`
	ErrorsCount    int                `bson:"errorsCount" json:"errorsCount"`
	Status         RolloverRunStatus  `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
