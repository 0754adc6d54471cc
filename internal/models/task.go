package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "OPEN"
	TaskStatusClosed TaskStatus = "CLOSED"
)

// Task is a unit of work that can be assigned into a user's daily work
// entry. Work entries reference tasks by their hex identifier.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ClientID    primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Status      TaskStatus         `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
