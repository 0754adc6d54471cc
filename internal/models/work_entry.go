package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkEntry is the per-user, per-calendar-date record of assigned and
// completed task identifiers plus attendance fields. At most one entry
// exists per (userId, date); the date is stored as midnight UTC of the
// civil calendar day.
type WorkEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Date           time.Time          `bson:"date" json:"date"`
	AssignedTasks  []string           `bson:"assignedTasks" json:"assignedTasks"`
	CompletedTasks []string           `bson:"completedTasks" json:"completedTasks"`
	CheckInTime    *time.Time         `bson:"checkInTime,omitempty" json:"checkInTime,omitempty"`
	CheckOutTime   *time.Time         `bson:"checkOutTime,omitempty" json:"checkOutTime,omitempty"`
	IsAbsent       bool               `bson:"isAbsent" json:"isAbsent"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UnfinishedTasks returns the task identifiers assigned on this entry but
// not completed. Order follows the assigned list; duplicates are dropped.
func (e *WorkEntry) UnfinishedTasks() []string {
	completed := make(map[string]bool, len(e.CompletedTasks))
	for _, id := range e.CompletedTasks {
		completed[id] = true
	}

	seen := make(map[string]bool, len(e.AssignedTasks))
	var unfinished []string
	for _, id := range e.AssignedTasks {
		if completed[id] || seen[id] {
			continue
		}
		seen[id] = true
		unfinished = append(unfinished, id)
	}
	return unfinished
}

// MergeTasks unions the given task identifiers into base, preserving the
// order of base and appending new identifiers in their given order.
// Re-applying the same merge is a no-op by set semantics.
func MergeTasks(base, incoming []string) []string {
	present := make(map[string]bool, len(base))
	merged := make([]string, 0, len(base)+len(incoming))
	for _, id := range base {
		if present[id] {
			continue
		}
		present[id] = true
		merged = append(merged, id)
	}
	for _, id := range incoming {
		if present[id] {
			continue
		}
		present[id] = true
		merged = append(merged, id)
	}
	return merged
}
