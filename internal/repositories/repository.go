package repositories

import (
	"context"
	"time"

	"github.com/workpulse/workpulse-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	// FindActive returns the users visited by the rollover batch (isActive = true).
	FindActive(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkEntryRepository defines the interface for work entry data operations.
// FindByUserAndDate returns mongo.ErrNoDocuments when no entry exists for
// the (user, date) pair; dates are midnight-UTC civil days.
type WorkEntryRepository interface {
	Create(ctx context.Context, entry *models.WorkEntry) error
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error)
	Update(ctx context.Context, entry *models.WorkEntry) error
	// UpdateAssignedTasks replaces the assigned set of one entry and stamps
	// updatedAt; the rollover merge is the only caller.
	UpdateAssignedTasks(ctx context.Context, id primitive.ObjectID, assignedTasks []string, updatedAt time.Time) (*models.WorkEntry, error)
}

// RolloverStateRepository defines the interface for rollover bookkeeping
type RolloverStateRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.RolloverState, error)
	Create(ctx context.Context, state *models.RolloverState) error
	// UpsertLastRolloverDate unconditionally sets the user's last processed
	// date, creating the record if missing.
	UpsertLastRolloverDate(ctx context.Context, userID primitive.ObjectID, date time.Time) error
}

// RolloverRunRepository defines the interface for the append-only batch run log
type RolloverRunRepository interface {
	Create(ctx context.Context, run *models.RolloverRun) error
	FindRecent(ctx context.Context, limit int) ([]*models.RolloverRun, error)
}
