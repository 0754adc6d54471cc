package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkEntryRepository implements the repositories.WorkEntryRepository interface
type WorkEntryRepository struct {
	collection *mongo.Collection
}

// NewWorkEntryRepository creates a new WorkEntryRepository
func NewWorkEntryRepository(db *mongo.Database) repositories.WorkEntryRepository {
	return &WorkEntryRepository{
		collection: db.Collection("work_entries"),
	}
}

// Create inserts a new work entry. The (userId, date) pair is expected to be
// unique; a duplicate insert surfaces as a write error.
func (r *WorkEntryRepository) Create(ctx context.Context, entry *models.WorkEntry) error {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.AssignedTasks == nil {
		entry.AssignedTasks = []string{}
	}
	if entry.CompletedTasks == nil {
		entry.CompletedTasks = []string{}
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create work entry: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

// FindByUserAndDate finds the single entry for a user on a civil date.
// Returns mongo.ErrNoDocuments when absent.
func (r *WorkEntryRepository) FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error) {
	var entry models.WorkEntry
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "date": date}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update replaces a work entry document
func (r *WorkEntryRepository) Update(ctx context.Context, entry *models.WorkEntry) error {
	entry.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return fmt.Errorf("failed to update work entry %s: %w", entry.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateAssignedTasks replaces only the assigned task set of one entry and
// returns the updated document.
func (r *WorkEntryRepository) UpdateAssignedTasks(ctx context.Context, id primitive.ObjectID, assignedTasks []string, updatedAt time.Time) (*models.WorkEntry, error) {
	update := bson.M{
		"$set": bson.M{
			"assignedTasks": assignedTasks,
			"updatedAt":     updatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var entry models.WorkEntry
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("failed to update assigned tasks for entry %s: %w", id.Hex(), err)
	}
	return &entry, nil
}
