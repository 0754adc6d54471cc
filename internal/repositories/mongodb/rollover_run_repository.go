package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RolloverRunRepository implements the repositories.RolloverRunRepository interface
type RolloverRunRepository struct {
	collection *mongo.Collection
}

// NewRolloverRunRepository creates a new RolloverRunRepository
func NewRolloverRunRepository(db *mongo.Database) repositories.RolloverRunRepository {
	return &RolloverRunRepository{
		collection: db.Collection("rollover_runs"),
	}
}

// Create appends one batch run record. Run records are never updated.
func (r *RolloverRunRepository) Create(ctx context.Context, run *models.RolloverRun) error {
	run.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to create rollover run record: %w", err)
	}
	return nil
}

// FindRecent returns the most recent run records, newest first.
func (r *RolloverRunRepository) FindRecent(ctx context.Context, limit int) ([]*models.RolloverRun, error) {
	opts := options.Find().
		SetSort(bson.M{"executionTime": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding recent rollover runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []*models.RolloverRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("error decoding rollover runs: %w", err)
	}
	if runs == nil {
		runs = []*models.RolloverRun{}
	}
	return runs, nil
}
