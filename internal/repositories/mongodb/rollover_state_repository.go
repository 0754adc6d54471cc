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

// RolloverStateRepository implements the repositories.RolloverStateRepository interface
type RolloverStateRepository struct {
	collection *mongo.Collection
}

// NewRolloverStateRepository creates a new RolloverStateRepository
func NewRolloverStateRepository(db *mongo.Database) repositories.RolloverStateRepository {
	return &RolloverStateRepository{
		collection: db.Collection("rollover_state"),
	}
}

// FindByUserID finds the rollover state record for a user.
// Returns mongo.ErrNoDocuments when the user has never been processed.
func (r *RolloverStateRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.RolloverState, error) {
	var state models.RolloverState
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Create inserts a fresh rollover state record
func (r *RolloverStateRepository) Create(ctx context.Context, state *models.RolloverState) error {
	state.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to create rollover state for user %s: %w", state.UserID.Hex(), err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		state.ID = oid
	}
	return nil
}

// UpsertLastRolloverDate unconditionally sets lastRolloverDate for a user,
// creating the record if it does not exist yet.
func (r *RolloverStateRepository) UpsertLastRolloverDate(ctx context.Context, userID primitive.ObjectID, date time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"lastRolloverDate": date,
			"updatedAt":        time.Now(),
		},
		"$setOnInsert": bson.M{"userId": userID},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert rollover state for user %s: %w", userID.Hex(), err)
	}
	return nil
}
