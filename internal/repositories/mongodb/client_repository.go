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

// ClientRepository implements the repositories.ClientRepository interface
type ClientRepository struct {
	collection *mongo.Collection
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *mongo.Database) repositories.ClientRepository {
	return &ClientRepository{
		collection: db.Collection("clients"),
	}
}

// Create inserts a new client
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		client.ID = oid
	}
	return nil
}

// FindByID finds a client by ID
func (r *ClientRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// FindAll returns clients with simple pagination, newest first
func (r *ClientRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Client, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding clients: %w", err)
	}
	defer cursor.Close(ctx)

	var clients []*models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("error decoding clients: %w", err)
	}
	if clients == nil {
		clients = []*models.Client{}
	}
	return clients, nil
}

// Update replaces a client document
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": client.ID}, client)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", client.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a client
func (r *ClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
