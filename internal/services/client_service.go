package services

import (
	"context"

	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure clientService implements ClientService
var _ ClientService = (*clientService)(nil)

// ClientService defines the interface for client management operations
type ClientService interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	GetClients(ctx context.Context, page, limit int) ([]*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id primitive.ObjectID) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) CreateClient(ctx context.Context, client *models.Client) error {
	return s.clientRepo.Create(ctx, client)
}

func (s *clientService) GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

func (s *clientService) GetClients(ctx context.Context, page, limit int) ([]*models.Client, error) {
	return s.clientRepo.FindAll(ctx, page, limit)
}

func (s *clientService) UpdateClient(ctx context.Context, client *models.Client) error {
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	return s.clientRepo.Delete(ctx, id)
}
