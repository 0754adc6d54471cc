package services

import (
	"context"

	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure taskService implements TaskService
var _ TaskService = (*taskService)(nil)

// TaskService defines the interface for task management operations
type TaskService interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	GetTasks(ctx context.Context, page, limit int) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id primitive.ObjectID) error
}

type taskService struct {
	taskRepo repositories.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repositories.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

func (s *taskService) CreateTask(ctx context.Context, task *models.Task) error {
	return s.taskRepo.Create(ctx, task)
}

func (s *taskService) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

func (s *taskService) GetTasks(ctx context.Context, page, limit int) ([]*models.Task, error) {
	return s.taskRepo.FindAll(ctx, page, limit)
}

func (s *taskService) UpdateTask(ctx context.Context, task *models.Task) error {
	return s.taskRepo.Update(ctx, task)
}

func (s *taskService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	return s.taskRepo.Delete(ctx, id)
}
