package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"github.com/workpulse/workpulse-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure workEntryService implements WorkEntryService
var _ WorkEntryService = (*workEntryService)(nil)

// WorkEntryService defines the attendance and task-tracking operations on
// daily work entries. Entries are created lazily on first touch of a day.
type WorkEntryService interface {
	GetEntry(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error)
	CheckIn(ctx context.Context, userID primitive.ObjectID) (*models.WorkEntry, error)
	CheckOut(ctx context.Context, userID primitive.ObjectID) (*models.WorkEntry, error)
	MarkAbsent(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error)
	AssignTask(ctx context.Context, userID primitive.ObjectID, date time.Time, taskID string) (*models.WorkEntry, error)
	CompleteTask(ctx context.Context, userID primitive.ObjectID, date time.Time, taskID string) (*models.WorkEntry, error)
}

type workEntryService struct {
	entryRepo repositories.WorkEntryRepository
	clock     *utils.CivilClock
}

// NewWorkEntryService creates a new WorkEntryService
func NewWorkEntryService(entryRepo repositories.WorkEntryRepository, clock *utils.CivilClock) WorkEntryService {
	return &workEntryService{
		entryRepo: entryRepo,
		clock:     clock,
	}
}

func (s *workEntryService) GetEntry(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error) {
	return s.entryRepo.FindByUserAndDate(ctx, userID, utils.DateOnly(date))
}

// CheckIn stamps the check-in time on today's entry for the user
func (s *workEntryService) CheckIn(ctx context.Context, userID primitive.ObjectID) (*models.WorkEntry, error) {
	now := s.clock.Now()
	entry, err := s.getOrCreateEntry(ctx, userID, utils.DateOnly(now))
	if err != nil {
		return nil, err
	}
	if entry.CheckInTime != nil {
		return nil, errors.New("already checked in for today")
	}
	entry.CheckInTime = &now
	entry.IsAbsent = false
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return entry, nil
}

// CheckOut stamps the check-out time on today's entry for the user
func (s *workEntryService) CheckOut(ctx context.Context, userID primitive.ObjectID) (*models.WorkEntry, error) {
	now := s.clock.Now()
	entry, err := s.entryRepo.FindByUserAndDate(ctx, userID, utils.DateOnly(now))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("no check-in recorded for today")
		}
		return nil, fmt.Errorf("failed to read work entry: %w", err)
	}
	if entry.CheckInTime == nil {
		return nil, errors.New("no check-in recorded for today")
	}
	entry.CheckOutTime = &now
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record check-out: %w", err)
	}
	return entry, nil
}

// MarkAbsent flags the user absent on the given date
func (s *workEntryService) MarkAbsent(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error) {
	entry, err := s.getOrCreateEntry(ctx, userID, utils.DateOnly(date))
	if err != nil {
		return nil, err
	}
	entry.IsAbsent = true
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to mark absent: %w", err)
	}
	return entry, nil
}

// AssignTask adds a task identifier to the user's assigned set for the date
func (s *workEntryService) AssignTask(ctx context.Context, userID primitive.ObjectID, date time.Time, taskID string) (*models.WorkEntry, error) {
	entry, err := s.getOrCreateEntry(ctx, userID, utils.DateOnly(date))
	if err != nil {
		return nil, err
	}
	merged := models.MergeTasks(entry.AssignedTasks, []string{taskID})
	if len(merged) == len(entry.AssignedTasks) {
		return entry, nil
	}
	return s.entryRepo.UpdateAssignedTasks(ctx, entry.ID, merged, s.clock.Now())
}

// CompleteTask moves an assigned task into the completed set for the date
func (s *workEntryService) CompleteTask(ctx context.Context, userID primitive.ObjectID, date time.Time, taskID string) (*models.WorkEntry, error) {
	entry, err := s.entryRepo.FindByUserAndDate(ctx, userID, utils.DateOnly(date))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("no work entry for this date")
		}
		return nil, fmt.Errorf("failed to read work entry: %w", err)
	}

	assigned := false
	for _, id := range entry.AssignedTasks {
		if id == taskID {
			assigned = true
			break
		}
	}
	if !assigned {
		return nil, errors.New("task is not assigned for this date")
	}

	entry.CompletedTasks = models.MergeTasks(entry.CompletedTasks, []string{taskID})
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record task completion: %w", err)
	}
	return entry, nil
}

// getOrCreateEntry reads the (user, date) entry, creating an empty one when
// it does not exist yet.
func (s *workEntryService) getOrCreateEntry(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error) {
	entry, err := s.entryRepo.FindByUserAndDate(ctx, userID, date)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to read work entry: %w", err)
	}

	entry = &models.WorkEntry{
		UserID:         userID,
		Date:           date,
		AssignedTasks:  []string{},
		CompletedTasks: []string{},
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create work entry: %w", err)
	}
	return entry, nil
}
