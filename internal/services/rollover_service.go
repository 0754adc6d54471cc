package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workpulse/workpulse-backend/internal/config"
	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"github.com/workpulse/workpulse-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure rolloverService implements RolloverService
var _ RolloverService = (*rolloverService)(nil)

// RolloverResult aggregates the per-user outcome counts of one batch run.
// Users already caught up to the target date count as neither.
type RolloverResult struct {
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

// TriggerOutcome is what one invocation of the batch entry point reports.
// Result is nil when the invocation gate declined to run.
type TriggerOutcome struct {
	ShouldRun   bool
	CurrentTime time.Time
	Result      *RolloverResult
}

// RolloverService carries forward each user's unfinished tasks from previous
// days onto the current civil day, exactly once per day. Correctness under
// duplicate or delayed invocation comes from idempotent state, not locking:
// the per-user lastRolloverDate gate short-circuits repeats, and the
// union-based merge is a no-op when re-applied.
type RolloverService interface {
	// Trigger applies the invocation gate and, if eligible, runs the batch
	// for the current civil date and records a run log entry.
	Trigger(ctx context.Context) (*TriggerOutcome, error)
	// RunForTarget drives the day-by-day catch-up for every active user up
	// to targetDate.
	RunForTarget(ctx context.Context, targetDate time.Time) (*RolloverResult, error)
	// RecentRuns returns the latest batch run log records.
	RecentRuns(ctx context.Context, limit int) ([]*models.RolloverRun, error)
}

type rolloverService struct {
	userRepo  repositories.UserRepository
	entryRepo repositories.WorkEntryRepository
	stateRepo repositories.RolloverStateRepository
	runRepo   repositories.RolloverRunRepository
	clock     *utils.CivilClock
	logger    *slog.Logger
	cfg       config.RolloverConfig
}

// NewRolloverService creates a new RolloverService
func NewRolloverService(
	userRepo repositories.UserRepository,
	entryRepo repositories.WorkEntryRepository,
	stateRepo repositories.RolloverStateRepository,
	runRepo repositories.RolloverRunRepository,
	clock *utils.CivilClock,
	logger *slog.Logger,
	cfg config.RolloverConfig,
) RolloverService {
	if logger == nil {
		logger = slog.Default()
	}
	return &rolloverService{
		userRepo:  userRepo,
		entryRepo: entryRepo,
		stateRepo: stateRepo,
		runRepo:   runRepo,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
}

// Trigger gates on the configured civil hour, then runs the batch for the
// current civil date. Repeated triggers inside the window are safe; the
// second run is a no-op for every user the first one already advanced.
func (s *rolloverService) Trigger(ctx context.Context) (*TriggerOutcome, error) {
	now := s.clock.Now()
	if now.Hour() != s.cfg.TriggerHour {
		s.logger.Info("rollover trigger outside execution window, skipping",
			"currentHour", now.Hour(), "triggerHour", s.cfg.TriggerHour)
		return &TriggerOutcome{ShouldRun: false, CurrentTime: now}, nil
	}

	targetDate := utils.DateOnly(now)
	result, err := s.RunForTarget(ctx, targetDate)
	if err != nil {
		return nil, err
	}

	s.recordRun(ctx, targetDate, now, result)

	return &TriggerOutcome{ShouldRun: true, CurrentTime: now, Result: result}, nil
}

// RunForTarget iterates active users sequentially. One user's failure never
// aborts the batch for the others.
func (s *rolloverService) RunForTarget(ctx context.Context, targetDate time.Time) (*RolloverResult, error) {
	targetDate = utils.DateOnly(targetDate)

	users, err := s.userRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to fetch active users for rollover", "error", err)
		return nil, fmt.Errorf("failed to fetch active users: %w", err)
	}

	result := &RolloverResult{}
	for _, user := range users {
		processed, dayErrors, err := s.runUserSafely(ctx, user.ID, targetDate)
		result.Errors += dayErrors
		if err != nil {
			result.Errors++
			continue
		}
		if processed {
			result.Success++
		}
	}

	s.logger.Info("rollover batch completed",
		"targetDate", targetDate.Format("2006-01-02"),
		"success", result.Success, "errors", result.Errors)
	return result, nil
}

// RecentRuns returns the latest batch run log records, newest first.
func (s *rolloverService) RecentRuns(ctx context.Context, limit int) ([]*models.RolloverRun, error) {
	if limit < 1 {
		limit = 20
	}
	runs, err := s.runRepo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.Error("failed to fetch rollover runs", "error", err)
		return nil, fmt.Errorf("failed to fetch rollover runs: %w", err)
	}
	return runs, nil
}

// runUserSafely wraps one user's catch-up with panic recovery so an
// unexpected failure is counted and the loop moves on.
func (s *rolloverService) runUserSafely(ctx context.Context, userID primitive.ObjectID, targetDate time.Time) (processed bool, dayErrors int, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic during user rollover", "userId", userID.Hex(), "panic", r)
			err = fmt.Errorf("panic during user rollover: %v", r)
		}
	}()
	processed, dayErrors, err = s.catchUpUser(ctx, userID, targetDate)
	return
}

// catchUpUser walks the user's missing days strictly in chronological order.
// Each day's merge depends on the previous day's already-merged state, so the
// days of one user cannot be reordered or parallelized.
func (s *rolloverService) catchUpUser(ctx context.Context, userID primitive.ObjectID, targetDate time.Time) (bool, int, error) {
	state, err := s.getOrCreateState(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	if !state.LastRolloverDate.Before(targetDate) {
		// Already caught up; counts as neither success nor error.
		return false, 0, nil
	}

	// Bound how far a long-stale user is replayed. Days older than the
	// lookback window are intentionally dropped, not processed late.
	startDate := state.LastRolloverDate
	floor := targetDate.AddDate(0, 0, -s.cfg.MaxDaysBack)
	if startDate.Before(floor) {
		startDate = floor
	}

	dayErrors := 0
	steps := 0
	for current := startDate.AddDate(0, 0, 1); !current.After(targetDate); current = current.AddDate(0, 0, 1) {
		if steps >= s.cfg.MaxDaysToProcess {
			s.logger.Warn("rollover day cap reached for user",
				"userId", userID.Hex(), "cap", s.cfg.MaxDaysToProcess)
			break
		}
		steps++
		if err := s.processDay(ctx, userID, current.AddDate(0, 0, -1), current); err != nil {
			dayErrors++
		}
	}

	// State advances to the target even when individual days failed; the
	// durability write itself is best-effort.
	if err := s.stateRepo.UpsertLastRolloverDate(ctx, userID, targetDate); err != nil {
		s.logger.Warn("failed to persist rollover state",
			"userId", userID.Hex(), "targetDate", targetDate.Format("2006-01-02"), "error", err)
	}

	return true, dayErrors, nil
}

// getOrCreateState reads the user's rollover state, creating a zero-dated
// record on first encounter. A creation failure degrades to an in-memory
// default for this invocation only instead of halting the batch.
func (s *rolloverService) getOrCreateState(ctx context.Context, userID primitive.ObjectID) (*models.RolloverState, error) {
	state, err := s.stateRepo.FindByUserID(ctx, userID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error("failed to read rollover state", "userId", userID.Hex(), "error", err)
		return nil, fmt.Errorf("failed to read rollover state for user %s: %w", userID.Hex(), err)
	}

	state = &models.RolloverState{UserID: userID}
	if err := s.stateRepo.Create(ctx, state); err != nil {
		s.logger.Error("failed to create rollover state, continuing with in-memory default",
			"userId", userID.Hex(), "error", err)
	}
	return state, nil
}

// processDay merges fromDate's unfinished tasks into toDate's entry for one
// user. Any store failure abandons this one day only; the caller counts it
// and moves on.
func (s *rolloverService) processDay(ctx context.Context, userID primitive.ObjectID, fromDate, toDate time.Time) error {
	if !fromDate.Before(toDate) {
		return nil
	}

	fromEntry, err := s.entryRepo.FindByUserAndDate(ctx, userID, fromDate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Nothing to carry forward.
			return nil
		}
		s.logger.Error("rollover: failed to read source work entry",
			"userId", userID.Hex(), "fromDate", fromDate.Format("2006-01-02"),
			"toDate", toDate.Format("2006-01-02"), "error", err)
		return fmt.Errorf("failed to read source work entry: %w", err)
	}

	unfinished := fromEntry.UnfinishedTasks()
	if len(unfinished) == 0 {
		return nil
	}

	toEntry, err := s.entryRepo.FindByUserAndDate(ctx, userID, toDate)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Error("rollover: failed to read destination work entry",
				"userId", userID.Hex(), "fromDate", fromDate.Format("2006-01-02"),
				"toDate", toDate.Format("2006-01-02"), "error", err)
			return fmt.Errorf("failed to read destination work entry: %w", err)
		}
		toEntry = &models.WorkEntry{
			UserID:         userID,
			Date:           toDate,
			AssignedTasks:  []string{},
			CompletedTasks: []string{},
		}
		if err := s.entryRepo.Create(ctx, toEntry); err != nil {
			s.logger.Error("rollover: failed to create destination work entry",
				"userId", userID.Hex(), "fromDate", fromDate.Format("2006-01-02"),
				"toDate", toDate.Format("2006-01-02"), "error", err)
			return fmt.Errorf("failed to create destination work entry: %w", err)
		}
	}

	merged := models.MergeTasks(toEntry.AssignedTasks, unfinished)
	if len(merged) <= len(toEntry.AssignedTasks) {
		// Destination already holds every unfinished task; skip the write to
		// avoid timestamp churn.
		return nil
	}

	if _, err := s.entryRepo.UpdateAssignedTasks(ctx, toEntry.ID, merged, s.clock.Now()); err != nil {
		s.logger.Error("rollover: failed to write merged tasks",
			"userId", userID.Hex(), "fromDate", fromDate.Format("2006-01-02"),
			"toDate", toDate.Format("2006-01-02"), "error", err)
		return fmt.Errorf("failed to write merged tasks: %w", err)
	}

	s.logger.Info("rollover: carried tasks forward",
		"userId", userID.Hex(), "toDate", toDate.Format("2006-01-02"), "carried", len(unfinished))
	return nil
}

// recordRun appends the batch summary. A write failure here is logged but
// never fails the invocation; the batch's effects are already committed.
func (s *rolloverService) recordRun(ctx context.Context, targetDate, executionTime time.Time, result *RolloverResult) {
	status := models.RolloverRunSuccess
	if result.Errors > 0 {
		status = models.RolloverRunPartialSuccess
	}
	run := &models.RolloverRun{
		RunID:          uuid.NewString(),
		ExecutionDate:  targetDate,
		ExecutionTime:  executionTime,
		UsersProcessed: result.Success,
		ErrorsCount:    result.Errors,
		Status:         status,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Warn("failed to record rollover run", "error", err)
	}
}
