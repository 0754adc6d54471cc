package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse/workpulse-backend/internal/config"
	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// --- In-memory fakes ---

type fakeUserRepo struct {
	users         []*models.User
	findActiveErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, user)
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}
func (f *fakeUserRepo) FindAll(ctx context.Context) ([]*models.User, error) { return f.users, nil }
func (f *fakeUserRepo) FindActive(ctx context.Context) ([]*models.User, error) {
	if f.findActiveErr != nil {
		return nil, f.findActiveErr
	}
	var active []*models.User
	for _, u := range f.users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error     { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeEntryRepo struct {
	entries map[string]*models.WorkEntry

	reads        []time.Time
	creates      int
	assignWrites int

	createErr       error
	findErrOn       map[string]error
	assignErrOnDate map[string]error // keyed by destination date
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{
		entries:         make(map[string]*models.WorkEntry),
		findErrOn:       make(map[string]error),
		assignErrOnDate: make(map[string]error),
	}
}

func entryKey(userID primitive.ObjectID, date time.Time) string {
	return userID.Hex() + "|" + date.Format("2006-01-02")
}

func (f *fakeEntryRepo) Create(ctx context.Context, entry *models.WorkEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	entry.ID = primitive.NewObjectID()
	f.entries[entryKey(entry.UserID, entry.Date)] = entry
	return nil
}

func (f *fakeEntryRepo) FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*models.WorkEntry, error) {
	f.reads = append(f.reads, date)
	key := entryKey(userID, date)
	if err, ok := f.findErrOn[key]; ok {
		return nil, err
	}
	entry, ok := f.entries[key]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return entry, nil
}

func (f *fakeEntryRepo) Update(ctx context.Context, entry *models.WorkEntry) error {
	f.entries[entryKey(entry.UserID, entry.Date)] = entry
	return nil
}

func (f *fakeEntryRepo) UpdateAssignedTasks(ctx context.Context, id primitive.ObjectID, assignedTasks []string, updatedAt time.Time) (*models.WorkEntry, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			if err, ok := f.assignErrOnDate[entry.Date.Format("2006-01-02")]; ok {
				return nil, err
			}
			f.assignWrites++
			entry.AssignedTasks = assignedTasks
			entry.UpdatedAt = updatedAt
			return entry, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeStateRepo struct {
	states map[string]*models.RolloverState

	findErr   error
	createErr error
	upsertErr error
	upserts   int
	panicFor  string
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]*models.RolloverState)}
}

func (f *fakeStateRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.RolloverState, error) {
	if f.panicFor == userID.Hex() {
		panic("corrupt state document")
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	state, ok := f.states[userID.Hex()]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return state, nil
}

func (f *fakeStateRepo) Create(ctx context.Context, state *models.RolloverState) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.states[state.UserID.Hex()] = state
	return nil
}

func (f *fakeStateRepo) UpsertLastRolloverDate(ctx context.Context, userID primitive.ObjectID, date time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	state, ok := f.states[userID.Hex()]
	if !ok {
		state = &models.RolloverState{UserID: userID}
		f.states[userID.Hex()] = state
	}
	state.LastRolloverDate = date
	return nil
}

type fakeRunRepo struct {
	runs      []*models.RolloverRun
	createErr error
}

func (f *fakeRunRepo) Create(ctx context.Context, run *models.RolloverRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) FindRecent(ctx context.Context, limit int) ([]*models.RolloverRun, error) {
	if limit > len(f.runs) {
		limit = len(f.runs)
	}
	return f.runs[:limit], nil
}

// --- Test helpers ---

func civilDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date.UTC()
}

func testConfig() config.RolloverConfig {
	return config.RolloverConfig{
		CivilOffsetMinutes: 330,
		TriggerHour:        0,
		MaxDaysBack:        30,
		MaxDaysToProcess:   30,
	}
}

type fixture struct {
	users   *fakeUserRepo
	entries *fakeEntryRepo
	states  *fakeStateRepo
	runs    *fakeRunRepo
	service RolloverService
}

func newFixture(nowFn func() time.Time, users ...*models.User) *fixture {
	f := &fixture{
		users:   &fakeUserRepo{users: users},
		entries: newFakeEntryRepo(),
		states:  newFakeStateRepo(),
		runs:    &fakeRunRepo{},
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	clock := utils.NewCivilClockAt(330, nowFn)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewRolloverService(f.users, f.entries, f.states, f.runs, clock, logger, testConfig())
	return f
}

func activeUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), IsActive: true}
}

func (f *fixture) seedEntry(userID primitive.ObjectID, date time.Time, assigned, completed []string) *models.WorkEntry {
	entry := &models.WorkEntry{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Date:           date,
		AssignedTasks:  assigned,
		CompletedTasks: completed,
	}
	f.entries.entries[entryKey(userID, date)] = entry
	return entry
}

func (f *fixture) seedState(userID primitive.ObjectID, lastDate time.Time) {
	f.states.states[userID.Hex()] = &models.RolloverState{UserID: userID, LastRolloverDate: lastDate}
}

// --- Tests ---

func TestRunForTargetCarriesUnfinishedTasksForward(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.seedEntry(user.ID, jun1, []string{"T1", "T2"}, []string{"T1"})
	f.seedState(user.ID, jun1)

	result, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 0, result.Errors)

	entry, ok := f.entries.entries[entryKey(user.ID, jun2)]
	require.True(t, ok, "destination entry should have been created")
	assert.Equal(t, []string{"T2"}, entry.AssignedTasks)
	assert.Empty(t, entry.CompletedTasks)
	assert.False(t, entry.IsAbsent)
	assert.Equal(t, jun2, f.states.states[user.ID.Hex()].LastRolloverDate)
}

func TestRunForTargetIsIdempotent(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.seedEntry(user.ID, jun1, []string{"T1", "T2"}, []string{"T1"})
	f.seedState(user.ID, jun1)

	_, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)

	writesAfterFirst := f.entries.assignWrites + f.entries.creates
	firstAssigned := append([]string(nil), f.entries.entries[entryKey(user.ID, jun2)].AssignedTasks...)

	result, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)

	// Second run is a no-op: user already at the target date.
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, writesAfterFirst, f.entries.assignWrites+f.entries.creates)
	assert.Equal(t, firstAssigned, f.entries.entries[entryKey(user.ID, jun2)].AssignedTasks)
}

func TestRunForTargetSkipsWriteWhenMergeAddsNothing(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.seedEntry(user.ID, jun1, []string{"T2"}, nil)
	f.seedEntry(user.ID, jun2, []string{"T2", "T3"}, nil)
	f.seedState(user.ID, jun1)

	result, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 0, result.Errors)

	assert.Equal(t, 0, f.entries.assignWrites, "no write should be issued when the merged set did not grow")
	assert.Equal(t, []string{"T2", "T3"}, f.entries.entries[entryKey(user.ID, jun2)].AssignedTasks)
}

func TestRunForTargetNoDuplicateOnOverlap(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.seedEntry(user.ID, jun1, []string{"T1", "T2"}, nil)
	f.seedEntry(user.ID, jun2, []string{"T2"}, nil)
	f.seedState(user.ID, jun1)

	_, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)

	entry := f.entries.entries[entryKey(user.ID, jun2)]
	assert.Equal(t, []string{"T2", "T1"}, entry.AssignedTasks, "overlapping task appears exactly once")
}

func TestRunForTargetBoundsCatchUpWindow(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	target := civilDate(t, "2025-06-10")
	// Epoch sentinel: user has never been processed.

	result, err := f.service.RunForTarget(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)

	windowStart := civilDate(t, "2025-05-11")
	require.NotEmpty(t, f.entries.reads)
	for _, read := range f.entries.reads {
		assert.False(t, read.Before(windowStart), "read %s outside the lookback window", read.Format("2006-01-02"))
	}
	assert.Equal(t, target, f.states.states[user.ID.Hex()].LastRolloverDate)
}

func TestRunForTargetCompoundsMergesAcrossDays(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	day1 := civilDate(t, "2025-06-01")
	day3 := civilDate(t, "2025-06-03")
	f.seedEntry(user.ID, day1, []string{"T1"}, nil)
	f.seedState(user.ID, day1)

	_, err := f.service.RunForTarget(context.Background(), day3)
	require.NoError(t, err)

	// T1 was unfinished on day 1, carried to day 2, still unfinished there,
	// so it must surface on day 3.
	entry, ok := f.entries.entries[entryKey(user.ID, day3)]
	require.True(t, ok)
	assert.Contains(t, entry.AssignedTasks, "T1")
}

func TestRunForTargetContinuesPastFailedDay(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	day0 := civilDate(t, "2025-06-01")
	target := civilDate(t, "2025-06-06")
	f.seedState(user.ID, day0)
	// Unfinished work on every day so each step attempts a merge.
	for d := day0; d.Before(target); d = d.AddDate(0, 0, 1) {
		f.seedEntry(user.ID, d, []string{"T-" + d.Format("0102")}, nil)
	}
	// Day 3 of the chain refuses the merge write.
	f.entries.assignErrOnDate["2025-06-04"] = errors.New("write timeout")

	result, err := f.service.RunForTarget(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success, "user still counts as processed")
	assert.Equal(t, 1, result.Errors, "the failed day is counted once")

	// Days after the failure still executed.
	day5 := f.entries.entries[entryKey(user.ID, civilDate(t, "2025-06-05"))]
	require.NotNil(t, day5)
	assert.NotEmpty(t, day5.AssignedTasks)

	// State still advances to the target after the loop.
	assert.Equal(t, target, f.states.states[user.ID.Hex()].LastRolloverDate)
}

func TestRunForTargetIsolatesUserFailures(t *testing.T) {
	healthy := activeUser()
	broken := activeUser()
	f := newFixture(nil, broken, healthy)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.seedEntry(healthy.ID, jun1, []string{"T1"}, nil)
	f.seedState(healthy.ID, jun1)
	f.seedState(broken.ID, jun1)
	// Reading the broken user's source entry fails hard.
	f.entries.findErrOn[entryKey(broken.ID, jun1)] = errors.New("connection reset")

	result, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success, "a failed day does not fail its user")
	assert.Equal(t, 1, result.Errors)

	entry, ok := f.entries.entries[entryKey(healthy.ID, jun2)]
	require.True(t, ok, "the healthy user must still be processed")
	assert.Equal(t, []string{"T1"}, entry.AssignedTasks)
}

func TestRunForTargetRecoversFromUserPanic(t *testing.T) {
	panicking := activeUser()
	healthy := activeUser()
	f := newFixture(nil, panicking, healthy)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.states.panicFor = panicking.ID.Hex()
	f.seedEntry(healthy.ID, jun1, []string{"T1"}, nil)
	f.seedState(healthy.ID, jun1)

	result, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Errors)
	_, ok := f.entries.entries[entryKey(healthy.ID, jun2)]
	assert.True(t, ok, "users after the panicking one must still be processed")
}

func TestRunForTargetStateReadFailureCountsUserError(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)
	f.states.findErr = errors.New("connection reset")

	result, err := f.service.RunForTarget(context.Background(), civilDate(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 1, result.Errors)
}

func TestRunForTargetStateCreateFailureDegrades(t *testing.T) {
	user := activeUser()
	f := newFixture(nil, user)

	jun1 := civilDate(t, "2025-06-01")
	jun2 := civilDate(t, "2025-06-02")
	f.seedEntry(user.ID, jun1, []string{"T1"}, nil)
	f.states.createErr = errors.New("insert denied")

	result, err := f.service.RunForTarget(context.Background(), jun2)
	require.NoError(t, err)

	// Creation failure degrades to an in-memory default, it does not halt.
	assert.Equal(t, 1, result.Success)
	entry, ok := f.entries.entries[entryKey(user.ID, jun2)]
	require.True(t, ok)
	assert.Equal(t, []string{"T1"}, entry.AssignedTasks)
}

func TestRunForTargetInactiveUsersAreNotVisited(t *testing.T) {
	inactive := &models.User{ID: primitive.NewObjectID(), IsActive: false}
	f := newFixture(nil, inactive)

	jun1 := civilDate(t, "2025-06-01")
	f.seedEntry(inactive.ID, jun1, []string{"T1"}, nil)

	result, err := f.service.RunForTarget(context.Background(), civilDate(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, f.entries.reads)
}

func TestRunForTargetUserListFailure(t *testing.T) {
	f := newFixture(nil)
	f.users.findActiveErr = errors.New("connection refused")

	_, err := f.service.RunForTarget(context.Background(), civilDate(t, "2025-06-02"))
	assert.Error(t, err)
}

func TestTriggerOutsideWindowSkips(t *testing.T) {
	// 09:00 IST is outside the hour-zero window.
	now := time.Date(2025, 6, 2, 3, 30, 0, 0, time.UTC)
	user := activeUser()
	f := newFixture(func() time.Time { return now }, user)

	outcome, err := f.service.Trigger(context.Background())
	require.NoError(t, err)

	assert.False(t, outcome.ShouldRun)
	assert.Nil(t, outcome.Result)
	assert.Empty(t, f.runs.runs, "no run log is written when the gate declines")
}

func TestTriggerInsideWindowRunsAndRecords(t *testing.T) {
	// 18:45 UTC on June 1 is 00:15 IST on June 2.
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)
	user := activeUser()
	f := newFixture(func() time.Time { return now }, user)

	jun1 := civilDate(t, "2025-06-01")
	f.seedEntry(user.ID, jun1, []string{"T1", "T2"}, []string{"T1"})
	f.seedState(user.ID, jun1)

	outcome, err := f.service.Trigger(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.ShouldRun)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, 1, outcome.Result.Success)

	// The target date is the civil date, not the server-local one.
	entry, ok := f.entries.entries[entryKey(user.ID, civilDate(t, "2025-06-02"))]
	require.True(t, ok)
	assert.Equal(t, []string{"T2"}, entry.AssignedTasks)

	require.Len(t, f.runs.runs, 1)
	run := f.runs.runs[0]
	assert.Equal(t, models.RolloverRunSuccess, run.Status)
	assert.Equal(t, 1, run.UsersProcessed)
	assert.Equal(t, 0, run.ErrorsCount)
	assert.NotEmpty(t, run.RunID)
}

func TestTriggerRecordsPartialSuccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)
	user := activeUser()
	f := newFixture(func() time.Time { return now }, user)

	jun1 := civilDate(t, "2025-06-01")
	f.seedEntry(user.ID, jun1, []string{"T1"}, nil)
	f.seedState(user.ID, jun1)
	f.entries.assignErrOnDate["2025-06-02"] = errors.New("write timeout")

	outcome, err := f.service.Trigger(context.Background())
	require.NoError(t, err)
	require.True(t, outcome.ShouldRun)

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, models.RolloverRunPartialSuccess, f.runs.runs[0].Status)
	assert.Equal(t, 1, f.runs.runs[0].ErrorsCount)
}

func TestTriggerSurvivesRunLogWriteFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)
	user := activeUser()
	f := newFixture(func() time.Time { return now }, user)
	f.runs.createErr = errors.New("insert denied")

	outcome, err := f.service.Trigger(context.Background())
	require.NoError(t, err, "run log failure must not fail the invocation")
	assert.True(t, outcome.ShouldRun)
}
