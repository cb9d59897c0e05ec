package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logKey struct {
	habitID uuid.UUID
	date    string
}

// fakeHabitLogStorage — in-memory хранилище отметок с инвариантом
// уникальности (habit_id, date), как у настоящего уникального индекса.
// interceptCreate, если задан, подменяет результат первой вставки —
// так моделируется проигрыш гонки конкурентному toggle
type fakeHabitLogStorage struct {
	mu              sync.Mutex
	logs            map[logKey]domain.HabitLog
	byID            map[uuid.UUID]logKey
	interceptCreate func(f *fakeHabitLogStorage, log *domain.HabitLog) error
}

func newFakeHabitLogStorage() *fakeHabitLogStorage {
	return &fakeHabitLogStorage{
		logs: make(map[logKey]domain.HabitLog),
		byID: make(map[uuid.UUID]logKey),
	}
}

func keyFor(habitID uuid.UUID, date time.Time) logKey {
	return logKey{habitID: habitID, date: date.Format("2006-01-02")}
}

func (f *fakeHabitLogStorage) ListByOwner(_ context.Context, _ uuid.UUID) ([]domain.HabitLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.HabitLog{}
	for _, l := range f.logs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeHabitLogStorage) ListForHabit(_ context.Context, habitID uuid.UUID, from, to time.Time) ([]domain.HabitLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.HabitLog{}
	for _, l := range f.logs {
		if l.HabitID == habitID && !l.Date.Before(from) && !l.Date.After(to) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeHabitLogStorage) GetByHabitAndDate(_ context.Context, habitID uuid.UUID, date time.Time) (*domain.HabitLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[keyFor(habitID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := l
	return &copied, nil
}

func (f *fakeHabitLogStorage) CreateCompleted(_ context.Context, log *domain.HabitLog) error {
	if f.interceptCreate != nil {
		intercept := f.interceptCreate
		f.interceptCreate = nil
		return intercept(f, log)
	}
	return f.insertCompleted(log)
}

func (f *fakeHabitLogStorage) insertCompleted(log *domain.HabitLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyFor(log.HabitID, log.Date)
	if _, ok := f.logs[k]; ok {
		return domain.ErrLogExists
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.Completed = true
	f.logs[k] = *log
	f.byID[log.ID] = k
	return nil
}

func (f *fakeHabitLogStorage) FlipCompleted(_ context.Context, logID uuid.UUID) (*domain.HabitLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k, ok := f.byID[logID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	l := f.logs[k]
	l.Completed = !l.Completed
	f.logs[k] = l
	copied := l
	return &copied, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type logFixture struct {
	uc      HabitLogUseCase
	habits  *fakeHabitStorage
	logs    *fakeHabitLogStorage
	userID  uuid.UUID
	habitID uuid.UUID
}

func newLogFixture(t *testing.T) *logFixture {
	t.Helper()
	habits := newFakeHabitStorage()
	logs := newFakeHabitLogStorage()
	userID := uuid.New()
	habitID := uuid.New()
	habits.habits[habitID] = domain.Habit{
		ID:        habitID,
		UserID:    userID,
		Title:     "Drink water",
		Frequency: domain.FrequencyDaily,
		Color:     domain.DefaultColor,
		CreatedAt: fixedNow,
	}
	return &logFixture{
		uc:      NewHabitLogUseCase(habits, logs, discardLogger(), fixedClock),
		habits:  habits,
		logs:    logs,
		userID:  userID,
		habitID: habitID,
	}
}

func TestToggle_FirstToggleCreatesCompleted(t *testing.T) {
	fx := newLogFixture(t)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	log, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)

	assert.True(t, log.Completed, "first toggle for a day must mark completion")
	assert.Equal(t, fx.habitID, log.HabitID)
	assert.Equal(t, domain.DateOnly(date), log.Date)
}

func TestToggle_SecondToggleReversesFirst(t *testing.T) {
	fx := newLogFixture(t)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)
	require.True(t, first.Completed)

	second, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)
	assert.False(t, second.Completed)
	assert.Equal(t, first.ID, second.ID, "toggle must flip the same row, not create another")

	third, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)
	assert.True(t, third.Completed)

	// строка за дату по-прежнему одна
	assert.Len(t, fx.logs.logs, 1)
}

func TestToggle_ZeroDateMeansToday(t *testing.T) {
	fx := newLogFixture(t)

	log, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, domain.DateOnly(fixedNow), log.Date)
}

func TestToggle_ForeignHabitIsNotFound(t *testing.T) {
	fx := newLogFixture(t)

	_, err := fx.uc.Toggle(context.Background(), fx.habitID, uuid.New(), time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, fx.logs.logs, "no log may be written for an unauthorized habit")
}

func TestToggle_InsertRaceFlipsExistingRow(t *testing.T) {
	fx := newLogFixture(t)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	// Конкурент вставляет строку между нашим чтением и вставкой:
	// вставка возвращает ErrLogExists, toggle обязан перечитать и переключить
	fx.logs.interceptCreate = func(f *fakeHabitLogStorage, log *domain.HabitLog) error {
		winner := &domain.HabitLog{HabitID: log.HabitID, Date: log.Date}
		if err := f.insertCompleted(winner); err != nil {
			return err
		}
		return domain.ErrLogExists
	}

	log, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)

	// конкурент оставил true, проигравший toggle переключил в false
	assert.False(t, log.Completed)
	assert.Len(t, fx.logs.logs, 1, "race must never produce a second row")
}

func TestToggle_StorageFailurePropagates(t *testing.T) {
	fx := newLogFixture(t)
	storageErr := errors.New("connection reset")

	fx.logs.interceptCreate = func(_ *fakeHabitLogStorage, _ *domain.HabitLog) error {
		return storageErr
	}

	_, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, time.Time{})
	assert.ErrorIs(t, err, storageErr)
}

func TestCheckCompletion_AbsentIsFalseNotError(t *testing.T) {
	fx := newLogFixture(t)

	completed, err := fx.uc.CheckCompletion(context.Background(), fx.habitID, fx.userID, fixedNow)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestCheckCompletion_TracksLastToggle(t *testing.T) {
	fx := newLogFixture(t)
	date := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	_, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)

	completed, err := fx.uc.CheckCompletion(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)
	assert.True(t, completed)

	_, err = fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)

	completed, err = fx.uc.CheckCompletion(context.Background(), fx.habitID, fx.userID, date)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestCheckCompletion_ForeignHabitIsNotFound(t *testing.T) {
	fx := newLogFixture(t)

	_, err := fx.uc.CheckCompletion(context.Background(), fx.habitID, uuid.New(), fixedNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForHabit_DefaultWindowIs365Days(t *testing.T) {
	fx := newLogFixture(t)

	today := domain.DateOnly(fixedNow)
	inside := today.AddDate(0, 0, -364)
	outside := today.AddDate(0, 0, -366)

	for _, d := range []time.Time{today, inside, outside} {
		_, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, d)
		require.NoError(t, err)
	}

	logs, err := fx.uc.ListForHabit(context.Background(), fx.habitID, fx.userID, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, logs, 2, "window must cover the 365 days ending today")
	assert.Equal(t, today, logs[0].Date, "logs must be ordered date descending")
	assert.Equal(t, inside, logs[1].Date)
}

func TestListForHabit_ExplicitWindow(t *testing.T) {
	fx := newLogFixture(t)

	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{d1, d2} {
		_, err := fx.uc.Toggle(context.Background(), fx.habitID, fx.userID, d)
		require.NoError(t, err)
	}

	logs, err := fx.uc.ListForHabit(context.Background(), fx.habitID, fx.userID, d1, d1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, d1, logs[0].Date)
}

func TestListForHabit_ForeignHabitIsNotFound(t *testing.T) {
	fx := newLogFixture(t)

	_, err := fx.uc.ListForHabit(context.Background(), fx.habitID, uuid.New(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Сквозной сценарий: создать привычку, дважды переключить одну дату,
// проверить историю
func TestScenario_DrinkWater(t *testing.T) {
	habits := newFakeHabitStorage()
	logs := newFakeHabitLogStorage()
	userID := uuid.New()

	habitUC := NewHabitUseCase(habits, fixedClock)
	logUC := NewHabitLogUseCase(habits, logs, discardLogger(), fixedClock)

	habit, err := habitUC.Create(context.Background(), userID, HabitInput{Title: "Drink water", Frequency: "DAILY"})
	require.NoError(t, err)

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := logUC.Toggle(context.Background(), habit.ID, userID, date)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := logUC.Toggle(context.Background(), habit.ID, userID, date)
	require.NoError(t, err)
	assert.False(t, second.Completed)

	history, err := logUC.ListForHabit(context.Background(), habit.ID, userID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Completed)
}
