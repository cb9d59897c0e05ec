package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/OmPimpale/GrowMate/internal/core/ports"
	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
)

// defaultHistoryDays — окно истории по умолчанию для ListForHabit
const defaultHistoryDays = 365

// habitLogUseCase implements HabitLogUseCase
type habitLogUseCase struct {
	habitStorage ports.HabitStorage
	logStorage   ports.HabitLogStorage
	logger       *slog.Logger
	now          func() time.Time
}

// NewHabitLogUseCase создает новый экземпляр HabitLogUseCase.
// Часы передаются явно: "сегодня" в Toggle и окне по умолчанию
// не должно зависеть от глобального состояния
func NewHabitLogUseCase(
	habitStorage ports.HabitStorage,
	logStorage ports.HabitLogStorage,
	logger *slog.Logger,
	now func() time.Time,
) HabitLogUseCase {
	if now == nil {
		now = time.Now
	}
	return &habitLogUseCase{
		habitStorage: habitStorage,
		logStorage:   logStorage,
		logger:       logger,
		now:          now,
	}
}

// ListByUser возвращает отметки по всем привычкам пользователя
func (uc *habitLogUseCase) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.HabitLog, error) {
	logs, err := uc.logStorage.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении отметок пользователя: %w", err)
	}
	return logs, nil
}

// ListForHabit возвращает отметки привычки в окне [from, to].
// Нулевые границы означают окно по умолчанию: последние 365 дней
// до текущей даты включительно
func (uc *habitLogUseCase) ListForHabit(ctx context.Context, habitID, userID uuid.UUID, from, to time.Time) ([]domain.HabitLog, error) {
	habit, err := uc.habitStorage.GetByIDScoped(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = domain.DateOnly(uc.now())
	} else {
		to = domain.DateOnly(to)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultHistoryDays)
	} else {
		from = domain.DateOnly(from)
	}

	logs, err := uc.logStorage.ListForHabit(ctx, habit.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении истории привычки: %w", err)
	}
	return logs, nil
}

// Toggle — основной переход состояния отметки.
// Существующая запись инвертируется; отсутствующая создается сразу
// с completed = true. Достичь completed = false можно только повторным
// переключением уже выполненной записи.
// Гонку двух конкурентных Toggle за одну дату разрешает уникальный
// индекс бд: проигравшая вставка перечитывает и переключает чужую запись
func (uc *habitLogUseCase) Toggle(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (*domain.HabitLog, error) {
	habit, err := uc.habitStorage.GetByIDScoped(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = uc.now()
	}
	day := domain.DateOnly(date)

	existing, err := uc.logStorage.GetByHabitAndDate(ctx, habit.ID, day)
	if err == nil {
		return uc.logStorage.FlipCompleted(ctx, existing.ID)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("usecase: ошибка при поиске отметки за дату: %w", err)
	}

	log := &domain.HabitLog{HabitID: habit.ID, Date: day}
	err = uc.logStorage.CreateCompleted(ctx, log)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, domain.ErrLogExists) {
		return nil, fmt.Errorf("usecase: ошибка при создании отметки: %w", err)
	}

	// Конкурентная вставка успела раньше: строка уже есть,
	// применяем к ней обычное переключение
	uc.logger.Warn("toggle lost insert race, flipping existing log",
		"habit_id", habit.ID,
		"date", day,
	)
	existing, err = uc.logStorage.GetByHabitAndDate(ctx, habit.ID, day)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при перечитывании отметки после гонки: %w", err)
	}
	return uc.logStorage.FlipCompleted(ctx, existing.ID)
}

// CheckCompletion сообщает, выполнена ли привычка за дату.
// Отсутствие записи — это false, а не ошибка
func (uc *habitLogUseCase) CheckCompletion(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (bool, error) {
	habit, err := uc.habitStorage.GetByIDScoped(ctx, habitID, userID)
	if err != nil {
		return false, err
	}

	if date.IsZero() {
		date = uc.now()
	}

	log, err := uc.logStorage.GetByHabitAndDate(ctx, habit.ID, domain.DateOnly(date))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("usecase: ошибка при проверке выполнения: %w", err)
	}
	return log.Completed, nil
}
