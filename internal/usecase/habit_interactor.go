package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/OmPimpale/GrowMate/internal/core/ports"
	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
)

// habitUseCase implements HabitUseCase
type habitUseCase struct {
	habitStorage ports.HabitStorage
	now          func() time.Time
}

// NewHabitUseCase создает новый экземпляр HabitUseCase.
// now передается явно, чтобы created_at был детерминирован в тестах
func NewHabitUseCase(habitStorage ports.HabitStorage, now func() time.Time) HabitUseCase {
	if now == nil {
		now = time.Now
	}
	return &habitUseCase{habitStorage: habitStorage, now: now}
}

// validateHabitInput проверяет ограничения полей и применяет значения
// по умолчанию. Возвращает нормализованный ввод.
// Длины считаются в символах, не в байтах: кириллический заголовок
// из 200 символов — валидный ввод
func validateHabitInput(in HabitInput) (HabitInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, domain.NewValidationError("title", "title is required")
	}
	if utf8.RuneCountInString(in.Title) > domain.MaxTitleLen {
		return in, domain.NewValidationError("title", fmt.Sprintf("must be at most %d characters", domain.MaxTitleLen))
	}
	if utf8.RuneCountInString(in.Description) > domain.MaxDescriptionLen {
		return in, domain.NewValidationError("description", fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLen))
	}

	if in.Frequency == "" {
		in.Frequency = string(domain.FrequencyDaily)
	}
	switch domain.Frequency(in.Frequency) {
	case domain.FrequencyDaily, domain.FrequencyWeekly:
	default:
		return in, domain.NewValidationError("frequency", "must be DAILY or WEEKLY")
	}

	if in.Color == "" {
		in.Color = domain.DefaultColor
	}
	if utf8.RuneCountInString(in.Color) > domain.MaxColorLen {
		return in, domain.NewValidationError("color", fmt.Sprintf("must be at most %d characters", domain.MaxColorLen))
	}

	return in, nil
}

// List возвращает привычки пользователя, новые первыми
func (uc *habitUseCase) List(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error) {
	habits, err := uc.habitStorage.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка привычек: %w", err)
	}
	return habits, nil
}

// Get возвращает привычку пользователя или domain.ErrNotFound
func (uc *habitUseCase) Get(ctx context.Context, habitID, userID uuid.UUID) (*domain.Habit, error) {
	habit, err := uc.habitStorage.GetByIDScoped(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// Create валидирует входные данные и сохраняет новую привычку
func (uc *habitUseCase) Create(ctx context.Context, userID uuid.UUID, in HabitInput) (*domain.Habit, error) {
	in, err := validateHabitInput(in)
	if err != nil {
		return nil, err
	}

	habit := &domain.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Frequency:   domain.Frequency(in.Frequency),
		Color:       in.Color,
		CreatedAt:   uc.now(),
	}

	if err := uc.habitStorage.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании привычки: %w", err)
	}
	return habit, nil
}

// Update меняет изменяемые поля привычки пользователя;
// владелец и created_at не затрагиваются
func (uc *habitUseCase) Update(ctx context.Context, habitID, userID uuid.UUID, in HabitInput) (*domain.Habit, error) {
	in, err := validateHabitInput(in)
	if err != nil {
		return nil, err
	}

	habit, err := uc.habitStorage.GetByIDScoped(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	habit.Title = in.Title
	habit.Description = in.Description
	habit.Frequency = domain.Frequency(in.Frequency)
	habit.Color = in.Color

	if err := uc.habitStorage.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Delete удаляет привычку вместе со всеми ее отметками
func (uc *habitUseCase) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	return uc.habitStorage.Delete(ctx, habitID, userID)
}
