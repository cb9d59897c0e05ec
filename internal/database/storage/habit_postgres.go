package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// HabitPostgresStorage реализует ports.HabitStorage поверх PostgreSQL.
// Каждый запрос включает фильтр по владельцу: «голому» id привычки из
// запроса клиента хранилище не доверяет.
type HabitPostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewHabitPostgresStorage(db *sqlx.DB, logger *slog.Logger) *HabitPostgresStorage {
	return &HabitPostgresStorage{db: db, logger: logger}
}

// ListByOwner возвращает привычки пользователя, новые первыми
func (s *HabitPostgresStorage) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error) {
	start := time.Now()

	q := `
	SELECT id, user_id, title, description, frequency, color, created_at
	FROM habits
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	habits := []domain.Habit{}
	if err := s.db.SelectContext(ctx, &habits, q, userID); err != nil {
		s.logger.Error("failed to list habits", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка привычек: %w", err)
	}

	s.logger.Info("habits listed successfully",
		"user_id", userID,
		"count", len(habits),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return habits, nil
}

// GetByIDScoped получает привычку по ID в рамках владельца.
// Чужая привычка неотличима от несуществующей: обе дают domain.ErrNotFound
func (s *HabitPostgresStorage) GetByIDScoped(ctx context.Context, habitID, userID uuid.UUID) (*domain.Habit, error) {
	var habit domain.Habit
	q := `
	SELECT id, user_id, title, description, frequency, color, created_at
	FROM habits
	WHERE id = $1 AND user_id = $2
	`

	err := s.db.GetContext(ctx, &habit, q, habitID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("habit not found for user", "habit_id", habitID, "user_id", userID)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get habit by id", "habit_id", habitID, "error", err)
		return nil, fmt.Errorf("ошибка при получении привычки по ID: %w", err)
	}
	return &habit, nil
}

// Create сохраняет новую привычку в базе данных
func (s *HabitPostgresStorage) Create(ctx context.Context, habit *domain.Habit) error {
	start := time.Now()

	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}

	q := `
	INSERT INTO habits (id, user_id, title, description, frequency, color, created_at)
	VALUES (:id, :user_id, :title, :description, :frequency, :color, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, q, habit); err != nil {
		s.logger.Error("failed to create habit", "user_id", habit.UserID, "error", err)
		return fmt.Errorf("ошибка при сохранении привычки: %w", err)
	}

	s.logger.Info("habit created successfully",
		"habit_id", habit.ID,
		"user_id", habit.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Update изменяет только четыре изменяемых поля привычки.
// user_id и created_at предикатом и списком SET не затрагиваются
func (s *HabitPostgresStorage) Update(ctx context.Context, habit *domain.Habit) error {
	start := time.Now()

	q := `
	UPDATE habits
	SET title = :title, description = :description, frequency = :frequency, color = :color
	WHERE id = :id AND user_id = :user_id
	`

	res, err := s.db.NamedExecContext(ctx, q, habit)
	if err != nil {
		s.logger.Error("failed to update habit", "habit_id", habit.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении привычки: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при получении числа обновленных строк: %w", err)
	}
	if affected == 0 {
		s.logger.Warn("habit to update not found for user", "habit_id", habit.ID, "user_id", habit.UserID)
		return domain.ErrNotFound
	}

	s.logger.Info("habit updated successfully",
		"habit_id", habit.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Delete удаляет привычку владельца; все ее отметки удаляются каскадом
// на уровне бд в той же операции
func (s *HabitPostgresStorage) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID)
	if err != nil {
		s.logger.Error("failed to delete habit", "habit_id", habitID, "error", err)
		return fmt.Errorf("ошибка при удалении привычки: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при получении числа удаленных строк: %w", err)
	}
	if affected == 0 {
		s.logger.Warn("habit to delete not found for user", "habit_id", habitID, "user_id", userID)
		return domain.ErrNotFound
	}

	s.logger.Info("habit deleted with its logs",
		"habit_id", habitID,
		"user_id", userID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
