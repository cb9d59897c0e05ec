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

// HabitLogPostgresStorage реализует ports.HabitLogStorage поверх PostgreSQL.
// Уникальный индекс (habit_id, date) — единственная и достаточная защита
// от гонки двух конкурентных toggle за одну дату.
type HabitLogPostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewHabitLogPostgresStorage(db *sqlx.DB, logger *slog.Logger) *HabitLogPostgresStorage {
	return &HabitLogPostgresStorage{db: db, logger: logger}
}

// ListByOwner возвращает отметки по всем привычкам пользователя.
// Владение проверяется join'ом через habits, а не доверием к habit_id
func (s *HabitLogPostgresStorage) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.HabitLog, error) {
	start := time.Now()

	q := `
	SELECT hl.id, hl.habit_id, hl.date, hl.completed
	FROM habit_logs hl
	JOIN habits h ON h.id = hl.habit_id
	WHERE h.user_id = $1
	ORDER BY hl.date DESC
	`

	logs := []domain.HabitLog{}
	if err := s.db.SelectContext(ctx, &logs, q, userID); err != nil {
		s.logger.Error("failed to list habit logs for user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении отметок пользователя: %w", err)
	}

	s.logger.Info("habit logs listed for user",
		"user_id", userID,
		"count", len(logs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return logs, nil
}

// ListForHabit возвращает отметки привычки в окне [from, to] включительно,
// дата по убыванию. Владение привычкой уже проверено вызывающим слоем
func (s *HabitLogPostgresStorage) ListForHabit(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]domain.HabitLog, error) {
	start := time.Now()

	q := `
	SELECT id, habit_id, date, completed
	FROM habit_logs
	WHERE habit_id = $1 AND date BETWEEN $2 AND $3
	ORDER BY date DESC
	`

	logs := []domain.HabitLog{}
	if err := s.db.SelectContext(ctx, &logs, q, habitID, from, to); err != nil {
		s.logger.Error("failed to list habit logs", "habit_id", habitID, "error", err)
		return nil, fmt.Errorf("ошибка при получении отметок привычки: %w", err)
	}

	s.logger.Info("habit logs listed",
		"habit_id", habitID,
		"count", len(logs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return logs, nil
}

// GetByHabitAndDate ищет отметку за конкретную дату
func (s *HabitLogPostgresStorage) GetByHabitAndDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*domain.HabitLog, error) {
	var log domain.HabitLog
	q := `SELECT id, habit_id, date, completed FROM habit_logs WHERE habit_id = $1 AND date = $2`

	err := s.db.GetContext(ctx, &log, q, habitID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get habit log by date", "habit_id", habitID, "date", date, "error", err)
		return nil, fmt.Errorf("ошибка при получении отметки за дату: %w", err)
	}
	return &log, nil
}

// CreateCompleted вставляет новую отметку сразу с completed = true:
// первое переключение за день всегда означает выполнение.
// Если конкурентная вставка успела раньше, строка не меняется и
// возвращается domain.ErrLogExists — вызывающий перечитывает и переключает
func (s *HabitLogPostgresStorage) CreateCompleted(ctx context.Context, log *domain.HabitLog) error {
	start := time.Now()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.Completed = true

	q := `
	INSERT INTO habit_logs (id, habit_id, date, completed)
	VALUES ($1, $2, $3, true)
	ON CONFLICT (habit_id, date) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, q, log.ID, log.HabitID, log.Date)
	if err != nil {
		s.logger.Error("failed to insert habit log", "habit_id", log.HabitID, "date", log.Date, "error", err)
		return fmt.Errorf("ошибка при создании отметки: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при получении числа вставленных строк: %w", err)
	}
	if affected == 0 {
		s.logger.Warn("concurrent insert won the race for habit log",
			"habit_id", log.HabitID,
			"date", log.Date,
		)
		return domain.ErrLogExists
	}

	s.logger.Info("habit log created as completed",
		"log_id", log.ID,
		"habit_id", log.HabitID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// FlipCompleted атомарно инвертирует completed прямо в бд,
// без чтения перед записью, и возвращает итоговое состояние
func (s *HabitLogPostgresStorage) FlipCompleted(ctx context.Context, logID uuid.UUID) (*domain.HabitLog, error) {
	start := time.Now()

	var log domain.HabitLog
	q := `
	UPDATE habit_logs
	SET completed = NOT completed
	WHERE id = $1
	RETURNING id, habit_id, date, completed
	`

	err := s.db.GetContext(ctx, &log, q, logID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to flip habit log", "log_id", logID, "error", err)
		return nil, fmt.Errorf("ошибка при переключении отметки: %w", err)
	}

	s.logger.Info("habit log flipped",
		"log_id", log.ID,
		"completed", log.Completed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &log, nil
}
