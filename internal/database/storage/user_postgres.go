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
	"github.com/lib/pq"
)

// код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

// UserPostgresStorage реализует ports.UserStorage поверх PostgreSQL
type UserPostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewUserPostgresStorage(db *sqlx.DB, logger *slog.Logger) *UserPostgresStorage {
	return &UserPostgresStorage{db: db, logger: logger}
}

// Create сохраняет нового пользователя.
// Повторная регистрация email дает domain.ErrEmailTaken
func (s *UserPostgresStorage) Create(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	q := `
	INSERT INTO users (id, name, email, password_hash, image, created_at, updated_at)
	VALUES (:id, :name, :email, :password_hash, :image, :created_at, :updated_at)
	`

	_, err := s.db.NamedExecContext(ctx, q, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			s.logger.Warn("email already registered", "email", user.Email)
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetByID получает пользователя по ID
func (s *UserPostgresStorage) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	q := `SELECT id, name, email, password_hash, image, created_at, updated_at FROM users WHERE id = $1`

	err := s.db.GetContext(ctx, &user, q, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}
	return &user, nil
}

// GetByEmail получает пользователя по email (для входа)
func (s *UserPostgresStorage) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	q := `SELECT id, name, email, password_hash, image, created_at, updated_at FROM users WHERE email = $1`

	err := s.db.GetContext(ctx, &user, q, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to get user by email", "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}
	return &user, nil
}

// UpdateName меняет только имя пользователя и возвращает обновленную запись
func (s *UserPostgresStorage) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	q := `
	UPDATE users
	SET name = $1, updated_at = now()
	WHERE id = $2
	RETURNING id, name, email, password_hash, image, created_at, updated_at
	`

	err := s.db.GetContext(ctx, &user, q, name, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to update user name", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении имени пользователя: %w", err)
	}

	s.logger.Info("user name updated",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

// UpdateImage сохраняет URL обработанного аватара
func (s *UserPostgresStorage) UpdateImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	q := `
	UPDATE users
	SET image = $1, updated_at = now()
	WHERE id = $2
	RETURNING id, name, email, password_hash, image, created_at, updated_at
	`

	err := s.db.GetContext(ctx, &user, q, imageURL, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to update user image", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении аватара пользователя: %w", err)
	}

	s.logger.Info("user image updated",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
