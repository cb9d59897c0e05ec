package ports

import (
	"context"
	"time"

	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
)

// HabitStorage определяет методы для взаимодействия с хранилищем привычек.
// Все операции, кроме Create, явно ограничены владельцем: идентификатор
// пользователя входит в предикат каждого запроса.
type HabitStorage interface {
	// ListByOwner возвращает привычки пользователя, новые первыми
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error)

	// GetByIDScoped возвращает привычку по ID, если она принадлежит userID.
	// Несуществующая и чужая привычка неразличимы: обе дают domain.ErrNotFound
	GetByIDScoped(ctx context.Context, habitID, userID uuid.UUID) (*domain.Habit, error)

	// Create сохраняет новую привычку
	Create(ctx context.Context, habit *domain.Habit) error

	// Update изменяет title/description/frequency/color привычки владельца.
	// user_id и created_at никогда не затрагиваются
	Update(ctx context.Context, habit *domain.Habit) error

	// Delete удаляет привычку владельца вместе со всеми ее логами
	// (каскад на уровне бд, осиротевших логов не остается)
	Delete(ctx context.Context, habitID, userID uuid.UUID) error
}

// HabitLogStorage определяет методы для взаимодействия с хранилищем отметок.
// Авторизация логов идет транзитивно: HabitLog -> Habit -> User.
type HabitLogStorage interface {
	// ListByOwner возвращает отметки по всем привычкам пользователя,
	// отсортированные по дате по убыванию (join через habits)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.HabitLog, error)

	// ListForHabit возвращает отметки привычки в окне [from, to], дата по убыванию.
	// Проверку владения привычкой выполняет вызывающий слой
	ListForHabit(ctx context.Context, habitID uuid.UUID, from, to time.Time) ([]domain.HabitLog, error)

	// GetByHabitAndDate ищет отметку за конкретную дату, domain.ErrNotFound если ее нет
	GetByHabitAndDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*domain.HabitLog, error)

	// CreateCompleted вставляет новую отметку с completed = true.
	// Если запись за эту дату уже существует (в т.ч. создана конкурентно),
	// возвращает domain.ErrLogExists, ничего не меняя
	CreateCompleted(ctx context.Context, log *domain.HabitLog) error

	// FlipCompleted атомарно инвертирует completed и возвращает итоговую запись
	FlipCompleted(ctx context.Context, logID uuid.UUID) (*domain.HabitLog, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateName меняет только имя пользователя
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)
	// UpdateImage сохраняет URL обработанного аватара
	UpdateImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.User, error)
}
