package usecase

import (
	"context"
	"io"
	"time"

	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/google/uuid"
)

// HabitInput — изменяемые поля привычки, приходящие от клиента.
// Frequency и Color могут быть пустыми — тогда применяются значения
// по умолчанию (DAILY и domain.DefaultColor).
type HabitInput struct {
	Title       string
	Description string
	Frequency   string
	Color       string
}

// HabitUseCase определяет бизнес-логику работы с привычками.
// Каждая операция принимает идентификатор доверенного пользователя и
// неявно ограничена им: чужая привычка эквивалентна несуществующей.
type HabitUseCase interface {
	// List возвращает привычки пользователя, новые первыми
	List(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error)

	// Get возвращает привычку пользователя или domain.ErrNotFound
	Get(ctx context.Context, habitID, userID uuid.UUID) (*domain.Habit, error)

	// Create валидирует входные данные, применяет значения по умолчанию
	// и сохраняет новую привычку
	Create(ctx context.Context, userID uuid.UUID, in HabitInput) (*domain.Habit, error)

	// Update меняет только изменяемые поля; валидация как у Create
	Update(ctx context.Context, habitID, userID uuid.UUID, in HabitInput) (*domain.Habit, error)

	// Delete удаляет привычку вместе со всеми ее отметками
	Delete(ctx context.Context, habitID, userID uuid.UUID) error
}

// HabitLogUseCase определяет бизнес-логику работы с отметками выполнения.
// Единственная мутация — Toggle; прямой установки completed не существует.
type HabitLogUseCase interface {
	// ListByUser возвращает отметки по всем привычкам пользователя, дата по убыванию
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.HabitLog, error)

	// ListForHabit возвращает отметки привычки в заданном окне.
	// Нулевые from/to означают окно по умолчанию: 365 дней до текущей даты
	ListForHabit(ctx context.Context, habitID, userID uuid.UUID, from, to time.Time) ([]domain.HabitLog, error)

	// Toggle переключает отметку за дату: существующая запись инвертируется,
	// отсутствующая создается сразу выполненной. Нулевая date означает сегодня
	Toggle(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (*domain.HabitLog, error)

	// CheckCompletion сообщает, выполнена ли привычка за дату.
	// Отсутствие записи — это false, а не ошибка
	CheckCompletion(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (bool, error)
}

// UserUseCase определяет бизнес-логику работы с пользователями:
// регистрация, вход, профиль и загрузка аватара
type UserUseCase interface {
	// Register создает пользователя и возвращает его вместе с токеном доступа
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)

	// Login проверяет учетные данные и возвращает пользователя с токеном
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Me возвращает профиль текущего пользователя
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateName меняет только имя пользователя
	UpdateName(ctx context.Context, userID uuid.UUID, name string) (*domain.User, error)

	// UploadAvatar загружает оригинал в объектное хранилище и ставит
	// задачу на обработку в очередь; профиль обновит воркер
	UploadAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader, contentType string) error

	// ProcessAvatar выполняется воркером: скачивает оригинал, кладет
	// обработанную копию и прописывает ее URL в профиль
	ProcessAvatar(ctx context.Context, userID uuid.UUID, key, contentType string) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (MinIO/S3)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его публичный URL.
	// key — уникальное имя файла в хранилище
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DownloadFile возвращает содержимое файла по ключу
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteFile удаляет файл из хранилища по его ключу
	DeleteFile(ctx context.Context, key string) error
}
