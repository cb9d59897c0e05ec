package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/OmPimpale/GrowMate/internal/auth"
	"github.com/OmPimpale/GrowMate/internal/core/ports"
	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/OmPimpale/GrowMate/internal/messaging/payloads"
	"github.com/google/uuid"
)

const (
	maxNameLen     = 255
	minPasswordLen = 6
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Несуществующий email и неверный пароль неразличимы для клиента
var ErrInvalidCredentials = errors.New("invalid email or password")

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage     ports.UserStorage
	fileStorage     FileStorage
	avatarPublisher ports.AvatarUploadPublisher
	logger          *slog.Logger
	jwtSecret       []byte
	tokenTTL        time.Duration
	now             func() time.Time
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	userStorage ports.UserStorage,
	fileStorage FileStorage,
	avatarPublisher ports.AvatarUploadPublisher,
	logger *slog.Logger,
	jwtSecret []byte,
	tokenTTL time.Duration,
	now func() time.Time,
) UserUseCase {
	if now == nil {
		now = time.Now
	}
	return &userUseCase{
		userStorage:     userStorage,
		fileStorage:     fileStorage,
		avatarPublisher: avatarPublisher,
		logger:          logger,
		jwtSecret:       jwtSecret,
		tokenTTL:        tokenTTL,
		now:             now,
	}
}

// Register создает пользователя с bcrypt-хэшем пароля и выпускает токен
func (uc *userUseCase) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", domain.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, "", domain.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", domain.NewValidationError("email", "valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, "", domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("usecase: ошибка хэширования пароля: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    uc.now(),
		UpdatedAt:    uc.now(),
	}

	if err := uc.userStorage.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, uc.jwtSecret, uc.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("usecase: ошибка выпуска токена: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login проверяет учетные данные и выпускает токен.
// Отсутствующий пользователь и неверный пароль дают одинаковую ошибку
func (uc *userUseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.userStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("usecase: ошибка при поиске пользователя: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, uc.jwtSecret, uc.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("usecase: ошибка выпуска токена: %w", err)
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Me возвращает профиль текущего пользователя
func (uc *userUseCase) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.userStorage.GetByID(ctx, userID)
}

// UpdateName меняет только имя пользователя
func (uc *userUseCase) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, domain.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}
	return uc.userStorage.UpdateName(ctx, userID, name)
}

// UploadAvatar загружает оригинал аватара в объектное хранилище и
// публикует задачу на обработку. Профиль пользователя обновит воркер
func (uc *userUseCase) UploadAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader, contentType string) error {
	key := fmt.Sprintf("avatars/original/%s", userID)

	if _, err := uc.fileStorage.UploadFile(ctx, key, reader, contentType); err != nil {
		return fmt.Errorf("usecase: ошибка загрузки оригинала аватара: %w", err)
	}

	payload := payloads.AvatarUploadPayload{UserID: userID, Key: key, ContentType: contentType}
	if err := uc.avatarPublisher.PublishAvatarUpload(ctx, payload); err != nil {
		return fmt.Errorf("usecase: ошибка публикации задачи на обработку аватара: %w", err)
	}

	uc.logger.Info("avatar original uploaded, processing queued", "user_id", userID, "key", key)
	return nil
}

// ProcessAvatar выполняется воркером: скачивает оригинал, перекладывает
// его под публичный ключ и прописывает URL в профиль пользователя
func (uc *userUseCase) ProcessAvatar(ctx context.Context, userID uuid.UUID, key, contentType string) error {
	body, err := uc.fileStorage.DownloadFile(ctx, key)
	if err != nil {
		return fmt.Errorf("usecase: ошибка скачивания оригинала аватара %s: %w", key, err)
	}
	defer body.Close()

	publicKey := fmt.Sprintf("avatars/%s", userID)
	url, err := uc.fileStorage.UploadFile(ctx, publicKey, body, contentType)
	if err != nil {
		return fmt.Errorf("usecase: ошибка загрузки обработанного аватара: %w", err)
	}

	if _, err := uc.userStorage.UpdateImage(ctx, userID, url); err != nil {
		return fmt.Errorf("usecase: ошибка сохранения URL аватара: %w", err)
	}

	uc.logger.Info("avatar processed", "user_id", userID, "url", url)
	return nil
}
