package ports

import (
	"context"

	"github.com/OmPimpale/GrowMate/internal/messaging/payloads"
)

// AvatarUploadPublisher определяет методы для публикации сообщений об
// обработке аватара. Используется HTTP-обработчиком после загрузки оригинала
type AvatarUploadPublisher interface {
	PublishAvatarUpload(ctx context.Context, payload payloads.AvatarUploadPayload) error
}

// AvatarUploadConsumer определяет методы для потребления сообщений об
// обработке аватара, используется воркером
type AvatarUploadConsumer interface {
	// StartConsumingAvatarUploads начинает прослушивание очереди,
	// handler вызывается для каждого полученного сообщения
	StartConsumingAvatarUploads(ctx context.Context, handler func(context.Context, payloads.AvatarUploadPayload) error) error
}
