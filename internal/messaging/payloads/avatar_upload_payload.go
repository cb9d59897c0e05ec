package payloads

import "github.com/google/uuid"

// AvatarUploadPayload — задача на обработку загруженного аватара.
// Key указывает на оригинал в объектном хранилище.
type AvatarUploadPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
}
