package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OmPimpale/GrowMate/internal/config"
	"github.com/OmPimpale/GrowMate/internal/core/ports"
	"github.com/OmPimpale/GrowMate/internal/messaging/payloads"
	"github.com/OmPimpale/GrowMate/internal/usecase"
)

// runWorker запускает потребителя RabbitMQ и обрабатывает задачи
// на обработку аватаров
func runWorker(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	userUseCase usecase.UserUseCase,
	avatarConsumer ports.AvatarUploadConsumer,
) error {
	logger.Info("worker started, waiting for avatar tasks")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Функция-обработчик для сообщений очереди
	messageHandler := func(ctx context.Context, payload payloads.AvatarUploadPayload) error {
		logger.Info("worker: processing avatar task", "user_id", payload.UserID, "key", payload.Key)

		if err := userUseCase.ProcessAvatar(ctx, payload.UserID, payload.Key, payload.ContentType); err != nil {
			logger.Error("worker: avatar task failed", "user_id", payload.UserID, "error", err)
			return err
		}

		logger.Info("worker: avatar task completed", "user_id", payload.UserID)
		return nil
	}

	if err := avatarConsumer.StartConsumingAvatarUploads(workerCtx, messageHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	// ждем сигнал завершения
	<-ctx.Done()

	logger.Info("worker: termination signal received, stopping")
	cancelWorker()

	logger.Info("worker: stopped gracefully")
	return nil
}
