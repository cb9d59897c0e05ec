package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/OmPimpale/GrowMate/internal/config"
	"github.com/OmPimpale/GrowMate/internal/core/ports"
	"github.com/OmPimpale/GrowMate/internal/usecase"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Config          *config.Config
	logger          *slog.Logger
	db              *sqlx.DB
	habitUseCase    usecase.HabitUseCase
	habitLogUseCase usecase.HabitLogUseCase
	userUseCase     usecase.UserUseCase
	avatarConsumer  ports.AvatarUploadConsumer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	habitUseCase usecase.HabitUseCase,
	habitLogUseCase usecase.HabitLogUseCase,
	userUseCase usecase.UserUseCase,
	avatarConsumer ports.AvatarUploadConsumer,
) *App {
	return &App{
		Config:          cfg,
		logger:          logger,
		db:              db,
		habitUseCase:    habitUseCase,
		habitLogUseCase: habitLogUseCase,
		userUseCase:     userUseCase,
		avatarConsumer:  avatarConsumer,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Run(ctx context.Context, mode *string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting application", "mode", *mode)

	var err error

	switch *mode {
	case "server":
		err = runServer(ctx, a.Config, a.logger, a.habitUseCase, a.habitLogUseCase, a.userUseCase)

	case "worker":
		err = runWorker(ctx, a.Config, a.logger, a.userUseCase, a.avatarConsumer)

	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", *mode)
	}

	if err != nil {
		return err
	}

	a.logger.Info("shutting down")

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("error during shutdown", "error", closeErr)
	}

	a.logger.Info("stopped gracefully")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}

	// если consumer имеет метод Close — вызываем его
	if closer, ok := a.avatarConsumer.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	return nil
}
