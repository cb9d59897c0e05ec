package di

import (
	"time"

	"github.com/OmPimpale/GrowMate/internal/adapter/storage/minio"
	"github.com/OmPimpale/GrowMate/internal/app"
	"github.com/OmPimpale/GrowMate/internal/config"
	"github.com/OmPimpale/GrowMate/internal/database/client"
	"github.com/OmPimpale/GrowMate/internal/database/postgres"
	"github.com/OmPimpale/GrowMate/internal/database/storage"
	"github.com/OmPimpale/GrowMate/internal/logger"
	"github.com/OmPimpale/GrowMate/internal/rabbitmq"
	"github.com/OmPimpale/GrowMate/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Инициализация PostgreSQL клиента и миграций
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	if err := postgres.ApplyMigrations(cfg.DatabaseURL, slogger); err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	habitStorage := storage.NewHabitPostgresStorage(dbClient.DB, slogger)
	habitLogStorage := storage.NewHabitLogPostgresStorage(dbClient.DB, slogger)
	userStorage := storage.NewUserPostgresStorage(dbClient.DB, slogger)

	// 4. Инициализация файлового хранилища аватаров
	fileStorage, err := minio.NewMinioClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. Инициализация RabbitMQ клиента (publisher и consumer в одном)
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 6. Инициализация бизнес-логики (usecases)
	habitUseCase := usecase.NewHabitUseCase(habitStorage, time.Now)
	habitLogUseCase := usecase.NewHabitLogUseCase(habitStorage, habitLogStorage, slogger, time.Now)
	userUseCase := usecase.NewUserUseCase(
		userStorage,
		fileStorage,
		rabbitMQClient,
		slogger,
		[]byte(cfg.JWTSecret),
		cfg.TokenTTL,
		time.Now,
	)

	// 7. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient.DB,
		habitUseCase,
		habitLogUseCase,
		userUseCase,
		rabbitMQClient,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
