package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/OmPimpale/GrowMate/internal/config"
	"github.com/OmPimpale/GrowMate/internal/handler"
	"github.com/OmPimpale/GrowMate/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// runServer запускает HTTP сервер с маршрутами привычек, отметок и профиля
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	habitUseCase usecase.HabitUseCase,
	habitLogUseCase usecase.HabitLogUseCase,
	userUseCase usecase.UserUseCase,
) error {
	habitHandler := handler.NewHabitHandler(habitUseCase, logger)
	habitLogHandler := handler.NewHabitLogHandler(habitLogUseCase, logger)
	userHandler := handler.NewUserHandler(userUseCase, logger)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		// все остальное доступно только с токеном
		r.Group(func(r chi.Router) {
			r.Use(handler.Authenticator([]byte(cfg.JWTSecret), logger))

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", habitHandler.List)
				r.Post("/", habitHandler.Create)
				r.Get("/{id}", habitHandler.Get)
				r.Put("/{id}", habitHandler.Update)
				r.Delete("/{id}", habitHandler.Delete)
			})

			r.Route("/habit-logs", func(r chi.Router) {
				r.Get("/", habitLogHandler.List)
				r.Get("/habit/{habitID}", habitLogHandler.ListForHabit)
				r.Post("/toggle", habitLogHandler.Toggle)
				r.Get("/check", habitLogHandler.Check)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Put("/me", userHandler.UpdateMe)
				r.Post("/me/image", userHandler.UploadImage)
			})
		})
	})

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// ждем сигнал завершения или ошибку сервера
	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("termination signal received, shutting down server")

	ctxServer, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
