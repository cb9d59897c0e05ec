package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/OmPimpale/GrowMate/internal/usecase"
)

// dateLayout — формат календарных дат на проводе (ISO, YYYY-MM-DD)
const dateLayout = "2006-01-02"

// Внешние представления сущностей. Наружу никогда не отдается сырая
// доменная модель: ссылка на владельца и хэш пароля не покидают ядро.

type habitResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Color       string `json:"color"`
	CreatedAt   string `json:"createdAt"`
}

func toHabitResponse(h *domain.Habit) habitResponse {
	return habitResponse{
		ID:          h.ID.String(),
		Title:       h.Title,
		Description: h.Description,
		Frequency:   string(h.Frequency),
		Color:       h.Color,
		CreatedAt:   h.CreatedAt.Format(time.RFC3339),
	}
}

func toHabitResponses(habits []domain.Habit) []habitResponse {
	out := make([]habitResponse, 0, len(habits))
	for i := range habits {
		out = append(out, toHabitResponse(&habits[i]))
	}
	return out
}

type habitLogResponse struct {
	ID        string `json:"id"`
	HabitID   string `json:"habitId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func toHabitLogResponse(l *domain.HabitLog) habitLogResponse {
	return habitLogResponse{
		ID:        l.ID.String(),
		HabitID:   l.HabitID.String(),
		Date:      l.Date.Format(dateLayout),
		Completed: l.Completed,
	}
}

func toHabitLogResponses(logs []domain.HabitLog) []habitLogResponse {
	out := make([]habitLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toHabitLogResponse(&logs[i]))
	}
	return out
}

type userResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithDomainError переводит доменные ошибки в HTTP-статусы.
// Текст ошибок хранилища наружу не выходит
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Error(), logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Resource not found", logger)
	case errors.Is(err, domain.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "Email already registered", logger)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", logger)
	default:
		logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}
