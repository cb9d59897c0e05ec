package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/OmPimpale/GrowMate/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HabitLogHandler — обработчик HTTP-запросов для работы с отметками выполнения.
type HabitLogHandler struct {
	logUseCase usecase.HabitLogUseCase
	logger     *slog.Logger
}

// NewHabitLogHandler создаёт новый экземпляр HabitLogHandler.
func NewHabitLogHandler(uc usecase.HabitLogUseCase, logger *slog.Logger) *HabitLogHandler {
	return &HabitLogHandler{logUseCase: uc, logger: logger}
}

type toggleRequest struct {
	HabitID string `json:"habitId"`
	Date    string `json:"date"`
}

// parseDateParam разбирает необязательную дату формата YYYY-MM-DD;
// пустая строка дает нулевое время (usecase подставит "сегодня")
func parseDateParam(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// List — возвращает отметки по всем привычкам пользователя.
func (h *HabitLogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	logs, err := h.logUseCase.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toHabitLogResponses(logs), h.logger)
}

// ListForHabit — возвращает историю одной привычки.
// Параметры ?start=&end= задают окно; по умолчанию последние 365 дней.
func (h *HabitLogHandler) ListForHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	habitID, err := uuid.Parse(chi.URLParam(r, "habitID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Resource not found", h.logger)
		return
	}

	from, ok := parseDateParam(r.URL.Query().Get("start"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD", h.logger)
		return
	}
	to, ok := parseDateParam(r.URL.Query().Get("end"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD", h.logger)
		return
	}

	logs, err := h.logUseCase.ListForHabit(r.Context(), habitID, userID, from, to)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toHabitLogResponses(logs), h.logger)
}

// Toggle — переключает отметку выполнения за дату.
// Дата в теле необязательна: без нее берется текущая дата сервера.
func (h *HabitLogHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	habitID, err := uuid.Parse(req.HabitID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Resource not found", h.logger)
		return
	}

	date, ok := parseDateParam(req.Date)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", h.logger)
		return
	}

	log, err := h.logUseCase.Toggle(r.Context(), habitID, userID, date)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("habit log toggled",
		"habit_id", habitID,
		"user_id", userID,
		"completed", log.Completed,
	)
	respondWithJSON(w, http.StatusOK, toHabitLogResponse(log), h.logger)
}

// Check — сообщает, выполнена ли привычка за дату.
// Параметры: ?habitId=&date=; отсутствие отметки — это {"completed": false}.
func (h *HabitLogHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	habitID, err := uuid.Parse(r.URL.Query().Get("habitId"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Resource not found", h.logger)
		return
	}

	date, ok := parseDateParam(r.URL.Query().Get("date"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", h.logger)
		return
	}

	completed, err := h.logUseCase.CheckCompletion(r.Context(), habitID, userID, date)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"completed": completed}, h.logger)
}
