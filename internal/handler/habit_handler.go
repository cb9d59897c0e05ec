package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/OmPimpale/GrowMate/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HabitHandler — обработчик HTTP-запросов для работы с привычками.
type HabitHandler struct {
	habitUseCase usecase.HabitUseCase
	logger       *slog.Logger
}

// NewHabitHandler создаёт новый экземпляр HabitHandler.
func NewHabitHandler(uc usecase.HabitUseCase, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habitUseCase: uc, logger: logger}
}

type habitRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Color       string `json:"color"`
}

func (r habitRequest) toInput() usecase.HabitInput {
	return usecase.HabitInput{
		Title:       r.Title,
		Description: r.Description,
		Frequency:   r.Frequency,
		Color:       r.Color,
	}
}

// List — возвращает все привычки текущего пользователя.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	habits, err := h.habitUseCase.List(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toHabitResponses(habits), h.logger)
}

// Get — возвращает одну привычку пользователя.
func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	habitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Resource not found", h.logger)
		return
	}

	habit, err := h.habitUseCase.Get(r.Context(), habitID, userID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toHabitResponse(habit), h.logger)
}

// Create — создает новую привычку.
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	habit, err := h.habitUseCase.Create(r.Context(), userID, req.toInput())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("habit created", "habit_id", habit.ID, "user_id", userID)
	respondWithJSON(w, http.StatusOK, toHabitResponse(habit), h.logger)
}

// Update — изменяет привычку пользователя.
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	habitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Resource not found", h.logger)
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	habit, err := h.habitUseCase.Update(r.Context(), habitID, userID, req.toInput())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toHabitResponse(habit), h.logger)
}

// Delete — удаляет привычку вместе с ее отметками.
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	habitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Resource not found", h.logger)
		return
	}

	if err := h.habitUseCase.Delete(r.Context(), habitID, userID); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("habit deleted", "habit_id", habitID, "user_id", userID)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted successfully"}, h.logger)
}
