package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OmPimpale/GrowMate/internal/domain"
	"github.com/OmPimpale/GrowMate/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHabitUseCase struct {
	listFn   func(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error)
	getFn    func(ctx context.Context, habitID, userID uuid.UUID) (*domain.Habit, error)
	createFn func(ctx context.Context, userID uuid.UUID, in usecase.HabitInput) (*domain.Habit, error)
	updateFn func(ctx context.Context, habitID, userID uuid.UUID, in usecase.HabitInput) (*domain.Habit, error)
	deleteFn func(ctx context.Context, habitID, userID uuid.UUID) error
}

func (m *mockHabitUseCase) List(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error) {
	return m.listFn(ctx, userID)
}

func (m *mockHabitUseCase) Get(ctx context.Context, habitID, userID uuid.UUID) (*domain.Habit, error) {
	return m.getFn(ctx, habitID, userID)
}

func (m *mockHabitUseCase) Create(ctx context.Context, userID uuid.UUID, in usecase.HabitInput) (*domain.Habit, error) {
	return m.createFn(ctx, userID, in)
}

func (m *mockHabitUseCase) Update(ctx context.Context, habitID, userID uuid.UUID, in usecase.HabitInput) (*domain.Habit, error) {
	return m.updateFn(ctx, habitID, userID, in)
}

func (m *mockHabitUseCase) Delete(ctx context.Context, habitID, userID uuid.UUID) error {
	return m.deleteFn(ctx, habitID, userID)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHabitCreateEndpoint_ReturnsCreatedHabit(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	createdAt := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	uc := &mockHabitUseCase{
		createFn: func(_ context.Context, gotUserID uuid.UUID, in usecase.HabitInput) (*domain.Habit, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, "Drink water", in.Title)
			return &domain.Habit{
				ID:        habitID,
				UserID:    userID,
				Title:     in.Title,
				Frequency: domain.FrequencyDaily,
				Color:     domain.DefaultColor,
				CreatedAt: createdAt,
			}, nil
		},
	}
	h := NewHabitHandler(uc, testLogger())

	req := authedRequest(http.MethodPost, "/api/habits", `{"title": "Drink water"}`, userID)
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Frequency string `json:"frequency"`
		Color     string `json:"color"`
		CreatedAt string `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, habitID.String(), resp.ID)
	assert.Equal(t, "DAILY", resp.Frequency)
	assert.Equal(t, domain.DefaultColor, resp.Color)
	assert.Equal(t, "2024-03-15T12:00:00Z", resp.CreatedAt)
}

func TestHabitCreateEndpoint_ValidationErrorIs400(t *testing.T) {
	uc := &mockHabitUseCase{
		createFn: func(_ context.Context, _ uuid.UUID, _ usecase.HabitInput) (*domain.Habit, error) {
			return nil, domain.NewValidationError("title", "title is required")
		},
	}
	h := NewHabitHandler(uc, testLogger())

	req := authedRequest(http.MethodPost, "/api/habits", `{"title": ""}`, uuid.New())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestHabitGetEndpoint_MalformedIDIs404(t *testing.T) {
	h := NewHabitHandler(&mockHabitUseCase{}, testLogger())

	req := authedRequest(http.MethodGet, "/api/habits/not-a-uuid", "", uuid.New())
	req = withURLParam(req, "id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHabitDeleteEndpoint_ReturnsMessage(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()

	uc := &mockHabitUseCase{
		deleteFn: func(_ context.Context, gotHabitID, gotUserID uuid.UUID) error {
			assert.Equal(t, habitID, gotHabitID)
			assert.Equal(t, userID, gotUserID)
			return nil
		},
	}
	h := NewHabitHandler(uc, testLogger())

	req := authedRequest(http.MethodDelete, "/api/habits/"+habitID.String(), "", userID)
	req = withURLParam(req, "id", habitID.String())
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Habit deleted successfully"}`, rec.Body.String())
}

func TestHabitDeleteEndpoint_ForeignHabitIs404(t *testing.T) {
	uc := &mockHabitUseCase{
		deleteFn: func(_ context.Context, _, _ uuid.UUID) error {
			return domain.ErrNotFound
		},
	}
	h := NewHabitHandler(uc, testLogger())

	habitID := uuid.NewString()
	req := authedRequest(http.MethodDelete, "/api/habits/"+habitID, "", uuid.New())
	req = withURLParam(req, "id", habitID)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
