package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/OmPimpale/GrowMate/internal/usecase"
)

// maxAvatarSize ограничивает размер загружаемого аватара
const maxAvatarSize = 5 << 20 // 5 MiB

// UserHandler — обработчик HTTP-запросов для регистрации, входа и профиля.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: uc, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type updateUserRequest struct {
	Name string `json:"name"`
}

// Register — регистрирует пользователя и сразу выдает токен доступа.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	user, token, err := h.userUseCase.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)}, h.logger)
}

// Login — проверяет учетные данные и выдает токен доступа.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	user, token, err := h.userUseCase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)}, h.logger)
}

// Me — возвращает профиль текущего пользователя.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	user, err := h.userUseCase.Me(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(user), h.logger)
}

// UpdateMe — меняет имя текущего пользователя.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	user, err := h.userUseCase.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(user), h.logger)
}

// UploadImage — принимает аватар, загружает оригинал в хранилище
// и ставит задачу на обработку. Отвечает 202: профиль обновится асинхронно.
func (h *UserHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Image file is required", h.logger)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.userUseCase.UploadAvatar(r.Context(), userID, file, contentType); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("avatar upload accepted", "user_id", userID, "size", header.Size)
	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Image accepted for processing"}, h.logger)
}
