package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Authenticate a user
// @Description Verifies email and password and returns a signed bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError "Validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Account deactivated"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrUserInactive):
			respondWithError(w, http.StatusForbidden, "Account is deactivated")
		default:
			h.logger.Error("login failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the profile of the user identified by the bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	dto, err := h.authService.Me(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("failed to get current user", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to get user")
		}
		return
	}

	respondJSON(w, http.StatusOK, dto)
}
