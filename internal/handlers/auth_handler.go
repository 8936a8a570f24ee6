package handlers

import (
	"context"
	"errors"
	"net/http"

	"authapi/internal/logging"
	"authapi/internal/models"
	"authapi/internal/services"
	"authapi/internal/validation"
)

// AuthService is the account flow surface the handlers depend on.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error)
	RefreshToken(ctx context.Context, req models.RefreshRequest) (string, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type AuthHandler struct {
	svc AuthService
	v   *validation.Validator
	log logging.Logger
}

func NewAuthHandler(svc AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		v:   validation.New(),
		log: log,
	}
}

// @Tags Auth
// @Summary Register an account
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} map[string][]string
// @Router /api/register/ [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.bind(w, r, &req) {
		return
	}

	if _, err := h.svc.Register(r.Context(), req); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.RegisterResponse{Message: "Signup successful"})
}

// @Tags Auth
// @Summary Obtain an access/refresh token pair
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} models.DetailResponse
// @Failure 429 {object} models.DetailResponse
// @Router /api/login/ [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.bind(w, r, &req) {
		return
	}

	pair, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAuthenticationFailed) {
			writeJSONDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// @Tags Auth
// @Summary Exchange a refresh token for a new access token
// @Accept json
// @Produce json
// @Param body body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.RefreshResponse
// @Failure 401 {object} models.DetailResponse
// @Router /api/token/refresh/ [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !h.bind(w, r, &req) {
		return
	}

	access, err := h.svc.RefreshToken(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			writeJSONDetail(w, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{Access: access})
}

// @Tags Auth
// @Summary Issue a password reset token
// @Accept json
// @Produce json
// @Param body body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} models.ForgotPasswordResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.DetailResponse
// @Router /api/forgot-password/ [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	token, err := h.svc.ForgotPassword(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ForgotPasswordResponse{Message: "Reset token generated", Token: token})
}

// @Tags Auth
// @Summary Reset a password with a reset token
// @Accept json
// @Produce json
// @Param body body models.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.DetailResponse
// @Router /api/reset-password/ [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			writeJSONError(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeJSONMessage(w, http.StatusOK, "Password reset successfully")
}

// bind decodes and validates the request body, writing a 400 response and
// returning false when either step fails.
func (h *AuthHandler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeRequest(w, r, dst); err != nil {
		writeJSONDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.v.Struct(dst); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}
	h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSONDetail(w, http.StatusInternalServerError, "Internal server error")
}
