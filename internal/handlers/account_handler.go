package handlers

import (
	"errors"
	"net/http"

	"authapi/internal/middleware"
	"authapi/internal/services"
)

// @Tags Account
// @Summary Current account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.DetailResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/me/ [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	u, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}
