package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/rs/zerolog/hlog"
)

// AuthHandler handles registration, login and the current user's profile
type AuthHandler struct {
	users *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.users.Register(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "Failed to register user")
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", resp.User.ID).Msg("User registered")
	respondJSON(w, http.StatusOK, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.users.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "Failed to log in")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currentUser(r))
}

// UpdatePushToken handles PUT /api/users/me/push-token
func (h *AuthHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	var req services.PushTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdatePushToken(r.Context(), currentUser(r), req.PushToken)
	if err != nil {
		handleError(w, r, err, "Failed to update push token")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateWebPush handles PUT /api/users/me/web-push
func (h *AuthHandler) UpdateWebPush(w http.ResponseWriter, r *http.Request) {
	var req services.WebPushRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.UpdateWebPush(r.Context(), currentUser(r), req); err != nil {
		handleError(w, r, err, "Failed to update web push subscription")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}
