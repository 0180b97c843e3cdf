package handlers

import (
	"net/http"

	"candle-backend/internal/services"
)

// FantasyHandler handles the fantasy profile
type FantasyHandler struct {
	fantasy *services.FantasyService
}

// NewFantasyHandler creates a new fantasy handler
func NewFantasyHandler(fantasy *services.FantasyService) *FantasyHandler {
	return &FantasyHandler{fantasy: fantasy}
}

// Catalog handles GET /api/fantasy/catalog
func (h *FantasyHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.fantasy.Catalog())
}

// Profile handles GET /api/fantasy/profile
func (h *FantasyHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.fantasy.Get(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get fantasy profile")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /api/fantasy/profile
func (h *FantasyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.FantasyProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.fantasy.Update(r.Context(), currentUser(r), req.Answers)
	if err != nil {
		handleError(w, r, err, "Failed to update fantasy profile")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Matches handles GET /api/fantasy/matches
func (h *FantasyHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.fantasy.Matches(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get fantasy matches")
		return
	}
	respondJSON(w, http.StatusOK, matches)
}
