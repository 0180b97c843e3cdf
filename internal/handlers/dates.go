package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// DateHandler handles date ideas
type DateHandler struct {
	dates *services.DateService
}

// NewDateHandler creates a new date handler
func NewDateHandler(dates *services.DateService) *DateHandler {
	return &DateHandler{dates: dates}
}

// Generate handles POST /api/dates/generate
func (h *DateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req services.DateIdeaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	idea, err := h.dates.Generate(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to generate date idea")
		return
	}
	respondJSON(w, http.StatusOK, idea)
}

// List handles GET /api/dates
func (h *DateHandler) List(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.dates.List(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list date ideas")
		return
	}
	respondJSON(w, http.StatusOK, ideas)
}

// ToggleFavorite handles POST /api/dates/{id}/favorite
func (h *DateHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	fav, err := h.dates.ToggleFavorite(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "Failed to toggle favorite")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_favorite": fav})
}

// ToggleCompleted handles POST /api/dates/{id}/complete
func (h *DateHandler) ToggleCompleted(w http.ResponseWriter, r *http.Request) {
	done, err := h.dates.ToggleCompleted(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "Failed to toggle completed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_completed": done})
}
