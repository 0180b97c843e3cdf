package handlers

import (
	"net/http"
	"strconv"

	"candle-backend/internal/services"
)

// MoodHandler handles daily mood check-ins
type MoodHandler struct {
	moods *services.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moods *services.MoodService) *MoodHandler {
	return &MoodHandler{moods: moods}
}

// CheckIn handles POST /api/mood
func (h *MoodHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req services.MoodRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.moods.CheckIn(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to check in mood")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Today handles GET /api/mood/today
func (h *MoodHandler) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.moods.Today(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get today's moods")
		return
	}
	respondJSON(w, http.StatusOK, today)
}

// History handles GET /api/mood/history?days=30
func (h *MoodHandler) History(w http.ResponseWriter, r *http.Request) {
	days := services.DefaultMoodDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, services.ErrInvalidDays, "Invalid days")
			return
		}
		days = n
	}

	history, err := h.moods.History(r.Context(), currentUser(r), days)
	if err != nil {
		handleError(w, r, err, "Failed to get mood history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}
