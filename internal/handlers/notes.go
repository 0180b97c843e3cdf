package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// NoteHandler handles love notes
type NoteHandler struct {
	notes *services.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *services.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// Send handles POST /api/notes
func (h *NoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req services.NoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.notes.Send(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to send note")
		return
	}
	respondJSON(w, http.StatusOK, note)
}

// Received handles GET /api/notes
func (h *NoteHandler) Received(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.Received(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list notes")
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

// Sent handles GET /api/notes/sent
func (h *NoteHandler) Sent(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.Sent(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list sent notes")
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

// MarkRead handles POST /api/notes/{id}/read
func (h *NoteHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.MarkRead(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "Failed to mark note read")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

// UnreadCount handles GET /api/notes/unread-count
func (h *NoteHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notes.UnreadCount(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to count unread notes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
