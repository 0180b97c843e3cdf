package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// PlayHandler handles the thumb kiss, spicy dice and canvas features
type PlayHandler struct {
	thumbKiss *services.ThumbKissService
	dice      *services.DiceService
	canvas    *services.CanvasService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(thumbKiss *services.ThumbKissService, dice *services.DiceService, canvas *services.CanvasService) *PlayHandler {
	return &PlayHandler{thumbKiss: thumbKiss, dice: dice, canvas: canvas}
}

// Touch handles POST /api/thumb-kiss
func (h *PlayHandler) Touch(w http.ResponseWriter, r *http.Request) {
	var req services.TouchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	st, err := h.thumbKiss.Touch(r.Context(), currentUser(r), *req.X, *req.Y)
	if err != nil {
		handleError(w, r, err, "Failed to record touch")
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// TouchStatus handles GET /api/thumb-kiss
func (h *PlayHandler) TouchStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.thumbKiss.Status(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get touch status")
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// Roll handles POST /api/spicy-dice/roll
func (h *PlayHandler) Roll(w http.ResponseWriter, r *http.Request) {
	var req services.RollRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	roll, err := h.dice.Roll(r.Context(), currentUser(r), req.Intensity)
	if err != nil {
		handleError(w, r, err, "Failed to roll dice")
		return
	}
	respondJSON(w, http.StatusOK, roll)
}

// RollHistory handles GET /api/spicy-dice/history
func (h *PlayHandler) RollHistory(w http.ResponseWriter, r *http.Request) {
	rolls, err := h.dice.History(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list rolls")
		return
	}
	respondJSON(w, http.StatusOK, rolls)
}

// CreateDrawing handles POST /api/canvas
func (h *PlayHandler) CreateDrawing(w http.ResponseWriter, r *http.Request) {
	var req services.DrawingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	d, err := h.canvas.Create(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to save drawing")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// ListDrawings handles GET /api/canvas
func (h *PlayHandler) ListDrawings(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.canvas.List(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list drawings")
		return
	}
	respondJSON(w, http.StatusOK, drawings)
}

// DeleteDrawing handles DELETE /api/canvas/{id}
func (h *PlayHandler) DeleteDrawing(w http.ResponseWriter, r *http.Request) {
	if err := h.canvas.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "Failed to delete drawing")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}
