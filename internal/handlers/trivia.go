package handlers

import (
	"net/http"

	"candle-backend/internal/services"
)

// TriviaHandler handles partner trivia
type TriviaHandler struct {
	trivia *services.TriviaService
}

// NewTriviaHandler creates a new trivia handler
func NewTriviaHandler(trivia *services.TriviaService) *TriviaHandler {
	return &TriviaHandler{trivia: trivia}
}

// Question handles GET /api/trivia/question
func (h *TriviaHandler) Question(w http.ResponseWriter, r *http.Request) {
	q, err := h.trivia.NewQuestion(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to create trivia question")
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// SetAnswer handles POST /api/trivia/set-answer. Older clients send the
// fields as query parameters instead of a JSON body.
func (h *TriviaHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	var req services.SetAnswerRequest
	if q := r.URL.Query(); q.Has("trivia_id") {
		req.TriviaID, req.Answer = q.Get("trivia_id"), q.Get("answer")
		if err := validate.Struct(&req); err != nil {
			respondError(w, validationMessage(err), http.StatusBadRequest)
			return
		}
	} else if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.trivia.SetAnswer(r.Context(), currentUser(r), req); err != nil {
		handleError(w, r, err, "Failed to set trivia answer")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

// Guess handles POST /api/trivia/guess
func (h *TriviaHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req services.GuessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.trivia.Guess(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to guess trivia")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Pending handles GET /api/trivia/pending
func (h *TriviaHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.trivia.Pending(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list pending trivia")
		return
	}
	respondJSON(w, http.StatusOK, pending)
}

// Scores handles GET /api/trivia/scores
func (h *TriviaHandler) Scores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.trivia.Scores(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get trivia scores")
		return
	}
	respondJSON(w, http.StatusOK, scores)
}
