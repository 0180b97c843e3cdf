package handlers

import (
	"net/http"

	"candle-backend/internal/services"
)

// QuestionHandler handles the daily question and streaks
type QuestionHandler struct {
	questions *services.QuestionService
	streaks   *services.StreakService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions *services.QuestionService, streaks *services.StreakService) *QuestionHandler {
	return &QuestionHandler{questions: questions, streaks: streaks}
}

// Today handles GET /api/questions/today
func (h *QuestionHandler) Today(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.Today(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get today's question")
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// Answer handles POST /api/questions/answer
func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req services.AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.questions.Answer(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to answer question")
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// React handles POST /api/questions/react
func (h *QuestionHandler) React(w http.ResponseWriter, r *http.Request) {
	var req services.ReactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.questions.React(r.Context(), currentUser(r), req); err != nil {
		handleError(w, r, err, "Failed to react to question")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

// History handles GET /api/questions/history
func (h *QuestionHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.questions.History(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to get question history")
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Streak handles GET /api/streaks
func (h *QuestionHandler) Streak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.streaks.Get(r.Context(), currentUser(r).ID)
	if err != nil {
		handleError(w, r, err, "Failed to get streak")
		return
	}
	respondJSON(w, http.StatusOK, streak)
}
