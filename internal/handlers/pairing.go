package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/rs/zerolog/hlog"
)

// PairingHandler handles pairing-related HTTP requests
type PairingHandler struct {
	pairs *services.PairService
}

// NewPairingHandler creates a new pairing handler
func NewPairingHandler(pairs *services.PairService) *PairingHandler {
	return &PairingHandler{pairs: pairs}
}

// Generate handles POST /api/pairing/generate
func (h *PairingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	code, err := h.pairs.GenerateCode(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to generate pairing code")
		return
	}
	respondJSON(w, http.StatusOK, code)
}

// Connect handles POST /api/pairing/connect
func (h *PairingHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req services.ConnectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := currentUser(r)
	updated, err := h.pairs.Connect(r.Context(), user, req.Code)
	if err != nil {
		handleError(w, r, err, "Failed to connect partner")
		return
	}

	hlog.FromRequest(r).Info().
		Str("user_id", user.ID).
		Str("partner_id", updated.PartnerIDValue()).
		Msg("Partners connected")
	respondJSON(w, http.StatusOK, updated)
}

// Disconnect handles POST /api/pairing/disconnect
func (h *PairingHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	updated, err := h.pairs.Disconnect(r.Context(), user)
	if err != nil {
		handleError(w, r, err, "Failed to disconnect partner")
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", user.ID).Msg("Partners disconnected")
	respondJSON(w, http.StatusOK, updated)
}
