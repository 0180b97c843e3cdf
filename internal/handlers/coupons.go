package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// CouponHandler handles love coupons
type CouponHandler struct {
	coupons *services.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *services.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Create handles POST /api/coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CouponRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.coupons.Create(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to create coupon")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// List handles GET /api/coupons
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list coupons")
		return
	}
	respondJSON(w, http.StatusOK, coupons)
}

// Redeem handles POST /api/coupons/{id}/redeem
func (h *CouponHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	c, err := h.coupons.Redeem(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "Failed to redeem coupon")
		return
	}

	hlog.FromRequest(r).Info().
		Str("user_id", user.ID).
		Str("coupon_id", c.ID).
		Msg("Coupon redeemed")
	respondJSON(w, http.StatusOK, c)
}
