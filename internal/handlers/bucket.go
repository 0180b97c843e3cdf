package handlers

import (
	"net/http"

	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// BucketHandler handles the shared bucket list
type BucketHandler struct {
	bucket *services.BucketService
}

// NewBucketHandler creates a new bucket list handler
func NewBucketHandler(bucket *services.BucketService) *BucketHandler {
	return &BucketHandler{bucket: bucket}
}

// Create handles POST /api/bucket-list
func (h *BucketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.BucketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.bucket.Create(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to create bucket list item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// List handles GET /api/bucket-list
func (h *BucketHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.bucket.List(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list bucket list")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Toggle handles POST /api/bucket-list/{id}/toggle
func (h *BucketHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	item, err := h.bucket.Toggle(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "Failed to toggle bucket list item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/bucket-list/{id}
func (h *BucketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bucket.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "Failed to delete bucket list item")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}
