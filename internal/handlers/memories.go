package handlers

import (
	"errors"
	"io"
	"net/http"

	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// multipartOverhead leaves room for form boundaries around the file
const multipartOverhead = 1 << 20

// MemoryHandler handles the memory timeline and image uploads
type MemoryHandler struct {
	memories *services.MemoryService
	media    *services.MediaService
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(memories *services.MemoryService, media *services.MediaService) *MemoryHandler {
	return &MemoryHandler{memories: memories, media: media}
}

// Create handles POST /api/memories
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.MemoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.memories.Create(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to create memory")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// List handles GET /api/memories
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	memories, err := h.memories.List(r.Context(), currentUser(r))
	if err != nil {
		handleError(w, r, err, "Failed to list memories")
		return
	}
	respondJSON(w, http.StatusOK, memories)
}

// Delete handles DELETE /api/memories/{id}
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.memories.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "Failed to delete memory")
		return
	}
	respondJSON(w, http.StatusOK, statusOK)
}

// Upload handles POST /api/media/upload with a multipart "file" field
func (h *MemoryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.media.Enabled() {
		handleError(w, r, services.ErrMediaDisabled, "Media uploads disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+multipartOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(w, r, services.ErrFileTooLarge, "Upload too large")
			return
		}
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to read upload")
		respondError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	resp, err := h.media.Upload(r.Context(), currentUser(r), data)
	if err != nil {
		handleError(w, r, err, "Failed to upload image")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Presign handles POST /api/media/presign
func (h *MemoryHandler) Presign(w http.ResponseWriter, r *http.Request) {
	var req services.PresignRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	upload, err := h.media.Presign(r.Context(), currentUser(r), req)
	if err != nil {
		handleError(w, r, err, "Failed to presign upload")
		return
	}
	respondJSON(w, http.StatusOK, upload)
}
