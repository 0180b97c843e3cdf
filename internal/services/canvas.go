package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	// MaxDrawingSize bounds a decoded canvas image
	MaxDrawingSize = 5 << 20
	drawingLimit   = 50
)

// CanvasService stores drawings the partners sketch for each other
type CanvasService struct {
	drawings repository.DrawingStore
	media    *MediaService
	hub      *WSHub
	now      func() time.Time
}

// NewCanvasService creates a new canvas service
func NewCanvasService(drawings repository.DrawingStore, media *MediaService, hub *WSHub) *CanvasService {
	return &CanvasService{drawings: drawings, media: media, hub: hub, now: time.Now}
}

// DrawingRequest is the payload of POST /canvas
type DrawingRequest struct {
	ImageData string  `json:"image_data" validate:"required"`
	Caption   *string `json:"caption" validate:"omitempty,max=200"`
}

// decodeDataURL extracts the bytes of a data:image/...;base64, URL
func decodeDataURL(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImageData
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxDrawingSize+3 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImageData
	}
	if len(data) > MaxDrawingSize {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

// Create uploads a drawing and shares it with the partner
func (s *CanvasService) Create(ctx context.Context, user *models.User, req DrawingRequest) (*models.Drawing, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if !s.media.Enabled() {
		return nil, ErrMediaDisabled
	}
	data, err := decodeDataURL(req.ImageData)
	if err != nil {
		return nil, err
	}
	url, err := s.media.putImage(ctx, pairKey+"/canvas", data)
	if err != nil {
		return nil, err
	}

	d := &models.Drawing{
		ID:            uuid.New().String(),
		PairKey:       pairKey,
		CreatedBy:     user.ID,
		CreatedByName: user.Name,
		ImageURL:      url,
		Caption:       req.Caption,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.drawings.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save drawing: %w", err)
	}
	s.hub.Notify(partnerID, EventCanvasDrawing, d)
	return d, nil
}

// List returns the couple's drawings, newest first
func (s *CanvasService) List(ctx context.Context, user *models.User) ([]*models.Drawing, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	drawings, err := s.drawings.ListByPair(ctx, pairKey, drawingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}
	return drawings, nil
}

// Delete removes a drawing created by the user
func (s *CanvasService) Delete(ctx context.Context, user *models.User, id string) error {
	if err := s.drawings.Delete(ctx, id, user.ID); err != nil {
		if isNotFound(err) {
			return ErrDrawingNotFound
		}
		return fmt.Errorf("failed to delete drawing: %w", err)
	}
	return nil
}
