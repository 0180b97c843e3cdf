package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"candle-backend/internal/media"
	"candle-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxUploadSize bounds uploaded images
const MaxUploadSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// MediaService uploads images for the couple. A nil store disables uploads.
type MediaService struct {
	store media.Store
}

// NewMediaService creates a new media service
func NewMediaService(store media.Store) *MediaService {
	return &MediaService{store: store}
}

// PresignRequest asks for a direct upload URL
type PresignRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

// UploadResponse is returned after a server-side upload
type UploadResponse struct {
	URL string `json:"url"`
}

// Enabled reports whether a media host is configured
func (s *MediaService) Enabled() bool {
	return s.store != nil
}

// Upload stores an image under the couple's prefix
func (s *MediaService) Upload(ctx context.Context, user *models.User, data []byte) (*UploadResponse, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	url, err := s.putImage(ctx, pairKey, data)
	if err != nil {
		return nil, err
	}
	return &UploadResponse{URL: url}, nil
}

// putImage sniffs the content type and uploads data as <pairKey>/<uuid><ext>
func (s *MediaService) putImage(ctx context.Context, pairKey string, data []byte) (string, error) {
	if s.store == nil {
		return "", ErrMediaDisabled
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrNotAnImage
	}

	key := pairKey + "/" + uuid.New().String() + ext
	url, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	log.Info().Str("pair_key", pairKey).Str("key", key).Int("bytes", len(data)).Msg("Image uploaded")
	return url, nil
}

// Presign returns a URL the client can PUT the image to directly
func (s *MediaService) Presign(ctx context.Context, user *models.User, req PresignRequest) (*media.PresignedUpload, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrMediaDisabled
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, ErrNotAnImage
	}

	key := pairKey + "/" + uuid.New().String() + strings.ToLower(path.Ext(req.Filename))
	upload, err := s.store.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		if errors.Is(err, media.ErrPresignUnsupported) {
			return nil, ErrPresignDisabled
		}
		return nil, err
	}
	return upload, nil
}
