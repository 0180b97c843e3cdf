// Package media uploads images to the configured image host
package media

import (
	"context"
	"errors"
	"time"
)

// ErrPresignUnsupported is returned by hosts without direct browser uploads
var ErrPresignUnsupported = errors.New("presigned uploads are not supported by this media provider")

// PresignedUpload lets a client PUT an object directly to the host
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// Store uploads objects and returns their public URL
type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}

const (
	uploadTimeout = 30 * time.Second
	presignExpiry = 5 * time.Minute
)
