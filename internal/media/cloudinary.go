package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores images on Cloudinary
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary creates a Cloudinary store from a cloudinary:// URL
func NewCloudinary(cloudinaryURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Upload sends the image and returns its secure URL
func (c *Cloudinary) Upload(ctx context.Context, key, _ string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	dir, name := path.Split(key)
	params := uploader.UploadParams{
		Folder:         path.Join(c.folder, strings.TrimSuffix(dir, "/")),
		PublicID:       strings.TrimSuffix(name, path.Ext(name)),
		Transformation: "c_limit,w_1600,h_1600,q_auto",
	}
	result, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// PresignUpload is not offered for Cloudinary
func (c *Cloudinary) PresignUpload(context.Context, string, string) (*PresignedUpload, error) {
	return nil, ErrPresignUnsupported
}
