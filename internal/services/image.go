package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"eventflow/internal/models"
)

// maxImageSize caps uploads at 10MB
const maxImageSize = 10 * 1024 * 1024

// ImageService validates image uploads and hands them to the object store
// under stable, collision-free keys.
type ImageService struct {
	storage StorageService
}

// NewImageService creates a new image service
func NewImageService(storage StorageService) *ImageService {
	return &ImageService{storage: storage}
}

// UploadImage validates the upload and stores it under "<folder>/<uuid><ext>",
// returning the public URL. A storage failure aborts the caller's operation
// before any database write happens.
func (s *ImageService) UploadImage(ctx context.Context, folder string, upload *ImageUpload) (string, error) {
	if upload == nil || upload.Reader == nil {
		return "", models.NewValidationError("no image supplied")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", models.NewValidationError("uploaded file is not an image")
	}
	if upload.Size > maxImageSize {
		return "", models.NewValidationError("image size cannot exceed 10MB")
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", models.NewValidationError("unsupported image format")
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	url, err := s.storage.Upload(ctx, key, upload.Reader, upload.ContentType, upload.Size)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}

	return url, nil
}
