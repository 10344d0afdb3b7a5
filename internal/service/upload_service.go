package service

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultUploadDir   = "public/uploads"
	DefaultMaxUploadMB = 5
)

// UploadService stores uploaded images on disk and hands back the public URL
// under which they are served. It does no image processing.
type UploadService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

func NewUploadService(cfg *config.Config) *UploadService {
	uploadDir := DefaultUploadDir
	maxUploadMB := DefaultMaxUploadMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadMB > 0 {
			maxUploadMB = cfg.MaxUploadMB
		}
	}

	return &UploadService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Upload validates size, extension and detected content type, writes the file
// under a generated name, and returns its public URL.
func (s *UploadService) Upload(in UploadInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewUploadRejectedError("No image file provided")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewUploadRejectedError(fmt.Sprintf("File too large. Maximum size is %dMB", s.maxUploadSizeBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !isAllowedImageExt(ext) || !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return "", models.NewUploadRejectedError("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}

	name := "image-" + uuid.NewString() + ext
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), in.Content); err != nil {
		return "", models.NewStorageError(err)
	}
	return "/uploads/" + name, nil
}

func isAllowedImageExt(ext string) bool {
	switch ext {
	case ".jpeg", ".jpg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
