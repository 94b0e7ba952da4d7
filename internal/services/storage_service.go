// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/stylelens/catalogue-backend/internal/config"
)

// StorageService writes uploaded images to Supabase Storage. Without
// Supabase credentials it degrades to deterministic local URLs so the rest
// of the pipeline keeps working in development.
type StorageService struct {
	client *storage_go.Client
	bucket string
	local  string
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg *config.Config) *StorageService {
	service := &StorageService{
		bucket: cfg.Supabase.StorageBucket,
		local:  fmt.Sprintf("http://%s:%s/uploads", cfg.Server.Host, cfg.Server.Port),
	}

	if cfg.Supabase.URL == "" {
		return service
	}

	key := cfg.Supabase.ServiceKey
	if key == "" {
		key = cfg.Supabase.AnonKey
	}

	service.client = storage_go.NewClient(strings.TrimRight(cfg.Supabase.URL, "/")+"/storage/v1", key, nil)
	return service
}

// UploadProductImage stores the image under a key derived from the owning
// user and the upload time, keeping the original extension, and returns the
// public URL.
func (s *StorageService) UploadProductImage(userID, originalName string, data []byte, contentType string) (*UploadResult, error) {
	key := s.objectKey(userID, originalName)

	result := &UploadResult{
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}

	if s.client == nil {
		// Local development: no object store configured.
		result.URL = fmt.Sprintf("%s/%s", s.local, key)
		return result, nil
	}

	if _, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	result.URL = s.client.GetPublicUrl(s.bucket, key).SignedURL
	return result, nil
}

func (s *StorageService) objectKey(userID, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%d%s", userID, time.Now().UnixMilli(), ext)
}

// ValidateImage checks common image signatures before anything is sent to
// the model or the store.
func (s *StorageService) ValidateImage(data []byte) error {
	if !isValidImageType(data) {
		return fmt.Errorf("invalid image file")
	}
	return nil
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	// WebP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}
