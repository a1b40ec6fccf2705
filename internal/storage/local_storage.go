package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStorageService stores inspection photos on the local filesystem and
// emulates presigned URLs by routing uploads and downloads through the API
// server. It stands in for S3 in development and tests.
type LocalStorageService struct {
	baseURL    string // Server URL (e.g., "http://localhost:8080")
	photosDir  string // Directory photo blobs land in
	uploadsDir string
}

func NewLocalStorageService(baseURL, uploadsDir string) (*LocalStorageService, error) {
	photosDir := filepath.Join(uploadsDir, "photos")
	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}
	return &LocalStorageService{
		baseURL:    baseURL,
		photosDir:  photosDir,
		uploadsDir: uploadsDir,
	}, nil
}

// GeneratePresignedUploadURL returns an upload URL pointing back at the
// server. The key rides in the query string so the upload handler knows
// where to save the blob.
func (s *LocalStorageService) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	uploadToken := uuid.New().String()
	return fmt.Sprintf("%s/api/v1/upload/%s?key=%s", s.baseURL, uploadToken, key), nil
}

func (s *LocalStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return fmt.Sprintf("%s/api/v1/download/%s?key=%s", s.baseURL, encodeKey(key), key), nil
}

func (s *LocalStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	info, err := os.Stat(filepath.Join(s.photosDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorageService) DeleteFile(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.photosDir, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorageService) SaveFile(key string, reader io.Reader) error {
	fullPath := filepath.Join(s.photosDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStorageService) ReadFile(key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.photosDir, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// encodeKey creates a URL-safe hash of the key
func encodeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16])
}
