package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface abstracts the photo blob store. Photo uploads complete
// against this interface before the submission referencing them is
// validated; the database only ever holds keys and URLs.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client PUTs the photo to.
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a time-limited read URL for a
	// stored photo.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a photo exists and returns its size.
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a photo from storage.
	DeleteFile(ctx context.Context, key string) error

	// SaveFile and ReadFile back the local HTTP upload/download handlers.
	// Cloud backends serve blobs directly and never need them.
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}
