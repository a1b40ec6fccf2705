package storage

// Config holds storage configuration
type Config struct {
	Type                string // "local" or "s3"
	UploadsDir          string // Directory for local storage
	BaseURL             string // Server base URL for generating local URLs
	PresignedExpiration string // e.g., "15m"
}
