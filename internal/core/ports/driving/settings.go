package driving

import "github.com/custodia-labs/bucketdrop/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetBucket updates the target bucket.
	SetBucket(bucket string) error

	// SetCredentials sets the credentials file and access token.
	// Empty values clear the stored entry.
	SetCredentials(credentialsFile, accessToken string) error

	// SetCompression updates the compression defaults.
	SetCompression(settings domain.CompressionSettings) error

	// SetStagingDir updates the staging directory.
	SetStagingDir(dir string) error

	// Validate checks if current settings allow an upload.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
