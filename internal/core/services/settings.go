package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBucket          = "storage.bucket"
	keyCredentialsFile = "storage.credentials_file"
	keyAccessToken     = "storage.access_token"
	keyEndpoint        = "storage.endpoint"
	keyRequestsPerSec  = "storage.requests_per_second"
	keyMaxWidth        = "compression.max_width"
	keyMaxHeight       = "compression.max_height"
	keyQuality         = "compression.quality"
	keyFormat          = "compression.format"
	keyStagingDir      = "staging.dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Bucket:            normaliseBucket(s.configStore.GetString(keyBucket)),
			CredentialsFile:   s.configStore.GetString(keyCredentialsFile),
			AccessToken:       s.configStore.GetString(keyAccessToken),
			Endpoint:          s.configStore.GetString(keyEndpoint),
			RequestsPerSecond: s.configStore.GetFloat(keyRequestsPerSec),
		},
		Compression: domain.CompressionSettings{
			MaxWidth:  s.getFloat(keyMaxWidth, defaults.Compression.MaxWidth),
			MaxHeight: s.getFloat(keyMaxHeight, defaults.Compression.MaxHeight),
			Quality:   s.getInt(keyQuality, defaults.Compression.Quality),
			Format:    s.getFormat(defaults.Compression.Format),
		},
		Staging: domain.StagingSettings{
			Dir: s.configStore.GetString(keyStagingDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}

	// Save storage settings
	if err := s.configStore.Set(keyBucket, settings.Storage.Bucket); err != nil {
		return fmt.Errorf("save bucket: %w", err)
	}
	if err := s.setOrDelete(keyCredentialsFile, settings.Storage.CredentialsFile); err != nil {
		return fmt.Errorf("save credentials_file: %w", err)
	}
	if err := s.setOrDelete(keyAccessToken, settings.Storage.AccessToken); err != nil {
		return fmt.Errorf("save access_token: %w", err)
	}
	if err := s.setOrDelete(keyEndpoint, settings.Storage.Endpoint); err != nil {
		return fmt.Errorf("save endpoint: %w", err)
	}
	if settings.Storage.RequestsPerSecond > 0 {
		if err := s.configStore.Set(keyRequestsPerSec, settings.Storage.RequestsPerSecond); err != nil {
			return fmt.Errorf("save requests_per_second: %w", err)
		}
	}

	// Save compression settings
	if err := s.configStore.Set(keyMaxWidth, settings.Compression.MaxWidth); err != nil {
		return fmt.Errorf("save max_width: %w", err)
	}
	if err := s.configStore.Set(keyMaxHeight, settings.Compression.MaxHeight); err != nil {
		return fmt.Errorf("save max_height: %w", err)
	}
	if err := s.configStore.Set(keyQuality, settings.Compression.Quality); err != nil {
		return fmt.Errorf("save quality: %w", err)
	}
	if err := s.configStore.Set(keyFormat, settings.Compression.Format.String()); err != nil {
		return fmt.Errorf("save format: %w", err)
	}

	// Save staging settings
	if err := s.setOrDelete(keyStagingDir, settings.Staging.Dir); err != nil {
		return fmt.Errorf("save staging dir: %w", err)
	}

	return nil
}

// SetBucket updates the target bucket.
func (s *SettingsService) SetBucket(bucket string) error {
	bucket = normaliseBucket(bucket)
	if bucket == "" {
		return fmt.Errorf("%w: bucket name cannot be empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Bucket = bucket
	return s.Save(settings)
}

// SetCredentials sets the credentials file and access token.
func (s *SettingsService) SetCredentials(credentialsFile, accessToken string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.CredentialsFile = strings.TrimSpace(credentialsFile)
	settings.Storage.AccessToken = strings.TrimSpace(accessToken)
	return s.Save(settings)
}

// SetCompression updates the compression defaults.
func (s *SettingsService) SetCompression(c domain.CompressionSettings) error {
	// Validate against a throwaway destination; only bounds matter here
	if err := c.Options("validate").Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Compression = c
	return s.Save(settings)
}

// SetStagingDir updates the staging directory.
func (s *SettingsService) SetStagingDir(dir string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Staging.Dir = strings.TrimSpace(dir)
	return s.Save(settings)
}

// Validate checks if current settings allow an upload.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

// normaliseBucket accepts gs:// URLs as well as bare names, from any source.
func normaliseBucket(bucket string) string {
	bucket = strings.TrimSpace(bucket)
	return strings.TrimSuffix(strings.TrimPrefix(bucket, "gs://"), "/")
}

func (s *SettingsService) setOrDelete(key, value string) error {
	if value == "" {
		return s.configStore.Delete(key)
	}
	return s.configStore.Set(key, value)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFormat(defaultVal domain.CompressFormat) domain.CompressFormat {
	val := s.configStore.GetString(keyFormat)
	if val == "" {
		return defaultVal
	}
	format, err := domain.ParseCompressFormat(val)
	if err != nil {
		return defaultVal
	}
	return format
}
