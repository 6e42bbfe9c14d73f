package domain

import (
	"errors"
	"fmt"
	"strings"
)

// StorageSettings configures the bucket and how to authenticate against it.
type StorageSettings struct {
	// Bucket is the target bucket name. Required for uploads.
	Bucket string

	// CredentialsFile is a service-account JSON key. Optional.
	CredentialsFile string

	// AccessToken is a static OAuth2 bearer token. Optional.
	AccessToken string

	// Endpoint overrides the storage API base URL, e.g. for an emulator.
	// Requests to a custom endpoint are sent unauthenticated.
	Endpoint string

	// RequestsPerSecond paces API calls. Zero uses the adapter default.
	RequestsPerSecond float64
}

// IsConfigured returns true if a bucket is set.
func (s StorageSettings) IsConfigured() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

// CompressionSettings are the persisted image compression defaults.
type CompressionSettings struct {
	MaxWidth  float64
	MaxHeight float64
	Quality   int
	Format    CompressFormat
}

// Options builds compression options writing to dst.
func (c CompressionSettings) Options(dst string) CompressionOptions {
	return CompressionOptions{
		MaxWidth:        c.MaxWidth,
		MaxHeight:       c.MaxHeight,
		Quality:         c.Quality,
		Format:          c.Format,
		DestinationPath: dst,
	}
}

// StagingSettings configures the local staging area.
type StagingSettings struct {
	// Dir holds Images/ and Documents/. Empty means ~/.bucketdrop/staging.
	Dir string
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Storage     StorageSettings
	Compression CompressionSettings
	Staging     StagingSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Compression: CompressionSettings{
			MaxWidth:  DefaultMaxWidth,
			MaxHeight: DefaultMaxHeight,
			Quality:   DefaultQuality,
			Format:    CompressFormatJPEG,
		},
	}
}

// Validate reports every problem with the settings, joined.
func (s AppSettings) Validate() error {
	var errs []error
	if !s.Storage.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: bucket not configured", ErrStorageUnavailable))
	}
	if s.Storage.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%w: requests per second cannot be negative", ErrInvalidInput))
	}
	if s.Compression.MaxWidth <= 0 || s.Compression.MaxHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: max dimensions must be positive", ErrInvalidInput))
	}
	if s.Compression.Quality < 1 || s.Compression.Quality > 100 {
		errs = append(errs, fmt.Errorf("%w: quality must be between 1 and 100", ErrInvalidInput))
	}
	if !s.Compression.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown compress format %q", ErrInvalidInput, s.Compression.Format))
	}
	return errors.Join(errs...)
}
