package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFileSelected indicates an upload was requested with nothing staged,
	// or the staged file has disappeared from disk.
	ErrNoFileSelected = errors.New("Please select file first") //nolint:revive,stylecheck // user-facing text

	// Compression Errors.

	// ErrDestinationRequired indicates compression was asked to write nowhere.
	ErrDestinationRequired = errors.New("Destination File Path cannot be blank!") //nolint:revive,stylecheck // user-facing text

	// ErrUnsupportedImage indicates the source could not be decoded as an image.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// Storage Errors.

	// ErrStorageUnavailable indicates no bucket is configured or the
	// credentials were rejected.
	ErrStorageUnavailable = errors.New("object storage unavailable")

	// ErrUploadCancelled indicates the upload was cancelled before it completed.
	ErrUploadCancelled = errors.New("upload cancelled")

	// ErrUploadFailed indicates the storage SDK reported a failure.
	ErrUploadFailed = errors.New("upload failed")
)
