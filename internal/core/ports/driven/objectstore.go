package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// ObjectStore writes objects into a single cloud bucket.
type ObjectStore interface {
	// Put uploads r as object name. Cancelling ctx aborts the upload
	// and returns domain.ErrUploadCancelled.
	Put(ctx context.Context, name string, r io.Reader, contentType string) (*domain.StoredObject, error)

	// Bucket returns the bucket objects are written to.
	Bucket() string
}

// ObjectStoreFactory builds an ObjectStore from storage settings.
// Settings can change between uploads, so stores are opened per upload.
type ObjectStoreFactory interface {
	// Open returns a store for the configured bucket.
	// Returns domain.ErrStorageUnavailable if no bucket is configured.
	Open(ctx context.Context, settings domain.StorageSettings) (ObjectStore, error)
}
