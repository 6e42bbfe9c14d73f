package gcs

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/googleapi"
	storage "google.golang.org/api/storage/v1"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// Store uploads objects into one bucket.
type Store struct {
	service *storage.Service
	bucket  string
	limiter *RateLimiter
}

// NewStore wraps an existing storage service.
func NewStore(service *storage.Service, bucket string, limiter *RateLimiter) *Store {
	if limiter == nil {
		limiter = NewRateLimiter(DefaultRateLimit)
	}
	return &Store{
		service: service,
		bucket:  bucket,
		limiter: limiter,
	}
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Put uploads r as object name in a single request.
func (s *Store) Put(ctx context.Context, name string, r io.Reader, contentType string) (*domain.StoredObject, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: object name is required", domain.ErrInvalidInput)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, mapError(ctx, err)
	}

	object := &storage.Object{
		Name:        name,
		ContentType: contentType,
	}

	logger.Debug("POST gs://%s/%s (%s)", s.bucket, name, contentType)

	created, err := s.service.Objects.Insert(s.bucket, object).
		Media(r, googleapi.ContentType(contentType), googleapi.ChunkSize(0)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return &domain.StoredObject{
		Bucket:      created.Bucket,
		Name:        created.Name,
		Size:        int64(created.Size), //nolint:gosec // G115: object sizes fit in int64
		ContentType: created.ContentType,
		MediaLink:   created.MediaLink,
	}, nil
}
