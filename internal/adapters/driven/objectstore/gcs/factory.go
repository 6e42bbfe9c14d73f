package gcs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ObjectStoreFactory = (*Factory)(nil)

// Factory opens a Store per upload from the current storage settings.
// Every store it opens shares one limiter, so pacing holds across uploads.
type Factory struct {
	// extra options are appended after the ones derived from settings.
	extra []option.ClientOption

	mu      sync.Mutex
	limiter *RateLimiter
	rps     float64
}

// NewFactory creates a factory. Extra client options apply to every store.
func NewFactory(extra ...option.ClientOption) *Factory {
	return &Factory{extra: extra}
}

// Open builds a storage client for settings.
//
// Authentication, first match wins:
//   - Endpoint set: unauthenticated requests to that endpoint (emulators)
//   - AccessToken set: static OAuth2 bearer token
//   - CredentialsFile set: service-account key file
//   - otherwise Application Default Credentials
func (f *Factory) Open(ctx context.Context, settings domain.StorageSettings) (driven.ObjectStore, error) {
	bucket := strings.TrimSpace(settings.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket not configured", domain.ErrStorageUnavailable)
	}

	opts := append(clientOptions(settings), f.extra...)

	service, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create storage client: %w", domain.ErrStorageUnavailable, err)
	}

	return NewStore(service, bucket, f.rateLimiter(settings.RequestsPerSecond)), nil
}

// rateLimiter returns the shared limiter, rebuilding it when the rate changes.
func (f *Factory) rateLimiter(rps float64) *RateLimiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.limiter == nil || f.rps != rps {
		f.limiter = NewRateLimiter(RateLimitConfig{RequestsPerSecond: rps})
		f.rps = rps
	}
	return f.limiter
}

func clientOptions(settings domain.StorageSettings) []option.ClientOption {
	switch {
	case settings.Endpoint != "":
		return []option.ClientOption{
			option.WithEndpoint(endpointURL(settings.Endpoint)),
			option.WithoutAuthentication(),
		}
	case settings.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: settings.AccessToken,
			TokenType:   "Bearer",
		})
		return []option.ClientOption{option.WithTokenSource(ts)}
	case settings.CredentialsFile != "":
		return []option.ClientOption{
			option.WithCredentialsFile(settings.CredentialsFile),
			option.WithScopes(storage.DevstorageReadWriteScope),
		}
	default:
		return []option.ClientOption{option.WithScopes(storage.DevstorageReadWriteScope)}
	}
}

// endpointURL turns "http://localhost:4443" into the JSON API base path.
func endpointURL(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if strings.HasSuffix(endpoint, "/storage/v1") {
		return endpoint + "/"
	}
	return endpoint + "/storage/v1/"
}
