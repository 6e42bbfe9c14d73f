package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return hasCode(err, http.StatusForbidden)
}

// IsNotFound returns true if the bucket does not exist.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return hasCode(err, http.StatusTooManyRequests)
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}

// mapError translates a storage API error into a domain error.
// The original error stays in the chain.
func mapError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return fmt.Errorf("%w: %w", domain.ErrUploadCancelled, err)
	case IsUnauthorized(err), IsForbidden(err), IsNotFound(err):
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
}
