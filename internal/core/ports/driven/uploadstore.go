package driven

import (
	"context"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// UploadStore persists upload history.
type UploadStore interface {
	// Save stores or replaces a record by ID.
	Save(ctx context.Context, record domain.UploadRecord) error

	// Get retrieves a record by ID.
	// Returns domain.ErrNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*domain.UploadRecord, error)

	// List returns up to limit records, most recent first.
	List(ctx context.Context, limit int) ([]domain.UploadRecord, error)

	// Prune keeps only the most recent keep records.
	Prune(ctx context.Context, keep int) error
}
