package driving

import (
	"context"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// HistoryService reads past upload attempts.
type HistoryService interface {
	// Recent returns up to limit records, newest first.
	// A non-positive limit uses the default of 20.
	Recent(ctx context.Context, limit int) ([]domain.UploadRecord, error)

	// Get returns one record by ID.
	Get(ctx context.Context, id string) (*domain.UploadRecord, error)
}
