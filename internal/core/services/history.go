package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit is used when callers pass a non-positive limit.
const defaultHistoryLimit = 20

// HistoryService reads past upload attempts.
type HistoryService struct {
	store driven.UploadStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.UploadStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns up to limit records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return records, nil
}

// Get returns one record by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.UploadRecord, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}
