package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure UploadStore implements the interface.
var _ driven.UploadStore = (*UploadStore)(nil)

// UploadStore is an in-memory implementation of driven.UploadStore.
type UploadStore struct {
	mu      sync.RWMutex
	records map[string]domain.UploadRecord
}

// NewUploadStore creates a new in-memory upload store.
func NewUploadStore() *UploadStore {
	return &UploadStore{
		records: make(map[string]domain.UploadRecord),
	}
}

// Save stores or replaces a record.
func (s *UploadStore) Save(_ context.Context, record domain.UploadRecord) error {
	if record.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

// Get retrieves a record by ID.
func (s *UploadStore) Get(_ context.Context, id string) (*domain.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns up to limit records, most recent first.
// A non-positive limit returns every record.
func (s *UploadStore) List(_ context.Context, limit int) ([]domain.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.sorted()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Prune keeps only the most recent keep records.
func (s *UploadStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.sorted()
	if keep < 0 || len(records) <= keep {
		return nil
	}
	for _, r := range records[keep:] {
		delete(s.records, r.ID)
	}
	return nil
}

// sorted returns the records newest first. Caller holds the lock.
func (s *UploadStore) sorted() []domain.UploadRecord {
	records := make([]domain.UploadRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records
}
