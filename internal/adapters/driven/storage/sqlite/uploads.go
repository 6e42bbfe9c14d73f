package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// uploadStore implements driven.UploadStore.
type uploadStore struct {
	store *Store
}

var _ driven.UploadStore = (*uploadStore)(nil)

const uploadColumns = `id, file_name, object_name, bucket, kind, bytes, status, error, started_at, finished_at`

// Save stores or replaces a record by ID.
func (s *uploadStore) Save(ctx context.Context, record domain.UploadRecord) error {
	if record.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			object_name = excluded.object_name,
			bucket = excluded.bucket,
			kind = excluded.kind,
			bytes = excluded.bytes,
			status = excluded.status,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, record.ID, record.FileName, record.ObjectName, record.Bucket, string(record.Kind),
		record.Bytes, string(record.Status), nullString(record.Error),
		record.StartedAt.UnixNano(), record.FinishedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *uploadStore) Get(ctx context.Context, id string) (*domain.UploadRecord, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+uploadColumns+` FROM uploads WHERE id = ?`, id)

	record, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting upload: %w", err)
	}
	return record, nil
}

// List returns up to limit records, most recent first.
// A non-positive limit returns every record.
func (s *uploadStore) List(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+uploadColumns+` FROM uploads ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	records := []domain.UploadRecord{}
	for rows.Next() {
		record, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return records, nil
}

// Prune keeps only the most recent keep records.
func (s *uploadStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		return nil
	}
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM uploads WHERE id NOT IN (
			SELECT id FROM uploads ORDER BY started_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning uploads: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(row scanner) (*domain.UploadRecord, error) {
	var (
		record             domain.UploadRecord
		kind, status       string
		errText            sql.NullString
		startedAt, endedAt int64
	)

	err := row.Scan(&record.ID, &record.FileName, &record.ObjectName, &record.Bucket, &kind,
		&record.Bytes, &status, &errText, &startedAt, &endedAt)
	if err != nil {
		return nil, err
	}

	record.Kind = domain.FileKind(kind)
	record.Status = domain.UploadStatus(status)
	record.Error = errText.String
	record.StartedAt = time.Unix(0, startedAt).UTC()
	record.FinishedAt = time.Unix(0, endedAt).UTC()
	return &record, nil
}
