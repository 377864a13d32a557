package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/models"
)

const recordColumns = `id, operation, repo_url, branch, local_path, status, from_version, to_version,
	error, total_objects, started_at, finished_at, duration_ms`

// SaveSyncRecord inserts a record or updates it when the id already exists
func (s *PostgresStore) SaveSyncRecord(ctx context.Context, record *models.SyncRecord) error {
	if record == nil {
		return errors.NewValidationError("sync record cannot be nil", nil)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			to_version = EXCLUDED.to_version,
			error = EXCLUDED.error,
			total_objects = EXCLUDED.total_objects,
			finished_at = EXCLUDED.finished_at,
			duration_ms = EXCLUDED.duration_ms,
			updated_at = NOW()
	`,
		record.ID,
		record.Operation,
		record.RepoURL,
		record.Branch,
		record.LocalPath,
		string(record.Status),
		record.FromVersion,
		record.ToVersion,
		record.Error,
		record.TotalObjects,
		record.StartedAt,
		record.FinishedAt,
		record.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save sync record: %w", err)
	}
	return nil
}

// GetSyncRecord retrieves a single record by id
func (s *PostgresStore) GetSyncRecord(ctx context.Context, id uuid.UUID) (*models.SyncRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM sync_records WHERE id = $1`, id)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("sync record not found: %s", id), err)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get sync record: %w", err)
	}
	return record, nil
}

// ListSyncRecords returns the most recent records first
func (s *PostgresStore) ListSyncRecords(ctx context.Context, limit int) ([]*models.SyncRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM sync_records
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync records: %w", err)
	}
	defer rows.Close()

	var records []*models.SyncRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync records: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.SyncRecord, error) {
	var (
		record     models.SyncRecord
		status     string
		finishedAt sql.NullTime
	)
	err := row.Scan(
		&record.ID,
		&record.Operation,
		&record.RepoURL,
		&record.Branch,
		&record.LocalPath,
		&status,
		&record.FromVersion,
		&record.ToVersion,
		&record.Error,
		&record.TotalObjects,
		&record.StartedAt,
		&finishedAt,
		&record.DurationMs,
	)
	if err != nil {
		return nil, err
	}
	record.Status = models.SyncStatus(status)
	if finishedAt.Valid {
		t := finishedAt.Time
		record.FinishedAt = &t
	}
	return &record, nil
}
