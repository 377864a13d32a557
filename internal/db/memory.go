package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/models"
)

// DefaultListLimit caps history listings when no limit is given.
const DefaultListLimit = 50

// MemoryStore keeps sync history in process. It is used when no database is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.SyncRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]models.SyncRecord)}
}

func (s *MemoryStore) SaveSyncRecord(ctx context.Context, record *models.SyncRecord) error {
	if record == nil {
		return errors.NewValidationError("sync record cannot be nil", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = copyRecord(record)
	return nil
}

func (s *MemoryStore) GetSyncRecord(ctx context.Context, id uuid.UUID) (*models.SyncRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("sync record not found: %s", id), nil)
	}
	c := copyRecord(&record)
	return &c, nil
}

func (s *MemoryStore) ListSyncRecords(ctx context.Context, limit int) ([]*models.SyncRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	records := make([]*models.SyncRecord, 0, len(s.records))
	for _, r := range s.records {
		c := copyRecord(&r)
		records = append(records, &c)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *MemoryStore) Migrate() error { return nil }

func (s *MemoryStore) Close() error { return nil }

func copyRecord(r *models.SyncRecord) models.SyncRecord {
	c := *r
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		c.FinishedAt = &t
	}
	return c
}
