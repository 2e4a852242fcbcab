package memory

import (
	"context"
	"sync"

	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

var _ output.RecordRepository = (*RecordStore)(nil)

// RecordStore is an append-only archive of finished events.
type RecordStore struct {
	mu      sync.RWMutex
	records []entities.EventRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

func (s *RecordStore) Save(_ context.Context, record *entities.EventRecord) error {
	r := *record
	r.Participants = append([]string(nil), record.Participants...)
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	return nil
}

// List returns the most recent records first.
func (s *RecordStore) List(_ context.Context, limit int) ([]entities.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]entities.EventRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
