package storage

import (
	"context"
	"sync"

	"gastos/internal/core"
)

// MemoryStore keeps the collection in process. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.Mutex
	coll []core.Expense
	log  []SyncRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.coll...), nil
}

func (s *MemoryStore) Save(_ context.Context, coll []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll = append([]core.Expense{}, coll...)
	return nil
}

func (s *MemoryStore) RecordSync(_ context.Context, rec SyncRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, rec)
	return nil
}

func (s *MemoryStore) LastSync(_ context.Context) (SyncRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.log) == 0 {
		return SyncRecord{}, false, nil
	}
	return s.log[len(s.log)-1], true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
