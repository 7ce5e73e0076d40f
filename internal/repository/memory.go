package repository

import (
	"context"
	"sync"

	"github.com/vancomm/minewalk/internal/records"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]records.Record
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]records.Record)}
}

func (s *MemoryStore) Load(ctx context.Context, player string) (records.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[player]
	if !ok {
		return records.Record{}, records.ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Save(ctx context.Context, player string, r records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[player] = r
	return nil
}
