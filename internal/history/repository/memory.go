package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/ASEODA/narashop-estimate/platform/apperr"

	"github.com/google/uuid"
)

// MemoryStore keeps history in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
}

func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: normalizeLimit(limit)}
}

func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = slices.Insert(s.entries, 0, entry)
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := min(normalizeLimit(limit), len(s.entries))
	return slices.Clone(s.entries[:n]), nil
}

func (s *MemoryStore) Find(_ context.Context, id uuid.UUID) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, apperr.NotFound(msgEntryNotFound)
}
