package in_mem

import (
	"context"
	"sort"
	"sync"

	"github.com/lumenlearn/objecthub/internal/domain"
)

// ChangelogStore is the in-memory append-only change log.
type ChangelogStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.ChangelogEntry
}

func NewChangelogStore() *ChangelogStore {
	return &ChangelogStore{entries: make(map[string][]domain.ChangelogEntry)}
}

func (s *ChangelogStore) Append(ctx context.Context, e domain.ChangelogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Cuid] = append(s.entries[e.Cuid], e)
	return nil
}

func (s *ChangelogStore) ForCuid(ctx context.Context, cuid string) ([]domain.ChangelogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ChangelogEntry, len(s.entries[cuid]))
	copy(entries, s.entries[cuid])
	sort.Slice(entries, func(i, j int) bool { return entries[i].LoggedAt.Before(entries[j].LoggedAt) })
	return entries, nil
}

func (s *ChangelogStore) DeleteForCuid(ctx context.Context, cuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, cuid)
	return nil
}
