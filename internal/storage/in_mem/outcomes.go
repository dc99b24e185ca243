package in_mem

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
)

// OutcomeStore keeps outcomes in memory, indexed by cuid.
type OutcomeStore struct {
	mu       sync.RWMutex
	outcomes map[uuid.UUID]domain.Outcome
}

func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{outcomes: make(map[uuid.UUID]domain.Outcome)}
}

func (s *OutcomeStore) CuidsForStandardOutcomes(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	seen := make(map[string]bool)
	var cuids []string
	for _, o := range s.outcomes {
		for _, m := range o.Mappings {
			if wanted[m] && !seen[o.Cuid] {
				seen[o.Cuid] = true
				cuids = append(cuids, o.Cuid)
			}
		}
	}

	sort.Strings(cuids)
	return cuids, nil
}

func (s *OutcomeStore) OutcomesForCuid(ctx context.Context, cuid string) ([]domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Outcome
	for _, o := range s.outcomes {
		if o.Cuid == cuid {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *OutcomeStore) SaveOutcome(ctx context.Context, o domain.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[o.ID] = o
	return nil
}

func (s *OutcomeStore) DeleteOutcomesForObject(ctx context.Context, objectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range s.outcomes {
		if o.ObjectID == objectID {
			delete(s.outcomes, id)
		}
	}
	return nil
}
