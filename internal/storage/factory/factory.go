package factory

import (
	"context"
	"fmt"

	"github.com/lumenlearn/objecthub/internal/storage"
	"github.com/lumenlearn/objecthub/internal/storage/es"
	"github.com/lumenlearn/objecthub/internal/storage/in_mem"
	"github.com/lumenlearn/objecthub/internal/storage/pg"
)

// Stores bundles the primary store implementations plus an optional
// search finder that overrides the primary on the search path.
type Stores struct {
	Records   storage.RecordStore
	Outcomes  storage.OutcomeStore
	Changelog storage.ChangelogStore

	// Finder is non-nil only when a dedicated search backend is
	// configured; the service falls back to Records otherwise.
	Finder storage.RecordFinder

	ping  func(ctx context.Context) error
	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Ping reports whether the primary store is reachable. The in-memory
// store has nothing to reach and always succeeds.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// New creates the store bundle for the configured storage type.
func New(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		return newPGStores(ctx, cfg, nil)

	case storage.ES:
		finder, err := es.NewFinder(*cfg.Es)
		if err != nil {
			return nil, fmt.Errorf("failed to create Elasticsearch finder: %w", err)
		}
		return newPGStores(ctx, cfg, finder)

	case storage.InMem:
		return &Stores{
			Records:   in_mem.NewStore(),
			Outcomes:  in_mem.NewOutcomeStore(),
			Changelog: in_mem.NewChangelogStore(),
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStore), cfg.Type)
	}
}

func newPGStores(ctx context.Context, cfg *StorageConfig, finder storage.RecordFinder) (*Stores, error) {
	pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	store := pg.NewStore(pool)
	return &Stores{
		Records:   store,
		Outcomes:  pg.NewOutcomeStore(store),
		Changelog: pg.NewChangelogStore(store),
		Finder:    finder,
		ping:      pool.Ping,
		close:     pool.Close,
	}, nil
}
