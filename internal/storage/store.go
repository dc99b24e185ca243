// Package storage defines the boundary to the record, outcome, and
// changelog stores. The reconciliation core depends only on these
// interfaces; pg, es, and in_mem provide implementations.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
)

// ErrNotFound is the store-level miss sentinel; callers map it onto the
// typed API error.
var ErrNotFound = errors.New("record not found")

// WorkingHit pairs a matched working record with its relevance score.
// Scores are only meaningful for text-mode predicates; field-mode finds
// report zero.
type WorkingHit struct {
	Record domain.WorkingRecord
	Score  float64
}

// ReleasedHit pairs a matched released snapshot with its relevance score.
type ReleasedHit struct {
	Record domain.ReleasedRecord
	Score  float64
}

// FindOptions carries the store-side sort and page capabilities. The
// search path reconciles and paginates in-process, so it issues finds
// with the zero value; listing callers may page store-side.
type FindOptions struct {
	SortBy   string
	SortDesc bool
	Skip     int
	Limit    int
}

// RecordFinder runs a predicate against the two record sets. Status
// filtering is post-join by design: implementations must never apply
// Plan statuses, only the predicate itself (including its coarse
// WorkingStatuses visibility restriction).
type RecordFinder interface {
	FindWorking(ctx context.Context, p query.Predicate, opts FindOptions) ([]WorkingHit, error)
	FindReleased(ctx context.Context, p query.Predicate, opts FindOptions) ([]ReleasedHit, error)
}

// WorkingMeta is the lightweight projection used by mutation authz:
// only the fields needed to evaluate ownership and collection grants,
// never the full record.
type WorkingMeta struct {
	ID             uuid.UUID
	Cuid           string
	AuthorID       uuid.UUID
	AuthorUsername string
	Collection     string
}

// RecordStore is the full contract over the working and released record
// sets. Released snapshots are written by the external submission
// workflow; this interface only reads them.
type RecordStore interface {
	RecordFinder
	query.AuthorResolver

	GetWorking(ctx context.Context, cuid string) (*domain.WorkingRecord, error)
	GetReleased(ctx context.Context, cuid string) (*domain.ReleasedRecord, error)

	// GetWorkingMeta resolves a record id or, failing that, a record name
	// to the authz projection.
	GetWorkingMeta(ctx context.Context, key string) (*WorkingMeta, error)

	CreateWorking(ctx context.Context, rec domain.WorkingRecord) error
	UpdateWorking(ctx context.Context, rec domain.WorkingRecord) error
	DeleteWorking(ctx context.Context, id uuid.UUID) error
}

// OutcomeStore resolves standard-outcome filters and materializes full
// outcome objects for summaries.
type OutcomeStore interface {
	query.OutcomeResolver

	OutcomesForCuid(ctx context.Context, cuid string) ([]domain.Outcome, error)
	SaveOutcome(ctx context.Context, o domain.Outcome) error
	DeleteOutcomesForObject(ctx context.Context, objectID uuid.UUID) error
}

// ChangelogStore is the append-only per-cuid bookkeeping log.
type ChangelogStore interface {
	Append(ctx context.Context, e domain.ChangelogEntry) error
	ForCuid(ctx context.Context, cuid string) ([]domain.ChangelogEntry, error)
	DeleteForCuid(ctx context.Context, cuid string) error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StoreError string

const (
	ErrUnsupportedStore StoreError = "unsupported store type: %s"
)

func (e StoreError) Error() string {
	return string(e)
}
