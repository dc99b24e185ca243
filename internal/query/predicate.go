// Package query translates a search request into a store-level predicate
// plus the post-join status filter applied by the reconciliation engine.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/apperr"
	"github.com/lumenlearn/objecthub/internal/domain"
)

// Mode selects between the two predicate branches.
type Mode string

const (
	// ModeText is selected whenever the request carries a text parameter,
	// including the empty string: its presence signals the caller is in
	// search context. This is a hard tie-break, not a heuristic.
	ModeText Mode = "text"

	// ModeField is a conjunction of per-field predicates.
	ModeField Mode = "field"
)

// Filter is the raw search input as it arrives from the HTTP layer.
// Text is a pointer so that presence and emptiness stay distinguishable.
type Filter struct {
	Text               *string
	Name               string
	Author             string
	Statuses           []string
	Lengths            []string
	Levels             []string
	Collection         string
	StandardOutcomeIDs []string
	ReleasedOnly       bool
}

// CollectionScope is the fine-grained post-join visibility restriction for
// collection-scoped curators and reviewers: a record survives when its
// collection tag is in Collections or the requester owns it.
type CollectionScope struct {
	Collections []string
	OwnerID     uuid.UUID
	OwnerName   string
}

// Predicate is evaluated by the record stores against both record sets.
// Status filtering is deliberately absent here: it lives on Plan and is
// applied post-join by the reconciliation engine, so a released snapshot
// is never dropped just because its working counterpart is mid-edit.
type Predicate struct {
	Mode Mode

	// text mode: disjunction of relevance match on Term, case-insensitive
	// substring on name, and case-insensitive substring on contributors
	Term string

	// field mode conjuncts
	Name         string
	Lengths      []string
	Levels       []string
	Collection   string
	OutcomeCuids []string

	// author restriction: ExactAuthor conjoins strictly to one identity;
	// otherwise AuthorIDs are fuzzy OR-candidates
	ExactAuthor *uuid.UUID
	AuthorIDs   []uuid.UUID

	// coarse pre-join visibility on the working set (nil = all statuses)
	WorkingStatuses []domain.Status

	// fine post-join OR-branches, field mode only
	Scope *CollectionScope

	// excludes records carrying the download-restricted lock flag
	ReleasedOnly bool

	// set when a supplied filter resolved to nothing that can match;
	// stores must treat this as an impossible condition, never as
	// "match everything"
	Unsatisfiable bool
}

// TermPattern returns the term with regex metacharacters escaped, ready
// for literal substring matching.
func (p *Predicate) TermPattern() string {
	return EscapeTerm(p.Term)
}

// Plan pairs the store predicate with the status filter the engine
// applies after the working/released join.
type Plan struct {
	Predicate Predicate
	Statuses  []domain.Status
}

// FiltersByStatus reports whether the caller asked for a status subset.
func (pl *Plan) FiltersByStatus() bool {
	return len(pl.Statuses) > 0
}

// AuthorResolver finds candidate author identities for a term.
type AuthorResolver interface {
	FindAuthors(ctx context.Context, term string) ([]domain.Author, error)
}

// OutcomeResolver maps standard-outcome identifiers to the content
// identities whose outcomes are mapped onto them.
type OutcomeResolver interface {
	CuidsForStandardOutcomes(ctx context.Context, ids []uuid.UUID) ([]string, error)
}

// Builder constructs plans from raw filters.
type Builder struct {
	authors  AuthorResolver
	outcomes OutcomeResolver
}

func NewBuilder(authors AuthorResolver, outcomes OutcomeResolver) *Builder {
	return &Builder{authors: authors, outcomes: outcomes}
}

// Build validates the filter and produces the plan. Malformed input is
// surfaced immediately as a validation error.
func (b *Builder) Build(ctx context.Context, f Filter) (*Plan, error) {
	statuses, err := parseStatuses(f.Statuses)
	if err != nil {
		return nil, err
	}

	p := Predicate{
		Name:         f.Name,
		Lengths:      trimAll(f.Lengths),
		Levels:       trimAll(f.Levels),
		Collection:   f.Collection,
		ReleasedOnly: f.ReleasedOnly,
	}

	if f.Text != nil {
		p.Mode = ModeText
		p.Term = strings.TrimSpace(*f.Text)
	} else {
		p.Mode = ModeField
	}

	if err := b.resolveOutcomes(ctx, f.StandardOutcomeIDs, &p); err != nil {
		return nil, err
	}
	if err := b.resolveAuthors(ctx, f.Author, &p); err != nil {
		return nil, err
	}

	return &Plan{Predicate: p, Statuses: statuses}, nil
}

// resolveOutcomes maps standard-outcome ids onto object ids. A supplied
// filter that resolves to zero outcome records makes the whole predicate
// unsatisfiable rather than unrestricted.
func (b *Builder) resolveOutcomes(ctx context.Context, raw []string, p *Predicate) error {
	raw = trimAll(raw)
	if len(raw) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return apperr.NewValidationWrap(fmt.Sprintf("invalid standard outcome id %q", s), err)
		}
		ids = append(ids, id)
	}

	cuids, err := b.outcomes.CuidsForStandardOutcomes(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve standard outcomes: %w", err)
	}
	if len(cuids) == 0 {
		slog.Debug("Standard outcome filter matched no outcomes, predicate is unsatisfiable", "ids", raw)
		p.Unsatisfiable = true
		return nil
	}

	p.OutcomeCuids = cuids
	return nil
}

// resolveAuthors resolves an author filter (or, in text mode, the free
// text term) into candidate identities. An exact single match restricts
// the predicate strictly to that author; multiple matches become a fuzzy
// OR across all candidates.
func (b *Builder) resolveAuthors(ctx context.Context, author string, p *Predicate) error {
	term := strings.TrimSpace(author)
	explicit := term != ""
	if !explicit {
		if p.Mode != ModeText || p.Term == "" {
			return nil
		}
		term = p.Term
	}

	candidates, err := b.authors.FindAuthors(ctx, term)
	if err != nil {
		return fmt.Errorf("failed to resolve authors: %w", err)
	}

	if len(candidates) == 1 && strings.EqualFold(candidates[0].Username, term) {
		id := candidates[0].ID
		p.ExactAuthor = &id
		return nil
	}

	if len(candidates) == 0 && explicit && p.Mode == ModeField {
		// an author filter that matches nobody can match no records
		p.Unsatisfiable = true
		return nil
	}

	for _, c := range candidates {
		p.AuthorIDs = append(p.AuthorIDs, c.ID)
	}
	return nil
}

func parseStatuses(raw []string) ([]domain.Status, error) {
	raw = trimAll(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	statuses := make([]domain.Status, 0, len(raw))
	for _, s := range raw {
		st, ok := domain.ParseStatus(s)
		if !ok {
			return nil, apperr.NewValidation(fmt.Sprintf("unknown status %q", s))
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
