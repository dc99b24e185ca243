package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/apperr"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Service is the read-time view over the dual record sets plus the thin
// CRUD surface around the working set. It owns no persistent state; the
// store handles are injected so tests can swap in doubles.
type Service struct {
	records   storage.RecordStore
	finder    storage.RecordFinder
	outcomes  storage.OutcomeStore
	changelog storage.ChangelogStore
	builder   *query.Builder
}

type ServiceOption func(*Service)

// WithFinder overrides the search-path finder, e.g. with the
// Elasticsearch reader, while record lookups stay on the primary store.
func WithFinder(f storage.RecordFinder) ServiceOption {
	return func(s *Service) {
		s.finder = f
	}
}

func NewService(records storage.RecordStore, outcomes storage.OutcomeStore, changelog storage.ChangelogStore, opts ...ServiceOption) *Service {
	s := &Service{
		records:   records,
		finder:    records,
		outcomes:  outcomes,
		changelog: changelog,
		builder:   query.NewBuilder(records, outcomes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page is the offset pagination request for Search. Limit zero returns
// the full matching set.
type Page struct {
	Number int
	Limit  int
}

// SearchResult is one page of reconciled summaries plus the total size
// of the matching set before pagination.
type SearchResult struct {
	Objects []domain.Summary `json:"objects"`
	Total   int              `json:"total"`
}

// Search runs the full pipeline: predicate construction, concurrent
// candidate fetch from both record sets, identity reconciliation,
// post-join status filtering, revision disclosure, ranking, and
// pagination.
func (s *Service) Search(ctx context.Context, f query.Filter, requester domain.Requester, page Page, sortOpt SortOption) (*SearchResult, error) {
	plan, err := s.builder.Build(ctx, f)
	if err != nil {
		return nil, err
	}
	applyVisibility(&plan.Predicate, requester)

	working, released, err := s.findCandidates(ctx, plan.Predicate)
	if err != nil {
		return nil, apperr.NewInternal("search failed", err)
	}

	released, err = s.backfillReleased(ctx, working, released)
	if err != nil {
		return nil, apperr.NewInternal("search failed", err)
	}
	working, err = s.backfillWorking(ctx, working, released)
	if err != nil {
		return nil, apperr.NewInternal("search failed", err)
	}

	entries := reconcile(working, released)
	entries = filterByStatus(entries, plan.Statuses)
	for i := range entries {
		discloseRevision(requester, &entries[i])
	}

	rank(entries, plan.Predicate.Mode, sortOpt)
	total := len(entries)
	entries = paginate(entries, page.Number, page.Limit)

	objects := make([]domain.Summary, 0, len(entries))
	for _, e := range entries {
		objects = append(objects, e.summary)
	}

	slog.Info("Search completed",
		"mode", plan.Predicate.Mode,
		"total", total,
		"page_size", len(objects),
		"requester", requester.Username)

	return &SearchResult{Objects: objects, Total: total}, nil
}

// findCandidates issues the two set reads concurrently; the join is the
// synchronization point.
func (s *Service) findCandidates(ctx context.Context, p query.Predicate) ([]storage.WorkingHit, []storage.ReleasedHit, error) {
	var (
		working  []storage.WorkingHit
		released []storage.ReleasedHit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		working, err = s.finder.FindWorking(gctx, p, storage.FindOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		released, err = s.finder.FindReleased(gctx, p, storage.FindOptions{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return working, released, nil
}

// backfillReleased performs the bounded per-cuid lookups: a working copy
// may match the predicate while its released counterpart does not (the
// edit changed the matching field), yet the released snapshot is still
// the projection the public view needs.
func (s *Service) backfillReleased(ctx context.Context, working []storage.WorkingHit, released []storage.ReleasedHit) ([]storage.ReleasedHit, error) {
	have := make(map[string]bool, len(released))
	for _, h := range released {
		have[h.Record.Cuid] = true
	}

	for _, w := range working {
		if have[w.Record.Cuid] {
			continue
		}
		rec, err := s.records.GetReleased(ctx, w.Record.Cuid)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up released counterpart for %s: %w", w.Record.Cuid, err)
		}
		have[rec.Cuid] = true
		released = append(released, storage.ReleasedHit{Record: *rec})
	}
	return released, nil
}

// backfillWorking is the mirror lookup: a pending edit may have drifted
// out of the predicate (the edit changed the matching field) while its
// released snapshot still matches. The revision flag reflects the
// store, not the match set, so the counterpart must be fetched before
// the join.
func (s *Service) backfillWorking(ctx context.Context, working []storage.WorkingHit, released []storage.ReleasedHit) ([]storage.WorkingHit, error) {
	have := make(map[string]bool, len(working))
	for _, h := range working {
		have[h.Record.Cuid] = true
	}

	for _, r := range released {
		if have[r.Record.Cuid] {
			continue
		}
		rec, err := s.records.GetWorking(ctx, r.Record.Cuid)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up working counterpart for %s: %w", r.Record.Cuid, err)
		}
		have[rec.Cuid] = true
		working = append(working, storage.WorkingHit{Record: *rec})
	}
	return working, nil
}

// GetByCuid is the single-item path: same reconciliation, visibility,
// and disclosure rules as Search, without the ranking stage, plus full
// outcome materialization.
func (s *Service) GetByCuid(ctx context.Context, cuid string, requester domain.Requester) (*domain.Summary, error) {
	var (
		working  *domain.WorkingRecord
		released *domain.ReleasedRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.records.GetWorking(gctx, cuid)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		working = w
		return err
	})
	g.Go(func() error {
		r, err := s.records.GetReleased(gctx, cuid)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		released = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.NewInternal("lookup failed", err)
	}

	if working == nil && released == nil {
		return nil, apperr.NewNotFound("learning object", cuid)
	}

	// a never-released working copy is concealed from requesters who
	// would not see it in search results
	if released == nil && !canSeeWorking(requester, *working) {
		return nil, apperr.NewNotFound("learning object", cuid)
	}

	var workingHits []storage.WorkingHit
	if working != nil {
		workingHits = []storage.WorkingHit{{Record: *working}}
	}
	var releasedHits []storage.ReleasedHit
	if released != nil {
		releasedHits = []storage.ReleasedHit{{Record: *released}}
	}

	entries := reconcile(workingHits, releasedHits)
	c := entries[0]
	discloseRevision(requester, &c)

	outcomes, err := s.outcomes.OutcomesForCuid(ctx, cuid)
	if err != nil {
		return nil, apperr.NewInternal("failed to load outcomes", err)
	}
	c.summary.Outcomes = outcomes

	return &c.summary, nil
}

// CreateInput is the authoring payload for a new working record.
type CreateInput struct {
	Name        string
	Description string
	Collection  string
	Length      string
	Levels      []string
	Materials   []domain.Material
}

// Create authors a new working record in the unreleased state.
func (s *Service) Create(ctx context.Context, requester domain.Requester, in CreateInput) (*domain.WorkingRecord, error) {
	if requester.IsAnonymous() {
		return nil, apperr.NewForbidden("authentication required")
	}
	if in.Name == "" {
		return nil, apperr.NewValidation("name is required")
	}

	now := time.Now().UTC()
	rec := domain.WorkingRecord{
		ID:          uuid.New(),
		Cuid:        uuid.NewString(),
		Author:      domain.Author{ID: requester.ID, Username: requester.Username},
		Name:        in.Name,
		Description: in.Description,
		Status:      domain.StatusUnreleased,
		Collection:  in.Collection,
		Length:      in.Length,
		Levels:      in.Levels,
		Materials:   in.Materials,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.records.CreateWorking(ctx, rec); err != nil {
		return nil, apperr.NewInternal("failed to create learning object", err)
	}
	s.log(ctx, rec.Cuid, requester.Username, "created "+rec.Name)

	return &rec, nil
}

// UpdateInput carries the mutable fields; nil pointers leave a field
// untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Length      *string
	Levels      *[]string
	Materials   *[]domain.Material
}

// Update mutates a working record after the two-step authorization
// check. The released snapshot is never touched.
func (s *Service) Update(ctx context.Context, requester domain.Requester, key string, in UpdateInput) (*domain.WorkingRecord, error) {
	meta, err := authorizeMutation(ctx, s.records, requester, key)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.GetWorking(ctx, meta.Cuid)
	if err != nil {
		return nil, apperr.NewInternal("failed to load learning object", err)
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.NewValidation("name cannot be empty")
		}
		rec.Name = *in.Name
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Length != nil {
		rec.Length = *in.Length
	}
	if in.Levels != nil {
		rec.Levels = *in.Levels
	}
	if in.Materials != nil {
		rec.Materials = *in.Materials
	}
	rec.UpdatedAt = time.Now().UTC()

	if err := s.records.UpdateWorking(ctx, *rec); err != nil {
		return nil, apperr.NewInternal("failed to update learning object", err)
	}
	s.log(ctx, rec.Cuid, requester.Username, "updated "+rec.Name)

	return rec, nil
}

// Delete removes a working record and cascades to its outcomes and
// changelog. Released snapshots stay: publication history is immutable.
func (s *Service) Delete(ctx context.Context, requester domain.Requester, key string) error {
	meta, err := authorizeMutation(ctx, s.records, requester, key)
	if err != nil {
		return err
	}

	if err := s.records.DeleteWorking(ctx, meta.ID); err != nil {
		return apperr.NewInternal("failed to delete learning object", err)
	}
	if err := s.outcomes.DeleteOutcomesForObject(ctx, meta.ID); err != nil {
		return apperr.NewInternal("failed to delete outcomes", err)
	}
	if err := s.changelog.DeleteForCuid(ctx, meta.Cuid); err != nil {
		return apperr.NewInternal("failed to delete changelog", err)
	}
	return nil
}

// Changelog returns the bookkeeping log for a cuid, restricted the same
// way mutations are.
func (s *Service) Changelog(ctx context.Context, requester domain.Requester, cuid string) ([]domain.ChangelogEntry, error) {
	if _, err := authorizeMutation(ctx, s.records, requester, cuid); err != nil {
		return nil, err
	}

	entries, err := s.changelog.ForCuid(ctx, cuid)
	if err != nil {
		return nil, apperr.NewInternal("failed to load changelog", err)
	}
	return entries, nil
}

func (s *Service) log(ctx context.Context, cuid, author, text string) {
	err := s.changelog.Append(ctx, domain.ChangelogEntry{
		ID:       uuid.New(),
		Cuid:     cuid,
		Author:   author,
		Text:     text,
		LoggedAt: time.Now().UTC(),
	})
	if err != nil {
		// bookkeeping must not fail the mutation
		slog.Error("Failed to append changelog entry", "cuid", cuid, "error", err)
	}
}
