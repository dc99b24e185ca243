// Package in_mem holds the in-memory store implementations. They are the
// reference semantics for predicate matching and back the default local
// setup plus the unit tests.
package in_mem

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage"
)

// Store keeps working and released records in maps keyed by cuid,
// guarded by one RWMutex. Reads vastly outnumber writes here.
type Store struct {
	mu       sync.RWMutex
	working  map[string]domain.WorkingRecord
	released map[string]domain.ReleasedRecord
}

func NewStore() *Store {
	return &Store{
		working:  make(map[string]domain.WorkingRecord),
		released: make(map[string]domain.ReleasedRecord),
	}
}

// matchable is the predicate view shared by both record shapes.
type matchable struct {
	cuid               string
	author             domain.Author
	name               string
	description        string
	collection         string
	length             string
	levels             []string
	downloadRestricted bool
}

func workingView(w domain.WorkingRecord) matchable {
	return matchable{
		cuid:               w.Cuid,
		author:             w.Author,
		name:               w.Name,
		description:        w.Description,
		collection:         w.Collection,
		length:             w.Length,
		levels:             w.Levels,
		downloadRestricted: w.DownloadRestricted,
	}
}

func releasedView(r domain.ReleasedRecord) matchable {
	return matchable{
		cuid:               r.Cuid,
		author:             r.Author,
		name:               r.Name,
		description:        r.Description,
		collection:         r.Collection,
		length:             r.Length,
		levels:             r.Levels,
		downloadRestricted: r.DownloadRestricted,
	}
}

func (s *Store) FindWorking(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]storage.WorkingHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []storage.WorkingHit
	for _, w := range s.working {
		if len(p.WorkingStatuses) > 0 && !containsStatus(p.WorkingStatuses, w.Status) {
			continue
		}
		score, ok := match(p, workingView(w))
		if !ok {
			continue
		}
		hits = append(hits, storage.WorkingHit{Record: w, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Record.ID.String() < hits[j].Record.ID.String()
	})
	hits = applyOptions(hits, opts, func(h storage.WorkingHit) sortable {
		return sortable{name: h.Record.Name, length: h.Record.Length, collection: h.Record.Collection, status: string(h.Record.Status), updated: h.Record.UpdatedAt.UnixNano()}
	})
	return hits, nil
}

func (s *Store) FindReleased(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]storage.ReleasedHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []storage.ReleasedHit
	for _, r := range s.released {
		score, ok := match(p, releasedView(r))
		if !ok {
			continue
		}
		hits = append(hits, storage.ReleasedHit{Record: r, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Record.ID.String() < hits[j].Record.ID.String()
	})
	hits = applyOptions(hits, opts, func(h storage.ReleasedHit) sortable {
		return sortable{name: h.Record.Name, length: h.Record.Length, collection: h.Record.Collection, status: string(domain.StatusReleased), updated: h.Record.UpdatedAt.UnixNano()}
	})
	return hits, nil
}

// match evaluates the predicate against one record view. Working-status
// visibility is checked by the caller since released snapshots have no
// working status.
func match(p query.Predicate, m matchable) (float64, bool) {
	if p.Unsatisfiable {
		return 0, false
	}
	if p.ReleasedOnly && m.downloadRestricted {
		return 0, false
	}
	if p.ExactAuthor != nil && m.author.ID != *p.ExactAuthor {
		return 0, false
	}
	if len(p.OutcomeCuids) > 0 && !containsString(p.OutcomeCuids, m.cuid) {
		return 0, false
	}
	if p.Scope != nil && !inScope(p.Scope, m) {
		return 0, false
	}

	if p.Mode == query.ModeText {
		return matchText(p, m)
	}
	return 0, matchFields(p, m)
}

// matchText is the disjunction of relevance match, name substring, and
// contributor substring, plus fuzzy author candidates. An empty term
// matches everything still in search context.
func matchText(p query.Predicate, m matchable) (float64, bool) {
	if p.Term == "" {
		return 0, true
	}

	re, err := regexp.Compile("(?i)" + p.TermPattern())
	if err != nil {
		// escaping guarantees compilation; treat a failure as no match
		slog.Error("Escaped term failed to compile", "term", p.Term, "error", err)
		return 0, false
	}

	score := relevance(p.Term, m)
	switch {
	case score > 0:
		return score, true
	case re.MatchString(m.name):
		return 0.1, true
	case re.MatchString(m.author.Username) || re.MatchString(m.author.Name):
		return 0.1, true
	case containsUUID(p.AuthorIDs, m.author.ID):
		return 0.1, true
	}
	return 0, false
}

func matchFields(p query.Predicate, m matchable) bool {
	if p.Name != "" {
		re, err := regexp.Compile("(?i)" + query.EscapeTerm(p.Name))
		if err != nil || !re.MatchString(m.name) {
			return false
		}
	}
	if len(p.Lengths) > 0 && !containsString(p.Lengths, m.length) {
		return false
	}
	if len(p.Levels) > 0 && !intersects(p.Levels, m.levels) {
		return false
	}
	if p.Collection != "" && m.collection != p.Collection {
		return false
	}
	if len(p.AuthorIDs) > 0 && !containsUUID(p.AuthorIDs, m.author.ID) {
		return false
	}
	return true
}

// relevance is a deterministic token-overlap score: name hits weigh
// three times description hits. Real relevance scoring is delegated to
// the pg and es backends.
func relevance(term string, m matchable) float64 {
	var score float64
	name := strings.ToLower(m.name)
	desc := strings.ToLower(m.description)
	for _, tok := range strings.Fields(strings.ToLower(term)) {
		if strings.Contains(name, tok) {
			score += 3
		}
		if strings.Contains(desc, tok) {
			score += 1
		}
	}
	return score
}

func inScope(scope *query.CollectionScope, m matchable) bool {
	for _, c := range scope.Collections {
		if c == m.collection {
			return true
		}
	}
	if scope.OwnerID != uuid.Nil && scope.OwnerID == m.author.ID {
		return true
	}
	return scope.OwnerName != "" && scope.OwnerName == m.author.Username
}

func (s *Store) FindAuthors(ctx context.Context, term string) ([]domain.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(term)
	seen := make(map[uuid.UUID]bool)
	var authors []domain.Author

	collect := func(a domain.Author) {
		if seen[a.ID] {
			return
		}
		if strings.Contains(strings.ToLower(a.Username), term) ||
			strings.Contains(strings.ToLower(a.Name), term) {
			seen[a.ID] = true
			authors = append(authors, a)
		}
	}
	for _, w := range s.working {
		collect(w.Author)
	}
	for _, r := range s.released {
		collect(r.Author)
	}

	sort.Slice(authors, func(i, j int) bool { return authors[i].Username < authors[j].Username })
	return authors, nil
}

func (s *Store) GetWorking(ctx context.Context, cuid string) (*domain.WorkingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.working[cuid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &w, nil
}

func (s *Store) GetReleased(ctx context.Context, cuid string) (*domain.ReleasedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.released[cuid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (s *Store) GetWorkingMeta(ctx context.Context, key string) (*storage.WorkingMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, idErr := uuid.Parse(key)
	for _, w := range s.working {
		if (idErr == nil && w.ID == id) || w.Name == key || w.Cuid == key {
			return &storage.WorkingMeta{
				ID:             w.ID,
				Cuid:           w.Cuid,
				AuthorID:       w.Author.ID,
				AuthorUsername: w.Author.Username,
				Collection:     w.Collection,
			}, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateWorking(ctx context.Context, rec domain.WorkingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.working[rec.Cuid] = rec
	slog.Debug("Stored working record", "cuid", rec.Cuid, "name", rec.Name)
	return nil
}

func (s *Store) UpdateWorking(ctx context.Context, rec domain.WorkingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.working[rec.Cuid]; !ok {
		return storage.ErrNotFound
	}
	s.working[rec.Cuid] = rec
	return nil
}

func (s *Store) DeleteWorking(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for cuid, w := range s.working {
		if w.ID == id {
			delete(s.working, cuid)
			return nil
		}
	}
	return storage.ErrNotFound
}

// SeedReleased installs a released snapshot. Publication is owned by the
// external submission workflow; this entry point exists for local setups
// and tests.
func (s *Store) SeedReleased(rec domain.ReleasedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released[rec.Cuid] = rec
}

type sortable struct {
	name       string
	length     string
	collection string
	status     string
	updated    int64
}

func (v sortable) key(field string) string {
	switch field {
	case "length":
		return v.length
	case "collection":
		return v.collection
	case "status":
		return v.status
	default:
		return v.name
	}
}

func applyOptions[T any](hits []T, opts storage.FindOptions, view func(T) sortable) []T {
	if opts.SortBy != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			a, b := view(hits[i]), view(hits[j])
			var less bool
			if opts.SortBy == "date" {
				less = a.updated < b.updated
			} else {
				less = a.key(opts.SortBy) < b.key(opts.SortBy)
			}
			if opts.SortDesc {
				return !less
			}
			return less
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= len(hits) {
			return nil
		}
		hits = hits[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(hits) {
		hits = hits[:opts.Limit]
	}
	return hits
}

func containsStatus(set []domain.Status, s domain.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsUUID(set []uuid.UUID, id uuid.UUID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}
