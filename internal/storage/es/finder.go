// Package es implements the record finder on Elasticsearch. It serves
// the search path only; lookups and writes stay on the primary store.
package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage"
)

// maxResultWindow mirrors the index default of the same name, the
// largest from+size Elasticsearch serves without search_after.
const maxResultWindow = 10_000

var sortFields = map[string]string{
	"name":       "name.keyword",
	"length":     "length.keyword",
	"collection": "collection.keyword",
	"status":     "status.keyword",
	"date":       "updated_at",
}

type Finder struct {
	client        *elasticsearch.TypedClient
	workingIndex  string
	releasedIndex string
}

func NewFinder(config ClientConfig) (*Finder, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Finder{
		client:        client,
		workingIndex:  config.WorkingIndex,
		releasedIndex: config.ReleasedIndex,
	}, nil
}

func (f *Finder) FindWorking(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]storage.WorkingHit, error) {
	hits, err := f.find(ctx, f.workingIndex, p, opts, false)
	if err != nil {
		return nil, err
	}

	out := make([]storage.WorkingHit, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var doc objectDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		rec, err := doc.toWorking()
		if err != nil {
			return nil, err
		}
		out = append(out, storage.WorkingHit{Record: rec, Score: hitScore(hit)})
	}
	return out, nil
}

func (f *Finder) FindReleased(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]storage.ReleasedHit, error) {
	hits, err := f.find(ctx, f.releasedIndex, p, opts, true)
	if err != nil {
		return nil, err
	}

	out := make([]storage.ReleasedHit, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var doc objectDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		rec, err := doc.toReleased()
		if err != nil {
			return nil, err
		}
		out = append(out, storage.ReleasedHit{Record: rec, Score: hitScore(hit)})
	}
	return out, nil
}

func (f *Finder) find(ctx context.Context, index string, p query.Predicate, opts storage.FindOptions, releasedSet bool) (*search.Response, error) {
	if p.Unsatisfiable {
		return &search.Response{Hits: types.HitsMetadata{}}, nil
	}

	slog.Info("Executing es record search",
		"index", index,
		"mode", p.Mode,
		"term", p.Term,
		"sort_by", opts.SortBy)

	boolQuery := &types.BoolQuery{
		Filter: filterClauses(p, releasedSet),
	}
	if match := matchClause(p); match != nil {
		boolQuery.Must = []types.Query{*match}
	}

	searchReq := f.client.Search().
		Index(index).
		Query(&types.Query{Bool: boolQuery}).
		TrackScores(true)

	searchReq = applySort(searchReq, p, opts)
	if opts.Skip > 0 {
		searchReq = searchReq.From(opts.Skip)
	}
	// an unbounded find must return the full candidate set; without an
	// explicit size Elasticsearch caps the response at 10 hits
	size := maxResultWindow
	if opts.Limit > 0 {
		size = opts.Limit
	}
	searchReq = searchReq.Size(size)

	res, err := searchReq.Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch record query failed", "error", err, "index", index)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	return res, nil
}

// filterClauses translates the non-scoring predicate conjuncts. Status
// restriction applies to the working index only; released snapshots
// have no status dimension.
func filterClauses(p query.Predicate, releasedSet bool) []types.Query {
	var filters []types.Query

	if !releasedSet && len(p.WorkingStatuses) > 0 {
		values := make([]types.FieldValue, len(p.WorkingStatuses))
		for i, s := range p.WorkingStatuses {
			values[i] = string(s)
		}
		filters = append(filters, termsQuery("status", values))
	}
	if p.ReleasedOnly {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"download_restricted": {Value: false}},
		})
	}
	if p.ExactAuthor != nil {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"author_id": {Value: p.ExactAuthor.String()}},
		})
	}
	if len(p.OutcomeCuids) > 0 {
		values := make([]types.FieldValue, len(p.OutcomeCuids))
		for i, c := range p.OutcomeCuids {
			values[i] = c
		}
		filters = append(filters, termsQuery("cuid", values))
	}
	if p.Scope != nil {
		filters = append(filters, scopeClause(*p.Scope))
	}
	return filters
}

func scopeClause(scope query.CollectionScope) types.Query {
	var should []types.Query
	if len(scope.Collections) > 0 {
		values := make([]types.FieldValue, len(scope.Collections))
		for i, c := range scope.Collections {
			values[i] = c
		}
		should = append(should, termsQuery("collection", values))
	}
	should = append(should,
		types.Query{Term: map[string]types.TermQuery{"author_id": {Value: scope.OwnerID.String()}}},
		types.Query{Term: map[string]types.TermQuery{"author_username": {Value: scope.OwnerName}}},
	)
	return types.Query{
		Bool: &types.BoolQuery{
			Should:             should,
			MinimumShouldMatch: "1",
		},
	}
}

// matchClause builds the scoring part. Text mode is a disjunction of a
// boosted multi_match with the author candidates; field mode is a
// conjunction of per-field matches.
func matchClause(p query.Predicate) *types.Query {
	if p.Mode == query.ModeText {
		if p.Term == "" && len(p.AuthorIDs) == 0 {
			return nil
		}

		var should []types.Query
		if p.Term != "" {
			should = append(should, types.Query{
				MultiMatch: &types.MultiMatchQuery{
					Query:  p.Term,
					Fields: []string{"name^3", "description", "author_username", "author_name"},
				},
			})
		}
		if len(p.AuthorIDs) > 0 {
			values := make([]types.FieldValue, len(p.AuthorIDs))
			for i, id := range p.AuthorIDs {
				values[i] = id.String()
			}
			should = append(should, termsQuery("author_id", values))
		}

		return &types.Query{
			Bool: &types.BoolQuery{
				Should:             should,
				MinimumShouldMatch: "1",
			},
		}
	}

	var must []types.Query
	if p.Name != "" {
		must = append(must, types.Query{
			Match: map[string]types.MatchQuery{"name": {Query: p.Name}},
		})
	}
	if len(p.Lengths) > 0 {
		values := make([]types.FieldValue, len(p.Lengths))
		for i, l := range p.Lengths {
			values[i] = l
		}
		must = append(must, termsQuery("length", values))
	}
	if len(p.Levels) > 0 {
		values := make([]types.FieldValue, len(p.Levels))
		for i, l := range p.Levels {
			values[i] = l
		}
		must = append(must, termsQuery("levels", values))
	}
	if p.Collection != "" {
		must = append(must, types.Query{
			Term: map[string]types.TermQuery{"collection": {Value: p.Collection}},
		})
	}
	if len(p.AuthorIDs) > 0 {
		values := make([]types.FieldValue, len(p.AuthorIDs))
		for i, id := range p.AuthorIDs {
			values[i] = id.String()
		}
		must = append(must, termsQuery("author_id", values))
	}
	if len(must) == 0 {
		return nil
	}
	return &types.Query{Bool: &types.BoolQuery{Must: must}}
}

func applySort(req *search.Search, p query.Predicate, opts storage.FindOptions) *search.Search {
	if opts.SortBy != "" {
		field, ok := sortFields[opts.SortBy]
		if !ok {
			field = "name.keyword"
		}
		order := sortorder.Asc
		if opts.SortDesc {
			order = sortorder.Desc
		}
		return req.Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{field: {Order: &order}},
		})
	}

	if p.Mode == query.ModeText && p.Term != "" {
		desc := sortorder.Desc
		return req.Sort(
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{"_score": {Order: &desc}},
			},
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{"id": {Order: &desc}},
			},
		)
	}
	return req
}

func termsQuery(field string, values []types.FieldValue) types.Query {
	return types.Query{
		Terms: &types.TermsQuery{
			TermsQuery: map[string]types.TermsQueryField{field: values},
		},
	}
}

func hitScore(hit types.Hit) float64 {
	if hit.Score_ == nil {
		return 0
	}
	return float64(*hit.Score_)
}

var _ storage.RecordFinder = (*Finder)(nil)
