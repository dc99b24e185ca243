package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/lumenlearn/objecthub/internal/domain"
)

// Indexer mirrors record writes into the working and released indices.
// The Finder reads what the Indexer writes; the Postgres store stays
// the source of truth.
type Indexer struct {
	client        *elasticsearch.TypedClient
	workingIndex  string
	releasedIndex string
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexer := &Indexer{
		client:        client,
		workingIndex:  config.WorkingIndex,
		releasedIndex: config.ReleasedIndex,
	}

	if err := indexer.EnsureIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indices exist: %w", err)
	}

	return indexer, nil
}

func (e *Indexer) IndexWorking(ctx context.Context, rec domain.WorkingRecord) error {
	return e.index(ctx, e.workingIndex, fromWorking(rec))
}

func (e *Indexer) IndexReleased(ctx context.Context, rec domain.ReleasedRecord) error {
	return e.index(ctx, e.releasedIndex, fromReleased(rec))
}

func (e *Indexer) index(ctx context.Context, index string, doc objectDocument) error {
	res, err := e.client.Index(index).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	slog.Info("document indexed successfully", "id", doc.ID, "index", index, "result", res.Result)
	return nil
}

func (e *Indexer) DeleteWorking(ctx context.Context, id string) error {
	if _, err := e.client.Delete(e.workingIndex, id).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// BulkIndexWorking indexes a batch of working records. Index errors on
// individual documents are logged and counted rather than aborting the
// batch.
func (e *Indexer) BulkIndexWorking(ctx context.Context, records []domain.WorkingRecord) error {
	if len(records) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.workingIndex,
		Client:        e.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed int64

	for _, rec := range records {
		doc := fromWorking(rec)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			failed++
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: doc.ID,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful++
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed++
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed++
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful,
		"failed", failed,
		"total", len(records),
		"index", e.workingIndex)

	if failed > 0 {
		return fmt.Errorf("failed to index %d out of %d records", failed, len(records))
	}

	return nil
}

func (e *Indexer) EnsureIndices(ctx context.Context) error {
	if err := e.ensureIndex(ctx, e.workingIndex); err != nil {
		return err
	}
	return e.ensureIndex(ctx, e.releasedIndex)
}

func (e *Indexer) ensureIndex(ctx context.Context, index string) error {
	existsRes, err := e.client.Indices.Exists(index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", index)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":                  types.NewKeywordProperty(),
			"cuid":                types.NewKeywordProperty(),
			"author_id":           types.NewKeywordProperty(),
			"author_username":     textPropertyWithKeyword(),
			"author_name":         textPropertyWithKeyword(),
			"name":                textPropertyWithKeyword(),
			"description":         types.NewTextProperty(),
			"status":              types.NewKeywordProperty(),
			"collection":          types.NewKeywordProperty(),
			"length":              types.NewKeywordProperty(),
			"levels":              types.NewKeywordProperty(),
			"download_restricted": types.NewBooleanProperty(),
			"created_at":          types.NewDateProperty(),
			"released_at":         types.NewDateProperty(),
			"updated_at":          types.NewDateProperty(),
		},
	}

	createRes, err := e.client.Indices.Create(index).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", index)
	return nil
}

func textPropertyWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}

func fromWorking(rec domain.WorkingRecord) objectDocument {
	return objectDocument{
		ID:                 rec.ID.String(),
		Cuid:               rec.Cuid,
		AuthorID:           rec.Author.ID.String(),
		AuthorUsername:     rec.Author.Username,
		AuthorName:         rec.Author.Name,
		Name:               rec.Name,
		Description:        rec.Description,
		Status:             string(rec.Status),
		Collection:         rec.Collection,
		Length:             rec.Length,
		Levels:             rec.Levels,
		Materials:          rec.Materials,
		DownloadRestricted: rec.DownloadRestricted,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func fromReleased(rec domain.ReleasedRecord) objectDocument {
	return objectDocument{
		ID:                 rec.ID.String(),
		Cuid:               rec.Cuid,
		AuthorID:           rec.Author.ID.String(),
		AuthorUsername:     rec.Author.Username,
		AuthorName:         rec.Author.Name,
		Name:               rec.Name,
		Description:        rec.Description,
		Collection:         rec.Collection,
		Length:             rec.Length,
		Levels:             rec.Levels,
		Materials:          rec.Materials,
		DownloadRestricted: rec.DownloadRestricted,
		ReleasedAt:         rec.ReleasedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}
