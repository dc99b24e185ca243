package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/storage"
)

const defaultBatchSize = 1000

// Pipeline defines the common interface for data ingestion pipelines
type Pipeline interface {
	// Run executes the pipeline with the given context
	Run(ctx context.Context) error

	// Stop gracefully stops the pipeline
	Stop()
}

// BulkIndexer mirrors imported records into a search index in batches.
type BulkIndexer interface {
	BulkIndexWorking(ctx context.Context, records []domain.WorkingRecord) error
}

type PipelineBulkOptions struct {
	Size int
}

type ImportPipeline struct {
	collector Collector[domain.WorkingRecord]
	store     storage.RecordStore
	indexer   BulkIndexer
	bulk      *PipelineBulkOptions
}

type ImportPipelineOption func(pipeline *ImportPipeline)

func WithBulk(size int) ImportPipelineOption {
	return func(pipeline *ImportPipeline) {
		pipeline.bulk = &PipelineBulkOptions{Size: size}
	}
}

// WithIndexer mirrors every imported batch into the search index after
// the primary store write.
func WithIndexer(indexer BulkIndexer) ImportPipelineOption {
	return func(pipeline *ImportPipeline) {
		pipeline.indexer = indexer
	}
}

func NewImportPipeline(c Collector[domain.WorkingRecord], store storage.RecordStore, opts ...ImportPipelineOption) *ImportPipeline {
	p := &ImportPipeline{
		collector: c,
		store:     store,
		bulk:      &PipelineBulkOptions{Size: defaultBatchSize},
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *ImportPipeline) Run(ctx context.Context) error {
	start := time.Now()

	results, err := p.collector.Collect(ctx)
	if err != nil {
		return err
	}

	var batch []domain.WorkingRecord
	var imported, failed int

	flush := func() {
		if p.indexer == nil || len(batch) == 0 {
			return
		}
		if err := p.indexer.BulkIndexWorking(ctx, batch); err != nil {
			slog.Error("Error indexing record batch", "error", err, "count", len(batch))
		}
		batch = batch[:0]
	}

loop:
	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection")
			flush()
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				break loop
			}
			if res.Err != nil {
				slog.Error("Error collecting record", "error", res.Err)
				failed++
				continue
			}

			if err := p.store.CreateWorking(ctx, res.Result); err != nil {
				slog.Error("Error saving record", "error", err, "cuid", res.Result.Cuid)
				failed++
				continue
			}
			imported++

			if p.indexer != nil {
				batch = append(batch, res.Result)
				if len(batch) >= p.bulk.Size {
					flush()
				}
			}
		}
	}

	flush()

	slog.Info("Import completed",
		"imported", imported,
		"failed", failed,
		"duration", time.Since(start))
	return nil
}

func (p *ImportPipeline) Stop() {
	slog.Info("Stopping pipeline...")
}
