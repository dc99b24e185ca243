package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumenlearn/objecthub/internal/ingest"
	"github.com/lumenlearn/objecthub/internal/storage"
	"github.com/lumenlearn/objecthub/internal/storage/es"
	"github.com/lumenlearn/objecthub/internal/storage/factory"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataFile, err := os.Open(cfg.DatasetPath)
	if err != nil {
		slog.Error("failed to open dataset file", "error", err, "path", cfg.DatasetPath)
		os.Exit(1)
	}
	defer dataFile.Close()

	stores, err := factory.New(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create stores", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	collector := ingest.NewRecordCollector(
		ingest.NewCSVReader(dataFile),
		ingest.NewRecordMapper(),
	)

	pipeline, err := newPipeline(ctx, cfg, collector, stores)
	if err != nil {
		slog.Error("failed to create pipeline", "error", err)
		os.Exit(1)
	}

	if err := pipeline.Run(ctx); err != nil {
		slog.Error("failed to run pipeline", "error", err)
		os.Exit(1)
	}
}

func newPipeline(
	ctx context.Context,
	cfg *ImportConfig,
	collector *ingest.RecordCollector,
	stores *factory.Stores,
) (ingest.Pipeline, error) {
	slog.Info("Creating pipeline", "storageType", cfg.StorageConfig.Type)

	opts := []ingest.ImportPipelineOption{ingest.WithBulk(cfg.BulkSize)}

	if cfg.StorageConfig.Type == storage.ES {
		indexer, err := es.NewIndexer(ctx, *cfg.StorageConfig.Es)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingest.WithIndexer(indexer))
	}

	return ingest.NewImportPipeline(collector, stores.Records, opts...), nil
}
