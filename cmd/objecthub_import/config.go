package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/lumenlearn/objecthub/internal/storage/factory"
	"github.com/lumenlearn/objecthub/pkg/config/env"
)

const defaultBulkSize = 1000

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ImportConfig struct {
	StorageConfig factory.StorageConfig
	DatasetPath   string
	BulkSize      int
}

func (as *AppConfig) Load() (*ImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/objecthub_import/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		return nil, fmt.Errorf("DATASET_PATH environment variable is not set")
	}

	bulkSize := defaultBulkSize
	if raw := os.Getenv("BULK_SIZE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid BULK_SIZE environment variable value: %s", raw)
		}
		bulkSize = parsed
	}

	return &ImportConfig{
		StorageConfig: *storageCfg,
		DatasetPath:   datasetPath,
		BulkSize:      bulkSize,
	}, nil
}
