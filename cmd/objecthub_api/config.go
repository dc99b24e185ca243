package main

import (
	"log/slog"
	"os"

	"github.com/lumenlearn/objecthub/internal/storage/factory"
	"github.com/lumenlearn/objecthub/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ObjectHubConfig struct {
	StorageConfig factory.StorageConfig
}

func (as *AppConfig) Load() (*ObjectHubConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/objecthub_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &ObjectHubConfig{
		StorageConfig: *storageCfg,
	}, nil
}
