package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lumenlearn/objecthub/internal/storage"
	"github.com/lumenlearn/objecthub/internal/storage/es"
	"github.com/lumenlearn/objecthub/internal/storage/pg"
)

// StorageConfig selects the primary store and, optionally, an
// Elasticsearch search backend layered over it. The es type always
// needs a Postgres primary underneath it, since writes and lookups
// never go through the index.
type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if storageType != storage.ES && storageType != storage.PG && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.ES, storage.PG, storage.InMem})
	}

	var esCfg *es.ClientConfig
	if storageType == storage.ES {
		esCfg = &es.ClientConfig{
			Addresses:     strings.Split(os.Getenv("ES_ADDRESSES"), ","),
			WorkingIndex:  os.Getenv("ES_WORKING_INDEX"),
			ReleasedIndex: os.Getenv("ES_RELEASED_INDEX"),
			Username:      os.Getenv("ES_USERNAME"),
			Password:      os.Getenv("ES_PASSWORD"),
		}
		if len(esCfg.Addresses) == 0 || esCfg.WorkingIndex == "" || esCfg.ReleasedIndex == "" {
			slog.Error("Elasticsearch configuration is incomplete",
				"addresses", esCfg.Addresses,
				"workingIndex", esCfg.WorkingIndex,
				"releasedIndex", esCfg.ReleasedIndex)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index names are missing")
		}
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG || storageType == storage.ES {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		if raw := os.Getenv("PG_MAX_CONNS"); raw != "" {
			maxConns, err := strconv.ParseInt(raw, 10, 32)
			if err != nil || maxConns <= 0 {
				slog.Error("Invalid PG_MAX_CONNS environment variable value", "value", raw)
				return nil, fmt.Errorf("invalid PG_MAX_CONNS environment variable value: %s", raw)
			}
			pgCfg.MaxConns = int32(maxConns)
		}
	}

	return &StorageConfig{
		Type: storageType,
		Pg:   pgCfg,
		Es:   esCfg,
	}, nil
}
