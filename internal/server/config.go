package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lumenlearn/objecthub/pkg/config/env"
	"github.com/lumenlearn/objecthub/pkg/utils"
)

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string

	// JwtSecret and JwtIssuer configure bearer token verification.
	JwtSecret string
	JwtIssuer string

	// CollectionRegistryPath points at the collection registry YAML.
	CollectionRegistryPath string
}

func LoadConfig() (*Config, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/objecthub_api/.env")
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	useHttp2Str := os.Getenv("USE_HTTP2")
	useHttp2 := useHttp2Str == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	var origins []string
	corsOriginsEnv := os.Getenv("CORS_ORIGINS")
	if corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = utils.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	if len(secret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters")
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "objecthub"
	}

	registryPath := os.Getenv("COLLECTION_REGISTRY_PATH")
	if registryPath == "" {
		registryPath = "config/collections.yaml"
	}

	return &Config{
		Port:                   port,
		UseHttp2:               useHttp2,
		CorsOrigins:            origins,
		JwtSecret:              secret,
		JwtIssuer:              issuer,
		CollectionRegistryPath: registryPath,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
