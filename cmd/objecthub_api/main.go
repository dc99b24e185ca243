// Package main ObjectHub API
// @title ObjectHub API
// @version 1.0
// @description A content repository backend for authoring, reviewing, and publishing learning objects
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@lumenlearn.org
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"log/slog"
	"os"

	_ "github.com/lumenlearn/objecthub/docs"
	"github.com/lumenlearn/objecthub/internal/auth"
	"github.com/lumenlearn/objecthub/internal/collections"
	"github.com/lumenlearn/objecthub/internal/library"
	"github.com/lumenlearn/objecthub/internal/router"
	"github.com/lumenlearn/objecthub/internal/server"
	"github.com/lumenlearn/objecthub/internal/storage/factory"
	pkgserver "github.com/lumenlearn/objecthub/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	healthChecker := pkgserver.NewOkHealthChecker()

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/healthz").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "ObjectHub API is running")
	})

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	stores, err := factory.New(s.Context(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create stores", "error", err)
		os.Exit(1)
		return
	}

	s.SetHealthChecker(pkgserver.NewPingHealthChecker(stores.Ping))

	var serviceOpts []library.ServiceOption
	if stores.Finder != nil {
		serviceOpts = append(serviceOpts, library.WithFinder(stores.Finder))
		slog.Info("Search backend enabled", "type", cfg.StorageConfig.Type)
	}
	service := library.NewService(stores.Records, stores.Outcomes, stores.Changelog, serviceOpts...)

	registry, err := collections.LoadFile(sCfg.CollectionRegistryPath)
	if err != nil {
		slog.Error("Failed to load collection registry", "error", err, "path", sCfg.CollectionRegistryPath)
		os.Exit(1)
		return
	}

	verifier := auth.NewTokenVerifier(sCfg.JwtSecret, sCfg.JwtIssuer)
	s.Echo.Use(auth.Middleware(verifier))

	router.NewObjectRouter(s.Echo, service).Bind()
	router.NewCollectionRouter(s.Echo, registry).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		stores.Close()
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
