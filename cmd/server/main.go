package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/toybattle/internal/catalog"
	"github.com/nfrund/toybattle/internal/config"
	"github.com/nfrund/toybattle/internal/database"
	"github.com/nfrund/toybattle/internal/domain"
	"github.com/nfrund/toybattle/internal/logging"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/nfrund/toybattle/internal/server"
	"github.com/nfrund/toybattle/internal/storage"
	"github.com/spf13/afero"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fs := afero.NewOsFs()
	cat, err := catalog.Load(fs, cfg.CatalogPath)
	if err != nil {
		logger.Error("Failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	if cfg.CatalogWatch {
		if err := cat.Watch(ctx); err != nil {
			logger.Warn("Catalog hot reload disabled", "error", err)
		}
	}

	deps := server.Deps{
		Config:  cfg,
		Catalog: cat,
		Bus:     pubsub.NewWatermillBridge(logging.Debug()),
		Fs:      fs,
		Logger:  logger,
	}
	store, cleanup, err := openStore(ctx, cfg, fs)
	if err != nil {
		logger.Error("Failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	deps.Store = store
	if cleanup != nil {
		deps.Cleanup = append(deps.Cleanup, cleanup)
	}

	s := server.New(deps)
	s.Start(cfg.HTTPAddr)
}

// openStore connects to SurrealDB when it is configured and falls back to
// JSON files under SNAPSHOT_DIR otherwise.
func openStore(ctx context.Context, cfg *config.Config, fs afero.Fs) (domain.RosterRepository, func(context.Context) error, error) {
	if !cfg.UseSurreal() {
		slog.Info("Using file snapshot store", "dir", cfg.SnapshotDir)
		return storage.NewRosterStore(storage.NewAferoStore(fs), cfg.SnapshotDir), nil, nil
	}

	conn := database.NewConnection(database.Settings{
		URL:       cfg.DBUrl,
		Namespace: cfg.DBNs,
		Database:  cfg.DBDb,
		User:      cfg.DBUser,
		Pass:      cfg.DBPass,
	})
	if err := conn.Connect(ctx); err != nil {
		return nil, nil, err
	}
	conn.StartMonitoring()
	return database.NewRosterRepository(conn), conn.Close, nil
}
