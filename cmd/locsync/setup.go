package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/db"
	"github.com/gyeh/locsync/internal/exitcode"
	"github.com/gyeh/locsync/internal/logging"
	"github.com/gyeh/locsync/internal/source"
	"github.com/gyeh/locsync/internal/transfer"
)

// loadConfig reads env and config files and returns a logger built from them.
// It exits the process on any configuration error.
func loadConfig() zerolog.Logger {
	boot := logging.Setup(orDefault(cfg.LogFormat, "text"), cfg.LogLevel)

	if err := config.LoadEnv(cfg.EnvFile); err != nil {
		boot.Error().Err(err).Msg("env file load failed")
		os.Exit(exitcode.ConfigError)
	}
	if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
		boot.Error().Err(err).Str("config", cfg.ConfigPath).Msg("config load failed")
		os.Exit(exitcode.ConfigError)
	}

	log := logging.Setup(orDefault(cfg.LogFormat, "text"), cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.ConfigError)
	}
	return log
}

// openSource connects the shared document-store client.
func openSource(ctx context.Context, log zerolog.Logger) *source.MongoStore {
	store, err := source.NewMongoStore(ctx, cfg.Source.URI, cfg.Source.Database)
	if err != nil {
		log.Error().Err(err).Msg("document store connection failed")
		os.Exit(exitcode.SourceConnError)
	}
	log.Info().Str("database", cfg.Source.Database).Msg("document store connected")
	return store
}

// closeSource disconnects the shared client, bounded so shutdown cannot hang.
func closeSource(store *source.MongoStore, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("document store disconnect failed")
	}
}

func newOrchestrator(store source.Store, log zerolog.Logger) *transfer.Orchestrator {
	return transfer.New(cfg.Units, store, db.NewLocationWriter(log, cfg.LoadMode), log, transfer.Options{
		PurgeBatchSize: cfg.PurgeBatchSize,
		SnapshotDir:    cfg.SnapshotDir,
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
