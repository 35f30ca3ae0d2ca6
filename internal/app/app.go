// Package app builds the shared components of the binaries from config.
package app

import (
	"context"
	"fmt"

	"github.com/xaenox/chatlog-analytics/internal/analytics"
	"github.com/xaenox/chatlog-analytics/internal/metrics"
	"github.com/xaenox/chatlog-analytics/internal/storage"
	"github.com/xaenox/chatlog-analytics/internal/transcript"
	"github.com/xaenox/chatlog-analytics/pkg/config"
	"go.uber.org/zap"
)

// Components is everything a binary needs to serve analytics.
type Components struct {
	Store       storage.EventStore
	Assembler   *analytics.Assembler
	Transcripts *transcript.Service
	Metrics     *metrics.Metrics
}

// OpenStore returns the configured event store, seeded from
// database.seed_file when one is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.EventStore, error) {
	var (
		store  storage.EventStore
		seeder storage.Seeder
	)

	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory event store")
		mem := storage.NewMemoryStorage()
		store, seeder = mem, mem
	} else {
		logger.Info("Using PostgreSQL event store")
		pg, err := storage.NewPostgresStorage(ctx, storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			return nil, err
		}
		store, seeder = pg, pg
	}

	if path := cfg.Database.SeedFile; path != "" {
		n, err := storage.SeedFromFile(ctx, seeder, path)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed event store: %w", err)
		}
		logger.Info("Seeded event store", zap.String("path", path), zap.Int("events", n))
	}

	return store, nil
}

// Build wires the analytics and transcript services over store.
func Build(cfg *config.Config, store storage.EventStore, m *metrics.Metrics, logger *zap.Logger) *Components {
	sources := cfg.Lexicon.SourceLexicon()
	engine := analytics.NewEngine(
		cfg.Lexicon.ThemeLexicon(),
		sources,
		analytics.Options{
			RecentLimit:          cfg.Analytics.RecentLimit,
			TopThemesLimit:       cfg.Analytics.TopThemesLimit,
			UnmatchedSampleLimit: cfg.Analytics.UnmatchedSampleLimit,
		},
		logger.Named("engine"),
	)

	return &Components{
		Store:       store,
		Assembler:   analytics.NewAssembler(store, engine, cfg.Analytics.ForceID, m, logger.Named("assembler")),
		Transcripts: transcript.NewService(store, transcript.NewReconstructor(sources), logger.Named("transcript")),
		Metrics:     m,
	}
}
