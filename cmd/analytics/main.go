package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xaenox/chatlog-analytics/internal/api"
	"github.com/xaenox/chatlog-analytics/internal/app"
	"github.com/xaenox/chatlog-analytics/internal/metrics"
	"github.com/xaenox/chatlog-analytics/pkg/config"
	"go.uber.org/zap"
)

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	path := configPath()
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", path))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize event store", zap.Error(err))
	}
	defer store.Close()

	m := metrics.New()
	c := app.Build(cfg, store, m, logger)

	router := api.NewRouter(c.Assembler, c.Transcripts, store, m, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DefaultDays:    cfg.Analytics.DefaultDays,
		QuestionsLimit: cfg.Analytics.QuestionsLimit,
	}, logger.Named("http"))

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting analytics server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down analytics server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
