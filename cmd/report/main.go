package main

import (
	"context"
	"os"
	"time"

	"github.com/xaenox/chatlog-analytics/internal/app"
	"github.com/xaenox/chatlog-analytics/internal/report"
	"github.com/xaenox/chatlog-analytics/pkg/config"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", path))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize event store", zap.Error(err))
	}
	defer store.Close()

	c := app.Build(cfg, store, nil, logger)

	var narrator report.Narrator
	if cfg.OpenAI.APIKey != "" {
		narrator = report.NewGPTNarrator(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger.Named("narrator"),
		)
	}

	var notifier report.Notifier = report.NewLogNotifier(logger)
	if cfg.Report.TelegramToken != "" && cfg.Report.ChatID != 0 {
		tg, err := report.NewTelegramNotifier(cfg.Report.TelegramToken, cfg.Report.ChatID, logger.Named("telegram"))
		if err != nil {
			logger.Fatal("Failed to create Telegram notifier", zap.Error(err))
		}
		notifier = tg
	}

	g := report.NewGenerator(c.Assembler, narrator, notifier, logger)
	if _, err := g.Run(ctx, time.Now(), cfg.Report.Days); err != nil {
		logger.Fatal("Daily report failed", zap.Error(err))
	}
}
