// cmd/ai/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ai4local/ai4local/internal/ai"
	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/httpserver"
	"github.com/ai4local/ai4local/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	model, err := ai.NewGeminiModel(context.Background(), ai.GeminiConfig{
		APIKey:         cfg.AI.GeminiAPIKey,
		TextModel:      cfg.AI.TextModel,
		EmbeddingModel: cfg.AI.EmbeddingModel,
	})
	if err != nil {
		return err
	}

	srv := httpserver.New(":"+cfg.AI.Port, ai.NewRouter(ai.NewService(model), logger), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	logger.Info("AI service starting", "port", cfg.AI.Port, "model", cfg.AI.TextModel)
	return httpserver.Run(srv, logger)
}
