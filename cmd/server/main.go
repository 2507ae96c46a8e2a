// Package main implements the entry point for the Aria API server,
// a text-to-speech studio backend that queues generation jobs against
// the Gemini speech models and serves the resulting audio.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/ariatts/aria-api/internal/config"
	"github.com/ariatts/aria-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application, and serves until a
// shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
