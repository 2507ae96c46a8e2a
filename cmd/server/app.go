package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariatts/aria-api/internal/config"
	"github.com/ariatts/aria-api/internal/platform/gemini"
	"github.com/ariatts/aria-api/internal/platform/postgres"
	"github.com/ariatts/aria-api/internal/service"
	"github.com/ariatts/aria-api/internal/service/auth"
	"github.com/ariatts/aria-api/internal/task"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService      auth.JWTService
	userService     *service.UserService
	settingsService *service.SettingsService
	jobQueue        *task.JobQueue
}

// newApplication connects the database, applies migrations, and builds
// the service graph: stores, auth, settings with key encryption, the
// speech generator, and the job queue on top of them.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, err
	}

	userStore := postgres.NewUserStore(db)
	settingsStore := postgres.NewSettingsStore(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userService, err := service.NewUserService(
		userStore,
		auth.NewBcryptHasher(0),
		auth.NewBcryptVerifier(),
		jwtService,
		logger,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	keyCipher, err := service.NewKeyCipher(cfg.Speech.KeyEncryptionSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create key cipher: %w", err)
	}

	settingsService, err := service.NewSettingsService(settingsStore, keyCipher, cfg.Speech, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}

	generator, err := gemini.NewSpeechGenerator(logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create speech generator: %w", err)
	}

	jobQueue, err := task.NewJobQueue(generator, settingsService, logger, task.QueueConfig{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create job queue: %w", err)
	}

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		jwtService:      jwtService,
		userService:     userService,
		settingsService: settingsService,
		jobQueue:        jobQueue,
	}, nil
}

// cleanup releases the application's resources in dependency order: the
// queue first so in-flight generations settle, then the database.
func (app *application) cleanup() {
	if app.jobQueue != nil {
		if err := app.jobQueue.Close(); err != nil {
			app.logger.Error("failed to close job queue", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}

// startHTTPServer serves the router with graceful shutdown on SIGINT
// and SIGTERM.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("shutdown signal received")
	case <-serverCtx.Done():
		app.logger.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
