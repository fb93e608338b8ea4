// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bookshelf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables, then apply flags.
//  3. Build the in-memory catalogue and apply the optional seed file.
//  4. Wire HTTP handlers.
//  5. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/library"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

// serveFlags holds the command-line overrides for [config.Config].
type serveFlags struct {
	port  string
	seed  string
	debug bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &serveFlags{}

	command := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Serve the authors and books catalogue over HTTP",
		Version: constants.AppVersion,
		Example: `  # Defaults from the environment
  bookshelf-api

  # Custom port with a seeded catalogue
  bookshelf-api --port 9090 --seed ./catalogue.yaml --debug`,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, _ []string) error {
			run(command, flags)
			return nil
		},
	}

	command.Flags().StringVarP(&flags.port, "port", "p", "", "HTTP listen port (overrides SERVER_PORT)")
	command.Flags().StringVar(&flags.seed, "seed", "", "YAML catalogue loaded at startup (overrides SEED_PATH)")
	command.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging (overrides DEBUG)")

	return command
}

func run(command *cobra.Command, flags *serveFlags) {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("[Bookshelf] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if command.Flags().Changed("port") {
		cfg.ServerPort = flags.port
	}
	if command.Flags().Changed("seed") {
		cfg.SeedPath = flags.seed
	}
	if command.Flags().Changed("debug") {
		cfg.Debug = flags.debug
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("seed", cfg.SeedPath),
	)

	// Root context for background work owned by the server.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. Catalogue ──────────────────────────────────────────────────────
	service := library.NewService(library.NewMemoryRepository(), log)

	if cfg.SeedPath != "" {
		must(log, library.LoadSeedFile(rootCtx, service, cfg.SeedPath), "apply seed catalogue")
	}

	// ── 4. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Catalogue: func() (int, int) {
			return service.Counts(context.Background())
		},
	}, log)

	// ── 5. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Library:   library.NewHandler(service),
	}

	server := api.NewServer(rootCtx, cfg, log, handlers)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger tagged with the application name and
// installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.LogAppTag))

	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
