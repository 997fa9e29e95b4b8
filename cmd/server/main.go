// Command server runs the gymlog file service: a small HTTP API that stores
// the gym and equipment collections as JSON files in one data directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/gymlog/internal/auth"
	"github.com/mmynk/gymlog/internal/config"
	"github.com/mmynk/gymlog/internal/fileservice"
	"github.com/mmynk/gymlog/internal/middleware"
	"github.com/mmynk/gymlog/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(config.LoadOptions{ConfigPath: *configPath})
	if err != nil {
		// Logging is not configured yet.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	closer, err := logging.Configure(logging.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	dataDir, err := filepath.Abs(cfg.Server.DataDir)
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}

	files := fileservice.New(dataDir)
	if err := files.EnsureDir(); err != nil {
		return err
	}
	slog.Info("Serving data files", "path", dataDir)

	tokens := auth.NewTokenManager(cfg.Server.AuthSecret, auth.DefaultTokenTTL)
	if tokens != nil {
		slog.Info("Bearer token auth enabled for /api")
	}

	// Add logging, CORS and auth middleware
	handler := middleware.Logging(middleware.CORS(middleware.RequireToken(tokens, files.Routes())))

	// Wrap with h2c so HTTP/2 clients work without TLS
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("File storage API starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
