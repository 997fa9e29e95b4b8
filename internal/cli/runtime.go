package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mmynk/gymlog/internal/app"
	"github.com/mmynk/gymlog/internal/config"
	"github.com/mmynk/gymlog/internal/service"
	"github.com/mmynk/gymlog/pkg/logging"
)

// loadConfig reads the configuration and installs the logger it describes.
// When quiet is set and no log file is configured, logs are discarded so they
// do not draw over the terminal UI.
func loadConfig(deps commandDeps, quiet bool) (config.Config, io.Closer, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: strings.TrimSpace(deps.globals.ConfigPath)})
	if err != nil {
		return config.Config{}, nil, mapCommandError(fmt.Errorf("load config: %w", err))
	}

	if quiet && cfg.Logging.File == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return cfg, io.NopCloser(nil), nil
	}

	closer, err := logging.Configure(logging.Options{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		return config.Config{}, nil, mapCommandError(fmt.Errorf("configure logging: %w", err))
	}
	return cfg, closer, nil
}

// withInventory opens the configured backend for the duration of fn.
func withInventory(ctx context.Context, deps commandDeps, quiet bool, fn func(context.Context, *service.InventoryService) error) error {
	cfg, closer, err := loadConfig(deps, quiet)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := app.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return mapCommandError(err)
	}
	defer store.Close()

	return mapCommandError(fn(ctx, service.NewInventoryService(store)))
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
