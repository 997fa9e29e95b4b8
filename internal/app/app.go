// Package app wires configuration to concrete components.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/gymlog/internal/auth"
	"github.com/mmynk/gymlog/internal/config"
	"github.com/mmynk/gymlog/internal/storage"
	"github.com/mmynk/gymlog/internal/storage/local"
	"github.com/mmynk/gymlog/internal/storage/remote"
)

// OpenStore builds the backend selected by cfg.Mode. It is the only place
// that branches on the storage mode. Backends that need initialization are
// initialized before being returned.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	var store storage.Store
	switch cfg.Mode {
	case config.ModeLocal:
		s, err := OpenLocal(cfg)
		if err != nil {
			return nil, err
		}
		store = s
	case config.ModeFile:
		store = OpenRemote(cfg)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}

	if initializer, ok := store.(storage.Initializer); ok {
		if err := initializer.Init(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Mode, err)
		}
	}

	slog.Info("Storage initialized", "mode", cfg.Mode)
	return store, nil
}

// OpenLocal opens the on-device backend regardless of the configured mode.
func OpenLocal(cfg config.StorageConfig) (*local.Store, error) {
	store, err := local.New(cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage at %s: %w", cfg.LocalPath, err)
	}
	return store, nil
}

// OpenRemote returns the file service backend regardless of the configured mode.
func OpenRemote(cfg config.StorageConfig) *remote.Store {
	return remote.New(remote.NewClient(
		cfg.FileServiceURL,
		remote.WithTimeout(cfg.Timeout),
		remote.WithTokenManager(auth.NewTokenManager(cfg.AuthSecret, auth.DefaultTokenTTL)),
	))
}
