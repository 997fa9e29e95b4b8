// Package local provides the on-device storage.Store backend: a small
// key-value table in a SQLite file that holds each collection as one
// JSON-encoded list under a fixed key, the way the browser build kept them in
// localStorage.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage"
)

// Fixed keys, shared with data exported from the browser build.
const (
	GymsKey      = "gym-app-gyms"
	EquipmentKey = "gym-app-equipment"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a local key-value table.
type Store struct {
	*storage.Collections
	db *sql.DB
}

// New opens (or creates) the key-value database at dbPath.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Store{db: db}
	s.Collections = storage.NewCollections("local", s)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetItem returns the raw value stored under key and whether it exists.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem overwrites the value stored under key.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO local_storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set item %s: %w", key, err)
	}
	return nil
}

// LoadGyms implements storage.Persister.
func (s *Store) LoadGyms(ctx context.Context) ([]models.Gym, error) {
	var gyms []models.Gym
	if err := s.load(ctx, GymsKey, &gyms); err != nil {
		return nil, err
	}
	return gyms, nil
}

// StoreGyms implements storage.Persister.
func (s *Store) StoreGyms(ctx context.Context, gyms []models.Gym) error {
	return s.save(ctx, GymsKey, gyms)
}

// LoadEquipment implements storage.Persister.
func (s *Store) LoadEquipment(ctx context.Context) ([]models.Equipment, error) {
	var equipment []models.Equipment
	if err := s.load(ctx, EquipmentKey, &equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

// StoreEquipment implements storage.Persister.
func (s *Store) StoreEquipment(ctx context.Context, equipment []models.Equipment) error {
	return s.save(ctx, EquipmentKey, equipment)
}

// load decodes the list under key into v. A missing key leaves v untouched.
func (s *Store) load(ctx context.Context, key string, v any) error {
	raw, ok, err := s.GetItem(ctx, key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.SetItem(ctx, key, string(data))
}
