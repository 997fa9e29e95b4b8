package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage"
)

// File names used on the service side.
const (
	GymsFile      = "gyms.json"
	EquipmentFile = "equipment.json"
)

// Ensure Store implements storage.Store and storage.Initializer
var (
	_ storage.Store       = (*Store)(nil)
	_ storage.Initializer = (*Store)(nil)
)

// Store implements storage.Store through a Client.
type Store struct {
	*storage.Collections
	client *Client
}

// New returns a Store backed by client.
func New(client *Client) *Store {
	s := &Store{client: client}
	s.Collections = storage.NewCollections("file", s)
	return s
}

// Init makes sure the service's data directory exists.
func (s *Store) Init(ctx context.Context) error {
	if err := s.client.EnsureDir(ctx); err != nil {
		return err
	}
	slog.Info("File storage initialized")
	return nil
}

// Close is a no-op; the HTTP client holds no per-store resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) LoadGyms(ctx context.Context) ([]models.Gym, error) {
	var gyms []models.Gym
	if err := s.load(ctx, GymsFile, &gyms); err != nil {
		return nil, err
	}
	return gyms, nil
}

func (s *Store) StoreGyms(ctx context.Context, gyms []models.Gym) error {
	return s.client.WriteFile(ctx, GymsFile, gyms)
}

func (s *Store) LoadEquipment(ctx context.Context) ([]models.Equipment, error) {
	var equipment []models.Equipment
	if err := s.load(ctx, EquipmentFile, &equipment); err != nil {
		return nil, err
	}
	return equipment, nil
}

func (s *Store) StoreEquipment(ctx context.Context, equipment []models.Equipment) error {
	return s.client.WriteFile(ctx, EquipmentFile, equipment)
}

// load treats a missing file as an empty collection.
func (s *Store) load(ctx context.Context, name string, v any) error {
	data, err := s.client.ReadFile(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
