// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/gymlog/internal/models"
)

// Store defines the interface for gym and equipment storage operations.
// This abstraction allows swapping storage backends (local key-value store,
// remote file service) without changing the service or presentation layers.
// The backend is chosen once at startup.
type Store interface {
	// GetGyms returns every gym. A missing collection yields an empty slice.
	GetGyms(ctx context.Context) ([]models.Gym, error)

	// AddGym persists a new gym with a generated ID.
	// CreatedAt and UpdatedAt are set to the same instant.
	AddGym(ctx context.Context, input models.GymInput) (*models.Gym, error)

	// UpdateGym applies a partial update and refreshes UpdatedAt.
	// Returns nil and no error if no gym has that ID.
	UpdateGym(ctx context.Context, id string, update models.GymUpdate) (*models.Gym, error)

	// DeleteGym removes the gym and every piece of equipment referencing it.
	// Deleting an unknown ID is not an error.
	DeleteGym(ctx context.Context, id string) error

	// GetEquipment returns all equipment across gyms.
	GetEquipment(ctx context.Context) ([]models.Equipment, error)

	// GetEquipmentByGym returns the equipment whose GymID equals gymID.
	GetEquipmentByGym(ctx context.Context, gymID string) ([]models.Equipment, error)

	// AddEquipment persists new equipment. The gym reference is not checked here.
	AddEquipment(ctx context.Context, input models.EquipmentInput) (*models.Equipment, error)

	// UpdateEquipment applies a partial update and refreshes UpdatedAt.
	// Returns nil and no error if no equipment has that ID.
	UpdateEquipment(ctx context.Context, id string, update models.EquipmentUpdate) (*models.Equipment, error)

	// DeleteEquipment removes a single item. Unknown IDs are ignored.
	DeleteEquipment(ctx context.Context, id string) error

	// SaveGyms and SaveEquipment overwrite a whole collection.
	// Used when migrating data between backends.
	SaveGyms(ctx context.Context, gyms []models.Gym) error
	SaveEquipment(ctx context.Context, equipment []models.Equipment) error

	// ExportData snapshots both collections.
	ExportData(ctx context.Context) (models.WorkoutExport, error)

	// ExportToJSON returns the snapshot as indented JSON.
	ExportToJSON(ctx context.Context) (string, error)

	// ExportToMarkdown returns the snapshot as a Markdown inventory.
	ExportToMarkdown(ctx context.Context) (string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Initializer is implemented by backends that need a setup step before first
// use. Callers feature-detect it with a type assertion.
type Initializer interface {
	Init(ctx context.Context) error
}

// Persister loads and saves whole collections. Backends implement it and get
// the Store semantics from Collections.
type Persister interface {
	LoadGyms(ctx context.Context) ([]models.Gym, error)
	StoreGyms(ctx context.Context, gyms []models.Gym) error
	LoadEquipment(ctx context.Context) ([]models.Equipment, error)
	StoreEquipment(ctx context.Context, equipment []models.Equipment) error
}
