// Package service holds the inventory operations the CLI and terminal UI call.
// It validates input and enforces the gym reference on equipment, which the
// storage backends do not check.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrGymNotFound       = errors.New("gym not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
)

// InventoryService implements gym and equipment management over a Store.
type InventoryService struct {
	store storage.Store
}

// NewInventoryService creates a new InventoryService with the given storage backend.
func NewInventoryService(store storage.Store) *InventoryService {
	return &InventoryService{store: store}
}

// ListGyms returns every gym.
func (s *InventoryService) ListGyms(ctx context.Context) ([]models.Gym, error) {
	slog.Debug("ListGyms request received")

	gyms, err := s.store.GetGyms(ctx)
	if err != nil {
		slog.Error("ListGyms failed", "error", err)
		return nil, err
	}
	return gyms, nil
}

// GetGym returns the gym with the given ID or ErrGymNotFound.
func (s *InventoryService) GetGym(ctx context.Context, id string) (*models.Gym, error) {
	gyms, err := s.store.GetGyms(ctx)
	if err != nil {
		return nil, err
	}
	for _, gym := range gyms {
		if gym.ID == id {
			return &gym, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGymNotFound, id)
}

// AddGym validates and stores a new gym.
func (s *InventoryService) AddGym(ctx context.Context, input models.GymInput) (*models.Gym, error) {
	slog.Info("AddGym request received", "name", input.Name)

	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: gym name is required", ErrInvalidInput)
	}
	if input.Address == "" {
		return nil, fmt.Errorf("%w: gym address is required", ErrInvalidInput)
	}

	gym, err := s.store.AddGym(ctx, input)
	if err != nil {
		slog.Error("AddGym failed", "error", err)
		return nil, err
	}

	slog.Info("Gym created", "gym_id", gym.ID)
	return gym, nil
}

// UpdateGym applies a partial update. Fields that are set must not be blank.
func (s *InventoryService) UpdateGym(ctx context.Context, id string, update models.GymUpdate) (*models.Gym, error) {
	slog.Info("UpdateGym request received", "gym_id", id)

	if err := requireText("gym name", update.Name); err != nil {
		return nil, err
	}
	if err := requireText("gym address", update.Address); err != nil {
		return nil, err
	}
	trimPtr(update.Notes)

	gym, err := s.store.UpdateGym(ctx, id, update)
	if err != nil {
		slog.Error("UpdateGym failed", "gym_id", id, "error", err)
		return nil, err
	}
	if gym == nil {
		return nil, fmt.Errorf("%w: %s", ErrGymNotFound, id)
	}

	slog.Info("Gym updated", "gym_id", gym.ID)
	return gym, nil
}

// DeleteGym removes a gym and its equipment. Unknown IDs are ignored.
func (s *InventoryService) DeleteGym(ctx context.Context, id string) error {
	slog.Info("DeleteGym request received", "gym_id", id)

	if err := s.store.DeleteGym(ctx, id); err != nil {
		slog.Error("DeleteGym failed", "gym_id", id, "error", err)
		return err
	}

	slog.Info("Gym deleted", "gym_id", id)
	return nil
}

// ListEquipment returns the equipment of one gym, or of all gyms when gymID is empty.
func (s *InventoryService) ListEquipment(ctx context.Context, gymID string) ([]models.Equipment, error) {
	slog.Debug("ListEquipment request received", "gym_id", gymID)

	var (
		equipment []models.Equipment
		err       error
	)
	if gymID == "" {
		equipment, err = s.store.GetEquipment(ctx)
	} else {
		equipment, err = s.store.GetEquipmentByGym(ctx, gymID)
	}
	if err != nil {
		slog.Error("ListEquipment failed", "gym_id", gymID, "error", err)
		return nil, err
	}
	return equipment, nil
}

// AddEquipment validates input, checks that the gym exists and stores the item.
func (s *InventoryService) AddEquipment(ctx context.Context, input models.EquipmentInput) (*models.Equipment, error) {
	slog.Info("AddEquipment request received", "gym_id", input.GymID, "name", input.Name)

	input.Name = strings.TrimSpace(input.Name)
	input.Brand = strings.TrimSpace(input.Brand)
	input.Model = strings.TrimSpace(input.Model)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: equipment name is required", ErrInvalidInput)
	}
	if input.Category == "" {
		input.Category = models.DefaultCategory
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
	}
	if _, err := s.GetGym(ctx, input.GymID); err != nil {
		return nil, err
	}

	item, err := s.store.AddEquipment(ctx, input)
	if err != nil {
		slog.Error("AddEquipment failed", "error", err)
		return nil, err
	}

	slog.Info("Equipment created", "equipment_id", item.ID, "gym_id", item.GymID)
	return item, nil
}

// UpdateEquipment applies a partial update. Moving an item to another gym
// requires that gym to exist.
func (s *InventoryService) UpdateEquipment(ctx context.Context, id string, update models.EquipmentUpdate) (*models.Equipment, error) {
	slog.Info("UpdateEquipment request received", "equipment_id", id)

	if err := requireText("equipment name", update.Name); err != nil {
		return nil, err
	}
	if update.Category != nil && !update.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *update.Category)
	}
	if update.GymID != nil {
		if _, err := s.GetGym(ctx, *update.GymID); err != nil {
			return nil, err
		}
	}
	trimPtr(update.Brand)
	trimPtr(update.Model)
	trimPtr(update.Notes)

	item, err := s.store.UpdateEquipment(ctx, id, update)
	if err != nil {
		slog.Error("UpdateEquipment failed", "equipment_id", id, "error", err)
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
	}

	slog.Info("Equipment updated", "equipment_id", item.ID)
	return item, nil
}

// ToggleAvailability flips the IsAvailable flag of one item.
func (s *InventoryService) ToggleAvailability(ctx context.Context, id string) (*models.Equipment, error) {
	slog.Info("ToggleAvailability request received", "equipment_id", id)

	equipment, err := s.store.GetEquipment(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range equipment {
		if item.ID == id {
			flipped := !item.IsAvailable
			return s.UpdateEquipment(ctx, id, models.EquipmentUpdate{IsAvailable: &flipped})
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
}

// DeleteEquipment removes one item. Unknown IDs are ignored.
func (s *InventoryService) DeleteEquipment(ctx context.Context, id string) error {
	slog.Info("DeleteEquipment request received", "equipment_id", id)

	if err := s.store.DeleteEquipment(ctx, id); err != nil {
		slog.Error("DeleteEquipment failed", "equipment_id", id, "error", err)
		return err
	}
	return nil
}

// ExportMarkdown returns the inventory as Markdown.
func (s *InventoryService) ExportMarkdown(ctx context.Context) (string, error) {
	slog.Info("ExportMarkdown request received")
	return s.store.ExportToMarkdown(ctx)
}

// ExportJSON returns the full dataset as indented JSON.
func (s *InventoryService) ExportJSON(ctx context.Context) (string, error) {
	slog.Info("ExportJSON request received")
	return s.store.ExportToJSON(ctx)
}

func requireText(field string, value *string) error {
	if value == nil {
		return nil
	}
	*value = strings.TrimSpace(*value)
	if *value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, field)
	}
	return nil
}

func trimPtr(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}
