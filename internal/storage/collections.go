package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/gymlog/internal/export"
	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/observability"
)

// Collections implements every Store operation on top of a Persister.
// Each mutation loads the full collection, changes it in memory and writes the
// full collection back. There is no locking: two concurrent writers through
// the same or different instances race and the last write wins.
type Collections struct {
	backend   string
	persister Persister

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewCollections wraps p. backend labels the storage metrics.
func NewCollections(backend string, p Persister) *Collections {
	return &Collections{
		backend:   backend,
		persister: p,
		Now:       Now,
		NewID:     uuid.NewString,
	}
}

// Now returns the current time in UTC at millisecond precision, matching the
// precision of the persisted ISO-8601 timestamps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// nextUpdate returns a timestamp strictly after prev.
func (c *Collections) nextUpdate(prev time.Time) time.Time {
	now := c.Now()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

func (c *Collections) record(op string, err error) error {
	observability.RecordStorageOperation(c.backend, op, err)
	return err
}

// GetGyms implements Store.
func (c *Collections) GetGyms(ctx context.Context) ([]models.Gym, error) {
	gyms, err := c.persister.LoadGyms(ctx)
	if err != nil {
		return nil, c.record("get_gyms", fmt.Errorf("failed to load gyms: %w", err))
	}
	c.record("get_gyms", nil)
	return nonNil(gyms), nil
}

// AddGym implements Store.
func (c *Collections) AddGym(ctx context.Context, input models.GymInput) (*models.Gym, error) {
	gyms, err := c.persister.LoadGyms(ctx)
	if err != nil {
		return nil, c.record("add_gym", fmt.Errorf("failed to load gyms: %w", err))
	}

	now := c.Now()
	gym := models.Gym{
		ID:        c.NewID(),
		Name:      input.Name,
		Address:   input.Address,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.persister.StoreGyms(ctx, append(gyms, gym)); err != nil {
		return nil, c.record("add_gym", fmt.Errorf("failed to save gyms: %w", err))
	}
	c.record("add_gym", nil)
	return &gym, nil
}

// UpdateGym implements Store.
func (c *Collections) UpdateGym(ctx context.Context, id string, update models.GymUpdate) (*models.Gym, error) {
	gyms, err := c.persister.LoadGyms(ctx)
	if err != nil {
		return nil, c.record("update_gym", fmt.Errorf("failed to load gyms: %w", err))
	}

	i := slices.IndexFunc(gyms, func(g models.Gym) bool { return g.ID == id })
	if i < 0 {
		c.record("update_gym", nil)
		return nil, nil
	}

	update.Apply(&gyms[i])
	gyms[i].UpdatedAt = c.nextUpdate(gyms[i].UpdatedAt)

	if err := c.persister.StoreGyms(ctx, gyms); err != nil {
		return nil, c.record("update_gym", fmt.Errorf("failed to save gyms: %w", err))
	}
	c.record("update_gym", nil)
	updated := gyms[i]
	return &updated, nil
}

// DeleteGym implements Store. The gym's equipment is removed with it.
func (c *Collections) DeleteGym(ctx context.Context, id string) error {
	gyms, err := c.persister.LoadGyms(ctx)
	if err != nil {
		return c.record("delete_gym", fmt.Errorf("failed to load gyms: %w", err))
	}
	gyms = slices.DeleteFunc(gyms, func(g models.Gym) bool { return g.ID == id })
	if err := c.persister.StoreGyms(ctx, nonNil(gyms)); err != nil {
		return c.record("delete_gym", fmt.Errorf("failed to save gyms: %w", err))
	}

	equipment, err := c.persister.LoadEquipment(ctx)
	if err != nil {
		return c.record("delete_gym", fmt.Errorf("failed to load equipment: %w", err))
	}
	equipment = slices.DeleteFunc(equipment, func(e models.Equipment) bool { return e.GymID == id })
	if err := c.persister.StoreEquipment(ctx, nonNil(equipment)); err != nil {
		return c.record("delete_gym", fmt.Errorf("failed to save equipment: %w", err))
	}

	return c.record("delete_gym", nil)
}

// GetEquipment implements Store.
func (c *Collections) GetEquipment(ctx context.Context) ([]models.Equipment, error) {
	equipment, err := c.persister.LoadEquipment(ctx)
	if err != nil {
		return nil, c.record("get_equipment", fmt.Errorf("failed to load equipment: %w", err))
	}
	c.record("get_equipment", nil)
	return nonNil(equipment), nil
}

// GetEquipmentByGym implements Store.
func (c *Collections) GetEquipmentByGym(ctx context.Context, gymID string) ([]models.Equipment, error) {
	equipment, err := c.persister.LoadEquipment(ctx)
	if err != nil {
		return nil, c.record("get_equipment_by_gym", fmt.Errorf("failed to load equipment: %w", err))
	}

	out := make([]models.Equipment, 0, len(equipment))
	for _, item := range equipment {
		if item.GymID == gymID {
			out = append(out, item)
		}
	}
	c.record("get_equipment_by_gym", nil)
	return out, nil
}

// AddEquipment implements Store.
func (c *Collections) AddEquipment(ctx context.Context, input models.EquipmentInput) (*models.Equipment, error) {
	equipment, err := c.persister.LoadEquipment(ctx)
	if err != nil {
		return nil, c.record("add_equipment", fmt.Errorf("failed to load equipment: %w", err))
	}

	category := input.Category
	if category == "" {
		category = models.DefaultCategory
	}
	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	now := c.Now()
	item := models.Equipment{
		ID:          c.NewID(),
		GymID:       input.GymID,
		Name:        input.Name,
		Category:    category,
		Brand:       input.Brand,
		Model:       input.Model,
		Notes:       input.Notes,
		IsAvailable: available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.persister.StoreEquipment(ctx, append(equipment, item)); err != nil {
		return nil, c.record("add_equipment", fmt.Errorf("failed to save equipment: %w", err))
	}
	c.record("add_equipment", nil)
	return &item, nil
}

// UpdateEquipment implements Store.
func (c *Collections) UpdateEquipment(ctx context.Context, id string, update models.EquipmentUpdate) (*models.Equipment, error) {
	equipment, err := c.persister.LoadEquipment(ctx)
	if err != nil {
		return nil, c.record("update_equipment", fmt.Errorf("failed to load equipment: %w", err))
	}

	i := slices.IndexFunc(equipment, func(e models.Equipment) bool { return e.ID == id })
	if i < 0 {
		c.record("update_equipment", nil)
		return nil, nil
	}

	update.Apply(&equipment[i])
	equipment[i].UpdatedAt = c.nextUpdate(equipment[i].UpdatedAt)

	if err := c.persister.StoreEquipment(ctx, equipment); err != nil {
		return nil, c.record("update_equipment", fmt.Errorf("failed to save equipment: %w", err))
	}
	c.record("update_equipment", nil)
	updated := equipment[i]
	return &updated, nil
}

// DeleteEquipment implements Store.
func (c *Collections) DeleteEquipment(ctx context.Context, id string) error {
	equipment, err := c.persister.LoadEquipment(ctx)
	if err != nil {
		return c.record("delete_equipment", fmt.Errorf("failed to load equipment: %w", err))
	}
	equipment = slices.DeleteFunc(equipment, func(e models.Equipment) bool { return e.ID == id })
	if err := c.persister.StoreEquipment(ctx, nonNil(equipment)); err != nil {
		return c.record("delete_equipment", fmt.Errorf("failed to save equipment: %w", err))
	}
	return c.record("delete_equipment", nil)
}

// SaveGyms implements Store.
func (c *Collections) SaveGyms(ctx context.Context, gyms []models.Gym) error {
	if err := c.persister.StoreGyms(ctx, nonNil(gyms)); err != nil {
		return c.record("save_gyms", fmt.Errorf("failed to save gyms: %w", err))
	}
	return c.record("save_gyms", nil)
}

// SaveEquipment implements Store.
func (c *Collections) SaveEquipment(ctx context.Context, equipment []models.Equipment) error {
	if err := c.persister.StoreEquipment(ctx, nonNil(equipment)); err != nil {
		return c.record("save_equipment", fmt.Errorf("failed to save equipment: %w", err))
	}
	return c.record("save_equipment", nil)
}

// ExportData implements Store.
func (c *Collections) ExportData(ctx context.Context) (models.WorkoutExport, error) {
	gyms, err := c.GetGyms(ctx)
	if err != nil {
		return models.WorkoutExport{}, err
	}
	equipment, err := c.GetEquipment(ctx)
	if err != nil {
		return models.WorkoutExport{}, err
	}
	return export.Build(gyms, equipment, c.Now()), nil
}

// ExportToJSON implements Store.
func (c *Collections) ExportToJSON(ctx context.Context) (string, error) {
	bundle, err := c.ExportData(ctx)
	if err != nil {
		return "", err
	}
	return export.JSON(bundle)
}

// ExportToMarkdown implements Store.
func (c *Collections) ExportToMarkdown(ctx context.Context) (string, error) {
	bundle, err := c.ExportData(ctx)
	if err != nil {
		return "", err
	}
	return export.Markdown(bundle), nil
}

// nonNil keeps empty collections serialized as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
