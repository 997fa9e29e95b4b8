// Package storagetest holds behaviour tests every storage.Store backend must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/gymlog/internal/export"
	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage"
)

// Factory returns a fresh, empty store. The test owns closing it.
type Factory func(t *testing.T) storage.Store

// Run exercises the Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("empty store returns empty collections", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		gyms, err := store.GetGyms(ctx)
		require.NoError(t, err)
		require.NotNil(t, gyms)
		require.Empty(t, gyms)

		equipment, err := store.GetEquipment(ctx)
		require.NoError(t, err)
		require.NotNil(t, equipment)
		require.Empty(t, equipment)
	})

	t.Run("AddGym generates ID and equal timestamps", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		first, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
		require.NoError(t, err)
		second, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
		require.NoError(t, err)

		require.NotEmpty(t, first.ID)
		require.NotEqual(t, first.ID, second.ID)
		require.Equal(t, "1 Main St", first.Address)
		require.False(t, first.CreatedAt.IsZero())
		require.True(t, first.CreatedAt.Equal(first.UpdatedAt))

		gyms, err := store.GetGyms(ctx)
		require.NoError(t, err)
		require.Len(t, gyms, 2)
		require.Equal(t, first.ID, gyms[0].ID)
		require.True(t, gyms[0].CreatedAt.Equal(first.CreatedAt), "timestamps must survive persistence")
	})

	t.Run("UpdateGym keeps ID and CreatedAt and advances UpdatedAt", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		gym, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St", Notes: "old"})
		require.NoError(t, err)

		name := "Iron Works Downtown"
		updated, err := store.UpdateGym(ctx, gym.ID, models.GymUpdate{Name: &name})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, gym.ID, updated.ID)
		require.Equal(t, "Iron Works Downtown", updated.Name)
		require.Equal(t, "1 Main St", updated.Address)
		require.Equal(t, "old", updated.Notes)
		require.True(t, updated.CreatedAt.Equal(gym.CreatedAt))
		require.True(t, updated.UpdatedAt.After(gym.UpdatedAt))

		again, err := store.UpdateGym(ctx, gym.ID, models.GymUpdate{})
		require.NoError(t, err)
		require.True(t, again.UpdatedAt.After(updated.UpdatedAt))
	})

	t.Run("UpdateGym on unknown ID returns nil", func(t *testing.T) {
		store := open(t, newStore)
		name := "ghost"
		got, err := store.UpdateGym(context.Background(), "missing", models.GymUpdate{Name: &name})
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("equipment defaults and lookup by gym", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		gym, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
		require.NoError(t, err)

		item, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Mystery Machine"})
		require.NoError(t, err)
		require.Equal(t, models.CategoryOther, item.Category)
		require.True(t, item.IsAvailable)
		require.True(t, item.CreatedAt.Equal(item.UpdatedAt))

		off := false
		unavailable, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: "other-gym", Name: "Rower", Category: models.CategoryRowingMachine, IsAvailable: &off})
		require.NoError(t, err)
		require.False(t, unavailable.IsAvailable)

		byGym, err := store.GetEquipmentByGym(ctx, gym.ID)
		require.NoError(t, err)
		require.Len(t, byGym, 1)
		require.Equal(t, item.ID, byGym[0].ID)
	})

	t.Run("UpdateEquipment keeps ID and CreatedAt", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		item, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: "g1", Name: "Bench", Category: models.CategoryBench})
		require.NoError(t, err)

		off := false
		brand := "Rogue"
		updated, err := store.UpdateEquipment(ctx, item.ID, models.EquipmentUpdate{IsAvailable: &off, Brand: &brand})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, item.ID, updated.ID)
		require.False(t, updated.IsAvailable)
		require.Equal(t, "Rogue", updated.Brand)
		require.Equal(t, models.CategoryBench, updated.Category)
		require.True(t, updated.CreatedAt.Equal(item.CreatedAt))
		require.True(t, updated.UpdatedAt.After(item.UpdatedAt))

		missing, err := store.UpdateEquipment(ctx, "missing", models.EquipmentUpdate{IsAvailable: &off})
		require.NoError(t, err)
		require.Nil(t, missing)
	})

	t.Run("DeleteGym cascades to its equipment only", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		ironWorks, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
		require.NoError(t, err)
		other, err := store.AddGym(ctx, models.GymInput{Name: "Hotel Gym", Address: "5 Beach Rd"})
		require.NoError(t, err)

		bench, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: ironWorks.ID, Name: "Bench", Category: models.CategoryBench})
		require.NoError(t, err)
		byGym, err := store.GetEquipmentByGym(ctx, ironWorks.ID)
		require.NoError(t, err)
		require.Len(t, byGym, 1)
		require.Equal(t, "Bench", byGym[0].Name)
		require.Equal(t, bench.ID, byGym[0].ID)

		kept, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: other.ID, Name: "Dumbbells", Category: models.CategoryDumbbell})
		require.NoError(t, err)

		require.NoError(t, store.DeleteGym(ctx, ironWorks.ID))

		gyms, err := store.GetGyms(ctx)
		require.NoError(t, err)
		require.Len(t, gyms, 1)
		require.Equal(t, other.ID, gyms[0].ID)

		equipment, err := store.GetEquipment(ctx)
		require.NoError(t, err)
		require.Len(t, equipment, 1)
		require.Equal(t, kept.ID, equipment[0].ID)
		for _, item := range equipment {
			require.NotEqual(t, ironWorks.ID, item.GymID)
		}
	})

	t.Run("deleting unknown IDs is a no-op", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		_, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
		require.NoError(t, err)

		require.NoError(t, store.DeleteGym(ctx, "missing"))
		require.NoError(t, store.DeleteEquipment(ctx, "missing"))

		gyms, err := store.GetGyms(ctx)
		require.NoError(t, err)
		require.Len(t, gyms, 1)
	})

	t.Run("DeleteEquipment removes one item", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		a, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: "g1", Name: "A"})
		require.NoError(t, err)
		b, err := store.AddEquipment(ctx, models.EquipmentInput{GymID: "g1", Name: "B"})
		require.NoError(t, err)

		require.NoError(t, store.DeleteEquipment(ctx, a.ID))

		equipment, err := store.GetEquipment(ctx)
		require.NoError(t, err)
		require.Len(t, equipment, 1)
		require.Equal(t, b.ID, equipment[0].ID)
	})

	t.Run("SaveGyms and SaveEquipment overwrite collections", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		_, err := store.AddGym(ctx, models.GymInput{Name: "Old", Address: "Old St"})
		require.NoError(t, err)

		ts := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, store.SaveGyms(ctx, []models.Gym{{ID: "g-new", Name: "New", Address: "New St", CreatedAt: ts, UpdatedAt: ts}}))
		require.NoError(t, store.SaveEquipment(ctx, []models.Equipment{{ID: "e-new", GymID: "g-new", Name: "Rack", Category: models.CategoryPowerRack, IsAvailable: true, CreatedAt: ts, UpdatedAt: ts}}))

		gyms, err := store.GetGyms(ctx)
		require.NoError(t, err)
		require.Len(t, gyms, 1)
		require.Equal(t, "g-new", gyms[0].ID)
		require.True(t, gyms[0].CreatedAt.Equal(ts))

		equipment, err := store.GetEquipmentByGym(ctx, "g-new")
		require.NoError(t, err)
		require.Len(t, equipment, 1)
	})

	t.Run("export round trip", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		gym, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St", Notes: "Chalk allowed"})
		require.NoError(t, err)
		_, err = store.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Bench", Category: models.CategoryBench, Brand: "Rogue"})
		require.NoError(t, err)

		encoded, err := store.ExportToJSON(ctx)
		require.NoError(t, err)

		bundle, err := export.ParseJSON([]byte(encoded))
		require.NoError(t, err)
		require.Equal(t, models.ExportNote, bundle.Notes)

		gyms, err := store.GetGyms(ctx)
		require.NoError(t, err)
		equipment, err := store.GetEquipment(ctx)
		require.NoError(t, err)

		require.Len(t, bundle.Gyms, len(gyms))
		require.Equal(t, gyms[0].ID, bundle.Gyms[0].ID)
		require.True(t, gyms[0].UpdatedAt.Equal(bundle.Gyms[0].UpdatedAt))
		require.Len(t, bundle.Equipment, len(equipment))
		require.Equal(t, equipment[0].Name, bundle.Equipment[0].Name)

		markdown, err := store.ExportToMarkdown(ctx)
		require.NoError(t, err)
		require.Contains(t, markdown, "## Iron Works")
		require.Contains(t, markdown, "- Bench (Rogue)")
	})
}

func open(t *testing.T, newStore Factory) storage.Store {
	t.Helper()
	store := newStore(t)
	t.Cleanup(func() { _ = store.Close() })
	if initializer, ok := store.(storage.Initializer); ok {
		require.NoError(t, initializer.Init(context.Background()))
	}
	return store
}
