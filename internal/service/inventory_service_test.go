package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage/local"
)

// setupTestService creates an InventoryService over a temp local store.
func setupTestService(t *testing.T) *InventoryService {
	t.Helper()

	store, err := local.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewInventoryService(store)
}

func ptr[T any](v T) *T { return &v }

func TestAddGym(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	gym, err := svc.AddGym(ctx, models.GymInput{Name: "  Iron Works ", Address: "1 Main St", Notes: " 24/7 "})
	if err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}
	if gym.ID == "" {
		t.Error("expected generated ID")
	}
	if gym.Name != "Iron Works" || gym.Notes != "24/7" {
		t.Errorf("expected trimmed fields, got %+v", gym)
	}
}

func TestAddGymValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.GymInput
	}{
		{"missing name", models.GymInput{Address: "1 Main St"}},
		{"blank name", models.GymInput{Name: "   ", Address: "1 Main St"}},
		{"missing address", models.GymInput{Name: "Iron Works"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddGym(ctx, tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	gyms, err := svc.ListGyms(ctx)
	if err != nil {
		t.Fatalf("ListGyms failed: %v", err)
	}
	if len(gyms) != 0 {
		t.Errorf("invalid input must not be stored, got %d gyms", len(gyms))
	}
}

func TestUpdateGym(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	gym, err := svc.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}

	updated, err := svc.UpdateGym(ctx, gym.ID, models.GymUpdate{Notes: ptr("Closed Sundays")})
	if err != nil {
		t.Fatalf("UpdateGym failed: %v", err)
	}
	if updated.Notes != "Closed Sundays" || updated.Name != "Iron Works" {
		t.Errorf("unexpected gym after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(gym.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateGym(ctx, "nope", models.GymUpdate{Name: ptr("X")})
		if !errors.Is(err, ErrGymNotFound) {
			t.Errorf("expected ErrGymNotFound, got %v", err)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.UpdateGym(ctx, gym.ID, models.GymUpdate{Name: ptr(" ")})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestAddEquipmentRequiresExistingGym(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddEquipment(ctx, models.EquipmentInput{GymID: "missing", Name: "Bench"})
	if !errors.Is(err, ErrGymNotFound) {
		t.Fatalf("expected ErrGymNotFound, got %v", err)
	}
}

func TestAddEquipment(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	gym, err := svc.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}

	item, err := svc.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Mystery Machine"})
	if err != nil {
		t.Fatalf("AddEquipment failed: %v", err)
	}
	if item.Category != models.CategoryOther {
		t.Errorf("expected default category Other, got %q", item.Category)
	}
	if !item.IsAvailable {
		t.Error("expected equipment to be available by default")
	}

	_, err = svc.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Bench", Category: "Trampoline"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown category, got %v", err)
	}

	_, err = svc.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: " "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestToggleAvailability(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	gym, err := svc.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}
	item, err := svc.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Bench", Category: models.CategoryBench})
	if err != nil {
		t.Fatalf("AddEquipment failed: %v", err)
	}

	toggled, err := svc.ToggleAvailability(ctx, item.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability failed: %v", err)
	}
	if toggled.IsAvailable {
		t.Error("expected item to become unavailable")
	}

	toggled, err = svc.ToggleAvailability(ctx, item.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability failed: %v", err)
	}
	if !toggled.IsAvailable {
		t.Error("expected item to become available again")
	}

	if _, err := svc.ToggleAvailability(ctx, "missing"); !errors.Is(err, ErrEquipmentNotFound) {
		t.Errorf("expected ErrEquipmentNotFound, got %v", err)
	}
}

func TestUpdateEquipmentMoveToGym(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, _ := svc.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	second, _ := svc.AddGym(ctx, models.GymInput{Name: "Steel Yard", Address: "2 Side St"})
	item, err := svc.AddEquipment(ctx, models.EquipmentInput{GymID: first.ID, Name: "Bench"})
	if err != nil {
		t.Fatalf("AddEquipment failed: %v", err)
	}

	if _, err := svc.UpdateEquipment(ctx, item.ID, models.EquipmentUpdate{GymID: ptr("missing")}); !errors.Is(err, ErrGymNotFound) {
		t.Errorf("expected ErrGymNotFound, got %v", err)
	}

	moved, err := svc.UpdateEquipment(ctx, item.ID, models.EquipmentUpdate{GymID: ptr(second.ID)})
	if err != nil {
		t.Fatalf("UpdateEquipment failed: %v", err)
	}
	if moved.GymID != second.ID {
		t.Errorf("expected item in %s, got %s", second.ID, moved.GymID)
	}

	atFirst, err := svc.ListEquipment(ctx, first.ID)
	if err != nil {
		t.Fatalf("ListEquipment failed: %v", err)
	}
	if len(atFirst) != 0 {
		t.Errorf("expected no equipment left at first gym, got %d", len(atFirst))
	}

	if _, err := svc.UpdateEquipment(ctx, "missing", models.EquipmentUpdate{Name: ptr("X")}); !errors.Is(err, ErrEquipmentNotFound) {
		t.Errorf("expected ErrEquipmentNotFound, got %v", err)
	}
}

func TestDeleteGymCascades(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	gym, _ := svc.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	other, _ := svc.AddGym(ctx, models.GymInput{Name: "Steel Yard", Address: "2 Side St"})
	if _, err := svc.AddEquipment(ctx, models.EquipmentInput{GymID: gym.ID, Name: "Bench"}); err != nil {
		t.Fatalf("AddEquipment failed: %v", err)
	}
	if _, err := svc.AddEquipment(ctx, models.EquipmentInput{GymID: other.ID, Name: "Rower"}); err != nil {
		t.Fatalf("AddEquipment failed: %v", err)
	}

	if err := svc.DeleteGym(ctx, gym.ID); err != nil {
		t.Fatalf("DeleteGym failed: %v", err)
	}

	all, err := svc.ListEquipment(ctx, "")
	if err != nil {
		t.Fatalf("ListEquipment failed: %v", err)
	}
	if len(all) != 1 || all[0].GymID != other.ID {
		t.Errorf("expected only the other gym's equipment to remain, got %+v", all)
	}

	if _, err := svc.GetGym(ctx, gym.ID); !errors.Is(err, ErrGymNotFound) {
		t.Errorf("expected ErrGymNotFound, got %v", err)
	}
}

func TestExports(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"}); err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}

	md, err := svc.ExportMarkdown(ctx)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if want := "## Iron Works"; !strings.Contains(md, want) {
		t.Errorf("expected %q in markdown:\n%s", want, md)
	}

	js, err := svc.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(js, `"name": "Iron Works"`) {
		t.Errorf("expected gym in JSON export:\n%s", js)
	}
}
