package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/gymlog/internal/models"
	"github.com/mmynk/gymlog/internal/storage"
	"github.com/mmynk/gymlog/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "local.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestLocalStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestLocalStore(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()

	t.Run("collections are stored as JSON lists under fixed keys", func(t *testing.T) {
		gym, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
		if err != nil {
			t.Fatalf("AddGym failed: %v", err)
		}

		raw, ok, err := store.GetItem(ctx, GymsKey)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if !ok {
			t.Fatalf("Expected %s to be set", GymsKey)
		}

		var decoded []map[string]any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			t.Fatalf("Stored value is not a JSON list: %v", err)
		}
		if len(decoded) != 1 || decoded[0]["id"] != gym.ID {
			t.Errorf("Unexpected stored gyms: %s", raw)
		}
		if _, ok := decoded[0]["createdAt"].(string); !ok {
			t.Errorf("Expected createdAt to be an ISO string, got %v", decoded[0]["createdAt"])
		}
	})

	t.Run("values written by the browser build are readable", func(t *testing.T) {
		browserValue := `[{"id":"b1","gymId":"g1","name":"Bench","category":"Bench","isAvailable":true,` +
			`"createdAt":"2024-03-01T10:00:00.000Z","updatedAt":"2024-03-02T10:00:00.000Z"}]`
		if err := store.SetItem(ctx, EquipmentKey, browserValue); err != nil {
			t.Fatalf("SetItem failed: %v", err)
		}

		equipment, err := store.GetEquipmentByGym(ctx, "g1")
		if err != nil {
			t.Fatalf("GetEquipmentByGym failed: %v", err)
		}
		if len(equipment) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(equipment))
		}
		if equipment[0].UpdatedAt.Day() != 2 {
			t.Errorf("Timestamp not rehydrated: %v", equipment[0].UpdatedAt)
		}
	})

	t.Run("corrupt value is an error", func(t *testing.T) {
		if err := store.SetItem(ctx, GymsKey, "{oops"); err != nil {
			t.Fatalf("SetItem failed: %v", err)
		}
		if _, err := store.GetGyms(ctx); err == nil {
			t.Error("Expected error for corrupt JSON, got nil")
		}
	})
}

func TestDataSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	gym, err := store.AddGym(ctx, models.GymInput{Name: "Iron Works", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}
	store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("Expected database file: %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	gyms, err := reopened.GetGyms(ctx)
	if err != nil {
		t.Fatalf("GetGyms failed: %v", err)
	}
	if len(gyms) != 1 || gyms[0].ID != gym.ID {
		t.Errorf("Expected gym %s after reopen, got %+v", gym.ID, gyms)
	}
}
