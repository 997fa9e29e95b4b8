package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/gymlog/internal/models"
)

func TestModelInitLoadsGymsAndEquipment(t *testing.T) {
	t.Parallel()

	model := NewModel(Options{Inventory: sampleInventory()})
	cmd := model.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, loadedMsg{}, msg)

	next, _ := model.Update(msg)
	state := next.(Model)
	require.Equal(t, ScreenGyms, state.screen)
	require.Len(t, state.gymsList.Items(), 2)
	require.Contains(t, state.View(), "Iron Works")
}

func TestModelShowsEmptyState(t *testing.T) {
	t.Parallel()

	model := loaded(t, &fakeInventory{})
	require.Contains(t, model.View(), "No gyms yet.")
}

func TestModelShowsLoadError(t *testing.T) {
	t.Parallel()

	model := NewModel(Options{Inventory: &fakeInventory{listErr: errors.New("service unreachable")}})
	next, _ := model.Update(model.Init()())
	require.Contains(t, next.(Model).View(), "Error: service unreachable")
}

func TestEnterOpensEquipmentGroupedByCategory(t *testing.T) {
	t.Parallel()

	model := loaded(t, sampleInventory())
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state := next.(Model)

	require.Equal(t, ScreenEquipment, state.screen)
	require.Equal(t, "gym-1", state.selectedGymID)

	var names []string
	for _, item := range state.equipmentList.Items() {
		names = append(names, item.(equipmentItem).item.Name)
	}
	// Bench appears first, so both benches come before the treadmill.
	require.Equal(t, []string{"Flat Bench", "Incline Bench", "Treadmill"}, names)

	back, _ := state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ScreenGyms, back.(Model).screen)
}

func TestAddGymFormSubmitsAndAppends(t *testing.T) {
	t.Parallel()

	inventory := &fakeInventory{}
	model := loaded(t, inventory)

	next, _ := model.Update(keyRunes("a"))
	state := next.(Model)
	require.Equal(t, ScreenGymForm, state.screen)

	next, _ = state.Update(keyRunes("Iron Works"))
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	next, _ = next.(Model).Update(keyRunes("12 Forge St"))
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, gymAddedMsg{}, msg)

	final, _ := next.(Model).Update(msg)
	state = final.(Model)
	require.Equal(t, ScreenGyms, state.screen)
	require.Len(t, state.gyms, 1)
	require.Equal(t, "Iron Works", state.gyms[0].Name)
	require.Equal(t, "12 Forge St", state.gyms[0].Address)
	require.Len(t, state.gymsList.Items(), 1)
	require.Equal(t, 1, inventory.addGymCalls)
}

func TestAddGymFormRequiresAddress(t *testing.T) {
	t.Parallel()

	model := loaded(t, &fakeInventory{})
	next, _ := model.Update(keyRunes("a"))
	next, _ = next.(Model).Update(keyRunes("Iron Works"))
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
	state := next.(Model)
	require.Equal(t, ScreenGymForm, state.screen)
	require.Contains(t, state.View(), "name and address are required")
}

func TestFormEscCancels(t *testing.T) {
	t.Parallel()

	model := loaded(t, sampleInventory())
	next, _ := model.Update(keyRunes("a"))
	next, _ = next.(Model).Update(keyRunes("q"))
	state := next.(Model)
	require.Equal(t, ScreenGymForm, state.screen, "q inside a form is text, not quit")

	next, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ScreenGyms, next.(Model).screen)
}

func TestAddEquipmentUsesSelectedGym(t *testing.T) {
	t.Parallel()

	inventory := sampleInventory()
	model := loaded(t, inventory)
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(keyRunes("a"))
	require.Equal(t, ScreenEquipmentForm, next.(Model).screen)

	next, _ = next.(Model).Update(keyRunes("Kettlebell 16kg"))
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	next, _ = next.(Model).Update(keyRunes("kettlebell"))
	for range 3 {
		next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	final, _ := next.(Model).Update(cmd())
	state := final.(Model)
	require.Equal(t, ScreenEquipment, state.screen)

	added := inventory.equipment[len(inventory.equipment)-1]
	require.Equal(t, "gym-1", added.GymID)
	require.Equal(t, models.CategoryKettlebell, added.Category)
	require.Len(t, state.equipmentList.Items(), 4)
}

func TestAddEquipmentRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	model := loaded(t, sampleInventory())
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(keyRunes("a"))
	next, _ = next.(Model).Update(keyRunes("Sled"))
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	next, _ = next.(Model).Update(keyRunes("Sled Track"))
	for range 3 {
		next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
	require.Contains(t, next.(Model).err, "unknown equipment category")
}

func TestToggleAvailabilityUpdatesTransientCopy(t *testing.T) {
	t.Parallel()

	model := loaded(t, sampleInventory())
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, cmd := next.(Model).Update(keyRunes("t"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, equipmentUpdatedMsg{}, msg)

	final, _ := next.(Model).Update(msg)
	state := final.(Model)
	idx := slices.IndexFunc(state.equipment, func(e models.Equipment) bool { return e.ID == "eq-1" })
	require.False(t, state.equipment[idx].IsAvailable)
}

func TestDeleteGymAsksForConfirmation(t *testing.T) {
	t.Parallel()

	inventory := sampleInventory()
	model := loaded(t, inventory)

	next, _ := model.Update(keyRunes("d"))
	state := next.(Model)
	require.Equal(t, ScreenConfirm, state.screen)
	require.Equal(t,
		"Are you sure you want to delete Iron Works? This will also delete all equipment data for this gym.",
		state.confirmPrompt())

	next, cmd := state.Update(keyRunes("y"))
	require.NotNil(t, cmd)
	final, _ := next.(Model).Update(cmd())
	state = final.(Model)

	require.Equal(t, ScreenGyms, state.screen)
	require.Len(t, state.gyms, 1)
	require.Equal(t, "Pulse Studio", state.gyms[0].Name)
	for _, item := range state.equipment {
		require.NotEqual(t, "gym-1", item.GymID)
	}
}

func TestDeleteEquipmentCancel(t *testing.T) {
	t.Parallel()

	inventory := sampleInventory()
	model := loaded(t, inventory)
	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(keyRunes("d"))
	state := next.(Model)
	require.Equal(t, ScreenConfirm, state.screen)
	require.Equal(t, "Are you sure you want to delete Flat Bench?", state.confirmPrompt())

	next, cmd := state.Update(keyRunes("n"))
	require.Nil(t, cmd)
	require.Equal(t, ScreenEquipment, next.(Model).screen)
	require.Len(t, inventory.equipment, 4)
}

func TestExportWritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := NewModel(Options{Inventory: sampleInventory(), ExportDir: dir})
	next, _ := model.Update(model.Init()())

	next, cmd := next.(Model).Update(keyRunes("e"))
	require.NotNil(t, cmd)
	next, _ = next.(Model).Update(cmd())
	require.Contains(t, next.(Model).status, MarkdownExportFile)

	next, cmd = next.(Model).Update(keyRunes("E"))
	require.NotNil(t, cmd)
	next.(Model).Update(cmd())

	markdown, err := os.ReadFile(filepath.Join(dir, MarkdownExportFile))
	require.NoError(t, err)
	require.Equal(t, "# markdown", string(markdown))

	data, err := os.ReadFile(filepath.Join(dir, JSONExportFile))
	require.NoError(t, err)
	require.Equal(t, `{"gyms":[]}`, string(data))
}

func TestRunRequiresTTY(t *testing.T) {
	t.Parallel()

	err := Run(Options{Inventory: &fakeInventory{}, IsTTY: func() bool { return false }})
	require.Error(t, err)
}

func loaded(t *testing.T, inventory *fakeInventory) Model {
	t.Helper()
	model := NewModel(Options{Inventory: inventory, ExportDir: t.TempDir()})
	next, _ := model.Update(model.Init()())
	return next.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleInventory() *fakeInventory {
	created := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	return &fakeInventory{
		gyms: []models.Gym{
			{ID: "gym-1", Name: "Iron Works", Address: "12 Forge St", CreatedAt: created, UpdatedAt: created},
			{ID: "gym-2", Name: "Pulse Studio", Address: "4 Beat Ave", CreatedAt: created, UpdatedAt: created},
		},
		equipment: []models.Equipment{
			{ID: "eq-1", GymID: "gym-1", Name: "Flat Bench", Category: models.CategoryBench, IsAvailable: true},
			{ID: "eq-2", GymID: "gym-1", Name: "Treadmill", Category: models.CategoryTreadmill, IsAvailable: true},
			{ID: "eq-3", GymID: "gym-1", Name: "Incline Bench", Category: models.CategoryBench, IsAvailable: false},
			{ID: "eq-4", GymID: "gym-2", Name: "Rower", Category: models.CategoryRowingMachine, IsAvailable: true},
		},
	}
}

type fakeInventory struct {
	gyms        []models.Gym
	equipment   []models.Equipment
	listErr     error
	addGymCalls int
	nextID      int
}

func (f *fakeInventory) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-new-%d", prefix, f.nextID)
}

func (f *fakeInventory) ListGyms(context.Context) ([]models.Gym, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.gyms), nil
}

func (f *fakeInventory) AddGym(_ context.Context, input models.GymInput) (*models.Gym, error) {
	f.addGymCalls++
	gym := models.Gym{ID: f.id("gym"), Name: input.Name, Address: input.Address, Notes: input.Notes}
	f.gyms = append(f.gyms, gym)
	return &gym, nil
}

func (f *fakeInventory) DeleteGym(_ context.Context, id string) error {
	f.gyms = slices.DeleteFunc(f.gyms, func(g models.Gym) bool { return g.ID == id })
	f.equipment = slices.DeleteFunc(f.equipment, func(e models.Equipment) bool { return e.GymID == id })
	return nil
}

func (f *fakeInventory) ListEquipment(_ context.Context, gymID string) ([]models.Equipment, error) {
	var out []models.Equipment
	for _, item := range f.equipment {
		if gymID == "" || item.GymID == gymID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeInventory) AddEquipment(_ context.Context, input models.EquipmentInput) (*models.Equipment, error) {
	item := models.Equipment{
		ID:          f.id("eq"),
		GymID:       input.GymID,
		Name:        input.Name,
		Category:    input.Category,
		Brand:       input.Brand,
		Model:       input.Model,
		Notes:       input.Notes,
		IsAvailable: true,
	}
	f.equipment = append(f.equipment, item)
	return &item, nil
}

func (f *fakeInventory) ToggleAvailability(_ context.Context, id string) (*models.Equipment, error) {
	for i := range f.equipment {
		if f.equipment[i].ID == id {
			f.equipment[i].IsAvailable = !f.equipment[i].IsAvailable
			item := f.equipment[i]
			return &item, nil
		}
	}
	return nil, errors.New("equipment not found")
}

func (f *fakeInventory) DeleteEquipment(_ context.Context, id string) error {
	f.equipment = slices.DeleteFunc(f.equipment, func(e models.Equipment) bool { return e.ID == id })
	return nil
}

func (f *fakeInventory) ExportMarkdown(context.Context) (string, error) {
	return "# markdown", nil
}

func (f *fakeInventory) ExportJSON(context.Context) (string, error) {
	return `{"gyms":[]}`, nil
}
