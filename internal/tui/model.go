// Package tui is the interactive terminal front end: a gym list, the
// equipment of the selected gym, add forms, delete confirmation and export.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/gymlog/internal/models"
)

// Export file names, matching the downloads of the browser build.
const (
	MarkdownExportFile = "gym-equipment-inventory.md"
	JSONExportFile     = "gym-equipment-data.json"
)

type Screen string

const (
	ScreenGyms          Screen = "gyms"
	ScreenEquipment     Screen = "equipment"
	ScreenGymForm       Screen = "gym_form"
	ScreenEquipmentForm Screen = "equipment_form"
	ScreenConfirm       Screen = "confirm"
)

// Inventory is the subset of the inventory service the UI drives.
type Inventory interface {
	ListGyms(ctx context.Context) ([]models.Gym, error)
	AddGym(ctx context.Context, input models.GymInput) (*models.Gym, error)
	DeleteGym(ctx context.Context, id string) error
	ListEquipment(ctx context.Context, gymID string) ([]models.Equipment, error)
	AddEquipment(ctx context.Context, input models.EquipmentInput) (*models.Equipment, error)
	ToggleAvailability(ctx context.Context, id string) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	ExportMarkdown(ctx context.Context) (string, error)
	ExportJSON(ctx context.Context) (string, error)
}

type Options struct {
	Inventory Inventory
	// ExportDir receives exported files. Defaults to the working directory.
	ExportDir string
	IsTTY     func() bool
}

// Model holds a transient copy of the data. It is refreshed from the value
// each operation returns rather than by reloading.
type Model struct {
	inventory Inventory
	exportDir string

	screen   Screen
	previous Screen
	err      string
	status   string

	gyms      []models.Gym
	equipment []models.Equipment

	gymsList      list.Model
	equipmentList list.Model
	selectedGymID string

	form    form
	pending pendingDelete
}

type pendingDelete struct {
	kind string // "gym" or "equipment"
	id   string
	name string
}

type loadedMsg struct {
	gyms      []models.Gym
	equipment []models.Equipment
	err       error
}

type gymAddedMsg struct {
	gym *models.Gym
	err error
}

type gymDeletedMsg struct {
	id  string
	err error
}

type equipmentAddedMsg struct {
	item *models.Equipment
	err  error
}

type equipmentUpdatedMsg struct {
	item *models.Equipment
	err  error
}

type equipmentDeletedMsg struct {
	id  string
	err error
}

type exportedMsg struct {
	path string
	err  error
}

func Run(opts Options) error {
	if opts.IsTTY != nil && !opts.IsTTY() {
		return fmt.Errorf("tui: requires a tty")
	}
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}

func NewModel(opts Options) Model {
	delegate := list.NewDefaultDelegate()

	gymsList := list.New([]list.Item{}, delegate, 0, 0)
	gymsList.Title = "My Gyms"
	gymsList.SetShowStatusBar(false)
	gymsList.SetFilteringEnabled(false)
	gymsList.SetShowHelp(false)
	gymsList.SetSize(80, 20)

	equipmentList := list.New([]list.Item{}, delegate, 0, 0)
	equipmentList.Title = "Equipment"
	equipmentList.SetShowStatusBar(false)
	equipmentList.SetFilteringEnabled(false)
	equipmentList.SetShowHelp(false)
	equipmentList.SetSize(80, 20)

	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	return Model{
		inventory:     opts.Inventory,
		exportDir:     exportDir,
		screen:        ScreenGyms,
		gymsList:      gymsList,
		equipmentList: equipmentList,
	}
}

func (m Model) Init() tea.Cmd {
	if m.inventory == nil {
		return nil
	}
	return m.loadDataCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := typed.Height - 4
		if height < 1 {
			height = 1
		}
		m.gymsList.SetSize(typed.Width, height)
		m.equipmentList.SetSize(typed.Width, height)
		return m, nil
	case loadedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.gyms = typed.gyms
		m.equipment = typed.equipment
		m.refreshLists()
		return m, nil
	case gymAddedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.gyms = append(m.gyms, *typed.gym)
		m.screen = ScreenGyms
		m.refreshLists()
		m.gymsList.Select(len(m.gyms) - 1)
		m.status = "Added " + typed.gym.Name
		return m, nil
	case gymDeletedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.removeGym(typed.id)
		m.screen = ScreenGyms
		m.refreshLists()
		return m, nil
	case equipmentAddedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.equipment = append(m.equipment, *typed.item)
		m.screen = ScreenEquipment
		m.refreshLists()
		m.status = "Added " + typed.item.Name
		return m, nil
	case equipmentUpdatedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.replaceEquipment(*typed.item)
		m.refreshLists()
		return m, nil
	case equipmentDeletedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.removeEquipment(typed.id)
		m.screen = ScreenEquipment
		m.refreshLists()
		return m, nil
	case exportedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.status = "Exported to " + typed.path
		return m, nil
	}

	switch m.screen {
	case ScreenGymForm, ScreenEquipmentForm:
		return m.updateForm(msg)
	case ScreenConfirm:
		return m.updateConfirm(msg)
	case ScreenEquipment:
		return m.updateEquipment(msg)
	default:
		return m.updateGyms(msg)
	}
}

func (m Model) updateGyms(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "a":
			m.previous = ScreenGyms
			m.screen = ScreenGymForm
			m.form = newGymForm()
			m.status = ""
			return m, m.form.focusCmd()
		case "enter":
			gym, ok := m.gymsList.SelectedItem().(gymItem)
			if !ok {
				return m, nil
			}
			m.selectedGymID = gym.gym.ID
			m.screen = ScreenEquipment
			m.status = ""
			m.refreshLists()
			m.equipmentList.Select(0)
			return m, nil
		case "d":
			gym, ok := m.gymsList.SelectedItem().(gymItem)
			if !ok {
				return m, nil
			}
			m.previous = ScreenGyms
			m.screen = ScreenConfirm
			m.pending = pendingDelete{kind: "gym", id: gym.gym.ID, name: gym.gym.Name}
			return m, nil
		case "e":
			return m, m.exportCmd(MarkdownExportFile, m.inventory.ExportMarkdown)
		case "E":
			return m, m.exportCmd(JSONExportFile, m.inventory.ExportJSON)
		}
	}

	var cmd tea.Cmd
	m.gymsList, cmd = m.gymsList.Update(msg)
	return m, cmd
}

func (m Model) updateEquipment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return m, tea.Quit
		case "esc", "backspace":
			m.screen = ScreenGyms
			m.status = ""
			return m, nil
		case "a":
			m.previous = ScreenEquipment
			m.screen = ScreenEquipmentForm
			m.form = newEquipmentForm()
			m.status = ""
			return m, m.form.focusCmd()
		case "t", " ":
			item, ok := m.equipmentList.SelectedItem().(equipmentItem)
			if !ok {
				return m, nil
			}
			return m, m.toggleCmd(item.item.ID)
		case "d":
			item, ok := m.equipmentList.SelectedItem().(equipmentItem)
			if !ok {
				return m, nil
			}
			m.previous = ScreenEquipment
			m.screen = ScreenConfirm
			m.pending = pendingDelete{kind: "equipment", id: item.item.ID, name: item.item.Name}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.equipmentList, cmd = m.equipmentList.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		pending := m.pending
		m.pending = pendingDelete{}
		m.screen = m.previous
		if pending.kind == "gym" {
			return m, m.deleteGymCmd(pending.id)
		}
		return m, m.deleteEquipmentCmd(pending.id)
	case "n", "N", "esc":
		m.pending = pendingDelete{}
		m.screen = m.previous
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.screen = m.previous
			m.err = ""
			return m, nil
		case "tab", "down":
			return m, m.form.move(1)
		case "shift+tab", "up":
			return m, m.form.move(-1)
		case "enter":
			if !m.form.onLast() {
				return m, m.form.move(1)
			}
			return m.submitForm()
		}
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenGymForm:
		input := models.GymInput{
			Name:    m.form.value(fieldName),
			Address: m.form.value(fieldAddress),
			Notes:   m.form.value(fieldNotes),
		}
		if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Address) == "" {
			m.err = "name and address are required"
			return m, nil
		}
		return m, m.addGymCmd(input)
	case ScreenEquipmentForm:
		category, err := models.ParseCategory(m.form.value(fieldCategory))
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		input := models.EquipmentInput{
			GymID:    m.selectedGymID,
			Name:     m.form.value(fieldName),
			Category: category,
			Brand:    m.form.value(fieldBrand),
			Model:    m.form.value(fieldModel),
			Notes:    m.form.value(fieldNotes),
		}
		if strings.TrimSpace(input.Name) == "" {
			m.err = "name is required"
			return m, nil
		}
		return m, m.addEquipmentCmd(input)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Gym Equipment Tracker"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render("Error: "+m.err) + "\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n")

	switch m.screen {
	case ScreenEquipment:
		b.WriteString(m.renderEquipment())
	case ScreenGymForm:
		b.WriteString("Add New Gym\n\n" + m.form.view())
	case ScreenEquipmentForm:
		b.WriteString(fmt.Sprintf("Add Equipment to %s\n\n", m.selectedGymName()) + m.form.view())
	case ScreenConfirm:
		b.WriteString(confirmStyle.Render(m.confirmPrompt() + "\n\n[y] Confirm  [n]/[esc] Cancel"))
	default:
		if len(m.gymsList.Items()) == 0 {
			b.WriteString(renderEmptyState("No gyms yet.", "Press 'a' to add your first gym."))
		} else {
			b.WriteString(m.gymsList.View())
		}
	}
	return b.String()
}

func (m Model) helpLine() string {
	switch m.screen {
	case ScreenEquipment:
		return "[a] Add  [t] Toggle available  [d] Delete  [esc] Back  [q] Quit"
	case ScreenGymForm, ScreenEquipmentForm:
		return "[tab] Next field  [enter] Save on last field  [esc] Cancel"
	case ScreenConfirm:
		return ""
	default:
		return "[enter] Equipment  [a] Add gym  [d] Delete  [e] Export Markdown  [E] Export JSON  [q] Quit"
	}
}

func (m Model) renderEquipment() string {
	name := m.selectedGymName()
	if len(m.equipmentList.Items()) == 0 {
		return renderEmptyState(fmt.Sprintf("No equipment logged for %s yet.", name), "Press 'a' to add equipment.")
	}
	return m.equipmentList.View()
}

func (m Model) confirmPrompt() string {
	if m.pending.kind == "gym" {
		return fmt.Sprintf("Are you sure you want to delete %s? This will also delete all equipment data for this gym.", m.pending.name)
	}
	return fmt.Sprintf("Are you sure you want to delete %s?", m.pending.name)
}

func renderEmptyState(title, guidance string) string {
	return title + "\n" + guidance
}

func (m Model) selectedGymName() string {
	for _, gym := range m.gyms {
		if gym.ID == m.selectedGymID {
			return gym.Name
		}
	}
	return "this gym"
}

func (m Model) loadDataCmd() tea.Cmd {
	inventory := m.inventory
	return func() tea.Msg {
		ctx := context.Background()
		gyms, err := inventory.ListGyms(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		equipment, err := inventory.ListEquipment(ctx, "")
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{gyms: gyms, equipment: equipment}
	}
}

func (m Model) addGymCmd(input models.GymInput) tea.Cmd {
	inventory := m.inventory
	return func() tea.Msg {
		gym, err := inventory.AddGym(context.Background(), input)
		return gymAddedMsg{gym: gym, err: err}
	}
}

func (m Model) deleteGymCmd(id string) tea.Cmd {
	inventory := m.inventory
	return func() tea.Msg {
		return gymDeletedMsg{id: id, err: inventory.DeleteGym(context.Background(), id)}
	}
}

func (m Model) addEquipmentCmd(input models.EquipmentInput) tea.Cmd {
	inventory := m.inventory
	return func() tea.Msg {
		item, err := inventory.AddEquipment(context.Background(), input)
		return equipmentAddedMsg{item: item, err: err}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	inventory := m.inventory
	return func() tea.Msg {
		item, err := inventory.ToggleAvailability(context.Background(), id)
		return equipmentUpdatedMsg{item: item, err: err}
	}
}

func (m Model) deleteEquipmentCmd(id string) tea.Cmd {
	inventory := m.inventory
	return func() tea.Msg {
		return equipmentDeletedMsg{id: id, err: inventory.DeleteEquipment(context.Background(), id)}
	}
}

func (m Model) exportCmd(name string, render func(context.Context) (string, error)) tea.Cmd {
	path := filepath.Join(m.exportDir, name)
	return func() tea.Msg {
		content, err := render(context.Background())
		if err != nil {
			return exportedMsg{err: err}
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return exportedMsg{err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return exportedMsg{path: path}
	}
}

func (m *Model) removeGym(id string) {
	gyms := m.gyms[:0]
	for _, gym := range m.gyms {
		if gym.ID != id {
			gyms = append(gyms, gym)
		}
	}
	m.gyms = gyms

	equipment := m.equipment[:0]
	for _, item := range m.equipment {
		if item.GymID != id {
			equipment = append(equipment, item)
		}
	}
	m.equipment = equipment

	if m.selectedGymID == id {
		m.selectedGymID = ""
	}
}

func (m *Model) removeEquipment(id string) {
	equipment := m.equipment[:0]
	for _, item := range m.equipment {
		if item.ID != id {
			equipment = append(equipment, item)
		}
	}
	m.equipment = equipment
}

func (m *Model) replaceEquipment(updated models.Equipment) {
	for i := range m.equipment {
		if m.equipment[i].ID == updated.ID {
			m.equipment[i] = updated
			return
		}
	}
}

func (m *Model) refreshLists() {
	counts := make(map[string]int, len(m.gyms))
	for _, item := range m.equipment {
		counts[item.GymID]++
	}

	gymItems := make([]list.Item, 0, len(m.gyms))
	for _, gym := range m.gyms {
		gymItems = append(gymItems, gymItem{gym: gym, count: counts[gym.ID]})
	}
	m.gymsList.SetItems(gymItems)

	m.equipmentList.Title = m.selectedGymName() + " Equipment"
	m.equipmentList.SetItems(groupByCategory(m.equipment, m.selectedGymID))
}

// groupByCategory returns the gym's equipment with items of the same category
// next to each other, categories in first-seen order.
func groupByCategory(equipment []models.Equipment, gymID string) []list.Item {
	var order []models.Category
	groups := make(map[models.Category][]models.Equipment)
	for _, item := range equipment {
		if item.GymID != gymID {
			continue
		}
		if _, seen := groups[item.Category]; !seen {
			order = append(order, item.Category)
		}
		groups[item.Category] = append(groups[item.Category], item)
	}

	items := make([]list.Item, 0, len(equipment))
	for _, category := range order {
		for _, item := range groups[category] {
			items = append(items, equipmentItem{item: item})
		}
	}
	return items
}

type gymItem struct {
	gym   models.Gym
	count int
}

func (i gymItem) Title() string { return i.gym.Name }
func (i gymItem) Description() string {
	return fmt.Sprintf("%s · %d equipment", i.gym.Address, i.count)
}
func (i gymItem) FilterValue() string { return i.gym.Name + " " + i.gym.Address }

type equipmentItem struct {
	item models.Equipment
}

func (i equipmentItem) Title() string {
	mark := availableMark
	if !i.item.IsAvailable {
		mark = unavailableMark
	}
	return mark + " " + i.item.Name
}

func (i equipmentItem) Description() string {
	parts := []string{string(i.item.Category)}
	if details := i.item.Details(); details != "" {
		parts = append(parts, details)
	}
	if i.item.Notes != "" {
		parts = append(parts, i.item.Notes)
	}
	if !i.item.IsAvailable {
		parts = append(parts, "unavailable")
	}
	return strings.Join(parts, " · ")
}

func (i equipmentItem) FilterValue() string { return i.item.Name }
