package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldName     = "Name"
	fieldAddress  = "Address"
	fieldCategory = "Category"
	fieldBrand    = "Brand"
	fieldModel    = "Model"
	fieldNotes    = "Notes"
)

// form is an ordered set of labelled text inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...[2]string) form {
	f := form{}
	for _, field := range fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field[1]
		input.CharLimit = 256
		input.Width = 48
		f.labels = append(f.labels, field[0])
		f.inputs = append(f.inputs, input)
	}
	return f
}

func newGymForm() form {
	return newForm(
		[2]string{fieldName, "e.g., Planet Fitness Downtown"},
		[2]string{fieldAddress, "e.g., 123 Main St, City, State"},
		[2]string{fieldNotes, "Optional notes about this gym"},
	)
}

func newEquipmentForm() form {
	return newForm(
		[2]string{fieldName, "e.g., Life Fitness Treadmill"},
		[2]string{fieldCategory, "Other"},
		[2]string{fieldBrand, "e.g., Life Fitness"},
		[2]string{fieldModel, "e.g., 95T"},
		[2]string{fieldNotes, "Optional notes"},
	)
}

func (f *form) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.focusCmd()
}

func (f form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) value(label string) string {
	for i, l := range f.labels {
		if l == label {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

func (f form) view() string {
	var b strings.Builder
	for i, input := range f.inputs {
		style := labelStyle
		if i == f.focus {
			style = focusedLabel
		}
		b.WriteString(style.Render(f.labels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	return b.String()
}
