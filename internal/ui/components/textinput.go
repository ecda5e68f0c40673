package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// NumberField is a digits-only text input with a label, used to edit timer
// settings.
type NumberField struct {
	Label string
	Model textinput.Model
	err   string
}

// NewNumberField creates a focused field prefilled with value.
func NewNumberField(label string, value int) NumberField {
	ti := textinput.New()
	ti.CharLimit = 4
	ti.SetValue(strconv.Itoa(value))
	ti.Focus()
	return NumberField{Label: label, Model: ti}
}

// Init returns the cursor blink command.
func (f NumberField) Init() tea.Cmd {
	return f.Model.Focus()
}

// Update drops non-digit runes and forwards everything else.
func (f NumberField) Update(msg tea.Msg) (NumberField, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
			return f, nil
		}
	}
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	f.err = ""
	return f, cmd
}

// Int parses the field.
func (f NumberField) Int() (int, error) {
	return strconv.Atoi(f.Model.Value())
}

// SetError shows msg under the field until the next edit.
func (f *NumberField) SetError(msg string) {
	f.err = msg
}

// View renders the label, the input and any error.
func (f NumberField) View() string {
	view := theme.Body.Render(f.Label+": ") + f.Model.View()
	if f.err != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(f.err)
	}
	return view
}
