package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Key, when set, triggers the item directly.
type MenuItem struct {
	Label    string
	Detail   string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions navigated with arrows or item keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if i := m.next(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
		return m, nil
	case "down", "j":
		if i := m.next(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
		return m, nil
	case "enter":
		return m, m.activate(m.Selected)
	}

	for i, item := range m.Items {
		if item.Key != "" && item.Key == key {
			m.Selected = i
			return m, m.activate(i)
		}
	}
	return m, nil
}

// next returns the nearest enabled index after from in direction dir, or -1.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) View() string {
	normal := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	selected := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var b strings.Builder
	for i, item := range m.Items {
		style, cursor := normal, "  "
		switch {
		case item.Disabled:
			style = dim
		case i == m.Selected:
			style, cursor = selected, "▸ "
		}

		key := "   "
		if item.Key != "" {
			key = "[" + item.Key + "]"
		}
		b.WriteString(cursor + dim.Render(key) + " " + style.Render(item.Label))
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
