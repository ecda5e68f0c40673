// Package focus is the screen for the focus timer and its settings.
package focus

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/focus"
	"github.com/juanmoyano123/cards-study/internal/screen"
	"github.com/juanmoyano123/cards-study/internal/timer"
	"github.com/juanmoyano123/cards-study/internal/ui/components"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

const (
	fieldWork = iota
	fieldBreak
	fieldLongBreak
	fieldCycles
	fieldCount
)

// FocusScreen shows the timer full size and edits its settings.
type FocusScreen struct {
	ctrl    *focus.Controller
	editing bool
	fields  [fieldCount]components.NumberField
	initial [fieldCount]int
	active  int
}

var _ screen.Screen = (*FocusScreen)(nil)
var _ screen.KeyHintProvider = (*FocusScreen)(nil)
var _ screen.EscapeHandler = (*FocusScreen)(nil)

// New creates a focus screen driving ctrl.
func New(ctrl *focus.Controller) *FocusScreen {
	return &FocusScreen{ctrl: ctrl}
}

func (s *FocusScreen) Init() tea.Cmd {
	return nil
}

func (s *FocusScreen) Title() string {
	return "Focus"
}

// CapturesEscape is true while the settings form is open.
func (s *FocusScreen) CapturesEscape() bool {
	return s.editing
}

func (s *FocusScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Start/Pause"},
		{Key: "S", Description: "Skip"},
		{Key: "R", Description: "Reset"},
		{Key: "E", Description: "Settings"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FocusScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.editing {
			var cmd tea.Cmd
			s.fields[s.active], cmd = s.fields[s.active].Update(msg)
			return s, cmd
		}
		return s, nil
	}
	if s.editing {
		return s.handleEditKey(kmsg)
	}

	switch kmsg.String() {
	case "space", " ", "p":
		return s, s.ctrl.Toggle()
	case "s":
		return s, s.ctrl.Skip()
	case "r":
		return s, s.ctrl.Reset()
	case "b":
		v := !s.ctrl.State().Settings.AutoStartBreak
		return s, s.apply(timer.SettingsPatch{AutoStartBreak: &v})
	case "w":
		v := !s.ctrl.State().Settings.AutoStartWork
		return s, s.apply(timer.SettingsPatch{AutoStartWork: &v})
	case "e":
		return s, s.openEditor()
	}
	return s, nil
}

func (s *FocusScreen) apply(patch timer.SettingsPatch) tea.Cmd {
	cmd, err := s.ctrl.UpdateSettings(patch)
	if err != nil {
		return nil
	}
	return cmd
}

func (s *FocusScreen) openEditor() tea.Cmd {
	set := s.ctrl.State().Settings
	s.initial = [fieldCount]int{
		set.WorkDuration / 60,
		set.BreakDuration / 60,
		set.LongBreakDuration / 60,
		set.CyclesUntilLongBreak,
	}
	labels := [fieldCount]string{"Work (min)", "Break (min)", "Long break (min)", "Long break every (cycles)"}
	for i := range s.fields {
		s.fields[i] = components.NewNumberField(labels[i], s.initial[i])
		s.fields[i].Model.Blur()
	}
	s.active = fieldWork
	s.editing = true
	return s.fields[s.active].Model.Focus()
}

func (s *FocusScreen) handleEditKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		return s, nil
	case "tab", "down":
		return s, s.focusField((s.active + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.focusField((s.active + fieldCount - 1) % fieldCount)
	case "enter":
		return s, s.save()
	}
	var cmd tea.Cmd
	s.fields[s.active], cmd = s.fields[s.active].Update(msg)
	return s, cmd
}

func (s *FocusScreen) focusField(i int) tea.Cmd {
	s.fields[s.active].Model.Blur()
	s.active = i
	return s.fields[i].Model.Focus()
}

// save validates the form and applies the edited fields as one patch.
// Durations are entered in minutes; a field left at its shown value is not
// patched, so durations set in seconds elsewhere keep their precision.
func (s *FocusScreen) save() tea.Cmd {
	var patch timer.SettingsPatch
	targets := [fieldCount]**int{&patch.WorkDuration, &patch.BreakDuration, &patch.LongBreakDuration, &patch.CyclesUntilLongBreak}
	for i := range s.fields {
		v, err := s.fields[i].Int()
		if err != nil {
			s.fields[i].SetError("enter a whole number")
			return s.focusField(i)
		}
		if v == s.initial[i] {
			continue
		}
		if i != fieldCycles {
			v *= 60
		}
		*targets[i] = &v
	}
	if patch.IsEmpty() {
		s.editing = false
		return nil
	}
	cmd, err := s.ctrl.UpdateSettings(patch)
	if err != nil {
		s.fields[s.active].SetError("every value must be at least 1")
		return nil
	}
	s.editing = false
	return cmd
}

func (s *FocusScreen) View(width, height int) string {
	st := s.ctrl.State()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.PhaseStyle(st.Phase).Render(strings.ToUpper(st.Phase.String()))))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.PhaseStyle(st.Phase).
		Border(lipgloss.RoundedBorder()).
		Padding(1, 6).
		Render(st.Format())))
	b.WriteString("\n\n")

	barWidth := min(width-8, 50)
	b.WriteString(layout.Centered(width, components.NewProgressBar(1-st.Progress(), barWidth).
		WithFill(theme.PhaseStyle(st.Phase).GetForeground()).
		View()))
	b.WriteString("\n\n")

	status := "paused"
	if st.Running {
		status = "running"
	}
	b.WriteString(layout.Centered(width, theme.Body.Render(fmt.Sprintf(
		"%s · today %d · total %d · long break every %d",
		status, st.TodayCycles, st.CompletedCycles, st.Settings.CyclesUntilLongBreak))))
	b.WriteString("\n\n")

	if s.editing {
		for i := range s.fields {
			b.WriteString(layout.Centered(width, s.fields[i].View()))
			b.WriteString("\n")
		}
		return b.String()
	}

	set := st.Settings
	b.WriteString(layout.Centered(width, theme.Hint.Render(fmt.Sprintf(
		"work %s · break %s · long break %s · auto-start break %s (b) · auto-start work %s (w)",
		minutes(set.WorkDuration), minutes(set.BreakDuration), minutes(set.LongBreakDuration),
		onOff(set.AutoStartBreak), onOff(set.AutoStartWork)))))
	if remote, ok := s.ctrl.RemoteSettings(); ok && remote.WorkDuration != nil && *remote.WorkDuration != set.WorkDuration {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Hint.Render(fmt.Sprintf(
			"server has work %s; local settings are used", minutes(*remote.WorkDuration)))))
	}
	return b.String()
}

// minutes renders seconds as "25m", or "1m30s" when not a whole minute.
func minutes(secs int) string {
	if secs%60 == 0 {
		return fmt.Sprintf("%dm", secs/60)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
