package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/router"
	"github.com/juanmoyano123/cards-study/internal/screen"
	"github.com/juanmoyano123/cards-study/internal/ui/components"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// Options holds constructors for the screens reachable from home. A nil
// Study means no backend is configured.
type Options struct {
	Study   func() screen.Screen
	Focus   func() screen.Screen
	History func() screen.Screen
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu    components.Menu
	offline bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	push := func(f func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.Push(f()) }
	}

	study := components.MenuItem{Label: "STUDY", Detail: "review due cards", Key: "s"}
	if opts.Study != nil {
		study.Action = push(opts.Study)
	} else {
		study.Disabled = true
		study.Detail = "offline: set api.base_url"
	}

	items := []components.MenuItem{
		study,
		{Label: "FOCUS TIMER", Detail: "work and break cycles", Key: "f", Action: push(opts.Focus)},
		{Label: "HISTORY", Detail: "past sessions", Key: "h", Action: push(opts.History)},
		{Label: "QUIT", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		offline: opts.Study == nil,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "S/F/H", Description: "Jump"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("cards-study"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("spaced repetition with a focus timer"))
	b.WriteString("\n\n")

	menu := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(strings.TrimRight(h.menu.View(), "\n"))
	b.WriteString(layout.Centered(width, menu))

	if h.offline {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, theme.Hint.Render("Run `cards-study devserver` for a local backend.")))
	}
	return b.String()
}
