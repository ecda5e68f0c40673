package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/juanmoyano123/cards-study/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle Esc themselves, for
// example to confirm leaving a session. While CapturesEscape reports true
// the app forwards Esc to the screen instead of popping it.
type EscapeHandler interface {
	CapturesEscape() bool
}
