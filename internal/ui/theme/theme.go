package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// Palette: calm blues for study, warm tones for focus phases.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#10B981") // Emerald
	Warning   = lipgloss.Color("#F97316") // Orange
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Card frames the question and answer.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 3)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	Chip = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
)

// RatingColor returns the color used for a rating button.
func RatingColor(r study.Rating) color.Color {
	switch r {
	case study.Again:
		return Error
	case study.Hard:
		return Warning
	case study.Good:
		return Success
	case study.Easy:
		return Secondary
	}
	return Text
}

// PhaseStyle colors the countdown for a timer phase.
func PhaseStyle(p timer.Phase) lipgloss.Style {
	switch p {
	case timer.PhaseBreak:
		return lipgloss.NewStyle().Foreground(Success).Bold(true)
	case timer.PhaseLongBreak:
		return lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(Accent).Bold(true)
}
