package components

import (
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// ProgressBar is a horizontal bar filled to Fraction, with optional text
// after it such as "40%".
type ProgressBar struct {
	Fraction float64 // clamped to 0..1
	Width    int     // total width, suffix included
	Fill     color.Color
	Suffix   string
}

// NewProgressBar creates a bar using the theme's fill color.
func NewProgressBar(fraction float64, width int) ProgressBar {
	return ProgressBar{Fraction: fraction, Width: width}
}

// WithFill returns a copy filled with c, e.g. a phase or rating color.
func (p ProgressBar) WithFill(c color.Color) ProgressBar {
	p.Fill = c
	return p
}

// WithSuffix returns a copy showing s after the bar.
func (p ProgressBar) WithSuffix(s string) ProgressBar {
	p.Suffix = s
	return p
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	suffix := ""
	if p.Suffix != "" {
		suffix = "  " + p.Suffix
	}
	barWidth := max(p.Width-lipgloss.Width(suffix), 4)

	frac := min(max(p.Fraction, 0), 1)
	filled := int(math.Round(float64(barWidth) * frac))

	fill := theme.ProgressFilled
	if p.Fill != nil {
		fill = fill.Background(p.Fill)
	}
	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Hint.Render(suffix)
}
