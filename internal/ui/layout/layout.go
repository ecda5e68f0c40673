package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/timer"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// Terminals below MinWidth x MinHeight get a resize message instead of the
// UI. Below CompactWidth the header drops everything but the timer.
const (
	MinWidth     = 60
	MinHeight    = 20
	CompactWidth = 90
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The window is %d x %d.\n\nResize it to at least %d x %d to study.",
			width, height, MinWidth, MinHeight,
		))
}

// TimerBadge renders the compact timer shown in the header, e.g.
// "▶ Work 24:13".
func TimerBadge(st timer.State) string {
	icon := "⏸"
	if st.Running {
		icon = "▶"
	}
	return theme.PhaseStyle(st.Phase).Render(fmt.Sprintf("%s %s %s", icon, st.Phase, st.Format()))
}

// RenderHeader lays out the brand on the left, the screen title in the
// middle and the focus timer on the right. Compact widths keep only the
// brand and the timer.
func RenderHeader(title string, st timer.State, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("cards-study")
	right := TimerBadge(st)

	inner := max(width-4, 0)
	if width < CompactWidth {
		gap := max(inner-lipgloss.Width(brand)-lipgloss.Width(right), 1)
		return bar(brand+strings.Repeat(" ", gap)+right, width)
	}

	right += lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("   ● %d today", st.TodayCycles))
	middle := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	leftGap := max((inner-lipgloss.Width(middle))/2-lipgloss.Width(brand), 1)
	rightGap := max(inner-lipgloss.Width(brand)-leftGap-lipgloss.Width(middle)-lipgloss.Width(right), 1)
	return bar(brand+strings.Repeat(" ", leftGap)+middle+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter lists key hints with an optional notice, such as a phase
// change, pushed to the right edge.
func RenderFooter(hints []KeyHint, notice string, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	content := strings.Join(parts, "   ")

	if notice != "" {
		n := lipgloss.NewStyle().Foreground(theme.Accent).Render(notice)
		gap := max(width-4-lipgloss.Width(content)-lipgloss.Width(n), 2)
		content += strings.Repeat(" ", gap) + n
	}
	return bar(content, width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, padding content to fill
// the rows between them.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Centered renders s centered across width.
func Centered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
