package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/router"
	"github.com/juanmoyano123/cards-study/internal/screen"
	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/ui/components"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// SummaryScreen displays the result of a study session.
type SummaryScreen struct {
	summary study.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary study.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

// Summary returns the displayed summary.
func (s *SummaryScreen) Summary() study.Summary {
	return s.summary
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, router.Pop()
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	title := "Session complete!"
	if sum.Studied < sum.Total {
		title = "Session ended"
	}
	b.WriteString(theme.Title.Width(width).Render(title))
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf("Duration: %s", formatDuration(sum.Duration))))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(width, theme.Body.Render(fmt.Sprintf(
		"Cards: %d/%d        Success: %d%%        Focus cycles: %d",
		sum.Studied, sum.Total, sum.SuccessRate, sum.FocusCycles))))
	b.WriteString("\n\n")

	barWidth := min(width-8, 50)
	b.WriteString(layout.Centered(width, theme.Hint.Render("Ratings")))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", barWidth))))
	b.WriteString("\n\n")

	for _, r := range []study.Rating{study.Again, study.Hard, study.Good, study.Easy} {
		n := sum.Tally.Count(r)
		var frac float64
		if sum.Studied > 0 {
			frac = float64(n) / float64(sum.Studied)
		}
		label := lipgloss.NewStyle().Foreground(theme.RatingColor(r)).Width(6).Render(r.String())
		bar := components.NewProgressBar(frac, barWidth-14).WithFill(theme.RatingColor(r)).View()
		b.WriteString(layout.Centered(width, fmt.Sprintf("%s %s %4d", label, bar, n)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
