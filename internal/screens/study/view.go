package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/ui/components"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	st := s.ctrl.State()
	switch {
	case s.loadErr != "":
		return renderError(width, s.loadErr)
	case st.Loading:
		return layout.Centered(width, "\n\n\n"+s.spinner.View()+" Loading your queue...")
	case st.IsEmpty():
		return renderEmpty(width)
	case s.confirmQuit:
		return renderQuitConfirm(width, st.Tally.Total(), len(st.Queue))
	}
	return s.renderCard(width, &st)
}

func (s *StudyScreen) renderCard(width int, st *study.SessionState) string {
	item, ok := st.Current()
	if !ok {
		return layout.Centered(width, theme.Hint.Render("\n\n\nWrapping up..."))
	}
	p := study.ProgressOf(st)

	var b strings.Builder

	info := theme.Body.Render(fmt.Sprintf("  Card %d/%d", p.Studied+1, p.Total))
	stats := theme.Hint.Render(fmt.Sprintf("due %d · new %d · review %d · overdue %d",
		st.TotalDue, st.NewCount, st.ReviewCount, st.OverdueCount))
	gap := max(width-lipgloss.Width(info)-lipgloss.Width(stats)-2, 1)
	b.WriteString(info + strings.Repeat(" ", gap) + stats)
	b.WriteString("\n")
	b.WriteString("  " + components.NewProgressBar(float64(p.Percentage)/100, width-4).
		WithSuffix(fmt.Sprintf("%d%%", p.Percentage)).
		View())
	b.WriteString("\n\n")

	cardWidth := min(width-8, 72)
	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(item.Question))
	meta := []string{string(item.MasteryLevel)}
	if len(item.Tags) > 0 {
		meta = append(meta, strings.Join(item.Tags, ", "))
	}
	card.WriteString("\n" + theme.Hint.Render(strings.Join(meta, " · ")))
	if st.Revealed {
		card.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cardWidth-6)))
		card.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Success).Render(item.Answer))
		if item.Explanation != "" {
			card.WriteString("\n\n" + theme.Hint.Render(item.Explanation))
		}
	}
	b.WriteString(layout.Centered(width, theme.Card.Width(cardWidth).Render(card.String())))
	b.WriteString("\n\n")

	if st.Revealed {
		bar := components.RatingBar{Intervals: item.NextIntervals, Disabled: st.Submitting}
		b.WriteString(layout.Centered(width, bar.View()))
	} else {
		b.WriteString(layout.Centered(width, theme.Hint.Render("Press space to show the answer")))
	}
	b.WriteString("\n")

	switch {
	case st.Submitting:
		b.WriteString(layout.Centered(width, s.spinner.View()+" Saving..."))
	case s.notice != "":
		b.WriteString(layout.Centered(width, theme.ErrorText.Render(s.notice)))
	case st.LastResult != nil:
		b.WriteString(layout.Centered(width, theme.Hint.Render(fmt.Sprintf(
			"Last card: next review in %d days (%s)", st.LastResult.NewIntervalDays, st.LastResult.MasteryLevel))))
	}
	return b.String()
}

func renderEmpty(width int) string {
	return layout.Centered(width, "\n\n\n"+
		theme.Title.Render("All caught up!")+"\n\n"+
		theme.Subtitle.Render("No cards are due right now. Press Esc to go back."))
}

func renderQuitConfirm(width, studied, total int) string {
	return layout.Centered(width, "\n\n\n"+
		theme.Title.Render("End this session?")+"\n\n"+
		theme.Subtitle.Render(fmt.Sprintf("You have rated %d of %d cards.", studied, total)))
}

func renderError(width int, msg string) string {
	return layout.Centered(width, "\n\n\n"+
		theme.ErrorText.Render("Could not load your queue")+"\n\n"+
		theme.Hint.Render(msg))
}
