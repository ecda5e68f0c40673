package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// RatingBar renders the four rating choices with their key, label and the
// interval the backend predicts for each.
type RatingBar struct {
	Intervals map[study.Rating]string
	Disabled  bool // a rating is in flight
}

// View renders the bar as a row of chips.
func (r RatingBar) View() string {
	chips := make([]string, 0, 4)
	for _, rating := range []study.Rating{study.Again, study.Hard, study.Good, study.Easy} {
		label := fmt.Sprintf("%d %s", int(rating), rating)
		if iv := r.Intervals[rating]; iv != "" {
			label += "\n" + iv
		}
		c := theme.RatingColor(rating)
		style := theme.Chip.
			Foreground(c).
			BorderForeground(c).
			Align(lipgloss.Center).
			Width(12)
		if r.Disabled {
			style = style.Foreground(theme.TextDim).BorderForeground(theme.Border)
		}
		chips = append(chips, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}
