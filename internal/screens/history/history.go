package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/sync/errgroup"

	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/screen"
	"github.com/juanmoyano123/cards-study/internal/store"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
	"github.com/juanmoyano123/cards-study/internal/ui/theme"
)

// Days is how far back the focus history reaches.
const Days = 7

// DaySource returns per-day focus statistics.
type DaySource interface {
	History(ctx context.Context, from, to time.Time) ([]remote.DayStats, error)
}

type historyLoadedMsg struct {
	Sessions  []store.SessionRecord
	Days      []remote.DayStats
	Err       error
	RemoteErr error
}

// HistoryScreen lists past study sessions and recent focus days.
type HistoryScreen struct {
	log       store.SessionLogRepo
	days      DaySource // nil offline
	now       func() time.Time
	sessions  []store.SessionRecord
	dayStats  []remote.DayStats
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
	remoteErr string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. days may be nil.
func New(log store.SessionLogRepo, days DaySource) *HistoryScreen {
	return &HistoryScreen{
		log:      log,
		days:     days,
		now:      time.Now,
		expanded: make(map[int]bool),
	}
}

// Init loads local sessions and remote days concurrently. A remote failure
// only hides the focus section.
func (s *HistoryScreen) Init() tea.Cmd {
	log, days, now := s.log, s.days, s.now()
	return func() tea.Msg {
		var msg historyLoadedMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			msg.Sessions, err = log.Recent(ctx, store.QueryOpts{Limit: 50})
			return err
		})
		if days != nil {
			g.Go(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				msg.Days, msg.RemoteErr = days.History(ctx, now.AddDate(0, 0, -(Days-1)), now)
				return nil
			})
		}
		msg.Err = g.Wait()
		return msg
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		if msg.RemoteErr != nil {
			s.remoteErr = msg.RemoteErr.Error()
		}
		s.sessions = msg.Sessions
		s.dayStats = msg.Days
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, theme.ErrorText.Render("\n\nError: "+s.errMsg))
	}
	if !s.loaded {
		return layout.Centered(width, theme.Hint.Render("\n\n  Loading history..."))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderDays(width))
	b.WriteString("\n\n")

	if len(s.sessions) == 0 {
		b.WriteString(layout.Centered(width, theme.Hint.Render("No study sessions yet.")))
		return b.String()
	}

	for i, rec := range s.sessions {
		dur := rec.FinishedAt.Sub(rec.StartedAt)
		var success float64
		if rec.Studied > 0 {
			success = float64(rec.Good+rec.Easy) / float64(rec.Studied) * 100
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s  %d:%02d  %d/%d cards  %.0f%% success  %d cycles",
			prefix, rec.FinishedAt.Local().Format("Jan 02 15:04"),
			int(dur.Minutes()), int(dur.Seconds())%60,
			rec.Studied, rec.Total, success, rec.FocusCycles)
		b.WriteString(layout.Centered(width, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    again %d · hard %d · good %d · easy %d",
				rec.Again, rec.Hard, rec.Good, rec.Easy)
			b.WriteString(layout.Centered(width, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDays draws one column per day with its finished focus cycles.
func (s *HistoryScreen) renderDays(width int) string {
	if s.days == nil {
		return layout.Centered(width, theme.Hint.Render("Focus history needs a server connection."))
	}
	if s.remoteErr != "" {
		return layout.Centered(width, theme.Hint.Render("Focus history unavailable: "+s.remoteErr))
	}

	byDate := make(map[string]remote.DayStats, len(s.dayStats))
	for _, d := range s.dayStats {
		byDate[d.Date] = d
	}
	now := s.now()
	cols := make([]string, 0, Days)
	for i := Days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		d := byDate[day.Format(time.DateOnly)]
		cell := fmt.Sprintf("%s\n%d\n%dm", day.Format("Mon"), d.PomodoroSessions, d.TotalFocusMinutes)
		style := lipgloss.NewStyle().Width(7).Align(lipgloss.Center).Foreground(theme.TextDim)
		if d.PomodoroSessions > 0 {
			style = style.Foreground(theme.Accent)
		}
		cols = append(cols, style.Render(cell))
	}
	return layout.Centered(width, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}
