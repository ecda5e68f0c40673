package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/juanmoyano123/cards-study/internal/focus"
	"github.com/juanmoyano123/cards-study/internal/router"
	"github.com/juanmoyano123/cards-study/internal/screen"
	focusscreen "github.com/juanmoyano123/cards-study/internal/screens/focus"
	"github.com/juanmoyano123/cards-study/internal/screens/history"
	"github.com/juanmoyano123/cards-study/internal/screens/home"
	studyscreen "github.com/juanmoyano123/cards-study/internal/screens/study"
	"github.com/juanmoyano123/cards-study/internal/store"
	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/timer"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
)

// StartScreen selects the screen shown above the home menu at launch.
type StartScreen string

const (
	StartHome  StartScreen = ""
	StartStudy StartScreen = "study"
	StartFocus StartScreen = "focus"
)

const (
	noticeTTL = 5 * time.Second
	bell      = "\a"
)

// Options wires the app to its services. Study and Days are nil when no
// remote API is configured.
type Options struct {
	Study      *study.Controller
	Focus      *focus.Controller
	SessionLog store.SessionLogRepo
	Days       history.DaySource
	Queue      study.QueueOptions
	Logger     *slog.Logger
	Start      StartScreen
}

type clearNoticeMsg struct{ seq int }

// AppModel is the root Bubble Tea model. It owns the focus timer heartbeat
// so the countdown keeps running whichever screen is active.
type AppModel struct {
	router *router.Router
	focus  *focus.Controller
	start  screen.Screen
	logger *slog.Logger

	width     int
	height    int
	notice    string
	noticeSeq int
	noticeTTL time.Duration
}

// newAppModel builds the screen graph on top of the home menu.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	focusScreen := func() screen.Screen { return focusscreen.New(opts.Focus) }
	historyScreen := func() screen.Screen { return history.New(opts.SessionLog, opts.Days) }
	var studyScreen func() screen.Screen
	if opts.Study != nil {
		studyScreen = func() screen.Screen {
			return studyscreen.New(studyscreen.Options{
				Controller: opts.Study,
				Timer:      opts.Focus,
				Log:        opts.SessionLog,
				Queue:      opts.Queue,
				Logger:     logger,
			})
		}
	}

	m := AppModel{
		router: router.New(home.New(home.Options{
			Study:   studyScreen,
			Focus:   focusScreen,
			History: historyScreen,
		})),
		focus:     opts.Focus,
		logger:    logger,
		noticeTTL: noticeTTL,
	}
	switch opts.Start {
	case StartStudy:
		if studyScreen != nil {
			m.start = studyScreen()
		}
	case StartFocus:
		m.start = focusScreen()
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	if m.start != nil {
		return router.Push(m.start)
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case timer.TickMsg:
		return m, m.focus.HandleTick(msg)

	case focus.PhaseChangedMsg:
		cmd := m.router.Update(msg)
		if m.focus.State().Settings.SoundEnabled {
			cmd = tea.Batch(cmd, tea.Raw(bell))
		}
		return m.withNotice(phaseNotice(msg.Transition), cmd)

	case focus.CycleRecordedMsg:
		return m.withNotice(fmt.Sprintf("%d cycles today", msg.Count), nil)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.ResumeMsg:
		return m, m.focus.Resume()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+z":
			m.focus.Suspend()
			return m, tea.Suspend
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) withNotice(notice string, cmd tea.Cmd) (AppModel, tea.Cmd) {
	m.notice = notice
	m.noticeSeq++
	seq := m.noticeSeq
	expire := tea.Tick(m.noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
	return m, tea.Batch(cmd, expire)
}

func phaseNotice(t timer.Transition) string {
	switch {
	case t.WorkCompleted && t.To == timer.PhaseLongBreak:
		return "Cycle done, long break"
	case t.WorkCompleted:
		return "Cycle done, take a break"
	case t.To == timer.PhaseWork:
		return "Break over, back to work"
	}
	return t.To.String()
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.focus.State(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.notice, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits. The focus
// timer is saved on the way out whatever the exit reason.
func Run(ctx context.Context, opts Options) error {
	if opts.Focus == nil {
		return errors.New("app: focus controller is required")
	}
	model := newAppModel(opts)

	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), focus.DefaultSyncTimeout)
	defer cancel()
	opts.Focus.Close(closeCtx)

	if err != nil && !errors.Is(err, tea.ErrInterrupted) {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		model.logger.Error("program exited", "error", err)
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
