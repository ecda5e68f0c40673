// Package study is the screen that runs a review session: it loads the due
// queue, shows one card at a time and submits ratings.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/juanmoyano123/cards-study/internal/router"
	"github.com/juanmoyano123/cards-study/internal/screen"
	"github.com/juanmoyano123/cards-study/internal/screens/summary"
	"github.com/juanmoyano123/cards-study/internal/store"
	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/timer"
	"github.com/juanmoyano123/cards-study/internal/ui/layout"
)

// TimerSource exposes the focus timer for the cycle count in the summary.
type TimerSource interface {
	State() timer.State
}

// SessionLogger records finished sessions locally.
type SessionLogger interface {
	Append(ctx context.Context, rec store.SessionRecord) error
}

// Options wires the screen.
type Options struct {
	Controller *study.Controller
	Timer      TimerSource
	Log        SessionLogger // may be nil
	Queue      study.QueueOptions
	Logger     *slog.Logger
}

// StudyScreen implements screen.Screen for a review session.
type StudyScreen struct {
	ctrl   *study.Controller
	timer  TimerSource
	log    SessionLogger
	queue  study.QueueOptions
	logger *slog.Logger

	spinner       spinner.Model
	loadErr       string
	notice        string
	confirmQuit   bool
	cyclesAtStart int
	finished      bool
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.EscapeHandler = (*StudyScreen)(nil)

// New creates a study screen. The queue is requested on Init.
func New(opts Options) *StudyScreen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyScreen{
		ctrl:    opts.Controller,
		timer:   opts.Timer,
		log:     opts.Log,
		queue:   opts.Queue,
		logger:  logger,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *StudyScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.spinner.Tick)
}

func (s *StudyScreen) Title() string {
	return "Study"
}

// CapturesEscape is true while cards remain, so leaving asks first.
func (s *StudyScreen) CapturesEscape() bool {
	st := s.ctrl.State()
	return st.Tally.Total() > 0 && !st.IsComplete() && !s.finished
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	st := s.ctrl.State()
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.loadErr != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case st.Loading || st.IsEmpty():
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case st.Revealed:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Rate"},
			{Key: "Space", Description: "Hide"},
			{Key: "Esc", Description: "End"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Reveal"},
		{Key: "Esc", Description: "End"},
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case queueLoadedMsg:
		return s.handleQueueLoaded(msg)

	case ratingDoneMsg:
		return s.handleRatingDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// load starts a queue request. The fetch runs off the event loop and its
// result is matched back by token in handleQueueLoaded.
func (s *StudyScreen) load() tea.Cmd {
	req, err := s.ctrl.BeginLoad(s.queue)
	if err != nil {
		s.loadErr = err.Error()
		return nil
	}
	s.loadErr = ""
	ctrl := s.ctrl
	return func() tea.Msg {
		resp, err := ctrl.Fetch(context.Background(), req)
		return queueLoadedMsg{req: req, resp: resp, err: err}
	}
}

func (s *StudyScreen) handleQueueLoaded(msg queueLoadedMsg) (screen.Screen, tea.Cmd) {
	err := s.ctrl.CompleteLoad(msg.req, msg.resp, msg.err)
	switch {
	case errors.Is(err, study.ErrStaleRequest):
		return s, nil
	case err != nil:
		s.loadErr = err.Error()
		return s, nil
	}
	if s.timer != nil {
		s.cyclesAtStart = s.timer.State().TodayCycles
	}
	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	st := s.ctrl.State()
	if s.loadErr != "" {
		if key == "r" || key == "R" {
			return s, tea.Batch(s.load(), s.spinner.Tick)
		}
		return s, nil
	}
	if st.Loading {
		return s, nil
	}

	switch key {
	case "esc":
		if s.CapturesEscape() {
			s.confirmQuit = true
		}
		return s, nil
	case "space", " ", "enter":
		s.ctrl.Toggle()
		return s, nil
	case "1", "2", "3", "4":
		if !st.Revealed {
			return s, nil
		}
		return s, s.rate(study.Rating(key[0] - '0'))
	}
	return s, nil
}

// rate submits a rating for the current card. Rejections such as a rating
// already in flight are shown as a notice and nothing is sent.
func (s *StudyScreen) rate(r study.Rating) tea.Cmd {
	attempt, err := s.ctrl.BeginRating(r)
	if err != nil {
		if errors.Is(err, study.ErrRatingInFlight) {
			return nil
		}
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	ctrl := s.ctrl
	return tea.Batch(func() tea.Msg {
		res, err := ctrl.Submit(context.Background(), attempt)
		return ratingDoneMsg{attempt: attempt, res: res, err: err}
	}, s.spinner.Tick)
}

func (s *StudyScreen) handleRatingDone(msg ratingDoneMsg) (screen.Screen, tea.Cmd) {
	err := s.ctrl.CompleteRating(msg.attempt, msg.res, msg.err)
	switch {
	case errors.Is(err, study.ErrStaleRequest):
		return s, nil
	case err != nil:
		s.notice = fmt.Sprintf("Rating not saved: %v. Rate again to retry.", err)
		return s, nil
	}
	if s.ctrl.IsComplete() {
		return s, s.finish()
	}
	return s, nil
}

// focusCycles is the number of work cycles finished since the queue loaded.
func (s *StudyScreen) focusCycles() int {
	if s.timer == nil {
		return 0
	}
	return max(s.timer.State().TodayCycles-s.cyclesAtStart, 0)
}

// finish records the session and replaces this screen with its summary.
func (s *StudyScreen) finish() tea.Cmd {
	s.finished = true
	sum := s.ctrl.Summary(s.focusCycles())
	cmds := []tea.Cmd{router.Replace(summary.New(sum))}
	if s.log != nil && sum.Studied > 0 {
		cmds = append(cmds, s.logSession(sum))
	}
	return tea.Batch(cmds...)
}

func (s *StudyScreen) logSession(sum study.Summary) tea.Cmd {
	st := s.ctrl.State()
	rec := store.SessionRecord{
		SessionID:   sum.SessionID,
		StartedAt:   st.StartedAt,
		FinishedAt:  st.StartedAt.Add(sum.Duration),
		Studied:     sum.Studied,
		Total:       sum.Total,
		Again:       sum.Tally.Again,
		Hard:        sum.Tally.Hard,
		Good:        sum.Tally.Good,
		Easy:        sum.Tally.Easy,
		FocusCycles: sum.FocusCycles,
	}
	log, logger := s.log, s.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := log.Append(ctx, rec); err != nil {
			logger.Warn("record study session failed", "session_id", rec.SessionID, "error", err)
		}
		return nil
	}
}
