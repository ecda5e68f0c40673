// Package focus runs the focus timer inside the bubbletea event loop. It
// owns the timer engine together with its heartbeat and drift reconciler,
// reports finished work cycles, and keeps settings and counters in sync with
// local persistence and the remote stores.
package focus

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// PhaseChangedMsg is emitted after every phase transition.
type PhaseChangedMsg struct {
	Transition timer.Transition
}

// CycleRecordedMsg carries the remote count after a finished work cycle was
// recorded.
type CycleRecordedMsg struct {
	Count int
}

// Options holds the collaborators of a Controller. Counters and Settings may
// be nil to run offline.
type Options struct {
	Persistence Persistence
	Counters    CounterStore
	Settings    SettingsStore
	SyncTimeout time.Duration
	Interval    time.Duration // heartbeat period, one second by default
	Logger      *slog.Logger
}

// Controller drives one focus timer. All methods must be called from the
// event loop goroutine; the commands they return do their I/O on captured
// snapshots and never touch the engine.
type Controller struct {
	engine     *timer.Engine
	heartbeat  *timer.Heartbeat
	reconciler *timer.Reconciler
	sync       *Synchronizer
	persist    Persistence
	counters   CounterStore
	settings   SettingsStore
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time

	remoteSettings *timer.SettingsPatch
}

// NewController creates a stopped timer with default settings. Call
// Bootstrap to restore persisted state before use.
func NewController(opts Options) (*Controller, error) {
	engine, err := timer.NewEngine(timer.DefaultSettings())
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "focus")
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	timeout := opts.SyncTimeout
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}

	return &Controller{
		engine:     engine,
		heartbeat:  timer.NewHeartbeat(interval),
		reconciler: timer.NewReconciler(engine),
		sync:       NewSynchronizer(engine, opts.Persistence, opts.Settings, timeout, logger),
		persist:    opts.Persistence,
		counters:   opts.Counters,
		settings:   opts.Settings,
		timeout:    timeout,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Bootstrap restores the persisted record, then fetches today's remote count
// and the remote settings concurrently. A remote count overwrites both local
// counters. Remote settings are kept for display only; local settings stay
// authoritative. Only context cancellation is reported as an error.
func (c *Controller) Bootstrap(ctx context.Context) error {
	if rec, err := c.persist.Load(ctx); err != nil {
		c.logger.Warn("load timer record failed, using defaults", "error", err)
	} else if rec != nil {
		if err := c.engine.Restore(settingsOf(rec), rec.CompletedCycleCount, rec.TodayCycleCount); err != nil {
			c.logger.Warn("persisted timer settings rejected, using defaults", "error", err)
			c.engine.SetCounters(rec.CompletedCycleCount, rec.TodayCycleCount)
		}
	}

	var (
		today  *remote.DayStats
		patch  timer.SettingsPatch
		gotSet bool
	)
	g, gctx := errgroup.WithContext(ctx)
	if c.counters != nil {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(gctx, c.timeout)
			defer cancel()
			d, err := c.counters.GetToday(ctx)
			if err != nil {
				c.logger.Debug("no remote count for today", "error", err)
				return nil
			}
			today = d
			return nil
		})
	}
	if c.settings != nil {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(gctx, c.timeout)
			defer cancel()
			p, err := c.settings.GetSettings(ctx)
			if err != nil {
				c.logger.Debug("remote settings unavailable", "error", err)
				return nil
			}
			patch, gotSet = p, true
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	if today != nil {
		c.engine.SetCounters(today.PomodoroSessions, today.PomodoroSessions)
		c.logger.Info("counters taken from remote", "today", today.PomodoroSessions)
	}
	if gotSet {
		c.remoteSettings = &patch
	}
	c.sync.SaveNow(ctx)
	return nil
}

// State returns a snapshot of the timer.
func (c *Controller) State() timer.State {
	return c.engine.State()
}

// RemoteSettings returns the settings fetched at bootstrap, if any.
func (c *Controller) RemoteSettings() (timer.SettingsPatch, bool) {
	if c.remoteSettings == nil {
		return timer.SettingsPatch{}, false
	}
	return *c.remoteSettings, true
}

// Start resumes the countdown.
func (c *Controller) Start() tea.Cmd {
	c.engine.Start()
	return c.heartbeat.Start()
}

// Pause stops the countdown.
func (c *Controller) Pause() tea.Cmd {
	c.engine.Pause()
	c.heartbeat.Stop()
	return nil
}

// Toggle starts a paused timer or pauses a running one.
func (c *Controller) Toggle() tea.Cmd {
	if c.engine.State().Running {
		return c.Pause()
	}
	return c.Start()
}

// Reset returns to a stopped full-length work phase.
func (c *Controller) Reset() tea.Cmd {
	c.engine.Reset()
	c.heartbeat.Stop()
	return nil
}

// Skip ends the current phase immediately.
func (c *Controller) Skip() tea.Cmd {
	t := c.engine.SkipPhase()
	return tea.Batch(c.onTransition(t), c.syncHeartbeat())
}

// HandleTick advances the timer for a heartbeat tick. Ticks from cancelled
// chains are ignored.
func (c *Controller) HandleTick(msg timer.TickMsg) tea.Cmd {
	ok, next := c.heartbeat.Accept(msg)
	if !ok {
		return nil
	}

	var cmd tea.Cmd
	if t, changed := c.engine.Tick(); changed {
		cmd = c.onTransition(t)
	}
	if !c.engine.State().Running {
		c.heartbeat.Stop()
		return cmd
	}
	return tea.Batch(cmd, next)
}

// Suspend records that the process is going to the background and stops
// the heartbeat.
func (c *Controller) Suspend() {
	c.reconciler.Suspend(c.now())
	c.heartbeat.Stop()
}

// Resume replays the seconds missed while suspended and restarts the
// heartbeat if the timer is still running.
func (c *Controller) Resume() tea.Cmd {
	transitions := c.reconciler.Resume(c.now())
	cmds := make([]tea.Cmd, 0, len(transitions)+1)
	for _, t := range transitions {
		cmds = append(cmds, c.onTransition(t))
	}
	if len(transitions) > 0 {
		c.logger.Info("replayed suspended time", "transitions", len(transitions))
	}
	cmds = append(cmds, c.syncHeartbeat())
	return tea.Batch(cmds...)
}

// UpdateSettings applies patch now and writes it through in the background.
func (c *Controller) UpdateSettings(patch timer.SettingsPatch) (tea.Cmd, error) {
	return c.sync.UpdateSettings(patch)
}

// UpdateSettingsNow applies patch and waits for the write-through, for
// callers outside an event loop.
func (c *Controller) UpdateSettingsNow(ctx context.Context, patch timer.SettingsPatch) error {
	return c.sync.UpdateSettingsNow(ctx, patch)
}

// Close stops the heartbeat and saves the current record.
func (c *Controller) Close(ctx context.Context) {
	c.heartbeat.Stop()
	c.sync.SaveNow(ctx)
}

func (c *Controller) syncHeartbeat() tea.Cmd {
	if c.engine.State().Running {
		return c.heartbeat.Start()
	}
	c.heartbeat.Stop()
	return nil
}

func (c *Controller) onTransition(t timer.Transition) tea.Cmd {
	c.logger.Debug("phase changed", "from", t.From.String(), "to", t.To.String(), "cycles", t.Cycles)
	cmds := []tea.Cmd{func() tea.Msg { return PhaseChangedMsg{Transition: t} }}
	if t.WorkCompleted {
		cmds = append(cmds, c.recordCycle(), c.sync.Persist())
	}
	return tea.Batch(cmds...)
}

func (c *Controller) recordCycle() tea.Cmd {
	if c.counters == nil {
		return nil
	}
	counters, timeout, logger := c.counters, c.timeout, c.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, err := counters.RecordCycleComplete(ctx)
		if err != nil {
			logger.Warn("record cycle complete failed", "error", err)
			return nil
		}
		return CycleRecordedMsg{Count: n}
	}
}
