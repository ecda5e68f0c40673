package timer

import (
	"fmt"
	"time"
)

// State is a point-in-time copy of the timer.
type State struct {
	// Remaining is the number of seconds left in the current phase.
	Remaining int

	Phase   Phase
	Running bool

	// CompletedCycles counts finished work phases and drives long-break spacing.
	CompletedCycles int

	// TodayCycles counts finished work phases today. Reset externally at day boundaries.
	TodayCycles int

	Settings Settings

	// BackgroundedAt is set while the host process is suspended (zero otherwise).
	BackgroundedAt time.Time
}

// Format renders the remaining time as mm:ss.
func (s State) Format() string {
	return fmt.Sprintf("%02d:%02d", s.Remaining/60, s.Remaining%60)
}

// Progress returns the fraction of the current phase still remaining (1.0 = untouched).
func (s State) Progress() float64 {
	total := s.Settings.DurationOf(s.Phase)
	if total <= 0 {
		return 0
	}
	return float64(s.Remaining) / float64(total)
}

// Transition describes a phase change produced by Tick or SkipPhase.
type Transition struct {
	From Phase
	To   Phase

	// Cycles is CompletedCycles after the transition.
	Cycles int

	// WorkCompleted is set when a work phase finished. Consumers use it to
	// notify the remote counter store and play sound or haptics.
	WorkCompleted bool
}

// Engine is the focus timer state machine. It is driven by discrete
// one-second ticks and is not safe for concurrent use; the owner serializes
// all calls on one event loop.
type Engine struct {
	state State
}

// NewEngine creates a stopped timer at the start of a work phase.
func NewEngine(settings Settings) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		state: State{
			Remaining: settings.WorkDuration,
			Phase:     PhaseWork,
			Settings:  settings,
		},
	}, nil
}

// State returns a copy of the current timer state.
func (e *Engine) State() State {
	return e.state
}

// Settings returns the active settings.
func (e *Engine) Settings() Settings {
	return e.state.Settings
}

// Tick advances the countdown by one second. It is a no-op while paused.
// When the countdown reaches zero the phase transition is applied and
// returned with ok == true.
func (e *Engine) Tick() (t Transition, ok bool) {
	if !e.state.Running {
		return Transition{}, false
	}
	if e.state.Remaining > 0 {
		e.state.Remaining--
	}
	if e.state.Remaining > 0 {
		return Transition{}, false
	}
	return e.advance(), true
}

// Start resumes the countdown.
func (e *Engine) Start() {
	e.state.Running = true
}

// Pause stops the countdown without changing the remaining time.
func (e *Engine) Pause() {
	e.state.Running = false
}

// Reset returns to a stopped, full-length work phase. Cycle counters are kept.
func (e *Engine) Reset() {
	e.state.Phase = PhaseWork
	e.state.Remaining = e.state.Settings.WorkDuration
	e.state.Running = false
}

// SkipPhase ends the current phase immediately, exactly as if its countdown
// had reached zero, whether or not the timer is running.
func (e *Engine) SkipPhase() Transition {
	return e.advance()
}

// UpdateSettings merges patch into the active settings. If the patch sets the
// duration of the current phase and the timer is stopped, the countdown is
// reset to the new length; a running countdown is left alone.
func (e *Engine) UpdateSettings(patch SettingsPatch) error {
	merged := patch.ApplyTo(e.state.Settings)
	if err := merged.Validate(); err != nil {
		return err
	}
	e.state.Settings = merged
	if !e.state.Running && patch.SetsDurationOf(e.state.Phase) {
		e.state.Remaining = merged.DurationOf(e.state.Phase)
	}
	return nil
}

// Restore replaces the settings and counters, typically from a persisted
// record, and returns to a stopped full-length work phase.
func (e *Engine) Restore(settings Settings, completed, today int) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	e.state.Settings = settings
	e.Reset()
	e.SetCounters(completed, today)
	return nil
}

// SetCounters overwrites both cycle counters, used when restoring persisted
// state or when the remote counter store wins reconciliation.
func (e *Engine) SetCounters(completed, today int) {
	e.state.CompletedCycles = max(completed, 0)
	e.state.TodayCycles = max(today, 0)
}

// advance applies the end-of-phase transition for the current phase.
func (e *Engine) advance() Transition {
	s := &e.state
	from := s.Phase

	if from == PhaseWork {
		s.CompletedCycles++
		s.TodayCycles++
		next := PhaseBreak
		if s.CompletedCycles%s.Settings.CyclesUntilLongBreak == 0 {
			next = PhaseLongBreak
		}
		s.Phase = next
		s.Remaining = s.Settings.DurationOf(next)
		s.Running = s.Settings.AutoStartBreak
		return Transition{From: from, To: next, Cycles: s.CompletedCycles, WorkCompleted: true}
	}

	s.Phase = PhaseWork
	s.Remaining = s.Settings.WorkDuration
	s.Running = s.Settings.AutoStartWork
	return Transition{From: from, To: PhaseWork, Cycles: s.CompletedCycles}
}
