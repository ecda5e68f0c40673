package timer

import "time"

// Reconciler replays the ticks a timer missed while its host process was
// suspended. Each lost second is replayed as a single Tick so every phase
// boundary crossed during the suspension goes through the normal transition
// logic and the cycle counters stay correct.
type Reconciler struct {
	engine *Engine
}

// NewReconciler wraps an engine.
func NewReconciler(e *Engine) *Reconciler {
	return &Reconciler{engine: e}
}

// Suspend records when the host went to the background. Repeated calls keep
// the earliest timestamp.
func (r *Reconciler) Suspend(now time.Time) {
	if !r.engine.state.BackgroundedAt.IsZero() {
		return
	}
	r.engine.state.BackgroundedAt = now
}

// Suspended reports whether a suspension is being tracked.
func (r *Reconciler) Suspended() bool {
	return !r.engine.state.BackgroundedAt.IsZero()
}

// Resume replays floor(now - suspendedAt) seconds of ticks if the timer was
// running, clears the suspension and returns the transitions that occurred.
// A paused timer does not advance while backgrounded.
func (r *Reconciler) Resume(now time.Time) []Transition {
	at := r.engine.state.BackgroundedAt
	if at.IsZero() {
		return nil
	}
	r.engine.state.BackgroundedAt = time.Time{}

	elapsed := int(now.Sub(at) / time.Second)
	if elapsed <= 0 || !r.engine.state.Running {
		return nil
	}

	var transitions []Transition
	for range elapsed {
		if t, ok := r.engine.Tick(); ok {
			transitions = append(transitions, t)
		}
	}
	return transitions
}
