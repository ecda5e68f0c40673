package study

import (
	"math"
	"time"
)

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID   string
	Studied     int
	Total       int
	Tally       Tally
	SuccessRate int // percent of ratings that were Good or Easy
	Duration    time.Duration
	FocusCycles int
}

// BuildSummary creates a Summary from a session snapshot. focusCycles is the
// number of work cycles finished during the session, supplied by the focus
// timer.
func BuildSummary(state *SessionState, focusCycles int, now time.Time) Summary {
	studied := state.Tally.Total()

	var rate int
	if studied > 0 {
		rate = int(math.Round(100 * float64(state.Tally.Good+state.Tally.Easy) / float64(studied)))
	}

	var dur time.Duration
	if !state.StartedAt.IsZero() {
		dur = max(now.Sub(state.StartedAt), 0)
	}

	return Summary{
		SessionID:   state.SessionID,
		Studied:     studied,
		Total:       len(state.Queue),
		Tally:       state.Tally,
		SuccessRate: rate,
		Duration:    dur,
		FocusCycles: focusCycles,
	}
}
