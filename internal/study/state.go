package study

import (
	"math"
	"slices"
	"time"
)

// Tally counts ratings recorded in the current session.
type Tally struct {
	Again int
	Hard  int
	Good  int
	Easy  int
}

// Add records one rating. Invalid ratings are ignored.
func (t *Tally) Add(r Rating) {
	switch r {
	case Again:
		t.Again++
	case Hard:
		t.Hard++
	case Good:
		t.Good++
	case Easy:
		t.Easy++
	}
}

// Count returns the number of times r was recorded.
func (t Tally) Count(r Rating) int {
	switch r {
	case Again:
		return t.Again
	case Hard:
		return t.Hard
	case Good:
		return t.Good
	case Easy:
		return t.Easy
	}
	return 0
}

// Total returns the number of ratings recorded.
func (t Tally) Total() int {
	return t.Again + t.Hard + t.Good + t.Easy
}

// SessionState is a snapshot of a study session.
type SessionState struct {
	// SessionID identifies the session. A fresh ID is issued per successful load.
	SessionID string

	// Queue is the ordered list of items loaded for this session.
	Queue []Item

	// CurrentIndex points at the item being studied. It equals len(Queue)
	// once the session is complete.
	CurrentIndex int

	// Revealed is true when the answer of the current item is shown.
	Revealed bool

	// Tally counts ratings recorded so far. Tally.Total() == CurrentIndex.
	Tally Tally

	// Stats returned alongside the queue.
	TotalDue     int
	NewCount     int
	ReviewCount  int
	OverdueCount int

	// StartedAt is when the queue was loaded.
	StartedAt time.Time

	// ItemStartedAt is when the current item was first displayed.
	ItemStartedAt time.Time

	// Loading is true while a queue request is in flight.
	Loading bool

	// Submitting is true while a rating for the current item is in flight.
	Submitting bool

	// Err holds the last failure, cleared by the next load or rating attempt.
	Err error

	// LastResult is the scheduler's answer to the most recent rating.
	LastResult *ReviewResult
}

// Current returns the item at CurrentIndex, or false past the end.
func (s *SessionState) Current() (Item, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Queue) {
		return Item{}, false
	}
	return s.Queue[s.CurrentIndex], true
}

// IsComplete is true when the queue is non-empty and every item was rated.
func (s *SessionState) IsComplete() bool {
	return len(s.Queue) > 0 && s.CurrentIndex >= len(s.Queue)
}

// IsEmpty is true when a load finished with nothing due.
func (s *SessionState) IsEmpty() bool {
	return !s.Loading && s.Err == nil && len(s.Queue) == 0
}

func (s SessionState) clone() SessionState {
	s.Queue = slices.Clone(s.Queue)
	return s
}

// Progress is the position of the session within its queue.
type Progress struct {
	Studied    int
	Total      int
	Percentage int
}

// ProgressOf derives Progress from a session snapshot.
func ProgressOf(s *SessionState) Progress {
	total := len(s.Queue)
	p := Progress{Studied: s.CurrentIndex, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(100 * float64(s.CurrentIndex) / float64(total)))
	}
	return p
}
