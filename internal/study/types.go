package study

import (
	"context"
	"fmt"
)

// Rating is the learner's self-assessed recall quality.
type Rating int

const (
	Again Rating = iota + 1 // Forgot
	Hard                    // Recalled with difficulty
	Good                    // Recalled with some effort
	Easy                    // Recalled instantly
)

var ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

// String returns the rating label, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// IsValid reports whether r is Again through Easy.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

// MasteryLevel is the server-computed recall bucket for an item.
type MasteryLevel string

const (
	MasteryNew      MasteryLevel = "new"
	MasteryLearning MasteryLevel = "learning"
	MasteryYoung    MasteryLevel = "young"
	MasteryMature   MasteryLevel = "mature"
	MasteryMastered MasteryLevel = "mastered"
)

// Item is a due flashcard. Items are immutable once loaded into a queue.
type Item struct {
	ID           string
	Question     string
	Answer       string
	Explanation  string
	Tags         []string
	Difficulty   int // 1-5
	MasteryLevel MasteryLevel
	ReviewCount  int

	// NextIntervals holds the display label of the next interval per rating.
	NextIntervals map[Rating]string
}

// QueueOptions narrows a queue request. Zero values defer to server defaults.
type QueueOptions struct {
	Limit      int `validate:"gte=0,lte=200"`
	IncludeNew *bool
	NewLimit   int `validate:"gte=0,lte=50"`
}

// QueueResponse is what a DueItemProvider returns for a queue request.
type QueueResponse struct {
	Items        []Item
	TotalDue     int
	NewCount     int
	ReviewCount  int
	OverdueCount int
}

// ReviewRequest is a single rating submission.
type ReviewRequest struct {
	ItemID           string
	Rating           Rating
	TimeSpentSeconds int
}

// ReviewResult is the scheduler's answer to a rating.
type ReviewResult struct {
	NewIntervalDays int
	NewDueDate      string
	MasteryLevel    MasteryLevel
	CardsRemaining  int
}

// DueItemProvider supplies the ordered queue of due items.
type DueItemProvider interface {
	FetchQueue(ctx context.Context, opts QueueOptions) (*QueueResponse, error)
}

// Scheduler accepts ratings and computes the next review server-side.
type Scheduler interface {
	SubmitReview(ctx context.Context, req ReviewRequest) (*ReviewResult, error)
}
