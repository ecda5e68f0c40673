package spacedrep

import "time"

// ReviewState holds the spaced repetition state for a single card.
type ReviewState struct {
	Stage           int
	NextReviewDate  time.Time
	ConsecutiveHits int
	Graduated       bool
	LastReviewDate  time.Time
}

// IsDue returns true if the card is due for review (at or past the review date).
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReviewDate)
}

// OverdueDays returns how many days past due the card is. Returns 0 if not yet due.
func (rs *ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReviewDate) {
		return 0
	}
	return now.Sub(rs.NextReviewDate).Hours() / 24.0
}

// CurrentIntervalDays returns the current interval in days.
func (rs *ReviewState) CurrentIntervalDays() int {
	if rs.Graduated {
		return GraduatedIntervalDays
	}
	if rs.Stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[rs.Stage]
}

// Preview returns the interval in days that rating would grant, without
// changing the state.
func (rs ReviewState) Preview(rating int) int {
	next := rs
	return next.apply(rating)
}

// Record updates the schedule after a review and returns the new interval
// in days. Again makes the card due immediately.
func (rs *ReviewState) Record(rating int, now time.Time) int {
	days := rs.apply(rating)
	rs.LastReviewDate = now
	rs.NextReviewDate = now.AddDate(0, 0, days)
	return days
}

func (rs *ReviewState) apply(rating int) int {
	switch rating {
	case Again:
		rs.Stage = 0
		rs.ConsecutiveHits = 0
		rs.Graduated = false
		return 0
	case Hard:
		return rs.CurrentIntervalDays()
	case Good:
		rs.climb(1)
	case Easy:
		rs.climb(2)
	}
	return rs.CurrentIntervalDays()
}

func (rs *ReviewState) climb(stages int) {
	rs.ConsecutiveHits++
	if rs.Graduated {
		return
	}
	rs.Stage = min(rs.Stage+stages, GraduationStage)
	if rs.Stage >= GraduationStage || rs.ConsecutiveHits >= GraduationStage {
		rs.Graduated = true
	}
}
