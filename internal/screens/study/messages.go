package study

import (
	"github.com/juanmoyano123/cards-study/internal/study"
)

// queueLoadedMsg carries the result of a queue fetch back to the event loop.
type queueLoadedMsg struct {
	req  study.LoadRequest
	resp *study.QueueResponse
	err  error
}

// ratingDoneMsg carries the result of a rating submission.
type ratingDoneMsg struct {
	attempt study.RatingAttempt
	res     *study.ReviewResult
	err     error
}
