package study

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRatingTimeout bounds a single rating submission so the UI never
// waits on a slow scheduler for long.
const DefaultRatingTimeout = 5 * time.Second

// Pipeline submits ratings to the scheduler. It performs no retries and no
// deduplication: a failed submission is surfaced as-is, and resubmitting the
// same item is a fresh attempt. If a failed attempt partially succeeded on
// the server, idempotency is the scheduler's responsibility.
type Pipeline struct {
	scheduler Scheduler
	timeout   time.Duration
	logger    *slog.Logger
}

// NewPipeline creates a rating pipeline. A non-positive timeout selects
// DefaultRatingTimeout.
func NewPipeline(scheduler Scheduler, timeout time.Duration, logger *slog.Logger) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultRatingTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{scheduler: scheduler, timeout: timeout, logger: logger}
}

// Submit sends one rating. Errors are wrapped in *NetworkError.
func (p *Pipeline) Submit(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	res, err := p.scheduler.SubmitReview(ctx, req)
	if err != nil {
		p.logger.Warn("rating submission failed",
			"item_id", req.ItemID,
			"rating", req.Rating.String(),
			"latency_ms", time.Since(start).Milliseconds(),
			"error", err)
		return nil, &NetworkError{Op: "submit review", Err: err}
	}

	p.logger.Debug("rating submitted",
		"item_id", req.ItemID,
		"rating", req.Rating.String(),
		"time_spent_s", req.TimeSpentSeconds,
		"new_interval_days", res.NewIntervalDays)
	return res, nil
}
