package study

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultQueueTimeout bounds a queue request.
const DefaultQueueTimeout = 30 * time.Second

var validate = validator.New()

// LoadRequest identifies one queue load. Only the most recently issued
// request may mutate session state.
type LoadRequest struct {
	Token   uint64
	Options QueueOptions
}

// RatingAttempt identifies one rating submission and the item it targets.
type RatingAttempt struct {
	generation uint64
	Item       Item
	Rating     Rating
	TimeSpent  int // seconds
}

// Request returns the scheduler request for this attempt.
func (a RatingAttempt) Request() ReviewRequest {
	return ReviewRequest{ItemID: a.Item.ID, Rating: a.Rating, TimeSpentSeconds: a.TimeSpent}
}

// Controller owns a study session: it loads the due queue, tracks reveal
// state and the current item, and records ratings through a Pipeline.
//
// Network calls are split into Begin/Complete pairs so an event loop can run
// the blocking part off the UI goroutine. LoadQueue and SubmitRating wrap a
// pair for synchronous callers.
type Controller struct {
	mu sync.Mutex

	provider     DueItemProvider
	pipeline     *Pipeline
	queueTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	state      SessionState
	loadToken  uint64 // last issued load
	generation uint64 // load whose result currently populates state
}

// NewController creates a study controller. A non-positive queueTimeout
// selects DefaultQueueTimeout.
func NewController(provider DueItemProvider, pipeline *Pipeline, queueTimeout time.Duration, logger *slog.Logger) *Controller {
	if queueTimeout <= 0 {
		queueTimeout = DefaultQueueTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		provider:     provider,
		pipeline:     pipeline,
		queueTimeout: queueTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// State returns a snapshot of the session.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Current returns the item being studied, or false when none is.
func (c *Controller) Current() (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Current()
}

// Progress returns how far the session is through its queue.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ProgressOf(&c.state)
}

// IsComplete reports whether every loaded item has been rated.
func (c *Controller) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsComplete()
}

// IsEmpty reports whether the last load found nothing due.
func (c *Controller) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsEmpty()
}

// Summary builds the end-of-session summary.
func (c *Controller) Summary(focusCycles int) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildSummary(&c.state, focusCycles, c.now())
}

// Reveal shows the answer of the current item.
func (c *Controller) Reveal() {
	c.setRevealed(func(bool) bool { return true })
}

// Hide hides the answer of the current item.
func (c *Controller) Hide() {
	c.setRevealed(func(bool) bool { return false })
}

// Toggle flips answer visibility.
func (c *Controller) Toggle() {
	c.setRevealed(func(v bool) bool { return !v })
}

func (c *Controller) setRevealed(f func(bool) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.Current(); !ok {
		return
	}
	c.state.Revealed = f(c.state.Revealed)
}

// LoadQueue fetches the due queue and replaces the session with it.
func (c *Controller) LoadQueue(ctx context.Context, opts QueueOptions) error {
	req, err := c.BeginLoad(opts)
	if err != nil {
		return err
	}
	resp, err := c.Fetch(ctx, req)
	return c.CompleteLoad(req, resp, err)
}

// BeginLoad validates opts, marks the session as loading and issues a
// request token. Any earlier load still in flight becomes stale.
func (c *Controller) BeginLoad(opts QueueOptions) (LoadRequest, error) {
	if err := validate.Struct(opts); err != nil {
		return LoadRequest{}, &ValidationError{Err: fmt.Errorf("%w: %v", ErrInvalidOptions, err)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadToken++
	c.state.Loading = true
	c.state.Err = nil
	return LoadRequest{Token: c.loadToken, Options: opts}, nil
}

// Fetch performs the queue request for req. It does not touch session state.
func (c *Controller) Fetch(ctx context.Context, req LoadRequest) (*QueueResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queueTimeout)
	defer cancel()
	resp, err := c.provider.FetchQueue(ctx, req.Options)
	if err != nil {
		return nil, &NetworkError{Op: "load queue", Err: err}
	}
	return resp, nil
}

// CompleteLoad applies the outcome of req. Outcomes of superseded requests
// are discarded with ErrStaleRequest. On failure the queue is emptied and
// the error is recorded and returned.
func (c *Controller) CompleteLoad(req LoadRequest, resp *QueueResponse, fetchErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Token != c.loadToken {
		c.logger.Debug("discarding stale queue response", "token", req.Token, "latest", c.loadToken)
		return ErrStaleRequest
	}

	now := c.now()
	c.generation = req.Token
	c.state = SessionState{StartedAt: now, ItemStartedAt: now}

	if fetchErr != nil {
		c.state.Err = fetchErr
		c.logger.Warn("queue load failed", "error", fetchErr)
		return fetchErr
	}
	if resp == nil {
		resp = &QueueResponse{}
	}

	c.state.SessionID = uuid.New().String()
	c.state.Queue = slices.Clone(resp.Items)
	c.state.TotalDue = resp.TotalDue
	c.state.NewCount = resp.NewCount
	c.state.ReviewCount = resp.ReviewCount
	c.state.OverdueCount = resp.OverdueCount

	c.logger.Info("queue loaded",
		"session_id", c.state.SessionID,
		"items", len(resp.Items),
		"total_due", resp.TotalDue)
	return nil
}

// SubmitRating rates the current item and advances on success. On failure
// the current item is kept so the rating can be retried.
func (c *Controller) SubmitRating(ctx context.Context, r Rating) (*ReviewResult, error) {
	attempt, err := c.BeginRating(r)
	if err != nil {
		return nil, err
	}
	res, err := c.Submit(ctx, attempt)
	if err := c.CompleteRating(attempt, res, err); err != nil {
		return nil, err
	}
	return res, nil
}

// BeginRating validates r against the current item and marks it as
// submitting. Only one rating may be in flight at a time.
func (c *Controller) BeginRating(r Rating) (RatingAttempt, error) {
	if !r.IsValid() {
		return RatingAttempt{}, &ValidationError{Err: ErrInvalidRating}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.state.Current()
	if !ok {
		return RatingAttempt{}, &ValidationError{Err: ErrNoCurrentItem}
	}
	if c.state.Submitting {
		return RatingAttempt{}, &ValidationError{Err: ErrRatingInFlight}
	}

	spent := max(int(c.now().Sub(c.state.ItemStartedAt)/time.Second), 0)
	c.state.Submitting = true
	c.state.Err = nil
	return RatingAttempt{
		generation: c.generation,
		Item:       item,
		Rating:     r,
		TimeSpent:  spent,
	}, nil
}

// Submit sends attempt through the pipeline without touching session state.
func (c *Controller) Submit(ctx context.Context, attempt RatingAttempt) (*ReviewResult, error) {
	return c.pipeline.Submit(ctx, attempt.Request())
}

// CompleteRating applies the outcome of attempt. A success records the
// rating and moves to the next item with the answer hidden. A failure is
// recorded and returned, leaving the item current. Attempts whose queue was
// replaced meanwhile are discarded with ErrStaleRequest.
func (c *Controller) CompleteRating(attempt RatingAttempt, res *ReviewResult, submitErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.state.Current()
	if attempt.generation != c.generation || !ok || cur.ID != attempt.Item.ID || !c.state.Submitting {
		return ErrStaleRequest
	}

	c.state.Submitting = false
	if submitErr != nil {
		c.state.Err = submitErr
		return submitErr
	}

	c.state.Tally.Add(attempt.Rating)
	c.state.CurrentIndex++
	c.state.Revealed = false
	c.state.ItemStartedAt = c.now()
	c.state.LastResult = res

	if c.state.IsComplete() {
		c.logger.Info("session complete",
			"session_id", c.state.SessionID,
			"studied", c.state.Tally.Total())
	}
	return nil
}
