package study

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeProvider struct {
	resp  *QueueResponse
	err   error
	calls int
	last  QueueOptions
}

func (f *fakeProvider) FetchQueue(_ context.Context, opts QueueOptions) (*QueueResponse, error) {
	f.calls++
	f.last = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeScheduler struct {
	errs     []error // consumed one per call; nil entries succeed
	requests []ReviewRequest
}

func (f *fakeScheduler) SubmitReview(_ context.Context, req ReviewRequest) (*ReviewResult, error) {
	f.requests = append(f.requests, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &ReviewResult{NewIntervalDays: 3, MasteryLevel: MasteryLearning}, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func threeItems() *QueueResponse {
	return &QueueResponse{
		Items: []Item{
			{ID: "a", Question: "2+2?", Answer: "4"},
			{ID: "b", Question: "capital of France?", Answer: "Paris"},
			{ID: "c", Question: "H2O?", Answer: "water"},
		},
		TotalDue: 3,
	}
}

func newTestController(t *testing.T, p *fakeProvider, s *fakeScheduler) (*Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewController(p, NewPipeline(s, 0, discardLogger()), 0, discardLogger())
	c.now = clock.Now
	return c, clock
}

func TestController_FullSession(t *testing.T) {
	sched := &fakeScheduler{}
	c, clock := newTestController(t, &fakeProvider{resp: threeItems()}, sched)

	if err := c.LoadQueue(context.Background(), QueueOptions{Limit: 20}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}
	if c.State().SessionID == "" {
		t.Error("expected a session ID after load")
	}

	for _, r := range []Rating{Good, Again, Easy} {
		clock.Advance(7 * time.Second)
		if _, err := c.SubmitRating(context.Background(), r); err != nil {
			t.Fatalf("SubmitRating(%v): %v", r, err)
		}
	}

	if !c.IsComplete() {
		t.Fatal("expected session to be complete")
	}
	if _, ok := c.Current(); ok {
		t.Error("expected no current item after completion")
	}

	st := c.State()
	want := Tally{Again: 1, Good: 1, Easy: 1}
	if st.Tally != want {
		t.Errorf("Tally = %+v, want %+v", st.Tally, want)
	}
	if st.Tally.Total() != st.CurrentIndex {
		t.Errorf("Tally.Total() = %d, CurrentIndex = %d", st.Tally.Total(), st.CurrentIndex)
	}

	p := c.Progress()
	if p.Studied != 3 || p.Total != 3 || p.Percentage != 100 {
		t.Errorf("Progress = %+v, want 3/3 100%%", p)
	}

	sum := c.Summary(2)
	if sum.SuccessRate != 67 {
		t.Errorf("SuccessRate = %d, want 67", sum.SuccessRate)
	}
	if sum.Duration != 21*time.Second {
		t.Errorf("Duration = %v, want 21s", sum.Duration)
	}
	if sum.FocusCycles != 2 {
		t.Errorf("FocusCycles = %d, want 2", sum.FocusCycles)
	}

	for i, req := range sched.requests {
		if req.TimeSpentSeconds != 7 {
			t.Errorf("request %d TimeSpentSeconds = %d, want 7", i, req.TimeSpentSeconds)
		}
	}
}

func TestController_RatingFailureKeepsItem(t *testing.T) {
	down := errors.New("connection refused")
	sched := &fakeScheduler{errs: []error{down}}
	c, _ := newTestController(t, &fakeProvider{resp: threeItems()}, sched)
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}
	c.Reveal()

	_, err := c.SubmitRating(context.Background(), Good)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if !errors.Is(err, down) {
		t.Errorf("error = %v, want wrapping %v", err, down)
	}
	st := c.State()
	if st.CurrentIndex != 0 || st.Tally.Total() != 0 {
		t.Errorf("index/tally = %d/%d, want 0/0", st.CurrentIndex, st.Tally.Total())
	}
	if st.Submitting {
		t.Error("expected Submitting to be cleared after failure")
	}
	if st.Err == nil {
		t.Error("expected error to be recorded")
	}
	if !st.Revealed {
		t.Error("expected answer to stay revealed after failure")
	}

	if _, err := c.SubmitRating(context.Background(), Good); err != nil {
		t.Fatalf("retry SubmitRating: %v", err)
	}
	st = c.State()
	if st.CurrentIndex != 1 || st.Tally.Good != 1 {
		t.Errorf("after retry index/good = %d/%d, want 1/1", st.CurrentIndex, st.Tally.Good)
	}
	if st.Err != nil {
		t.Errorf("Err = %v, want nil after successful retry", st.Err)
	}
	if st.Revealed {
		t.Error("expected answer hidden on the next item")
	}
}

func TestController_RatingValidation(t *testing.T) {
	sched := &fakeScheduler{}
	c, _ := newTestController(t, &fakeProvider{resp: threeItems()}, sched)

	if _, err := c.SubmitRating(context.Background(), Good); !errors.Is(err, ErrNoCurrentItem) {
		t.Errorf("before load error = %v, want ErrNoCurrentItem", err)
	}

	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}

	tests := []struct {
		name   string
		rating Rating
	}{
		{"zero", 0},
		{"too high", 5},
		{"negative", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.SubmitRating(context.Background(), tt.rating)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || !errors.Is(err, ErrInvalidRating) {
				t.Errorf("error = %v, want ValidationError(ErrInvalidRating)", err)
			}
		})
	}

	if len(sched.requests) != 0 {
		t.Errorf("scheduler called %d times, want 0", len(sched.requests))
	}
}

func TestController_SecondRatingWhileInFlight(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{resp: threeItems()}, &fakeScheduler{})
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}

	first, err := c.BeginRating(Good)
	if err != nil {
		t.Fatalf("BeginRating: %v", err)
	}
	if _, err := c.BeginRating(Easy); !errors.Is(err, ErrRatingInFlight) {
		t.Errorf("second BeginRating error = %v, want ErrRatingInFlight", err)
	}

	if err := c.CompleteRating(first, &ReviewResult{}, nil); err != nil {
		t.Fatalf("CompleteRating: %v", err)
	}
	if got := c.State().Tally.Good; got != 1 {
		t.Errorf("Tally.Good = %d, want 1", got)
	}
}

func TestController_StaleLoadDiscarded(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{}, &fakeScheduler{})

	older, err := c.BeginLoad(QueueOptions{Limit: 10})
	if err != nil {
		t.Fatalf("BeginLoad: %v", err)
	}
	newer, err := c.BeginLoad(QueueOptions{Limit: 5})
	if err != nil {
		t.Fatalf("BeginLoad: %v", err)
	}

	fresh := &QueueResponse{Items: []Item{{ID: "fresh"}}}
	if err := c.CompleteLoad(newer, fresh, nil); err != nil {
		t.Fatalf("CompleteLoad(newer): %v", err)
	}
	if err := c.CompleteLoad(older, threeItems(), nil); !errors.Is(err, ErrStaleRequest) {
		t.Errorf("CompleteLoad(older) error = %v, want ErrStaleRequest", err)
	}

	st := c.State()
	if len(st.Queue) != 1 || st.Queue[0].ID != "fresh" {
		t.Errorf("Queue = %+v, want only the newer response", st.Queue)
	}
	if st.Loading {
		t.Error("expected Loading to be cleared")
	}
}

func TestController_RatingDiscardedAfterReload(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{resp: threeItems()}, &fakeScheduler{})
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}

	attempt, err := c.BeginRating(Hard)
	if err != nil {
		t.Fatalf("BeginRating: %v", err)
	}
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if err := c.CompleteRating(attempt, &ReviewResult{}, nil); !errors.Is(err, ErrStaleRequest) {
		t.Errorf("CompleteRating error = %v, want ErrStaleRequest", err)
	}
	if got := c.State().Tally.Total(); got != 0 {
		t.Errorf("Tally.Total() = %d, want 0", got)
	}
}

func TestController_LoadFailure(t *testing.T) {
	down := errors.New("503 service unavailable")
	p := &fakeProvider{resp: threeItems()}
	c, _ := newTestController(t, p, &fakeScheduler{})
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}
	if _, err := c.SubmitRating(context.Background(), Good); err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}

	p.err = down
	err := c.LoadQueue(context.Background(), QueueOptions{})

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	st := c.State()
	if len(st.Queue) != 0 || st.CurrentIndex != 0 || st.Tally.Total() != 0 {
		t.Errorf("state = %d items/index %d/tally %d, want empty", len(st.Queue), st.CurrentIndex, st.Tally.Total())
	}
	if st.Err == nil {
		t.Error("expected error to be recorded")
	}
	if c.IsEmpty() {
		t.Error("a failed load should not report an empty queue")
	}
}

func TestController_EmptyQueue(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{resp: &QueueResponse{}}, &fakeScheduler{})
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}

	if !c.IsEmpty() {
		t.Error("expected IsEmpty")
	}
	if c.IsComplete() {
		t.Error("an empty queue is not a completed session")
	}
	if p := c.Progress(); p.Percentage != 0 {
		t.Errorf("Percentage = %d, want 0", p.Percentage)
	}
	if sum := c.Summary(0); sum.SuccessRate != 0 || sum.Studied != 0 {
		t.Errorf("Summary = %+v, want zero studied", sum)
	}
}

func TestController_InvalidOptions(t *testing.T) {
	p := &fakeProvider{resp: threeItems()}
	c, _ := newTestController(t, p, &fakeScheduler{})

	tests := []struct {
		name string
		opts QueueOptions
	}{
		{"limit too high", QueueOptions{Limit: 201}},
		{"negative limit", QueueOptions{Limit: -1}},
		{"new limit too high", QueueOptions{NewLimit: 51}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.LoadQueue(context.Background(), tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("error = %v, want ErrInvalidOptions", err)
			}
		})
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times, want 0", p.calls)
	}
}

func TestController_RevealToggle(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{resp: threeItems()}, &fakeScheduler{})

	c.Reveal()
	if c.State().Revealed {
		t.Error("Reveal without a current item should be a no-op")
	}

	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}
	c.Toggle()
	if !c.State().Revealed {
		t.Error("expected Toggle to reveal")
	}
	c.Toggle()
	if c.State().Revealed {
		t.Error("expected second Toggle to hide")
	}
	c.Reveal()
	c.Hide()
	if c.State().Revealed {
		t.Error("expected Hide to hide")
	}
}

func TestController_StateIsSnapshot(t *testing.T) {
	c, _ := newTestController(t, &fakeProvider{resp: threeItems()}, &fakeScheduler{})
	if err := c.LoadQueue(context.Background(), QueueOptions{}); err != nil {
		t.Fatalf("LoadQueue: %v", err)
	}

	st := c.State()
	st.Queue[0].ID = "mutated"

	if cur, _ := c.Current(); cur.ID != "a" {
		t.Errorf("Current().ID = %q, want %q", cur.ID, "a")
	}
}
