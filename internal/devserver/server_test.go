package devserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanmoyano123/cards-study/internal/remote"
)

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	}
	s := New(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestQueue_ReviewCardsFirstAndNewLimit(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	var q remote.QueueResponse
	code := doJSON(t, http.MethodGet, ts.URL+"/study/queue?new_cards_limit=1", "", &q)

	require.Equal(t, http.StatusOK, code)
	require.Len(t, q.Cards, 4)
	assert.Equal(t, 3, q.ReviewCards)
	assert.Equal(t, 1, q.NewCards)
	assert.Positive(t, q.Cards[0].ReviewCount)
	assert.Equal(t, 0, q.Cards[3].ReviewCount)
	assert.Equal(t, "< 10m", q.Cards[0].NextIntervals["1"])
}

func TestQueue_ExcludeNewAndLimit(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	var q remote.QueueResponse
	code := doJSON(t, http.MethodGet, ts.URL+"/study/queue?include_new=false&limit=2", "", &q)

	require.Equal(t, http.StatusOK, code)
	assert.Len(t, q.Cards, 2)
	assert.Equal(t, 0, q.NewCards)
}

func TestQueue_RejectsBadParams(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	for _, query := range []string{"limit=0", "limit=201", "new_cards_limit=51", "include_new=maybe"} {
		code := doJSON(t, http.MethodGet, ts.URL+"/study/queue?"+query, "", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code, query)
	}
}

func TestReview_RemovesCardFromQueue(t *testing.T) {
	_, ts := newTestServer(t, Options{Cards: []remote.Card{newCard("x", "q", "a", 1)}})

	var res remote.ReviewResponse
	code := doJSON(t, http.MethodPost, ts.URL+"/study/review", `{"card_id":"x","rating":3,"time_spent_seconds":4}`, &res)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, res.NewIntervalDays)
	assert.Equal(t, "2026-03-04", res.NewDueDate)
	assert.Equal(t, "young", res.MasteryLevel)
	assert.Equal(t, 0, res.CardsRemaining)

	var q remote.QueueResponse
	doJSON(t, http.MethodGet, ts.URL+"/study/queue", "", &q)
	assert.Empty(t, q.Cards)
}

func TestReview_AgainKeepsCardDue(t *testing.T) {
	_, ts := newTestServer(t, Options{Cards: []remote.Card{newCard("x", "q", "a", 1)}})

	var res remote.ReviewResponse
	doJSON(t, http.MethodPost, ts.URL+"/study/review", `{"card_id":"x","rating":1}`, &res)

	assert.Equal(t, 1, res.CardsRemaining)
	assert.Equal(t, "learning", res.MasteryLevel)
}

func TestReview_CardComesBackWhenDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	_, ts := newTestServer(t, Options{Now: clock, Cards: []remote.Card{
		newCard("a", "q", "a", 1),
		newCard("b", "q", "a", 1),
	}})

	doJSON(t, http.MethodPost, ts.URL+"/study/review", `{"card_id":"a","rating":3}`, nil)
	doJSON(t, http.MethodPost, ts.URL+"/study/review", `{"card_id":"b","rating":4}`, nil)

	now = now.AddDate(0, 0, 10)
	var q remote.QueueResponse
	doJSON(t, http.MethodGet, ts.URL+"/study/queue", "", &q)

	require.Len(t, q.Cards, 2)
	assert.Equal(t, "a", q.Cards[0].ID, "most overdue first")
	assert.Equal(t, 2, q.OverdueCards)
	assert.Equal(t, "7d", q.Cards[0].NextIntervals["3"])
	assert.Equal(t, "3d", q.Cards[0].NextIntervals["2"])
}

func TestReview_Validation(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"missing card", `{"rating":3}`, http.StatusUnprocessableEntity},
		{"bad rating", `{"card_id":"card-01","rating":5}`, http.StatusUnprocessableEntity},
		{"negative time", `{"card_id":"card-01","rating":3,"time_spent_seconds":-1}`, http.StatusUnprocessableEntity},
		{"unknown card", `{"card_id":"nope","rating":3}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doJSON(t, http.MethodPost, ts.URL+"/study/review", tt.body, nil))
		})
	}
}

func TestPomodoro_CounterAndToday(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, ts.URL+"/study/pomodoro/today", "", nil))

	var done remote.CycleCompleteResponse
	doJSON(t, http.MethodPost, ts.URL+"/study/pomodoro/complete", "", &done)
	doJSON(t, http.MethodPost, ts.URL+"/study/pomodoro/complete", "", &done)
	assert.Equal(t, 2, done.PomodoroCount)

	var today remote.DayStats
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/study/pomodoro/today", "", &today))
	assert.Equal(t, 2, today.PomodoroSessions)
	assert.Equal(t, 50, today.TotalFocusMinutes)
	assert.Equal(t, "2026-03-01", today.Date)

	var hist []remote.DayStats
	doJSON(t, http.MethodGet, ts.URL+"/study/pomodoro/history?start_date=2026-02-25&end_date=2026-03-01", "", &hist)
	require.Len(t, hist, 1)
	assert.Equal(t, 2, hist[0].PomodoroSessions)
}

func TestSettings_PatchMerges(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	var got remote.Settings
	code := doJSON(t, http.MethodPatch, ts.URL+"/study/pomodoro/settings", `{"work_duration":3000,"auto_start_break":true}`, &got)

	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, got.WorkDuration)
	assert.Equal(t, 3000, *got.WorkDuration)
	assert.Equal(t, 300, *got.BreakDuration)
	assert.True(t, *got.AutoStartBreak)

	code = doJSON(t, http.MethodPatch, ts.URL+"/study/pomodoro/settings", `{"pomodoros_until_long_break":0}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestFailNext(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	s.FailNext("GET /study/queue", 2, http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, http.MethodGet, ts.URL+"/study/queue", "", nil))
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, http.MethodGet, ts.URL+"/study/queue", "", nil))
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, ts.URL+"/study/queue", "", nil))
}

func TestRequireToken(t *testing.T) {
	_, ts := newTestServer(t, Options{Token: "secret"})

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, http.MethodGet, ts.URL+"/study/queue", "", nil))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/study/queue", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
