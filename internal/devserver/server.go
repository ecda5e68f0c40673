// Package devserver is an in-memory stand-in for the study backend. It serves
// the same routes as the real API with a sample deck scheduled on a staged
// interval ladder, and can inject failures so client retry paths can be
// exercised.
package devserver

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/spacedrep"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// Options configures a Server.
type Options struct {
	// Cards seeds the deck. Nil selects the built-in sample deck.
	Cards []remote.Card

	// Token, when set, is required as a bearer token on every request.
	Token string

	// Now overrides the clock used for due dates and daily counters.
	Now func() time.Time
}

type cardState struct {
	card   remote.Card
	review spacedrep.ReviewState
}

type failure struct {
	status int
	left   int
}

// Server holds the in-memory backend state.
type Server struct {
	mu       sync.Mutex
	cards    []*cardState
	byID     map[string]*cardState
	days     map[string]*remote.DayStats
	settings timer.Settings
	failures map[string]*failure

	token  string
	now    func() time.Time
	logger *slog.Logger
}

// New creates a Server.
func New(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cards := opts.Cards
	if cards == nil {
		cards = SampleDeck()
	}

	s := &Server{
		byID:     make(map[string]*cardState, len(cards)),
		days:     make(map[string]*remote.DayStats),
		settings: timer.DefaultSettings(),
		failures: make(map[string]*failure),
		token:    opts.Token,
		now:      now,
		logger:   logger.With("component", "devserver"),
	}
	for _, c := range cards {
		st := &cardState{card: c, review: spacedrep.ReviewState{NextReviewDate: now()}}
		if c.ReviewCount > 0 {
			st.review.Stage = spacedrep.StageFor(c.IntervalDays)
			st.review.ConsecutiveHits = c.ReviewCount
		}
		s.cards = append(s.cards, st)
		s.byID[c.ID] = st
	}
	return s
}

// FailNext makes the next n requests to route ("METHOD /path") answer with
// status instead of being handled.
func (s *Server) FailNext(route string, n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = &failure{status: status, left: n}
}

// Handler returns the HTTP handler serving the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.injectFailures)
	if s.token != "" {
		r.Use(s.requireToken)
	}

	r.Route("/study", func(r chi.Router) {
		r.Get("/queue", s.handleQueue)
		r.Post("/review", s.handleReview)

		r.Route("/pomodoro", func(r chi.Router) {
			r.Post("/complete", s.handleCycleComplete)
			r.Get("/today", s.handleToday)
			r.Get("/history", s.handleHistory)
			r.Get("/settings", s.handleGetSettings)
			r.Patch("/settings", s.handlePatchSettings)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

func (s *Server) today() string {
	return s.now().Format(time.DateOnly)
}
