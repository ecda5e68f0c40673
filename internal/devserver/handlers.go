package devserver

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/spacedrep"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

func intervalLabel(days int) string {
	switch {
	case days == 0:
		return "< 10m"
	case days < 30:
		return fmt.Sprintf("%dd", days)
	case days < 365:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dy", days/365)
	}
}

// nextIntervals previews the interval each rating would grant.
func nextIntervals(rs spacedrep.ReviewState) map[string]string {
	out := make(map[string]string, spacedrep.Easy)
	for rating := spacedrep.Again; rating <= spacedrep.Easy; rating++ {
		out[strconv.Itoa(rating)] = intervalLabel(rs.Preview(rating))
	}
	return out
}

// intParam parses an optional integer query parameter within [lo, hi].
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", name, lo, hi)
	}
	return n, nil
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 50, 1, 200)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	newLimit, err := intParam(r, "new_cards_limit", 20, 0, 50)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	includeNew := true
	if raw := r.URL.Query().Get("include_new"); raw != "" {
		if includeNew, err = strconv.ParseBool(raw); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "include_new must be a boolean")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var due []*cardState
	for _, st := range s.cards {
		if st.review.IsDue(now) {
			due = append(due, st)
		}
	}
	// Most overdue first.
	slices.SortStableFunc(due, func(a, b *cardState) int {
		return cmp.Compare(b.review.OverdueDays(now), a.review.OverdueDays(now))
	})

	var review, fresh []remote.Card
	overdue := 0
	for _, st := range due {
		c := st.card
		c.NextIntervals = nextIntervals(st.review)
		if c.ReviewCount > 0 {
			review = append(review, c)
			if st.review.OverdueDays(now) >= 1 {
				overdue++
			}
		} else if includeNew && len(fresh) < newLimit {
			fresh = append(fresh, c)
		}
	}

	cards := append(review, fresh...)
	if len(cards) > limit {
		cards = cards[:limit]
	}
	resp := remote.QueueResponse{
		Cards:        cards,
		TotalDue:     len(review) + len(fresh),
		OverdueCards: overdue,
	}
	for _, c := range cards {
		if c.ReviewCount > 0 {
			resp.ReviewCards++
		} else {
			resp.NewCards++
		}
	}
	if resp.Cards == nil {
		resp.Cards = []remote.Card{}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req remote.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch {
	case req.CardID == "":
		respondWithError(w, http.StatusUnprocessableEntity, "card_id is required")
		return
	case !spacedrep.ValidRating(req.Rating):
		respondWithError(w, http.StatusUnprocessableEntity, "rating must be between 1 and 4")
		return
	case req.TimeSpentSeconds < 0:
		respondWithError(w, http.StatusUnprocessableEntity, "time_spent_seconds must be >= 0")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, found := s.byID[req.CardID]
	if !found {
		respondWithError(w, http.StatusNotFound, "flashcard not found")
		return
	}

	now := s.now()
	days := st.review.Record(req.Rating, now)
	st.card.ReviewCount++
	st.card.IntervalDays = days
	st.card.MasteryLevel = spacedrep.MasteryFor(st.card.ReviewCount, days)

	remaining := 0
	for _, c := range s.cards {
		if c.review.IsDue(now) {
			remaining++
		}
	}

	respondWithJSON(w, http.StatusOK, remote.ReviewResponse{
		Success:         true,
		CardID:          req.CardID,
		NewIntervalDays: days,
		NewEaseFactor:   st.card.EaseFactor,
		NewDueDate:      st.review.NextReviewDate.Format(time.DateOnly),
		MasteryLevel:    st.card.MasteryLevel,
		CardsRemaining:  remaining,
	})
}

func (s *Server) handleCycleComplete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := s.today()
	day, ok := s.days[date]
	if !ok {
		day = &remote.DayStats{Date: date}
		s.days[date] = day
	}
	day.PomodoroSessions++
	day.TotalFocusMinutes += s.settings.WorkDuration / 60

	respondWithJSON(w, http.StatusOK, remote.CycleCompleteResponse{
		Success:       true,
		PomodoroCount: day.PomodoroSessions,
	})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[s.today()]
	if !ok {
		respondWithError(w, http.StatusNotFound, "no focus session today")
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	from, err1 := time.Parse(time.DateOnly, r.URL.Query().Get("start_date"))
	to, err2 := time.Parse(time.DateOnly, r.URL.Query().Get("end_date"))
	if err1 != nil || err2 != nil || to.Before(from) {
		respondWithError(w, http.StatusUnprocessableEntity, "start_date and end_date must be YYYY-MM-DD with start <= end")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []remote.DayStats{}
	for date, day := range s.days {
		d, err := time.Parse(time.DateOnly, date)
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, *day)
	}
	slices.SortFunc(out, func(a, b remote.DayStats) int {
		return strings.Compare(a.Date, b.Date)
	})
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondWithJSON(w, http.StatusOK, settingsDocument(s.settings))
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var body remote.Settings
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := body.Patch().ApplyTo(s.settings)
	if err := merged.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.settings = merged
	respondWithJSON(w, http.StatusOK, settingsDocument(s.settings))
}

func settingsDocument(st timer.Settings) remote.Settings {
	return remote.Settings{
		WorkDuration:            &st.WorkDuration,
		BreakDuration:           &st.BreakDuration,
		LongBreakDuration:       &st.LongBreakDuration,
		PomodorosUntilLongBreak: &st.CyclesUntilLongBreak,
		AutoStartBreak:          &st.AutoStartBreak,
		AutoStartWork:           &st.AutoStartWork,
		SoundEnabled:            &st.SoundEnabled,
		VibrationEnabled:        &st.VibrationEnabled,
	}
}
