package remote

import (
	"strconv"

	"github.com/juanmoyano123/cards-study/internal/study"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// Card is a due flashcard as served by GET /study/queue.
type Card struct {
	ID            string            `json:"id"`
	Question      string            `json:"question"`
	Answer        string            `json:"answer"`
	Explanation   *string           `json:"explanation,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Difficulty    int               `json:"difficulty"`
	IntervalDays  int               `json:"interval_days"`
	EaseFactor    float64           `json:"ease_factor"`
	ReviewCount   int               `json:"review_count"`
	MasteryLevel  string            `json:"mastery_level"`
	NextIntervals map[string]string `json:"next_intervals"`
}

// QueueResponse is the body of GET /study/queue.
type QueueResponse struct {
	Cards        []Card `json:"cards"`
	TotalDue     int    `json:"total_due"`
	NewCards     int    `json:"new_cards"`
	ReviewCards  int    `json:"review_cards"`
	OverdueCards int    `json:"overdue_cards"`
}

// ReviewRequest is the body of POST /study/review.
type ReviewRequest struct {
	CardID           string `json:"card_id"`
	Rating           int    `json:"rating"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// ReviewResponse is the answer to POST /study/review.
type ReviewResponse struct {
	Success         bool    `json:"success"`
	CardID          string  `json:"card_id"`
	NewIntervalDays int     `json:"new_interval_days"`
	NewEaseFactor   float64 `json:"new_ease_factor"`
	NewDueDate      string  `json:"new_due_date"`
	MasteryLevel    string  `json:"mastery_level"`
	CardsRemaining  int     `json:"cards_remaining"`
}

// CycleCompleteResponse is the answer to POST /study/pomodoro/complete.
type CycleCompleteResponse struct {
	Success       bool   `json:"success"`
	PomodoroCount int    `json:"pomodoro_count"`
	Message       string `json:"message,omitempty"`
}

// DayStats is the focus activity of one day.
type DayStats struct {
	PomodoroSessions  int    `json:"pomodoro_sessions"`
	TotalFocusMinutes int    `json:"total_focus_minutes"`
	Date              string `json:"date"`
}

// Settings is the remote timer settings document. Pointer fields are
// omitted from PATCH bodies when nil.
type Settings struct {
	WorkDuration            *int  `json:"work_duration,omitempty"`
	BreakDuration           *int  `json:"break_duration,omitempty"`
	LongBreakDuration       *int  `json:"long_break_duration,omitempty"`
	PomodorosUntilLongBreak *int  `json:"pomodoros_until_long_break,omitempty"`
	AutoStartBreak          *bool `json:"auto_start_break,omitempty"`
	AutoStartWork           *bool `json:"auto_start_work,omitempty"`
	SoundEnabled            *bool `json:"sound_enabled,omitempty"`
	VibrationEnabled        *bool `json:"vibration_enabled,omitempty"`
}

// SettingsFromPatch converts a local patch into a PATCH body carrying only
// the fields the patch sets.
func SettingsFromPatch(p timer.SettingsPatch) Settings {
	return Settings{
		WorkDuration:            p.WorkDuration,
		BreakDuration:           p.BreakDuration,
		LongBreakDuration:       p.LongBreakDuration,
		PomodorosUntilLongBreak: p.CyclesUntilLongBreak,
		AutoStartBreak:          p.AutoStartBreak,
		AutoStartWork:           p.AutoStartWork,
		SoundEnabled:            p.SoundEnabled,
		VibrationEnabled:        p.VibrationEnabled,
	}
}

// Patch returns the remote document as a local patch.
func (s Settings) Patch() timer.SettingsPatch {
	return timer.SettingsPatch{
		WorkDuration:         s.WorkDuration,
		BreakDuration:        s.BreakDuration,
		LongBreakDuration:    s.LongBreakDuration,
		CyclesUntilLongBreak: s.PomodorosUntilLongBreak,
		AutoStartBreak:       s.AutoStartBreak,
		AutoStartWork:        s.AutoStartWork,
		SoundEnabled:         s.SoundEnabled,
		VibrationEnabled:     s.VibrationEnabled,
	}
}

func (c Card) toItem() study.Item {
	item := study.Item{
		ID:           c.ID,
		Question:     c.Question,
		Answer:       c.Answer,
		Tags:         c.Tags,
		Difficulty:   c.Difficulty,
		MasteryLevel: study.MasteryLevel(c.MasteryLevel),
		ReviewCount:  c.ReviewCount,
	}
	if c.Explanation != nil {
		item.Explanation = *c.Explanation
	}
	if len(c.NextIntervals) > 0 {
		item.NextIntervals = make(map[study.Rating]string, len(c.NextIntervals))
		for k, v := range c.NextIntervals {
			n, err := strconv.Atoi(k)
			if err != nil || !study.Rating(n).IsValid() {
				continue
			}
			item.NextIntervals[study.Rating(n)] = v
		}
	}
	return item
}

func (q *QueueResponse) toStudy() *study.QueueResponse {
	items := make([]study.Item, 0, len(q.Cards))
	for _, c := range q.Cards {
		items = append(items, c.toItem())
	}
	return &study.QueueResponse{
		Items:        items,
		TotalDue:     q.TotalDue,
		NewCount:     q.NewCards,
		ReviewCount:  q.ReviewCards,
		OverdueCount: q.OverdueCards,
	}
}

func (r *ReviewResponse) toStudy() *study.ReviewResult {
	return &study.ReviewResult{
		NewIntervalDays: r.NewIntervalDays,
		NewDueDate:      r.NewDueDate,
		MasteryLevel:    study.MasteryLevel(r.MasteryLevel),
		CardsRemaining:  r.CardsRemaining,
	}
}
