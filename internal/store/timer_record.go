package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// TimerRecordKey is the KV key holding the persisted focus timer.
const TimerRecordKey = "timer-storage"

// TimerRecord is the persisted focus timer: its settings and cycle counters.
// The JSON layout is shared with other clients of the same account and must
// stay stable.
type TimerRecord struct {
	WorkDuration         int  `json:"workDuration"`
	BreakDuration        int  `json:"breakDuration"`
	LongBreakDuration    int  `json:"longBreakDuration"`
	CyclesUntilLongBreak int  `json:"cyclesUntilLongBreak"`
	AutoStartBreak       bool `json:"autoStartBreak"`
	AutoStartWork        bool `json:"autoStartWork"`
	SoundEnabled         bool `json:"soundEnabled"`
	VibrationEnabled     bool `json:"vibrationEnabled"`
	CompletedCycleCount  int  `json:"completedCycleCount"`
	TodayCycleCount      int  `json:"todayCycleCount"`
}

// TimerRecordRepo loads and saves the TimerRecord through a KV.
type TimerRecordRepo struct {
	kv KV
}

// NewTimerRecordRepo creates a repository over kv.
func NewTimerRecordRepo(kv KV) *TimerRecordRepo {
	return &TimerRecordRepo{kv: kv}
}

// Load returns the persisted record, or nil if none has been saved.
func (r *TimerRecordRepo) Load(ctx context.Context) (*TimerRecord, error) {
	raw, ok, err := r.kv.Get(ctx, TimerRecordKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var rec TimerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode timer record: %w", err)
	}
	return &rec, nil
}

// Save overwrites the persisted record.
func (r *TimerRecordRepo) Save(ctx context.Context, rec *TimerRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode timer record: %w", err)
	}
	return r.kv.Set(ctx, TimerRecordKey, string(b))
}

// Clear removes the persisted record.
func (r *TimerRecordRepo) Clear(ctx context.Context) error {
	return r.kv.Remove(ctx, TimerRecordKey)
}
