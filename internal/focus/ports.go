package focus

import (
	"context"

	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/store"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// Persistence loads and saves the local timer record.
type Persistence interface {
	Load(ctx context.Context) (*store.TimerRecord, error)
	Save(ctx context.Context, rec *store.TimerRecord) error
}

// CounterStore is the remote record of completed work cycles.
type CounterStore interface {
	RecordCycleComplete(ctx context.Context) (int, error)
	GetToday(ctx context.Context) (*remote.DayStats, error)
}

// SettingsStore mirrors timer settings remotely.
type SettingsStore interface {
	GetSettings(ctx context.Context) (timer.SettingsPatch, error)
	UpdateSettings(ctx context.Context, patch timer.SettingsPatch) error
}

// recordOf captures the persisted part of a timer state.
func recordOf(st timer.State) *store.TimerRecord {
	s := st.Settings
	return &store.TimerRecord{
		WorkDuration:         s.WorkDuration,
		BreakDuration:        s.BreakDuration,
		LongBreakDuration:    s.LongBreakDuration,
		CyclesUntilLongBreak: s.CyclesUntilLongBreak,
		AutoStartBreak:       s.AutoStartBreak,
		AutoStartWork:        s.AutoStartWork,
		SoundEnabled:         s.SoundEnabled,
		VibrationEnabled:     s.VibrationEnabled,
		CompletedCycleCount:  st.CompletedCycles,
		TodayCycleCount:      st.TodayCycles,
	}
}

// settingsOf extracts the settings held in rec.
func settingsOf(rec *store.TimerRecord) timer.Settings {
	return timer.Settings{
		WorkDuration:         rec.WorkDuration,
		BreakDuration:        rec.BreakDuration,
		LongBreakDuration:    rec.LongBreakDuration,
		CyclesUntilLongBreak: rec.CyclesUntilLongBreak,
		AutoStartBreak:       rec.AutoStartBreak,
		AutoStartWork:        rec.AutoStartWork,
		SoundEnabled:         rec.SoundEnabled,
		VibrationEnabled:     rec.VibrationEnabled,
	}
}
