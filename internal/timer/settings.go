package timer

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default durations, in seconds.
const (
	DefaultWorkDuration         = 25 * 60
	DefaultBreakDuration        = 5 * 60
	DefaultLongBreakDuration    = 15 * 60
	DefaultCyclesUntilLongBreak = 4
)

// ErrInvalidSettings is returned when a settings patch would leave the timer
// with a non-positive duration or cycle count.
var ErrInvalidSettings = errors.New("invalid timer settings")

var validate = validator.New()

// Settings configures the focus timer. Durations are whole seconds.
type Settings struct {
	WorkDuration         int  `json:"workDuration" validate:"gt=0"`
	BreakDuration        int  `json:"breakDuration" validate:"gt=0"`
	LongBreakDuration    int  `json:"longBreakDuration" validate:"gt=0"`
	CyclesUntilLongBreak int  `json:"cyclesUntilLongBreak" validate:"min=1"`
	AutoStartBreak       bool `json:"autoStartBreak"`
	AutoStartWork        bool `json:"autoStartWork"`
	SoundEnabled         bool `json:"soundEnabled"`
	VibrationEnabled     bool `json:"vibrationEnabled"`
}

// DefaultSettings returns the classic 25/5/15 configuration with a long break
// every fourth cycle.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:         DefaultWorkDuration,
		BreakDuration:        DefaultBreakDuration,
		LongBreakDuration:    DefaultLongBreakDuration,
		CyclesUntilLongBreak: DefaultCyclesUntilLongBreak,
		SoundEnabled:         true,
		VibrationEnabled:     true,
	}
}

// Validate checks the settings bounds.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// DurationOf returns the configured length of phase p in seconds.
func (s Settings) DurationOf(p Phase) int {
	switch p {
	case PhaseBreak:
		return s.BreakDuration
	case PhaseLongBreak:
		return s.LongBreakDuration
	default:
		return s.WorkDuration
	}
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	WorkDuration         *int  `json:"workDuration,omitempty"`
	BreakDuration        *int  `json:"breakDuration,omitempty"`
	LongBreakDuration    *int  `json:"longBreakDuration,omitempty"`
	CyclesUntilLongBreak *int  `json:"cyclesUntilLongBreak,omitempty"`
	AutoStartBreak       *bool `json:"autoStartBreak,omitempty"`
	AutoStartWork        *bool `json:"autoStartWork,omitempty"`
	SoundEnabled         *bool `json:"soundEnabled,omitempty"`
	VibrationEnabled     *bool `json:"vibrationEnabled,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p == SettingsPatch{}
}

// ApplyTo returns s with every non-nil field of the patch merged in.
func (p SettingsPatch) ApplyTo(s Settings) Settings {
	if p.WorkDuration != nil {
		s.WorkDuration = *p.WorkDuration
	}
	if p.BreakDuration != nil {
		s.BreakDuration = *p.BreakDuration
	}
	if p.LongBreakDuration != nil {
		s.LongBreakDuration = *p.LongBreakDuration
	}
	if p.CyclesUntilLongBreak != nil {
		s.CyclesUntilLongBreak = *p.CyclesUntilLongBreak
	}
	if p.AutoStartBreak != nil {
		s.AutoStartBreak = *p.AutoStartBreak
	}
	if p.AutoStartWork != nil {
		s.AutoStartWork = *p.AutoStartWork
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.VibrationEnabled != nil {
		s.VibrationEnabled = *p.VibrationEnabled
	}
	return s
}

// SetsDurationOf reports whether the patch carries a duration for phase ph.
func (p SettingsPatch) SetsDurationOf(ph Phase) bool {
	switch ph {
	case PhaseBreak:
		return p.BreakDuration != nil
	case PhaseLongBreak:
		return p.LongBreakDuration != nil
	default:
		return p.WorkDuration != nil
	}
}
