package timer

// Phase is the segment of the focus cycle the timer is counting down.
type Phase int

const (
	PhaseWork      Phase = iota // Focused study
	PhaseBreak                  // Short rest between work phases
	PhaseLongBreak              // Extended rest every N completed cycles
)

// String returns a human-readable label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "Work"
	case PhaseBreak:
		return "Break"
	case PhaseLongBreak:
		return "Long Break"
	}
	return "Unknown"
}

// IsBreak reports whether p is one of the rest phases.
func (p Phase) IsBreak() bool {
	return p == PhaseBreak || p == PhaseLongBreak
}
