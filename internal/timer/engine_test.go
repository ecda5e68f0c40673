package timer

import (
	"errors"
	"testing"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.WorkDuration = 10
	s.BreakDuration = 4
	s.LongBreakDuration = 8
	s.CyclesUntilLongBreak = 4
	return s
}

func newTestEngine(t *testing.T, s Settings) *Engine {
	t.Helper()
	e, err := NewEngine(s)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func tickN(e *Engine, n int) []Transition {
	var out []Transition
	for range n {
		if tr, ok := e.Tick(); ok {
			out = append(out, tr)
		}
	}
	return out
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestNewEngine_StartsStoppedInWork(t *testing.T) {
	e := newTestEngine(t, testSettings())
	st := e.State()

	if st.Phase != PhaseWork {
		t.Errorf("Phase = %v, want Work", st.Phase)
	}
	if st.Running {
		t.Error("expected new engine to be stopped")
	}
	if st.Remaining != 10 {
		t.Errorf("Remaining = %d, want 10", st.Remaining)
	}
}

func TestNewEngine_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero work", func(s *Settings) { s.WorkDuration = 0 }},
		{"negative break", func(s *Settings) { s.BreakDuration = -5 }},
		{"zero long break", func(s *Settings) { s.LongBreakDuration = 0 }},
		{"zero cycles", func(s *Settings) { s.CyclesUntilLongBreak = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			tt.mutate(&s)
			_, err := NewEngine(s)
			if !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("err = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestTick_NoopWhenPaused(t *testing.T) {
	e := newTestEngine(t, testSettings())

	if _, ok := e.Tick(); ok {
		t.Error("expected no transition while paused")
	}
	if got := e.State().Remaining; got != 10 {
		t.Errorf("Remaining = %d, want 10", got)
	}
}

func TestTick_FullWorkPhaseYieldsOneTransition(t *testing.T) {
	e := newTestEngine(t, testSettings())
	e.Start()

	transitions := tickN(e, 10)

	if len(transitions) != 1 {
		t.Fatalf("transitions = %d, want 1", len(transitions))
	}
	tr := transitions[0]
	if tr.From != PhaseWork || tr.To != PhaseBreak {
		t.Errorf("transition = %v -> %v, want Work -> Break", tr.From, tr.To)
	}
	if !tr.WorkCompleted {
		t.Error("expected WorkCompleted event")
	}

	st := e.State()
	if st.CompletedCycles != 1 {
		t.Errorf("CompletedCycles = %d, want 1", st.CompletedCycles)
	}
	if st.TodayCycles != 1 {
		t.Errorf("TodayCycles = %d, want 1", st.TodayCycles)
	}
	if st.Remaining != 4 {
		t.Errorf("Remaining = %d, want break duration 4", st.Remaining)
	}
	if st.Running {
		t.Error("expected break not to auto-start")
	}
}

func TestTick_SingleCycleLongBreak(t *testing.T) {
	s := testSettings()
	s.CyclesUntilLongBreak = 1
	e := newTestEngine(t, s)
	e.Start()

	transitions := tickN(e, s.WorkDuration)

	if len(transitions) != 1 || transitions[0].To != PhaseLongBreak {
		t.Fatalf("transitions = %+v, want one transition to LongBreak", transitions)
	}
	if got := e.State().Remaining; got != s.LongBreakDuration {
		t.Errorf("Remaining = %d, want %d", got, s.LongBreakDuration)
	}
}

func TestTick_SecondCycleLandsOnLongBreak(t *testing.T) {
	s := testSettings()
	s.CyclesUntilLongBreak = 2
	s.AutoStartBreak = true
	s.AutoStartWork = true
	e := newTestEngine(t, s)
	e.Start()

	transitions := tickN(e, s.WorkDuration+s.BreakDuration+s.WorkDuration)

	if len(transitions) != 3 {
		t.Fatalf("transitions = %d, want 3", len(transitions))
	}
	want := []Phase{PhaseBreak, PhaseWork, PhaseLongBreak}
	for i, tr := range transitions {
		if tr.To != want[i] {
			t.Errorf("transition %d To = %v, want %v", i, tr.To, want[i])
		}
	}
	if got := e.State().CompletedCycles; got != 2 {
		t.Errorf("CompletedCycles = %d, want 2", got)
	}
}

func TestTick_BreakToWorkDoesNotCount(t *testing.T) {
	s := testSettings()
	s.AutoStartBreak = true
	e := newTestEngine(t, s)
	e.Start()

	transitions := tickN(e, s.WorkDuration+s.BreakDuration)

	if len(transitions) != 2 {
		t.Fatalf("transitions = %d, want 2", len(transitions))
	}
	back := transitions[1]
	if back.From != PhaseBreak || back.To != PhaseWork || back.WorkCompleted {
		t.Errorf("second transition = %+v, want Break -> Work without event", back)
	}
	st := e.State()
	if st.CompletedCycles != 1 {
		t.Errorf("CompletedCycles = %d, want 1", st.CompletedCycles)
	}
	if st.Running {
		t.Error("expected work not to auto-start")
	}
}

func TestReset_KeepsCounters(t *testing.T) {
	s := testSettings()
	s.AutoStartBreak = true
	e := newTestEngine(t, s)
	e.Start()
	tickN(e, s.WorkDuration+1)

	e.Reset()

	st := e.State()
	if st.Phase != PhaseWork || st.Remaining != s.WorkDuration || st.Running {
		t.Errorf("after reset = %+v, want stopped full work phase", st)
	}
	if st.CompletedCycles != 1 || st.TodayCycles != 1 {
		t.Errorf("counters = %d/%d, want 1/1", st.CompletedCycles, st.TodayCycles)
	}
}

func TestSkipPhase(t *testing.T) {
	t.Run("work while paused", func(t *testing.T) {
		e := newTestEngine(t, testSettings())

		tr := e.SkipPhase()

		if tr.To != PhaseBreak || !tr.WorkCompleted {
			t.Errorf("transition = %+v, want Work -> Break with event", tr)
		}
		if st := e.State(); st.CompletedCycles != 1 || st.Running {
			t.Errorf("state = %+v, want 1 cycle and stopped", st)
		}
	})

	t.Run("auto start break", func(t *testing.T) {
		s := testSettings()
		s.AutoStartBreak = true
		e := newTestEngine(t, s)

		e.SkipPhase()

		if !e.State().Running {
			t.Error("expected break to auto-start after skip")
		}
	})

	t.Run("break back to work", func(t *testing.T) {
		e := newTestEngine(t, testSettings())
		e.SkipPhase()

		tr := e.SkipPhase()

		if tr.To != PhaseWork || tr.WorkCompleted {
			t.Errorf("transition = %+v, want Break -> Work", tr)
		}
		if got := e.State().CompletedCycles; got != 1 {
			t.Errorf("CompletedCycles = %d, want 1", got)
		}
	})
}

func TestUpdateSettings_ActivePhaseDuration(t *testing.T) {
	t.Run("stopped resets remaining", func(t *testing.T) {
		e := newTestEngine(t, testSettings())

		if err := e.UpdateSettings(SettingsPatch{WorkDuration: intPtr(42)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if got := e.State().Remaining; got != 42 {
			t.Errorf("Remaining = %d, want 42", got)
		}
	})

	t.Run("running keeps remaining", func(t *testing.T) {
		e := newTestEngine(t, testSettings())
		e.Start()
		e.Tick()

		if err := e.UpdateSettings(SettingsPatch{WorkDuration: intPtr(42)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		st := e.State()
		if st.Remaining != 9 {
			t.Errorf("Remaining = %d, want 9", st.Remaining)
		}
		if st.Settings.WorkDuration != 42 {
			t.Errorf("WorkDuration = %d, want 42", st.Settings.WorkDuration)
		}
	})

	t.Run("other phase untouched", func(t *testing.T) {
		e := newTestEngine(t, testSettings())

		if err := e.UpdateSettings(SettingsPatch{BreakDuration: intPtr(99)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if got := e.State().Remaining; got != 10 {
			t.Errorf("Remaining = %d, want 10", got)
		}
	})

	t.Run("long break phase", func(t *testing.T) {
		s := testSettings()
		s.CyclesUntilLongBreak = 1
		e := newTestEngine(t, s)
		e.SkipPhase()

		if err := e.UpdateSettings(SettingsPatch{LongBreakDuration: intPtr(30)}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if got := e.State().Remaining; got != 30 {
			t.Errorf("Remaining = %d, want 30", got)
		}
	})
}

func TestUpdateSettings_RejectsInvalid(t *testing.T) {
	e := newTestEngine(t, testSettings())

	err := e.UpdateSettings(SettingsPatch{CyclesUntilLongBreak: intPtr(0), AutoStartWork: boolPtr(true)})

	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
	st := e.State()
	if st.Settings.CyclesUntilLongBreak != 4 || st.Settings.AutoStartWork {
		t.Errorf("settings changed on rejected patch: %+v", st.Settings)
	}
}

func TestState_FormatAndProgress(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	e.Start()
	tickN(e, 90)

	st := e.State()
	if got := st.Format(); got != "23:30" {
		t.Errorf("Format() = %q, want %q", got, "23:30")
	}
	if got := st.Progress(); got != 1410.0/1500.0 {
		t.Errorf("Progress() = %v, want %v", got, 1410.0/1500.0)
	}
}

func TestSetCounters_ClampsNegative(t *testing.T) {
	e := newTestEngine(t, testSettings())

	e.SetCounters(-1, 7)

	st := e.State()
	if st.CompletedCycles != 0 || st.TodayCycles != 7 {
		t.Errorf("counters = %d/%d, want 0/7", st.CompletedCycles, st.TodayCycles)
	}
}

func TestRestore(t *testing.T) {
	e := newTestEngine(t, DefaultSettings())
	e.Start()
	tickN(e, 30)

	s := testSettings()
	if err := e.Restore(s, 5, 2); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	st := e.State()
	if st.Running || st.Phase != PhaseWork || st.Remaining != s.WorkDuration {
		t.Errorf("state = %+v, want stopped full work phase", st)
	}
	if st.CompletedCycles != 5 || st.TodayCycles != 2 {
		t.Errorf("counters = %d/%d, want 5/2", st.CompletedCycles, st.TodayCycles)
	}

	bad := s
	bad.WorkDuration = 0
	if err := e.Restore(bad, 1, 1); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Restore(invalid) error = %v, want ErrInvalidSettings", err)
	}
	if e.State().CompletedCycles != 5 {
		t.Error("rejected Restore changed the counters")
	}
}
