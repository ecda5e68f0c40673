package focus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/juanmoyano123/cards-study/internal/store"
	"github.com/juanmoyano123/cards-study/internal/timer"
)

// DefaultSyncTimeout bounds each persistence or remote call made on behalf
// of the timer.
const DefaultSyncTimeout = 10 * time.Second

// Synchronizer applies settings changes to the engine immediately and then
// writes them through to local persistence and the remote settings store.
// Write-through failures are logged and never reach the caller; the local
// engine stays authoritative until the next successful sync.
//
// Saves run on command goroutines and may finish out of order. Every
// snapshot carries a sequence number and a save never overwrites a newer one.
type Synchronizer struct {
	engine  *timer.Engine
	persist Persistence
	remote  SettingsStore // nil when running offline
	timeout time.Duration
	logger  *slog.Logger

	issued atomic.Uint64
	mu     sync.Mutex // serializes persist.Save
	saved  uint64     // seq of the newest persisted snapshot, guarded by mu
}

// snapshot is a timer record tagged with the order it was taken in.
type snapshot struct {
	rec *store.TimerRecord
	seq uint64
}

// NewSynchronizer creates a synchronizer for engine. remote may be nil.
func NewSynchronizer(engine *timer.Engine, persist Persistence, remote SettingsStore, timeout time.Duration, logger *slog.Logger) *Synchronizer {
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		engine:  engine,
		persist: persist,
		remote:  remote,
		timeout: timeout,
		logger:  logger,
	}
}

// UpdateSettings applies patch to the engine. An invalid patch is rejected
// with timer.ErrInvalidSettings and nothing is written. Otherwise the
// returned command persists the new record and mirrors the patch remotely.
func (s *Synchronizer) UpdateSettings(patch timer.SettingsPatch) (tea.Cmd, error) {
	if err := s.engine.UpdateSettings(patch); err != nil {
		return nil, err
	}
	snap := s.snapshot()
	return func() tea.Msg {
		s.writeThrough(context.Background(), snap, patch)
		return nil
	}, nil
}

// UpdateSettingsNow is UpdateSettings for callers outside an event loop: the
// write-through runs before it returns.
func (s *Synchronizer) UpdateSettingsNow(ctx context.Context, patch timer.SettingsPatch) error {
	if err := s.engine.UpdateSettings(patch); err != nil {
		return err
	}
	s.writeThrough(ctx, s.snapshot(), patch)
	return nil
}

// Persist returns a command saving the current record, used after counter
// changes.
func (s *Synchronizer) Persist() tea.Cmd {
	snap := s.snapshot()
	return func() tea.Msg {
		s.save(context.Background(), snap)
		return nil
	}
}

// SaveNow persists the current record before returning.
func (s *Synchronizer) SaveNow(ctx context.Context) {
	s.save(ctx, s.snapshot())
}

func (s *Synchronizer) snapshot() snapshot {
	return snapshot{rec: recordOf(s.engine.State()), seq: s.issued.Add(1)}
}

func (s *Synchronizer) writeThrough(ctx context.Context, snap snapshot, patch timer.SettingsPatch) {
	s.save(ctx, snap)
	if s.remote == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.remote.UpdateSettings(ctx, patch); err != nil {
		s.logger.Warn("mirror settings to remote failed", "error", err)
	}
}

func (s *Synchronizer) save(ctx context.Context, snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.seq <= s.saved {
		s.logger.Debug("skip stale timer record", "seq", snap.seq, "saved", s.saved)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.persist.Save(ctx, snap.rec); err != nil {
		s.logger.Warn("persist timer record failed", "error", err)
		return
	}
	s.saved = snap.seq
}
