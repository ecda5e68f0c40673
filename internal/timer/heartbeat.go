package timer

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

var lastHeartbeatID atomic.Int64

// TickMsg is delivered by a Heartbeat once per interval.
type TickMsg struct {
	ID   int64
	Time time.Time
	tag  int
}

// Heartbeat is a cancellable repeating one-second task for the bubbletea
// event loop. Each delivered TickMsg schedules the next one, so a heartbeat
// is a single chain of tea.Tick commands. Stop bumps the generation tag, which
// orphans the tick already in flight; Start is a no-op while running. At most
// one live chain exists per heartbeat.
type Heartbeat struct {
	id       int64
	tag      int
	running  bool
	interval time.Duration
}

// NewHeartbeat creates a stopped heartbeat firing every interval.
func NewHeartbeat(interval time.Duration) *Heartbeat {
	return &Heartbeat{
		id:       lastHeartbeatID.Add(1),
		interval: interval,
	}
}

// ID identifies this heartbeat's messages.
func (h *Heartbeat) ID() int64 {
	return h.id
}

// Running reports whether a tick chain is live.
func (h *Heartbeat) Running() bool {
	return h.running
}

// Start begins a new tick chain. It returns nil if one is already live.
func (h *Heartbeat) Start() tea.Cmd {
	if h.running {
		return nil
	}
	h.running = true
	h.tag++
	return h.next()
}

// Stop cancels the live chain, if any.
func (h *Heartbeat) Stop() {
	if !h.running {
		return
	}
	h.running = false
	h.tag++
}

// Accept reports whether msg belongs to the live chain. When it does, the
// returned command schedules the following tick.
func (h *Heartbeat) Accept(msg TickMsg) (bool, tea.Cmd) {
	if msg.ID != h.id || msg.tag != h.tag || !h.running {
		return false, nil
	}
	return true, h.next()
}

func (h *Heartbeat) next() tea.Cmd {
	id, tag := h.id, h.tag
	return tea.Tick(h.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t, tag: tag}
	})
}
