// Package events is the outward notification bus between the playback
// worker and the rest of the application. It carries three logically
// distinct categories: player-state changes, queue preload requests, and
// a coalescing refresh heartbeat.
package events

import (
	"time"

	"github.com/sirupsen/logrus"
)

// State is an outward-facing player state.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateStopped
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateFinished:
		return "finished"
	default:
		return "invalid"
	}
}

// PlayerEvent is a player-state change. Since is set for StatePlaying and
// holds the computed playback start timestamp: consumers derive live
// elapsed time as time.Since(Since) without asking the backend again.
// Position is set for StatePaused.
type PlayerEvent struct {
	State    State
	Since    time.Time
	Position time.Duration
}

// Elapsed returns the live elapsed playback time for a playing event.
func (e PlayerEvent) Elapsed() time.Duration {
	if e.State != StatePlaying {
		return e.Position
	}
	return time.Since(e.Since)
}

const playerBuffer = 64

// Manager fans worker notifications out to the application. Sends are
// fire-and-forget: a slow consumer drops events rather than blocking the
// worker loop.
type Manager struct {
	player  chan PlayerEvent
	preload chan struct{}
	refresh chan struct{}
}

// NewManager creates an event bus.
func NewManager() *Manager {
	return &Manager{
		player:  make(chan PlayerEvent, playerBuffer),
		preload: make(chan struct{}, 1),
		refresh: make(chan struct{}, 1),
	}
}

// Publish emits a player-state change. Never blocks.
func (m *Manager) Publish(ev PlayerEvent) {
	select {
	case m.player <- ev:
	default:
		logrus.Warnf("event bus full, dropping player event %s", ev.State)
	}
}

// RequestPreload signals that it is time to fetch the next queued item.
// Pending requests coalesce.
func (m *Manager) RequestPreload() {
	select {
	case m.preload <- struct{}{}:
	default:
	}
}

// Trigger emits the refresh heartbeat. Ticks coalesce: this is a cadence
// signal, not a work queue.
func (m *Manager) Trigger() {
	select {
	case m.refresh <- struct{}{}:
	default:
	}
}

// Player returns the player-state event channel.
func (m *Manager) Player() <-chan PlayerEvent {
	return m.player
}

// Preload returns the queue preload-request channel.
func (m *Manager) Preload() <-chan struct{} {
	return m.preload
}

// Refresh returns the heartbeat channel.
func (m *Manager) Refresh() <-chan struct{} {
	return m.refresh
}
