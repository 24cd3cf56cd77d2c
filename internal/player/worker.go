// Package player contains the playback worker: a single goroutine that
// multiplexes playback commands, backend lifecycle events, a refresh
// ticker and a single-slot background token fetch into one control loop.
package player

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walshb/ncspot/internal/events"
	"github.com/walshb/ncspot/internal/spotify/auth"
	"github.com/walshb/ncspot/internal/spotify/id"
)

// refreshInterval is the cadence of the outward refresh heartbeat while
// playback is active.
const refreshInterval = 400 * time.Millisecond

// tokenScopes is the fixed permission set requested for access tokens.
const tokenScopes = "user-read-private,playlist-read-private," +
	"playlist-read-collaborative,playlist-modify-public," +
	"playlist-modify-private,user-follow-modify,user-follow-read," +
	"user-library-read,user-library-modify,user-top-read," +
	"user-read-recently-played"

// CommandBuffer is the capacity of command channels fed to the worker.
const CommandBuffer = 16

// Worker owns all playback state. Nothing outside the loop goroutine
// touches active or the token slot; anything that wants to affect
// playback goes through the command channel.
type Worker struct {
	bus           *events.Manager
	backend       Backend
	mixer         Mixer
	session       Session
	commands      <-chan Command
	backendEvents <-chan Event

	refreshEvery time.Duration

	// active is true exactly while the backend last reported audio
	// flowing. It tracks backend events only, never client intent.
	active bool

	// Background token-fetch slot: nil channels are never-ready select
	// branches, so an idle slot cannot wake the loop. The reply is
	// delivered by the loop itself once done closes, so a superseded
	// fetch can never reach its caller no matter when it finishes.
	tokenDone   chan struct{}
	tokenCancel context.CancelFunc
	tokenFetch  *tokenFetch
}

// tokenFetch is one occupant of the token slot. The goroutine writes
// token and err before closing done; the loop reads them after.
type tokenFetch struct {
	done  chan struct{}
	reply chan<- *auth.Token
	token *auth.Token
	err   error
}

// New creates a worker. The worker takes sole ownership of the receiving
// ends of commands and backendEvents.
func New(bus *events.Manager, backend Backend, mixer Mixer, session Session, commands <-chan Command, backendEvents <-chan Event) *Worker {
	return &Worker{
		bus:           bus,
		backend:       backend,
		mixer:         mixer,
		session:       session,
		commands:      commands,
		backendEvents: backendEvents,
		refreshEvery:  refreshInterval,
	}
}

// SetRefreshInterval overrides the heartbeat cadence. Call before Run.
func (w *Worker) SetRefreshInterval(d time.Duration) {
	if d > 0 {
		w.refreshEvery = d
	}
}

// Run executes the worker loop until the session is invalidated, the
// backend event channel closes, or ctx is cancelled. Exactly one input is
// processed per iteration and the session health check runs at the top of
// every iteration regardless of which branch fired.
//
// The session-invalid exit publishes a final Stopped event; the
// channel-closure exit does not, so consumers relying on a terminal event
// will not observe one on that path.
func (w *Worker) Run(ctx context.Context) {
	// Cleanup guarantee: playback stops on every exit path.
	defer w.backend.Stop()
	defer func() {
		if w.tokenCancel != nil {
			w.tokenCancel()
		}
	}()

	ticker := time.NewTicker(w.refreshEvery)
	defer ticker.Stop()

	commands := w.commands

	for {
		if w.session.Invalid() {
			logrus.Info("session invalidated, terminating worker")
			w.bus.Publish(events.PlayerEvent{State: events.StateStopped})
			return
		}

		select {
		case <-ctx.Done():
			logrus.Debug("worker context cancelled")
			return

		case cmd, ok := <-commands:
			if !ok {
				logrus.Info("command channel closed")
				commands = nil
				continue
			}
			w.handleCommand(ctx, cmd)

		case ev, ok := <-w.backendEvents:
			if !ok {
				logrus.Warn("backend event channel closed, terminating worker")
				return
			}
			w.handleEvent(ev)

		case <-ticker.C:
			if w.active {
				w.bus.Trigger()
			}

		case <-w.tokenDone:
			w.finishTokenFetch()
		}
	}
}

func (w *Worker) handleCommand(ctx context.Context, cmd Command) {
	switch cmd.Type {
	case CmdLoad:
		item, err := id.FromURI(cmd.Track.URI)
		if err != nil {
			logrus.Errorf("cannot parse uri %q: %v", cmd.Track.URI, err)
			w.bus.Publish(events.PlayerEvent{State: events.StateFinished})
			return
		}
		if !item.Playable() {
			logrus.Warnf("%s is not playable", item)
			w.bus.Publish(events.PlayerEvent{State: events.StateFinished})
			return
		}
		logrus.Infof("loading %s", item)
		w.backend.Load(item, cmd.StartPlaying, cmd.Position)

	case CmdPlay:
		w.backend.Play()

	case CmdPause:
		w.backend.Pause()

	case CmdStop:
		w.backend.Stop()

	case CmdSeek:
		w.backend.Seek(cmd.Position)

	case CmdSetVolume:
		w.mixer.SetVolume(cmd.Volume)

	case CmdRequestToken:
		w.requestToken(ctx, cmd.Reply)

	case CmdPreload:
		item, err := id.FromURI(cmd.Track.URI)
		if err != nil {
			logrus.Debugf("skipping preload, cannot parse uri %q: %v", cmd.Track.URI, err)
			return
		}
		logrus.Debugf("preloading %s", item)
		w.backend.Preload(item)

	case CmdShutdown:
		w.backend.Stop()
		w.session.Shutdown()
	}
}

func (w *Worker) handleEvent(ev Event) {
	switch ev.Type {
	case EventPlaying:
		w.bus.Publish(events.PlayerEvent{
			State: events.StatePlaying,
			Since: time.Now().Add(-ev.Position),
		})
		w.active = true

	case EventSeeked, EventPositionCorrection:
		// Seeking while playing restarts the virtual clock at the new
		// offset; seeking while paused just moves the paused position.
		if w.active {
			w.bus.Publish(events.PlayerEvent{
				State: events.StatePlaying,
				Since: time.Now().Add(-ev.Position),
			})
		} else {
			w.bus.Publish(events.PlayerEvent{
				State:    events.StatePaused,
				Position: ev.Position,
			})
		}

	case EventPaused:
		w.bus.Publish(events.PlayerEvent{
			State:    events.StatePaused,
			Position: ev.Position,
		})
		w.active = false

	case EventStopped:
		w.bus.Publish(events.PlayerEvent{State: events.StateStopped})
		w.active = false

	case EventEndOfTrack:
		w.bus.Publish(events.PlayerEvent{State: events.StateFinished})

	case EventTimeToPreloadNextTrack:
		w.bus.RequestPreload()

	default:
		// Loading, session and mode-change events are owned by other
		// components.
		logrus.Tracef("ignoring backend event %s", ev.Type)
	}
}

// requestToken fills the background task slot, abandoning any in-flight
// fetch. The goroutine only records its result; the loop delivers it,
// so an abandoned fetch's reply channel never receives a value even if
// the fetch completes after being replaced.
func (w *Worker) requestToken(ctx context.Context, reply chan<- *auth.Token) {
	if w.tokenCancel != nil {
		w.tokenCancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	f := &tokenFetch{done: make(chan struct{}), reply: reply}
	w.tokenDone = f.done
	w.tokenCancel = cancel
	w.tokenFetch = f

	go func() {
		defer close(f.done)
		f.token, f.err = w.session.FetchToken(ctx, tokenScopes)
	}()
}

// finishTokenFetch empties the slot and delivers the result of the
// fetch that still occupies it.
func (w *Worker) finishTokenFetch() {
	f := w.tokenFetch
	w.tokenCancel()
	w.tokenDone = nil
	w.tokenCancel = nil
	w.tokenFetch = nil

	token := f.token
	if f.err != nil {
		logrus.Errorf("token fetch failed: %v", f.err)
		token = nil
	} else {
		logrus.Info("access token updated")
	}
	select {
	case f.reply <- token:
	default:
		logrus.Warn("token reply channel not ready, dropping token")
	}
}
