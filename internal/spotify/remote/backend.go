// Package remote drives playback on a Spotify Connect device through the
// Web API and synthesizes backend lifecycle events by polling and diffing
// playback state.
package remote

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walshb/ncspot/internal/player"
	"github.com/walshb/ncspot/internal/spotify/client"
	"github.com/walshb/ncspot/internal/spotify/id"
	"github.com/walshb/ncspot/internal/spotify/session"
)

const (
	defaultPollInterval  = time.Second
	defaultPreloadWindow = 10 * time.Second

	// callTimeout bounds each fire-and-forget API call.
	callTimeout = 10 * time.Second

	eventBuffer = 16
)

// Config configures a remote backend.
type Config struct {
	// DeviceID is the Connect device to control. Empty means whatever
	// device is currently active.
	DeviceID string

	// PollInterval is how often playback state is polled.
	PollInterval time.Duration

	// PreloadWindow is how close to the end of a track the
	// time-to-preload event fires.
	PreloadWindow time.Duration
}

// Backend implements player.Backend and player.Mixer over the Web API.
type Backend struct {
	client  *client.Client
	session *session.Session

	deviceID      string
	pollEvery     time.Duration
	preloadWindow time.Duration

	events chan player.Event

	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ player.Backend = (*Backend)(nil)
	_ player.Mixer   = (*Backend)(nil)
)

// New creates a remote backend. It registers itself as a session
// teardown hook so that shutting the session down closes the event
// stream.
func New(c *client.Client, sess *session.Session, cfg Config) *Backend {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.PreloadWindow <= 0 {
		cfg.PreloadWindow = defaultPreloadWindow
	}

	b := &Backend{
		client:        c,
		session:       sess,
		deviceID:      cfg.DeviceID,
		pollEvery:     cfg.PollInterval,
		preloadWindow: cfg.PreloadWindow,
		events:        make(chan player.Event, eventBuffer),
		done:          make(chan struct{}),
	}
	sess.OnShutdown(b.Close)
	return b
}

// Events returns the backend lifecycle event stream. It closes when the
// backend shuts down; consumers treat closure as permanent
// unavailability.
func (b *Backend) Events() <-chan player.Event {
	return b.events
}

// Close stops the poller, which closes the event stream.
func (b *Backend) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Load starts playback of an item, optionally paused at the given
// position.
func (b *Backend) Load(item id.ID, startPlaying bool, position time.Duration) {
	b.async("load", func(ctx context.Context) error {
		opts := buildPlayOptions(item, position)
		if err := b.client.Play(ctx, b.deviceID, opts); err != nil {
			return err
		}
		if !startPlaying {
			// The Web API has no load-without-play; park it right away.
			return b.client.Pause(ctx, b.deviceID)
		}
		return nil
	})
}

// Play resumes playback.
func (b *Backend) Play() {
	b.async("play", func(ctx context.Context) error {
		err := b.client.Play(ctx, b.deviceID, nil)
		if client.IsRestrictionError(err) {
			// Already playing.
			return nil
		}
		return err
	})
}

// Pause pauses playback.
func (b *Backend) Pause() {
	b.async("pause", func(ctx context.Context) error {
		err := b.client.Pause(ctx, b.deviceID)
		if client.IsRestrictionError(err) {
			// Already paused.
			return nil
		}
		return err
	})
}

// Stop halts playback. Connect has no distinct stop; pausing is the
// closest the protocol offers.
func (b *Backend) Stop() {
	b.async("stop", func(ctx context.Context) error {
		err := b.client.Pause(ctx, b.deviceID)
		if client.IsRestrictionError(err) || client.IsNoActiveDeviceError(err) {
			return nil
		}
		return err
	})
}

// Seek jumps to a position in the current track.
func (b *Backend) Seek(position time.Duration) {
	b.async("seek", func(ctx context.Context) error {
		return b.client.Seek(ctx, int(position/time.Millisecond), b.deviceID)
	})
}

// Preload hints the next item by appending it to the device queue.
func (b *Backend) Preload(item id.ID) {
	b.async("preload", func(ctx context.Context) error {
		return b.client.AddToQueue(ctx, item.URI(), b.deviceID)
	})
}

// SetVolume scales the full uint16 mixer range to the API's 0-100.
func (b *Backend) SetVolume(level uint16) {
	b.async("set volume", func(ctx context.Context) error {
		return b.client.SetVolume(ctx, volumePercent(level), b.deviceID)
	})
}

// async runs an API call in the background with a bounded lifetime.
// Failures are logged; the worker learns about real state from the
// event stream, not from call results.
func (b *Backend) async(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logrus.Errorf("remote %s failed: %v", op, err)
		}
	}()
}

func buildPlayOptions(item id.ID, position time.Duration) *client.PlayOptions {
	opts := &client.PlayOptions{
		PositionMS: int(position / time.Millisecond),
	}
	switch item.Type {
	case id.TypeTrack, id.TypeEpisode, id.TypeLocal:
		opts.URIs = []string{item.URI()}
	default:
		// Albums, playlists, artists and shows are played as a context.
		opts.ContextURI = item.URI()
	}
	return opts
}

func volumePercent(level uint16) int {
	return int(level) * 100 / 65535
}
