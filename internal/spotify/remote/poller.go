package remote

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walshb/ncspot/internal/core"
	"github.com/walshb/ncspot/internal/player"
	"github.com/walshb/ncspot/internal/spotify/client"
)

// Start polls playback state until the context is cancelled or the
// backend is closed. The event channel closes when Start returns, so
// consumers see closure as the end of the backend's life.
func (b *Backend) Start(ctx context.Context) error {
	defer close(b.events)

	ticker := time.NewTicker(b.pollEvery)
	defer ticker.Stop()

	prev, err := b.fetchState(ctx)
	if err != nil {
		if fatal := b.checkPollError(err); fatal != nil {
			return fatal
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return nil
		case <-ticker.C:
			curr, err := b.fetchState(ctx)
			if err != nil {
				if fatal := b.checkPollError(err); fatal != nil {
					return fatal
				}
				continue
			}
			for _, ev := range diffStates(prev, curr, b.pollEvery, b.preloadWindow) {
				if ev.Type == player.EventTrackChanged && curr.HasTrack() {
					logrus.Infof("now playing: %s", curr.Track.Label())
				}
				b.emit(ev)
			}
			prev = curr
		}
	}
}

// checkPollError decides whether a poll failure ends the backend.
// Token rejection invalidates the session; anything else is transient
// and the poller keeps going.
func (b *Backend) checkPollError(err error) error {
	if client.IsAuthError(err) {
		b.session.Invalidate()
		return err
	}
	logrus.Debugf("remote poll failed: %v", err)
	return nil
}

func (b *Backend) fetchState(ctx context.Context) (*core.PlaybackState, error) {
	state, err := b.client.GetPlaybackState(ctx)
	if err != nil {
		return nil, err
	}
	return convertState(state), nil
}

// emit never blocks the poll loop. A full buffer means the consumer is
// gone or wedged, and stale lifecycle events are not worth waiting for.
func (b *Backend) emit(ev player.Event) {
	select {
	case b.events <- ev:
	default:
		logrus.Warnf("remote: dropping event %s, consumer not keeping up", ev.Type)
	}
}

func convertState(s *client.PlaybackState) *core.PlaybackState {
	if s == nil {
		return nil
	}
	out := &core.PlaybackState{
		Track:     convertTrack(s.Item),
		Device:    convertDevice(s.Device),
		IsPlaying: s.IsPlaying,
		Progress:  time.Duration(s.ProgressMS) * time.Millisecond,
	}
	if s.Device.VolumePercent != nil {
		out.Volume = *s.Device.VolumePercent
	}
	return out
}

func convertTrack(t *client.Track) *core.Track {
	if t == nil {
		return nil
	}
	out := &core.Track{
		ID:       t.ID,
		URI:      t.URI,
		Title:    t.Name,
		Album:    t.Album.Name,
		Duration: time.Duration(t.DurationMS) * time.Millisecond,
	}
	for _, a := range t.Artists {
		out.Artists = append(out.Artists, a.Name)
	}
	if len(out.Artists) > 0 {
		out.Artist = out.Artists[0]
	}
	return out
}

func convertDevice(d client.Device) *core.Device {
	if d.ID == "" && d.Name == "" {
		return nil
	}
	out := &core.Device{
		ID:       d.ID,
		Name:     d.Name,
		Type:     core.DeviceType(d.Type),
		IsActive: d.IsActive,
	}
	if d.VolumePercent != nil {
		out.Volume = *d.VolumePercent
	}
	return out
}
