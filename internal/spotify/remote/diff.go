package remote

import (
	"time"

	"github.com/walshb/ncspot/internal/core"
	"github.com/walshb/ncspot/internal/player"
)

// seekSlack is how far observed progress may drift from expected
// progress before the drift is treated as a seek rather than polling
// jitter.
const seekSlack = 2 * time.Second

// completionThreshold is how far through a track playback must have
// been, in percent, for its disappearance to count as natural
// completion.
const completionThreshold = 95.0

// diffStates compares two playback snapshots and returns the lifecycle
// events that explain the transition.
func diffStates(prev, curr *core.PlaybackState, poll, preloadWindow time.Duration) []player.Event {
	if curr == nil {
		return nil
	}

	var events []player.Event

	// First poll, adopt whatever the device reports.
	if prev == nil {
		if curr.HasTrack() {
			events = append(events, stateEvent(curr))
		}
		return events
	}

	switch {
	case prev.HasTrack() && !curr.HasTrack():
		if wasCompleted(prev) {
			events = append(events, player.Event{Type: player.EventEndOfTrack, Position: prev.Progress})
		} else {
			events = append(events, player.Event{Type: player.EventStopped})
		}

	case trackChanged(prev, curr):
		if prev.HasTrack() && wasCompleted(prev) {
			events = append(events, player.Event{Type: player.EventEndOfTrack, Position: prev.Progress})
		}
		events = append(events, player.Event{Type: player.EventTrackChanged})
		events = append(events, stateEvent(curr))

	case prev.IsPlaying != curr.IsPlaying:
		events = append(events, stateEvent(curr))

	default:
		if seeked(prev, curr, poll) {
			events = append(events, player.Event{Type: player.EventSeeked, Position: curr.Progress})
		}
		if curr.IsPlaying && prev.Remaining() > preloadWindow && curr.Remaining() <= preloadWindow && curr.Remaining() > 0 {
			events = append(events, player.Event{Type: player.EventTimeToPreloadNextTrack})
		}
	}

	if prev.Volume != curr.Volume {
		events = append(events, player.Event{Type: player.EventVolumeChanged})
	}

	return events
}

// stateEvent reports the current play/pause state with its position.
func stateEvent(s *core.PlaybackState) player.Event {
	if s.IsPlaying {
		return player.Event{Type: player.EventPlaying, Position: s.Progress}
	}
	return player.Event{Type: player.EventPaused, Position: s.Progress}
}

// trackChanged returns true if the playing item changed.
func trackChanged(prev, curr *core.PlaybackState) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.URI != curr.Track.URI
}

// seeked returns true if progress moved further than one poll interval
// plus slack can explain.
func seeked(prev, curr *core.PlaybackState, poll time.Duration) bool {
	if !curr.IsPlaying {
		return curr.Progress != prev.Progress
	}
	expected := prev.Progress + poll
	drift := curr.Progress - expected
	if drift < 0 {
		drift = -drift
	}
	return drift > seekSlack
}

// wasCompleted returns true if the track likely played to its end.
// Unknown durations report zero progress and never count.
func wasCompleted(state *core.PlaybackState) bool {
	return state.ProgressPercent() >= completionThreshold
}
