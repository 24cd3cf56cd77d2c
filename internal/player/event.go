package player

import "time"

// EventType identifies a backend lifecycle event.
type EventType int

const (
	EventPlaying EventType = iota
	EventSeeked
	EventPositionCorrection
	EventPaused
	EventStopped
	EventEndOfTrack
	EventTimeToPreloadNextTrack

	// Events below are observed but ignored by the worker; other
	// components own them.
	EventLoading
	EventPreloading
	EventUnavailable
	EventVolumeChanged
	EventTrackChanged
	EventSessionConnected
	EventSessionDisconnected
	EventSessionClientChanged
	EventShuffleChanged
	EventRepeatChanged
	EventAutoPlayChanged
	EventFilterExplicitContentChanged
)

func (t EventType) String() string {
	switch t {
	case EventPlaying:
		return "playing"
	case EventSeeked:
		return "seeked"
	case EventPositionCorrection:
		return "position-correction"
	case EventPaused:
		return "paused"
	case EventStopped:
		return "stopped"
	case EventEndOfTrack:
		return "end-of-track"
	case EventTimeToPreloadNextTrack:
		return "time-to-preload"
	case EventLoading:
		return "loading"
	case EventPreloading:
		return "preloading"
	case EventUnavailable:
		return "unavailable"
	case EventVolumeChanged:
		return "volume-changed"
	case EventTrackChanged:
		return "track-changed"
	case EventSessionConnected:
		return "session-connected"
	case EventSessionDisconnected:
		return "session-disconnected"
	case EventSessionClientChanged:
		return "session-client-changed"
	case EventShuffleChanged:
		return "shuffle-changed"
	case EventRepeatChanged:
		return "repeat-changed"
	case EventAutoPlayChanged:
		return "autoplay-changed"
	case EventFilterExplicitContentChanged:
		return "explicit-filter-changed"
	default:
		return "invalid"
	}
}

// Event is a lifecycle notification emitted by the backend. Position is
// meaningful for Playing, Seeked, PositionCorrection and Paused.
type Event struct {
	Type     EventType
	Position time.Duration
}
