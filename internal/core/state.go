package core

import "time"

// PlaybackState is a snapshot of what the backend reports it is doing.
// The remote poller diffs consecutive snapshots to synthesize lifecycle
// events.
type PlaybackState struct {
	Track     *Track        `json:"track"`
	Device    *Device       `json:"device"`
	IsPlaying bool          `json:"is_playing"`
	Progress  time.Duration `json:"progress"`
	Volume    int           `json:"volume"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// Remaining returns how much of the current track is left, or zero when
// unknown.
func (s *PlaybackState) Remaining() time.Duration {
	if !s.HasTrack() || s.Track.Duration == 0 || s.Progress > s.Track.Duration {
		return 0
	}
	return s.Track.Duration - s.Progress
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Track == nil || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Track.Duration) * 100
}
