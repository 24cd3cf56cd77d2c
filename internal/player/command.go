package player

import (
	"time"

	"github.com/walshb/ncspot/internal/core"
	"github.com/walshb/ncspot/internal/spotify/auth"
)

// CommandType identifies a playback command variant.
type CommandType int

const (
	CmdLoad CommandType = iota
	CmdPlay
	CmdPause
	CmdStop
	CmdSeek
	CmdSetVolume
	CmdRequestToken
	CmdPreload
	CmdShutdown
)

func (t CommandType) String() string {
	switch t {
	case CmdLoad:
		return "load"
	case CmdPlay:
		return "play"
	case CmdPause:
		return "pause"
	case CmdStop:
		return "stop"
	case CmdSeek:
		return "seek"
	case CmdSetVolume:
		return "set-volume"
	case CmdRequestToken:
		return "request-token"
	case CmdPreload:
		return "preload"
	case CmdShutdown:
		return "shutdown"
	default:
		return "invalid"
	}
}

// Command is a playback instruction for the worker. Commands are produced
// by any number of controllers and consumed exactly once by the worker
// loop.
type Command struct {
	Type         CommandType
	Track        core.Track
	StartPlaying bool
	Position     time.Duration
	Volume       uint16

	// Reply receives the fetched token for CmdRequestToken. It should be
	// buffered; the worker never blocks on it.
	Reply chan<- *auth.Token
}

// Load instructs the worker to load a track, optionally starting playback
// at the given position.
func Load(track core.Track, startPlaying bool, position time.Duration) Command {
	return Command{Type: CmdLoad, Track: track, StartPlaying: startPlaying, Position: position}
}

// Play resumes playback.
func Play() Command { return Command{Type: CmdPlay} }

// Pause pauses playback.
func Pause() Command { return Command{Type: CmdPause} }

// Stop stops playback.
func Stop() Command { return Command{Type: CmdStop} }

// Seek jumps to a position in the current track.
func Seek(position time.Duration) Command {
	return Command{Type: CmdSeek, Position: position}
}

// SetVolume sets the mixer volume. Level covers the full uint16 range;
// backends scale it to whatever their native resolution is.
func SetVolume(level uint16) Command {
	return Command{Type: CmdSetVolume, Volume: level}
}

// RequestToken asks the worker for a fresh access token. The result (nil
// when the fetch failed) is sent once on reply. A newer request abandons
// any in-flight fetch; the abandoned request's reply channel never
// receives a value.
func RequestToken(reply chan<- *auth.Token) Command {
	return Command{Type: CmdRequestToken, Reply: reply}
}

// Preload hints the backend to start buffering a track.
func Preload(track core.Track) Command {
	return Command{Type: CmdPreload, Track: track}
}

// Shutdown stops playback and requests session teardown. The loop itself
// keeps running until the backend event channel closes.
func Shutdown() Command { return Command{Type: CmdShutdown} }
