package player

import (
	"context"
	"time"

	"github.com/walshb/ncspot/internal/spotify/auth"
	"github.com/walshb/ncspot/internal/spotify/id"
)

// Backend is the playback engine the worker drives. Calls are
// fire-and-forget at this layer: failures surface as subsequent backend
// events, never as return values.
type Backend interface {
	Load(item id.ID, startPlaying bool, position time.Duration)
	Play()
	Pause()
	Stop()
	Seek(position time.Duration)
	Preload(item id.ID)
}

// Mixer controls output volume. Level covers the full uint16 range.
type Mixer interface {
	SetVolume(level uint16)
}

// Session is the backend session capability. Invalid is polled once per
// worker loop iteration; Shutdown is advisory and relies on the backend
// event channel closing afterwards.
type Session interface {
	Invalid() bool
	Shutdown()
	FetchToken(ctx context.Context, scopes string) (*auth.Token, error)
}
