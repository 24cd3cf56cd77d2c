// Package session tracks the validity of the Spotify connection and
// hands out access tokens.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/walshb/ncspot/internal/spotify/auth"
	"github.com/walshb/ncspot/internal/spotify/client"
)

// Session is the backend session capability. It becomes invalid when the
// stored credentials stop working; the worker polls Invalid once per loop
// iteration and terminates when it reports true.
type Session struct {
	client *client.Client

	invalid atomic.Bool

	mu         sync.Mutex
	once       sync.Once
	onShutdown []func()
}

// New creates a session around an authenticated client.
func New(c *client.Client) *Session {
	return &Session{client: c}
}

// Invalid reports whether the session can no longer be used.
func (s *Session) Invalid() bool {
	return s.invalid.Load()
}

// Invalidate marks the session unusable. Called when the API rejects our
// credentials.
func (s *Session) Invalidate() {
	if s.invalid.CompareAndSwap(false, true) {
		logrus.Warn("session invalidated")
	}
}

// OnShutdown registers a teardown hook. Hooks run once, on the first
// Shutdown call.
func (s *Session) OnShutdown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShutdown = append(s.onShutdown, fn)
}

// Shutdown tears the session down. It does not mark the session invalid:
// shutdown is advisory and the worker keeps looping until the backend
// event stream closes as a consequence of the teardown hooks.
func (s *Session) Shutdown() {
	s.once.Do(func() {
		logrus.Info("shutting down session")
		s.mu.Lock()
		hooks := append([]func(){}, s.onShutdown...)
		s.mu.Unlock()
		for _, fn := range hooks {
			fn()
		}
	})
}

// FetchToken returns a fresh access token. The scopes were granted at
// login; a token that no longer covers them means the user must log in
// again.
func (s *Session) FetchToken(ctx context.Context, scopes string) (*auth.Token, error) {
	token, err := s.client.Token(ctx)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("fetched token valid until %s (scopes requested: %s)", token.ExpiresAt, scopes)
	return token, nil
}
