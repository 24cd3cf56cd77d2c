package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/walshb/ncspot/internal/player"
	"github.com/walshb/ncspot/internal/spotify/auth"
	"github.com/walshb/ncspot/internal/spotify/client"
	"github.com/walshb/ncspot/internal/spotify/id"
	"github.com/walshb/ncspot/internal/spotify/session"
)

type memStorage struct {
	token *auth.Token
}

func (s *memStorage) Save(token *auth.Token) error { s.token = token; return nil }
func (s *memStorage) Load() (*auth.Token, error)   { return s.token, nil }
func (s *memStorage) Delete() error                { s.token = nil; return nil }
func (s *memStorage) Exists() bool                 { return s.token != nil }

func newTestBackend(t *testing.T, handler http.HandlerFunc, cfg Config) (*Backend, *session.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	original := client.BaseURL
	client.BaseURL = server.URL
	t.Cleanup(func() {
		client.BaseURL = original
		server.Close()
	})

	storage := &memStorage{token: &auth.Token{
		AccessToken: "test_token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	c := client.New("client_id", storage)
	if err := c.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error: %v", err)
	}
	sess := session.New(c)
	return New(c, sess, cfg), sess
}

func TestVolumePercent(t *testing.T) {
	tests := []struct {
		level uint16
		want  int
	}{
		{0, 0},
		{65535, 100},
		{32768, 50},
		{655, 0},
	}
	for _, tt := range tests {
		if got := volumePercent(tt.level); got != tt.want {
			t.Errorf("volumePercent(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestBuildPlayOptions(t *testing.T) {
	track, err := id.FromURI("spotify:track:4uLU6hMCjMI75M1A2tKUQC")
	if err != nil {
		t.Fatal(err)
	}
	opts := buildPlayOptions(track, 5*time.Second)
	if len(opts.URIs) != 1 || opts.URIs[0] != track.URI() {
		t.Errorf("URIs = %v, want the track itself", opts.URIs)
	}
	if opts.ContextURI != "" {
		t.Errorf("ContextURI = %q, want empty for a track", opts.ContextURI)
	}
	if opts.PositionMS != 5000 {
		t.Errorf("PositionMS = %d, want 5000", opts.PositionMS)
	}

	album, err := id.FromURI("spotify:album:4uLU6hMCjMI75M1A2tKUQC")
	if err != nil {
		t.Fatal(err)
	}
	opts = buildPlayOptions(album, 0)
	if opts.ContextURI != album.URI() {
		t.Errorf("ContextURI = %q, want %q", opts.ContextURI, album.URI())
	}
	if len(opts.URIs) != 0 {
		t.Errorf("URIs = %v, want none for an album", opts.URIs)
	}
}

func TestBackend_PollEmitsEvents(t *testing.T) {
	var polls atomic.Int32
	b, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player" {
			http.NotFound(w, r)
			return
		}
		n := polls.Add(1)
		state := client.PlaybackState{
			IsPlaying:  true,
			ProgressMS: 1000,
			Item:       &client.Track{Name: "Song", URI: "spotify:track:4uLU6hMCjMI75M1A2tKUQC", DurationMS: 200000},
		}
		if n > 1 {
			// A jump far beyond the poll interval reads as a seek.
			state.ProgressMS = 60000
		}
		_ = json.NewEncoder(w).Encode(state)
	}, Config{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- b.Start(ctx) }()

	waitEvent := func(want player.EventType) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case ev, ok := <-b.Events():
				if !ok {
					t.Fatalf("event channel closed while waiting for %s", want)
				}
				if ev.Type == want {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %s", want)
			}
		}
	}

	// First poll seeds state, so the seek shows up on the second diff.
	waitEvent(player.EventSeeked)

	b.Close()
	if err := <-errc; err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, ok := <-b.Events(); ok {
		t.Fatal("event channel still open after Close")
	}
}

func TestBackend_SessionShutdownClosesEvents(t *testing.T) {
	b, sess := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(client.PlaybackState{})
	}, Config{PollInterval: 10 * time.Millisecond})

	errc := make(chan error, 1)
	go func() { errc <- b.Start(context.Background()) }()

	sess.Shutdown()
	if err := <-errc; err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if _, ok := <-b.Events(); ok {
		t.Fatal("event channel still open after session shutdown")
	}
}

func TestBackend_AuthFailureInvalidatesSession(t *testing.T) {
	b, sess := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
	}, Config{PollInterval: 10 * time.Millisecond})

	if err := b.Start(context.Background()); err == nil {
		t.Fatal("Start() = nil, want auth error")
	}
	if !sess.Invalid() {
		t.Fatal("session still valid after 401")
	}
}

func TestBackend_RevokedRefreshTokenInvalidatesSession(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Refresh token revoked"}`))
	}))
	originalTokenURL := auth.TokenURL
	auth.TokenURL = tokenServer.URL
	t.Cleanup(func() {
		auth.TokenURL = originalTokenURL
		tokenServer.Close()
	})

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("API reached despite failing token refresh")
	}))
	originalBaseURL := client.BaseURL
	client.BaseURL = apiServer.URL
	t.Cleanup(func() {
		client.BaseURL = originalBaseURL
		apiServer.Close()
	})

	storage := &memStorage{token: &auth.Token{
		AccessToken:  "stale_token",
		RefreshToken: "revoked",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}}
	c := client.New("client_id", storage)
	if err := c.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error: %v", err)
	}
	sess := session.New(c)
	b := New(c, sess, Config{PollInterval: 10 * time.Millisecond})

	if err := b.Start(context.Background()); err == nil {
		t.Fatal("Start() = nil, want permanent refresh failure")
	}
	if !sess.Invalid() {
		t.Fatal("session still valid after revoked refresh token")
	}
	if _, ok := <-b.Events(); ok {
		t.Fatal("event channel still open after session invalidation")
	}
}

func TestBackend_LoadSendsPlayRequest(t *testing.T) {
	type playBody struct {
		URIs       []string `json:"uris"`
		PositionMS int      `json:"position_ms"`
	}
	got := make(chan playBody, 1)
	b, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/me/player/play" && r.Method == http.MethodPut {
			var body playBody
			_ = json.NewDecoder(r.Body).Decode(&body)
			got <- body
		}
		w.WriteHeader(http.StatusNoContent)
	}, Config{})

	track, err := id.FromURI("spotify:track:4uLU6hMCjMI75M1A2tKUQC")
	if err != nil {
		t.Fatal(err)
	}
	b.Load(track, true, 3*time.Second)

	select {
	case body := <-got:
		if len(body.URIs) != 1 || body.URIs[0] != track.URI() {
			t.Errorf("uris = %v, want %q", body.URIs, track.URI())
		}
		if body.PositionMS != 3000 {
			t.Errorf("position_ms = %d, want 3000", body.PositionMS)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no play request observed")
	}
}
