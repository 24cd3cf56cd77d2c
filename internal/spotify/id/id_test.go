package id

import (
	"errors"
	"testing"
)

const validBase62 = "4uLU6hMCjMI75M1A2tKUQC"

func TestFromURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantType ItemType
		wantErr  error
	}{
		{
			name:     "track",
			uri:      "spotify:track:" + validBase62,
			wantType: TypeTrack,
		},
		{
			name:     "album",
			uri:      "spotify:album:" + validBase62,
			wantType: TypeAlbum,
		},
		{
			name:     "episode",
			uri:      "spotify:episode:" + validBase62,
			wantType: TypeEpisode,
		},
		{
			name:     "playlist",
			uri:      "spotify:playlist:" + validBase62,
			wantType: TypePlaylist,
		},
		{
			name:     "legacy user playlist",
			uri:      "spotify:user:someone:playlist:" + validBase62,
			wantType: TypePlaylist,
		},
		{
			name:     "local file",
			uri:      "spotify:local:whatever",
			wantType: TypeLocal,
		},
		{
			name:     "local file with metadata segments",
			uri:      "spotify:local:Artist:Album:Title:240",
			wantType: TypeLocal,
		},
		{
			name:    "local file with empty suffix",
			uri:     "spotify:local:",
			wantErr: ErrMalformedURI,
		},
		{
			name:     "unrecognized category parses as unknown",
			uri:      "spotify:concert:" + validBase62,
			wantType: TypeUnknown,
		},
		{
			name:    "not a spotify URI",
			uri:     "http://open.spotify.com/track/" + validBase62,
			wantErr: ErrNotSpotifyURI,
		},
		{
			name:    "empty string",
			uri:     "",
			wantErr: ErrNotSpotifyURI,
		},
		{
			name:    "missing identifier",
			uri:     "spotify:track:",
			wantErr: ErrMalformedURI,
		},
		{
			name:    "identifier too short",
			uri:     "spotify:track:abc123",
			wantErr: ErrMalformedURI,
		},
		{
			name:    "identifier not base62",
			uri:     "spotify:track:4uLU6hMCjMI75M1A2tKUQ!",
			wantErr: ErrMalformedURI,
		},
		{
			name:    "too many segments",
			uri:     "spotify:track:extra:" + validBase62,
			wantErr: ErrMalformedURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromURI(tt.uri)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FromURI(%q) error = %v, want %v", tt.uri, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromURI(%q) unexpected error: %v", tt.uri, err)
			}
			if got.Type != tt.wantType {
				t.Errorf("FromURI(%q).Type = %v, want %v", tt.uri, got.Type, tt.wantType)
			}
		})
	}
}

func TestID_URI_RoundTrip(t *testing.T) {
	uri := "spotify:track:" + validBase62
	parsed, err := FromURI(uri)
	if err != nil {
		t.Fatalf("FromURI() error: %v", err)
	}
	if parsed.URI() != uri {
		t.Errorf("URI() = %q, want %q", parsed.URI(), uri)
	}

	local := "spotify:local:Artist:Album:Title:240"
	parsed, err = FromURI(local)
	if err != nil {
		t.Fatalf("FromURI() error: %v", err)
	}
	if parsed.URI() != local {
		t.Errorf("URI() = %q, want %q", parsed.URI(), local)
	}
}

func TestID_Playable(t *testing.T) {
	playable, err := FromURI("spotify:track:" + validBase62)
	if err != nil {
		t.Fatalf("FromURI() error: %v", err)
	}
	if !playable.Playable() {
		t.Error("track should be playable")
	}

	unknown, err := FromURI("spotify:concert:" + validBase62)
	if err != nil {
		t.Fatalf("FromURI() error: %v", err)
	}
	if unknown.Playable() {
		t.Error("unknown category should not be playable")
	}
}
