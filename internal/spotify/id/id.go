// Package id parses spotify: URIs into typed item identifiers.
package id

import (
	"errors"
	"fmt"
	"strings"
)

// ItemType is the category of item an ID refers to.
type ItemType string

const (
	TypeTrack    ItemType = "track"
	TypeAlbum    ItemType = "album"
	TypeArtist   ItemType = "artist"
	TypePlaylist ItemType = "playlist"
	TypeEpisode  ItemType = "episode"
	TypeShow     ItemType = "show"
	TypeLocal    ItemType = "local"

	// TypeUnknown marks categories this player cannot load.
	TypeUnknown ItemType = "unknown"
)

// IDLength is the length of a base62-encoded Spotify item identifier.
const IDLength = 22

var (
	ErrNotSpotifyURI = errors.New("not a spotify URI")
	ErrMalformedURI  = errors.New("malformed spotify URI")
)

// ID is a parsed, typed reference to a Spotify item, distinct from its
// raw URI string.
type ID struct {
	Type   ItemType
	Base62 string
}

// FromURI parses a URI of the form "spotify:<type>:<base62>". The legacy
// named-playlist form "spotify:user:<user>:playlist:<base62>" is also
// accepted. URIs with an unrecognized category parse successfully but
// carry TypeUnknown; callers decide whether that is playable.
func FromURI(uri string) (ID, error) {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 || parts[0] != "spotify" {
		return ID{}, fmt.Errorf("%w: %q", ErrNotSpotifyURI, uri)
	}

	// Legacy user-scoped playlist URIs carry two extra segments.
	if len(parts) == 5 && parts[1] == "user" && parts[3] == "playlist" {
		parts = []string{parts[0], parts[3], parts[4]}
	}

	// Local files embed colon-separated metadata after the type tag
	// (artist:album:title:duration); keep the whole suffix verbatim.
	if ItemType(parts[1]) == TypeLocal {
		suffix := strings.Join(parts[2:], ":")
		if strings.Trim(suffix, ":") == "" {
			return ID{}, fmt.Errorf("%w: empty identifier in %q", ErrMalformedURI, uri)
		}
		return ID{Type: TypeLocal, Base62: suffix}, nil
	}

	if len(parts) != 3 {
		return ID{}, fmt.Errorf("%w: %q", ErrMalformedURI, uri)
	}

	kind, raw := parts[1], parts[2]
	if raw == "" {
		return ID{}, fmt.Errorf("%w: empty identifier in %q", ErrMalformedURI, uri)
	}

	if len(raw) != IDLength {
		return ID{}, fmt.Errorf("%w: identifier %q must be %d characters", ErrMalformedURI, raw, IDLength)
	}
	if !isBase62(raw) {
		return ID{}, fmt.Errorf("%w: identifier %q is not base62", ErrMalformedURI, raw)
	}

	return ID{Type: itemType(kind), Base62: raw}, nil
}

// URI returns the canonical URI for the identifier.
func (id ID) URI() string {
	return fmt.Sprintf("spotify:%s:%s", id.Type, id.Base62)
}

// Playable returns false for identifiers this player cannot hand to the
// backend.
func (id ID) Playable() bool {
	return id.Type != TypeUnknown
}

func (id ID) String() string {
	return id.URI()
}

func itemType(s string) ItemType {
	switch t := ItemType(s); t {
	case TypeTrack, TypeAlbum, TypeArtist, TypePlaylist, TypeEpisode, TypeShow, TypeLocal:
		return t
	default:
		return TypeUnknown
	}
}

func isBase62(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
