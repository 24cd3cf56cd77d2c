package core

import (
	"strings"
	"time"
)

// Track is a playable item. URI is the canonical spotify: URI the worker
// hands to the identifier parser before loading.
type Track struct {
	ID       string        `json:"id"`
	URI      string        `json:"uri"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Artists  []string      `json:"artists"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
}

// Label returns a human-readable "Artist — Title" string for display
// and logging.
func (t *Track) Label() string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if t.Artist != "" {
		parts = append(parts, t.Artist)
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	if len(parts) == 0 {
		return t.URI
	}
	return strings.Join(parts, " — ")
}
