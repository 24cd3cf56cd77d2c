// Package auth implements Spotify OAuth: the PKCE login flow, token
// refresh, and token persistence.
package auth

import (
	"net/url"
	"strings"
)

const (
	// AuthURL is the Spotify authorization endpoint.
	AuthURL = "https://accounts.spotify.com/authorize"

	// DefaultRedirectURI is the default callback URI for the local
	// login server.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// TokenURL is the Spotify token endpoint. A variable so tests can point
// it at a local server.
var TokenURL = "https://accounts.spotify.com/api/token"

// DefaultScopes is the permission set requested at login.
var DefaultScopes = []string{
	"user-read-private",
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-follow-modify",
	"user-follow-read",
	"user-library-read",
	"user-library-modify",
	"user-top-read",
	"user-read-recently-played",
	"user-read-playback-state",
	"user-modify-playback-state",
}

// BuildAuthURL constructs the authorization URL for the PKCE flow.
func BuildAuthURL(clientID, redirectURI string, scopes []string, pkce *PKCE) string {
	u, _ := url.Parse(AuthURL)

	q := u.Query()
	q.Set("client_id", clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", redirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", pkce.Challenge)
	q.Set("state", pkce.State)
	if len(scopes) > 0 {
		q.Set("scope", strings.Join(scopes, " "))
	}

	u.RawQuery = q.Encode()
	return u.String()
}
