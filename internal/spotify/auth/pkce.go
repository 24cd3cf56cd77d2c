package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const (
	// verifierLength is within Spotify's required 43-128 characters.
	verifierLength = 64
	stateLength    = 32
)

// PKCE holds the code verifier, challenge and CSRF state for an OAuth
// PKCE login.
type PKCE struct {
	Verifier  string
	Challenge string
	State     string
}

// NewPKCE generates a fresh code verifier, challenge and state.
func NewPKCE() (*PKCE, error) {
	verifier, err := randomString(verifierLength)
	if err != nil {
		return nil, err
	}
	state, err := randomString(stateLength)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(verifier))
	return &PKCE{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
		State:     state,
	}, nil
}

// randomString returns a cryptographically random base64url string of
// exactly length characters.
func randomString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(buf)
	return encoded[:length], nil
}
