package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "ncspot"
	keyringUser    = "spotify-oauth"
)

// KeyringStorage keeps the token in the operating system keyring instead
// of a file on disk.
type KeyringStorage struct {
	service string
	user    string
}

var _ Storage = (*KeyringStorage)(nil)

// NewKeyringStorage creates keyring-backed token storage.
func NewKeyringStorage() *KeyringStorage {
	return &KeyringStorage{service: keyringService, user: keyringUser}
}

// Save stores the token as a JSON secret.
func (s *KeyringStorage) Save(token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(s.service, s.user, string(data)); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Load reads the token back. A missing secret is not an error.
func (s *KeyringStorage) Load() (*Token, error) {
	secret, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token from keyring: %w", err)
	}

	var token Token
	if err := json.Unmarshal([]byte(secret), &token); err != nil {
		return nil, fmt.Errorf("failed to parse keyring token: %w", err)
	}
	return &token, nil
}

// Delete removes the secret.
func (s *KeyringStorage) Delete() error {
	err := keyring.Delete(s.service, s.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring token: %w", err)
	}
	return nil
}

// Exists returns true if a token is stored.
func (s *KeyringStorage) Exists() bool {
	_, err := keyring.Get(s.service, s.user)
	return err == nil
}
