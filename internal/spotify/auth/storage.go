package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTokenFileName is the default name for the token file.
const DefaultTokenFileName = "token.json"

// Storage persists tokens between runs.
type Storage interface {
	Save(token *Token) error
	// Load returns (nil, nil) when no token is stored.
	Load() (*Token, error)
	Delete() error
	Exists() bool
}

// FileStorage keeps the token in a JSON file readable only by the owner.
type FileStorage struct {
	path string
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates token storage at path. If path is empty, the
// default location (~/.config/ncspot/token.json) is used.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "ncspot", DefaultTokenFileName)
	}
	return &FileStorage{path: path}, nil
}

// Save persists a token to disk.
func (s *FileStorage) Save(token *Token) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads a token from disk.
func (s *FileStorage) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// Delete removes the stored token.
func (s *FileStorage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists returns true if a token file exists.
func (s *FileStorage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the token file.
func (s *FileStorage) Path() string {
	return s.path
}
