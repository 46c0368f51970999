// Package session persists the bearer token issued by the backend. It is the
// client's only durable state: a small JSON file in the user's home directory,
// written on login/registration and removed on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoSession is returned by Load when no token has been stored.
var ErrNoSession = errors.New("no stored session")

// DefaultPath returns the default session file location,
// ~/.weatherfav/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".weatherfav", "session.json"), nil
}

type sessionFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// Store reads and writes the session file. The zero value is not usable;
// construct with NewStore.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the token, creating the parent directory if needed. The file
// is user-only readable since the token is a credential.
func (s *Store) Save(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to save empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(sessionFile{Token: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load returns the stored token. A missing file or a file without a token
// yields ErrNoSession; the token is never validated client-side, expiry is
// only discovered when an API call fails.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("read session file: %w", err)
	}
	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return "", fmt.Errorf("parse session file: %w", err)
	}
	if sf.Token == "" {
		return "", ErrNoSession
	}
	return sf.Token, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
