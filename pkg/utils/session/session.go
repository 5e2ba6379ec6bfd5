package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionDirName   = ".guard-roster"
	sessionFilePerms = 0600
	sessionDirPerms  = 0700
)

// ErrNoSession is returned when no session has been saved for the environment
var ErrNoSession = errors.New("not logged in")

// Session is the persisted backend authentication token
type Session struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// Valid reports whether the token is a JWT whose expiry, if any, is after now.
// The signature is not verified; the backend does that on every request.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}

	token, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return now.Before(exp.Time)
}

// Store reads and writes sessions under a directory, one file per environment
type Store struct {
	dir string
}

// NewStore returns a store under ~/.guard-roster
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Store{dir: filepath.Join(homeDir, sessionDirName)}, nil
}

// NewStoreAt returns a store under dir
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (st *Store) path(env string) string {
	return filepath.Join(st.dir, fmt.Sprintf("session-%s.json", env))
}

// Load returns the saved session for env, or ErrNoSession
func (st *Store) Load(env string) (*Session, error) {
	data, err := os.ReadFile(st.path(env))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &s, nil
}

// Save writes the session for env with owner-only permissions
func (st *Store) Save(env string, s *Session) error {
	if err := os.MkdirAll(st.dir, sessionDirPerms); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(st.path(env), data, sessionFilePerms); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Delete removes the session for env. Deleting a missing session is not an error.
func (st *Store) Delete(env string) error {
	if err := os.Remove(st.path(env)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
