// Package sessionstore persists the account session token between CLI
// invocations.
package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnvSessionFile overrides the default session file location.
const EnvSessionFile = "ACCOUNTCTL_SESSION_FILE"

// ErrNoSession is returned by Load when no session file exists.
var ErrNoSession = errors.New("no session stored")

// Session is the persisted form of an authenticated session. The file
// holds a bearer token and is written owner-only.
type Session struct {
	Token      string    `json:"token"`
	IdentityID string    `json:"identity_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Username   string    `json:"username,omitempty"`
	Server     string    `json:"server"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileStore reads and writes a Session at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path, or at DefaultPath when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

// DefaultPath returns $ACCOUNTCTL_SESSION_FILE, or
// $XDG_CONFIG_HOME/accountctl/session.json, or ~/.config/accountctl/session.json.
func DefaultPath() string {
	if envPath := os.Getenv(EnvSessionFile); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "accountctl-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "accountctl", "session.json")
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored session. It returns ErrNoSession when the file
// does not exist.
func (s *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file %s: %w", s.path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", s.path, err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("session file %s has no token", s.path)
	}
	return &session, nil
}

// Save writes session, creating the parent directory with mode 0700.
func (s *FileStore) Save(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	// Write then rename so a crash never leaves a truncated token behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing session file %s: %w", s.path, err)
	}
	return nil
}

// Delete removes the stored session. A missing file is not an error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}
