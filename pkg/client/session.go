package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Session carries the bearer token and user identity between calls. It is an
// explicit object with load/save/clear lifecycle calls rather than ambient
// global state; callers decide where and whether it persists.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrNoSession is returned by LoadSession when no session file exists.
var ErrNoSession = errors.New("no saved session")

// LoadSession reads a previously saved session from path.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

// Save writes the session to path, readable only by the owner.
func (s *Session) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession removes a saved session. Missing files are not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
