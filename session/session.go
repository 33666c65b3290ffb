// Package session handles saving and restoring browsing state between runs.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Session is the persisted navigation state. Only URLs are stored; pages
// are re-fetched on restore.
type Session struct {
	History []string `json:"history"` // back stack, oldest first
	Current string   `json:"current"`
	Forward []string `json:"forward"`
}

// Path returns the session file path.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pagechat", "session.json"), nil
}

// Load reads the session from disk.
func Load() (*Session, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Save writes the session to disk.
func Save(s *Session) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Clear removes the session file.
func Clear() error {
	path, err := Path()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
