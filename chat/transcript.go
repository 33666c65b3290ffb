package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TranscriptPath returns the path of the persisted conversation log.
func TranscriptPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pagechat", "transcript.json"), nil
}

// SaveTranscript writes the conversation log to disk.
func (l *Log) SaveTranscript() error {
	path, err := TranscriptPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(l.Turns(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadTranscript replaces the log contents with the persisted
// conversation, if one exists. A missing file leaves the log empty.
func (l *Log) LoadTranscript() error {
	path, err := TranscriptPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return err
	}

	l.restore(turns)
	return nil
}

// ClearTranscript removes the persisted conversation file.
func ClearTranscript() error {
	path, err := TranscriptPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
