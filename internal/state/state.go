// Package state persists the user-set alarms and timezone offset across
// restarts. The state is a small JSON file written atomically on change.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sweeney/medbox/internal/logic"
)

// ErrNotFound is returned by Load when no state has been saved yet.
var ErrNotFound = errors.New("no saved state")

// State is the persisted device state.
type State struct {
	Alarms         [logic.NumSlots]logic.Alarm `json:"alarms"`
	TimezoneOffset float64                     `json:"timezone_offset_hours"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// FileStore reads and writes State as JSON at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the saved state. Returns ErrNotFound when the file does
// not exist.
func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse state: %w", err)
	}
	return st, nil
}

// Save writes the state. The write goes through a temp file and rename
// so a crash mid-write never leaves a truncated state file.
func (s *FileStore) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
