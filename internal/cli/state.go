// Package cli implements the excelvision command-line client.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/excelvision/excelvision/internal/models"
)

// State is everything the client remembers between invocations: who is
// logged in, the rows of the last upload, and the files uploaded so far.
// The last-parsed rows are overwritten on each new upload.
type State struct {
	ServerURL     string       `json:"server_url,omitempty"`
	Name          string       `json:"name,omitempty"`
	Token         string       `json:"token,omitempty"`
	LastParsed    []models.Row `json:"last_parsed,omitempty"`
	UploadedFiles []string     `json:"uploaded_files,omitempty"`
}

// StateStore owns the client state file. All reads and writes go through
// it; nothing else touches the file.
type StateStore struct {
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// DefaultStatePath returns the state file location under the user config dir.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "excelvision", "state.json"), nil
}

// Load reads the state file; a missing file yields empty state.
func (s *StateStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

// Save writes the state file, creating its directory if needed.
func (s *StateStore) Save(st *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
