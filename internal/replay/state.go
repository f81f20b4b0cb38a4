package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State tracks which sessions a replay has finished, so an interrupted run
// can resume. A State with no path is kept in memory only.
type State struct {
	StartedAt         time.Time `json:"started_at"`
	LastSavedAt       time.Time `json:"last_saved_at"`
	SessionsProcessed []string  `json:"sessions_processed"`
	Errors            []string  `json:"errors"`

	mu   sync.Mutex
	done map[string]bool
	path string
}

// LoadState reads the state at path, or starts a new one if it does not
// exist. An empty path gives an in-memory state.
func LoadState(path string) (*State, error) {
	s := &State{StartedAt: time.Now().UTC(), path: expandHome(path), done: make(map[string]bool)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	for _, id := range s.SessionsProcessed {
		s.done[id] = true
	}
	return s, nil
}

// Save writes the state to disk. It is a no-op for in-memory state.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	s.LastSavedAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *State) IsProcessed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[id]
}

func (s *State) MarkProcessed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done[id] {
		return
	}
	s.done[id] = true
	s.SessionsProcessed = append(s.SessionsProcessed, id)
}

// AddError records a failure. Messages must not contain what was said.
func (s *State) AddError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, msg)
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
