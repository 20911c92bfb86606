package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"taskflow/models"
	"taskflow/services"
)

// State mirrors the last-fetched server resources, one slice per resource
// kind. Slices are replaced wholesale on re-fetch, never patched in place.
type State struct {
	User          *services.AuthUser    `json:"user,omitempty"`
	Tasks         []models.TaskView     `json:"tasks"`
	Teams         []models.TeamView     `json:"teams"`
	Notifications []models.Notification `json:"notifications"`
}

// Session persists the state mirror to a JSON file so a client restart
// resumes with the previous user, token and cached resources.
type Session struct {
	path string

	mu    sync.Mutex
	state State
}

// LoadSession reads the session file at path, or starts an empty session if
// the file does not exist yet.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %v", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %v", err)
	}
	return s, nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.Token
}

// update applies fn under the lock and persists the result.
func (s *Session) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.save()
}

// Clear drops all cached state, including the current user and token.
func (s *Session) Clear() error {
	return s.update(func(state *State) {
		*state = State{}
	})
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %v", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %v", err)
	}
	return nil
}
