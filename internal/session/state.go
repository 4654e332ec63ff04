package session

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// persistedState is what survives a restart: the bearer token and the
// last-active page. Fixed keys, one file.
type persistedState struct {
	Token string `toml:"token"`
	Page  string `toml:"page"`
}

// StateStore reads and writes the persisted session state file.
type StateStore struct {
	path  string
	state persistedState
}

// NewStateStore loads (or initializes) the state file at path.
// A missing file is not an error, it just means no prior session.
func NewStateStore(path string) (*StateStore, error) {
	s := &StateStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := toml.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return s, nil
}

// Token returns the persisted bearer token, empty when logged out.
func (s *StateStore) Token() string { return s.state.Token }

// Page returns the persisted last-active page identifier.
func (s *StateStore) Page() string { return s.state.Page }

// SetToken persists a new bearer token.
func (s *StateStore) SetToken(token string) error {
	s.state.Token = token
	return s.save()
}

// ClearToken removes the persisted token (logout, invalidation).
func (s *StateStore) ClearToken() error {
	return s.SetToken("")
}

// SetPage persists the last-active page, overwriting the previous value.
func (s *StateStore) SetPage(page string) error {
	s.state.Page = page
	return s.save()
}

func (s *StateStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.state); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
