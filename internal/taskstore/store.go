// Package taskstore persists the task list's flattened form in a
// preference store.
package taskstore

import (
	"fmt"

	"github.com/clive/forget-me-not/internal/prefs"
)

const (
	// DefaultStoreName is the preference store holding the task list
	DefaultStoreName = "prefs_tasks"
	// KeyTasksList is the key the persisted form is written under
	KeyTasksList = "tasks_list"
)

// Store reads and writes the persisted task list
type Store struct {
	prefs prefs.Store
}

func New(p prefs.Store) *Store {
	return &Store{prefs: p}
}

// Load returns the persisted form, or "" when nothing has been saved yet
func (s *Store) Load() (string, error) {
	v, ok, err := s.prefs.GetString(KeyTasksList)
	if err != nil {
		return "", fmt.Errorf("load tasks: %w", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// Save writes the persisted form
func (s *Store) Save(form string) error {
	if err := s.prefs.PutString(KeyTasksList, form); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
