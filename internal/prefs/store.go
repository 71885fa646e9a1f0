// Package prefs provides named key-value preference stores.
package prefs

import (
	"errors"
	"fmt"
)

// Backend names a storage implementation
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend
var ErrUnknownBackend = errors.New("unknown preference backend")

// Store is a single named preference store
type Store interface {
	// GetString returns the value for key and whether it was present
	GetString(key string) (string, bool, error)
	// PutString writes value under key, replacing any previous value
	PutString(key, value string) error
	Close() error
}

// Backends returns all supported backends
func Backends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// ParseBackend validates a backend name
func ParseBackend(s string) (Backend, error) {
	for _, b := range Backends() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Open opens the store called name using the given backend. dir holds the
// backend's files and is ignored by the memory backend.
func Open(backend Backend, dir, name string) (Store, error) {
	if name == "" {
		return nil, errors.New("preference store name must not be empty")
	}
	switch backend {
	case BackendFile:
		return OpenFile(dir, name)
	case BackendSQLite:
		return OpenSQLite(dir, name)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
