// Package lifecycle models the screen's visibility transitions.
package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for a transition the host may not make
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State is a screen visibility state
type State int

const (
	Created State = iota
	Started
	Resumed
	Paused
	Stopped
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Resumed:
		return "resumed"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Visible reports whether the screen is in the foreground
func (s State) Visible() bool {
	return s == Started || s == Resumed
}

var transitions = map[State][]State{
	Created: {Started, Destroyed},
	Started: {Resumed, Stopped},
	Resumed: {Paused},
	Paused:  {Resumed, Stopped},
	Stopped: {Started, Destroyed},
}

// CanTransition reports whether from → to is allowed
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Machine tracks the current state
type Machine struct {
	state State
}

// NewMachine starts in Created
func NewMachine() *Machine {
	return &Machine{state: Created}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Transition moves to the given state or returns ErrInvalidTransition
func (m *Machine) Transition(to State) error {
	if !CanTransition(m.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
	}
	m.state = to
	return nil
}
