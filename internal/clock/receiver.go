// Package clock turns periodic time signals into the screen's timestamp.
package clock

import (
	"errors"
	"time"
)

// Layout is the display format: year-month-day hour:minute, 24-hour clock
const Layout = "2006-01-02 15:04"

// ErrNotRegistered is returned when unregistering an inactive receiver
var ErrNotRegistered = errors.New("time receiver not registered")

// Format renders t in Layout. Go's time formatting is locale independent.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Receiver consumes time signals while registered. Every registration
// starts a new generation; signals carry the generation they were
// scheduled under so that ticks from an earlier registration are dropped.
type Receiver struct {
	now        func() time.Time
	registered bool
	generation uint64
	display    string
}

// NewReceiver creates an unregistered receiver. now defaults to time.Now.
func NewReceiver(now func() time.Time) *Receiver {
	if now == nil {
		now = time.Now
	}
	return &Receiver{now: now}
}

// Register activates the receiver and returns the new generation
func (r *Receiver) Register() uint64 {
	r.generation++
	r.registered = true
	return r.generation
}

// Unregister deactivates the receiver
func (r *Receiver) Unregister() error {
	if !r.registered {
		return ErrNotRegistered
	}
	r.registered = false
	return nil
}

// Registered reports whether the receiver is active
func (r *Receiver) Registered() bool {
	return r.registered
}

// Generation returns the current registration generation
func (r *Receiver) Generation() uint64 {
	return r.generation
}

// Receive handles a signal scheduled under gen. It reports whether the
// display was updated.
func (r *Receiver) Receive(gen uint64, t time.Time) bool {
	if !r.registered || gen != r.generation {
		return false
	}
	r.display = Format(t)
	return true
}

// Refresh sets the display from the receiver's clock
func (r *Receiver) Refresh() string {
	r.display = Format(r.now())
	return r.display
}

// Display returns the last formatted timestamp
func (r *Receiver) Display() string {
	return r.display
}
