// Package controller holds the task list screen's state and behaviour,
// independent of how it is rendered. All methods must be called from a
// single goroutine.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clive/forget-me-not/internal/clock"
	"github.com/clive/forget-me-not/internal/lifecycle"
	"github.com/clive/forget-me-not/internal/model"
)

var (
	// ErrNoPendingDelete is returned when confirming without a selection
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	// ErrStaleSelection is returned when the selected task moved or vanished
	// between selection and confirmation
	ErrStaleSelection = errors.New("selected task is no longer at its index")
	// ErrNotRestored is returned when persisting a list that was never
	// loaded from the store
	ErrNotRestored = errors.New("tasks were not restored, refusing to overwrite saved tasks")
)

// Persister loads and saves the flattened task list
type Persister interface {
	Load() (string, error)
	Save(form string) error
}

// PendingDelete describes a task awaiting delete confirmation
type PendingDelete struct {
	Index       int
	TaskID      string
	Description string
}

// Controller owns the in-memory task list
type Controller struct {
	tasks    *model.TaskList
	store    Persister
	receiver *clock.Receiver
	life     *lifecycle.Machine
	logger   *slog.Logger

	pending  *PendingDelete
	revision int

	// saveFailed is set when the last Stop could not persist; the next
	// Start then keeps the in-memory list instead of restoring stale data.
	saveFailed bool
	// loadFailed is set when the last Start could not read the store; Stop
	// then leaves the saved form alone until a later Start loads it.
	loadFailed bool
}

// New creates a controller in the Created state
func New(store Persister, receiver *clock.Receiver, logger *slog.Logger) *Controller {
	if receiver == nil {
		receiver = clock.NewReceiver(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		tasks:    model.NewTaskList(),
		store:    store,
		receiver: receiver,
		life:     lifecycle.NewMachine(),
		logger:   logger,
	}
}

// State returns the current lifecycle state
func (c *Controller) State() lifecycle.State {
	return c.life.State()
}

// Tasks returns the tasks in display order
func (c *Controller) Tasks() []model.Task {
	return c.tasks.Tasks()
}

// Len returns the number of tasks
func (c *Controller) Len() int {
	return c.tasks.Len()
}

// Revision increases every time the displayed list changes
func (c *Controller) Revision() int {
	return c.revision
}

// Timestamp returns the text for the time display
func (c *Controller) Timestamp() string {
	return c.receiver.Display()
}

// Generation returns the receiver's current registration generation
func (c *Controller) Generation() uint64 {
	return c.receiver.Generation()
}

// AddTask appends a task and refreshes the list
func (c *Controller) AddTask(description string) (model.Task, error) {
	t, err := c.tasks.Add(description)
	if err != nil {
		return model.Task{}, err
	}
	c.changed()
	c.logger.Debug("task added", "index", c.tasks.Len()-1, "id", t.ID)
	return t, nil
}

// SelectTask opens a delete confirmation for the task at index
func (c *Controller) SelectTask(index int) (PendingDelete, error) {
	t, err := c.tasks.At(index)
	if err != nil {
		return PendingDelete{}, err
	}
	p := PendingDelete{Index: index, TaskID: t.ID, Description: t.Description}
	c.pending = &p
	return p, nil
}

// Pending returns the delete awaiting confirmation, if any
func (c *Controller) Pending() (PendingDelete, bool) {
	if c.pending == nil {
		return PendingDelete{}, false
	}
	return *c.pending, true
}

// ConfirmDelete removes the selected task
func (c *Controller) ConfirmDelete() (model.Task, error) {
	if c.pending == nil {
		return model.Task{}, ErrNoPendingDelete
	}
	p := *c.pending
	c.pending = nil

	cur, err := c.tasks.At(p.Index)
	if err != nil || cur.ID != p.TaskID {
		return model.Task{}, fmt.Errorf("%w: index %d", ErrStaleSelection, p.Index)
	}
	t, err := c.tasks.RemoveAt(p.Index)
	if err != nil {
		return model.Task{}, err
	}
	c.changed()
	c.logger.Debug("task deleted", "index", p.Index, "id", t.ID)
	return t, nil
}

// DismissDelete closes the confirmation without changing the list
func (c *Controller) DismissDelete() {
	c.pending = nil
}

// Restore replaces the list with the parsed persisted form
func (c *Controller) Restore(form string) {
	c.tasks.Replace(model.Parse(form))
	c.pending = nil
	c.changed()
}

// Persist returns the flattened list
func (c *Controller) Persist() string {
	return model.Flatten(c.tasks.Descriptions())
}

// Tick forwards a time signal scheduled under gen to the receiver
func (c *Controller) Tick(gen uint64, now time.Time) bool {
	return c.receiver.Receive(gen, now)
}

func (c *Controller) changed() {
	c.revision++
}
