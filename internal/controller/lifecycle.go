package controller

import (
	"errors"
	"fmt"

	"github.com/clive/forget-me-not/internal/clock"
	"github.com/clive/forget-me-not/internal/lifecycle"
)

// EntryResult is what the task entry screen hands back
type EntryResult struct {
	OK   bool
	Text string
}

// Success is an entry result carrying text
func Success(text string) EntryResult {
	return EntryResult{OK: true, Text: text}
}

// Canceled is an entry result carrying nothing
func Canceled() EntryResult {
	return EntryResult{}
}

// Start restores the list from the store
func (c *Controller) Start() error {
	if err := c.life.Transition(lifecycle.Started); err != nil {
		return err
	}
	if c.saveFailed {
		c.logger.Warn("keeping in-memory tasks, last save failed")
		return nil
	}

	form, err := c.store.Load()
	if err != nil {
		c.loadFailed = true
		return err
	}
	c.loadFailed = false
	c.Restore(form)
	c.logger.Debug("tasks restored", "count", c.tasks.Len())
	return nil
}

// Resume registers the time receiver, refreshes the timestamp and returns
// the registration generation ticks must carry
func (c *Controller) Resume() (uint64, error) {
	if err := c.life.Transition(lifecycle.Resumed); err != nil {
		return 0, err
	}
	gen := c.receiver.Register()
	c.receiver.Refresh()
	return gen, nil
}

// Pause unregisters the time receiver
func (c *Controller) Pause() error {
	if err := c.life.Transition(lifecycle.Paused); err != nil {
		return err
	}
	c.ReleaseReceiver()
	return nil
}

// Stop persists the list. Nothing is written if the list was never
// restored.
func (c *Controller) Stop() error {
	if err := c.life.Transition(lifecycle.Stopped); err != nil {
		return err
	}
	if c.loadFailed {
		c.logger.Warn("not persisting tasks, last restore failed", "count", c.tasks.Len())
		return ErrNotRestored
	}
	if err := c.store.Save(c.Persist()); err != nil {
		c.saveFailed = true
		return err
	}
	c.saveFailed = false
	c.logger.Debug("tasks persisted", "count", c.tasks.Len())
	return nil
}

// Destroy ends the controller's life
func (c *Controller) Destroy() error {
	if err := c.life.Transition(lifecycle.Destroyed); err != nil {
		return err
	}
	c.pending = nil
	return nil
}

// ReleaseReceiver unregisters the time receiver. An inactive receiver is
// logged and otherwise ignored.
func (c *Controller) ReleaseReceiver() {
	if err := c.receiver.Unregister(); err != nil {
		if errors.Is(err, clock.ErrNotRegistered) {
			c.logger.Warn("time receiver was not registered", "error", err)
			return
		}
		c.logger.Error("unregister time receiver", "error", err)
	}
}

// Foreground brings the screen to Resumed from wherever it is. It returns
// the receiver generation, or 0 if the screen was already resumed.
func (c *Controller) Foreground() (uint64, error) {
	switch c.State() {
	case lifecycle.Resumed:
		return 0, nil
	case lifecycle.Created, lifecycle.Stopped:
		if err := c.Start(); err != nil {
			// the screen is started even if the restore failed
			if c.State() != lifecycle.Started {
				return 0, err
			}
			gen, rerr := c.Resume()
			if rerr != nil {
				return 0, rerr
			}
			return gen, err
		}
	case lifecycle.Destroyed:
		return 0, fmt.Errorf("%w: screen destroyed", lifecycle.ErrInvalidTransition)
	}
	return c.Resume()
}

// Background takes the screen to Stopped from wherever it is, persisting
// on the way
func (c *Controller) Background() error {
	switch c.State() {
	case lifecycle.Resumed:
		if err := c.Pause(); err != nil {
			return err
		}
	case lifecycle.Created, lifecycle.Stopped, lifecycle.Destroyed:
		return nil
	}
	return c.Stop()
}

// LaunchEntry moves the screen to the background while the entry screen
// is shown
func (c *Controller) LaunchEntry() error {
	return c.Background()
}

// HandleEntryResult brings the screen back from the entry screen: the list
// is restored first, the result delivered, then the screen resumed.
func (c *Controller) HandleEntryResult(r EntryResult) (uint64, error) {
	var errs []error
	if c.State() == lifecycle.Stopped || c.State() == lifecycle.Created {
		if err := c.Start(); err != nil {
			if c.State() != lifecycle.Started {
				return 0, err
			}
			errs = append(errs, err)
		}
	}

	if r.OK {
		if _, err := c.AddTask(r.Text); err != nil {
			errs = append(errs, err)
		}
	}

	gen, err := c.Foreground()
	if err != nil {
		errs = append(errs, err)
	}
	return gen, errors.Join(errs...)
}
