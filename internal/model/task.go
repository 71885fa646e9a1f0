package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrEmptyDescription is returned when a task is added without text
var ErrEmptyDescription = errors.New("task description is empty")

// Task represents a single to-do item
type Task struct {
	ID          string // session-scoped, never persisted
	Description string
}

// NewTask creates a task with a fresh session ID
func NewTask(description string) Task {
	return Task{
		ID:          uuid.NewString(),
		Description: description,
	}
}
