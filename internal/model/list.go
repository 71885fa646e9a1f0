package model

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an index does not address a task
var ErrIndexOutOfRange = errors.New("task index out of range")

// TaskList is the ordered, index-addressed collection of tasks for a session.
// Insertion order is display order.
type TaskList struct {
	tasks []Task
}

// NewTaskList creates a list holding the given descriptions in order
func NewTaskList(descriptions ...string) *TaskList {
	l := &TaskList{}
	l.Replace(descriptions)
	return l
}

// Len returns the number of tasks
func (l *TaskList) Len() int {
	return len(l.tasks)
}

// At returns the task at index i
func (l *TaskList) At(i int) (Task, error) {
	if i < 0 || i >= len(l.tasks) {
		return Task{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(l.tasks))
	}
	return l.tasks[i], nil
}

// Add appends a task with the given description
func (l *TaskList) Add(description string) (Task, error) {
	if description == "" {
		return Task{}, ErrEmptyDescription
	}
	t := NewTask(description)
	l.tasks = append(l.tasks, t)
	return t, nil
}

// RemoveAt deletes the task at index i; later tasks shift left by one
func (l *TaskList) RemoveAt(i int) (Task, error) {
	t, err := l.At(i)
	if err != nil {
		return Task{}, err
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return t, nil
}

// Replace discards the current tasks and loads descriptions in order.
// Every task gets a new session ID.
func (l *TaskList) Replace(descriptions []string) {
	l.tasks = make([]Task, 0, len(descriptions))
	for _, d := range descriptions {
		l.tasks = append(l.tasks, NewTask(d))
	}
}

// Tasks returns a copy of the tasks
func (l *TaskList) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Descriptions returns the task descriptions in display order
func (l *TaskList) Descriptions() []string {
	out := make([]string, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = t.Description
	}
	return out
}
