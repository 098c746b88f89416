// Package task tracks asynchronous translation jobs from submission to
// completion: the state machine, the stores that persist it, and the
// background runner that executes jobs.
package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/mutarjim/translation-service/internal/domain"
)

// Status is the lifecycle state of a translation job.
type Status string

// Lifecycle: pending → running → completed or failed. A job that is
// rejected before a worker picks it up may go straight from pending to
// failed.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrNotFound indicates no task exists with the requested ID.
var ErrNotFound = errors.New("task not found")

// ErrExists indicates a task with the same ID was already created.
var ErrExists = errors.New("task already exists")

// ErrInvalidTransition indicates a status change the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a task may move from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusFailed
	case StatusRunning:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

// checkTransition validates a status change. Writing a task back with its
// current status is always allowed.
func checkTransition(from, to Status) error {
	if from == to || from.CanTransition(to) {
		return nil
	}
	return fmt.Errorf("%s → %s: %w", from, to, ErrInvalidTransition)
}

// Task is one asynchronous translation job: the only state in the service
// that outlives a request.
type Task struct {
	ID        string
	Status    Status
	Filename  string
	Direction string
	Result    *domain.TranslationResult
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy, so callers can hold a task without sharing
// mutable state with a store.
func (t *Task) Clone() *Task {
	c := *t
	if t.Result != nil {
		r := *t.Result
		r.OriginalLines = append([]string(nil), t.Result.OriginalLines...)
		r.TranslatedLines = append([]string(nil), t.Result.TranslatedLines...)
		c.Result = &r
	}
	return &c
}
