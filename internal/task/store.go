package task

import "context"

// Store persists tasks. Implementations must be safe for concurrent use,
// enforce the status lifecycle on Update, and never hand out state that
// aliases their internals.
type Store interface {
	// Create persists a new task. A duplicate ID fails with ErrExists.
	Create(ctx context.Context, t *Task) error

	// Get returns the task with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Task, error)

	// Update persists a task's current state. An unknown ID fails with
	// ErrNotFound; a forbidden status change with ErrInvalidTransition.
	Update(ctx context.Context, t *Task) error

	// List returns all tasks, oldest first.
	List(ctx context.Context) ([]*Task, error)

	// Close releases any resources held by the store.
	Close() error
}
