package storage

import (
	"context"

	"github.com/example/aoc2019/internal/domain"
)

// ListOptions provides filtering options for list operations.
type ListOptions struct {
	// States to filter by (empty = all)
	States []domain.RunState

	// Pagination
	Limit  int
	Offset int
}

// RunRepository provides access to Run storage.
type RunRepository interface {
	// Create creates a new Run.
	Create(ctx context.Context, run *domain.Run) error

	// Get retrieves a Run by ID.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List lists Runs, newest first, with optional filtering.
	List(ctx context.Context, opts ListOptions) ([]*domain.Run, error)

	// Update updates an existing Run with optimistic locking.
	Update(ctx context.Context, run *domain.Run) error

	// ClaimQueued atomically claims the oldest queued Run and moves it
	// to RUNNING. Returns domain.ErrNoQueuedRuns when the queue is empty.
	ClaimQueued(ctx context.Context) (*domain.Run, error)

	// Delete deletes a Run and its steps.
	Delete(ctx context.Context, id string) error
}

// StepRepository provides access to StepResult storage.
type StepRepository interface {
	// Create creates a new StepResult.
	Create(ctx context.Context, step *domain.StepResult) error

	// Update updates an existing StepResult, keyed by (run, index).
	Update(ctx context.Context, step *domain.StepResult) error

	// ListByRun lists the steps of a run in step order.
	ListByRun(ctx context.Context, runID string) ([]*domain.StepResult, error)
}

// UnitOfWork provides transactional access to all repositories.
type UnitOfWork interface {
	Runs() RunRepository
	Steps() StepRepository

	// Transaction control
	Commit() error
	Rollback() error
}

// Storage provides the main entry point for storage operations.
type Storage interface {
	// Begin starts a new transaction and returns a UnitOfWork.
	Begin(ctx context.Context) (UnitOfWork, error)

	// Ping verifies the underlying connection.
	Ping(ctx context.Context) error

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate(ctx context.Context) error
}
