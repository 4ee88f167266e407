package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskStore persists tasks.
//
// Implementations return domain validation errors for malformed input before
// touching storage, ErrNotFound variants for missing rows, and errors wrapping
// ErrPersistence for storage failures.
type TaskStore interface {
	// Save persists a new task and returns its assigned ID, which is also
	// written back to task.ID. The owner must exist; otherwise ErrUserNotFound
	// is returned and nothing is written.
	Save(ctx context.Context, task *domain.Task) (uuid.UUID, error)

	// ListAll returns every task owned by userID, oldest first.
	// The result is empty, never nil, when the user has no tasks.
	ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// FindByID returns the task with the given ID regardless of owner.
	// Returns ErrTaskNotFound if it does not exist.
	FindByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// UpdateStatus overwrites the status of the task identified by both
	// userID and taskID. Returns ErrTaskNotFound when no such task exists,
	// including when the task belongs to another user.
	UpdateStatus(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) error
}
