package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single item on a user's list.
//
// ID is uuid.Nil until the task store assigns one on first save.
// UserID and CreatedAt never change after creation; Status changes only
// through TaskStatus.Transition.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Content   string     `json:"content"`
	Status    TaskStatus `json:"status"`
	TaskDate  time.Time  `json:"task_date"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewTask creates an unsaved task in the ToStart state.
// now is the creation instant taken from the caller's clock.
func NewTask(userID uuid.UUID, content string, taskDate, now time.Time) (*Task, error) {
	task := &Task{
		UserID:    userID,
		Content:   content,
		Status:    TaskStatusToStart,
		TaskDate:  taskDate,
		CreatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the fields every stored task must carry.
// It does not inspect ID so it can be used before and after persistence.
// Content is stored as given, empty included.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "unknown status "+string(t.Status), ErrInvalidTaskStatus)
	}
	if t.TaskDate.IsZero() {
		return NewValidationError("task_date", "cannot be empty", nil)
	}
	if t.CreatedAt.IsZero() {
		return NewValidationError("created_at", "cannot be empty", nil)
	}
	return nil
}

// IsPersisted reports whether the store has assigned an ID.
func (t *Task) IsPersisted() bool {
	return t.ID != uuid.Nil
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}
