package domain

import "strings"

// TaskStatus is the progress state of a task.
// The string values are persisted verbatim in the t_status enum.
type TaskStatus string

const (
	TaskStatusToStart   TaskStatus = "ToStart"
	TaskStatusStarted   TaskStatus = "Started"
	TaskStatusCompleted TaskStatus = "Completed"
)

// TaskAction moves a task one step along its status sequence.
type TaskAction string

const (
	ActionNext     TaskAction = "next"
	ActionPrevious TaskAction = "previous"
)

// ParseTaskAction parses a client-supplied action name.
func ParseTaskAction(raw string) (TaskAction, error) {
	switch a := TaskAction(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionNext, ActionPrevious:
		return a, nil
	default:
		return "", NewValidationError("action", "must be one of next, previous", ErrInvalidTaskAction)
	}
}

// IsValid reports whether s is one of the three known states.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToStart, TaskStatusStarted, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a stored value into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.IsValid() {
		return "", NewValidationError("status", "unknown status "+raw, ErrInvalidTaskStatus)
	}
	return s, nil
}

// Transition returns the state reached from s by applying a.
// It is total: moving past either end, or applying an unknown action,
// returns s unchanged.
func (s TaskStatus) Transition(a TaskAction) TaskStatus {
	switch a {
	case ActionNext:
		switch s {
		case TaskStatusToStart:
			return TaskStatusStarted
		case TaskStatusStarted:
			return TaskStatusCompleted
		}
	case ActionPrevious:
		switch s {
		case TaskStatusStarted:
			return TaskStatusToStart
		case TaskStatusCompleted:
			return TaskStatusStarted
		}
	}
	return s
}

func (s TaskStatus) String() string {
	return string(s)
}
