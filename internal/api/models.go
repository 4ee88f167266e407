package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// TimestampFormat renders task timestamps as RFC 3339 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// RegisterRequest defines the payload for POST /users.
type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Username string `json:"username"  validate:"required,max=100"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FileKey  string `json:"file_key"  validate:"omitempty,max=200"`
	MimeType string `json:"mime_type" validate:"omitempty,max=100"`
}

// RegisterResponse carries the new user's ID and the avatar upload URL.
type RegisterResponse struct {
	UserID uuid.UUID `json:"user_id"`
	URL    string    `json:"url"`
}

// LoginRequest defines the payload for POST /session.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for POST /session.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
	// ExpiresAt is the RFC 3339 expiry of Token.
	ExpiresAt string `json:"expires_at"`
}

// ProfileResponse is the body of GET /users/profile.
type ProfileResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// SaveTaskRequest defines the payload for POST /tasks/save.
// TaskDate is RFC 3339 with any offset.
type SaveTaskRequest struct {
	Content  string `json:"content"`
	TaskDate string `json:"task_date" validate:"required"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	TaskDate  string `json:"task_date"`
	CreatedAt string `json:"created_at"`
}

// TaskListResponse is the body of GET /tasks/list.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// TaskStatusResponse is the body of PUT /tasks/update/{task_id}/{action}.
type TaskStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID.String(),
		UserID:    task.UserID.String(),
		Content:   task.Content,
		Status:    string(task.Status),
		TaskDate:  formatTimestamp(task.TaskDate),
		CreatedAt: formatTimestamp(task.CreatedAt),
	}
}
