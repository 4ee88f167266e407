package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// TaskHandler handles task HTTP requests.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// SaveTask handles POST /tasks/save.
func (h *TaskHandler) SaveTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req SaveTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	taskDate, err := time.Parse(time.RFC3339Nano, req.TaskDate)
	if err != nil {
		HandleAPIError(w, r,
			domain.NewValidationError("task_date", "must be an RFC 3339 timestamp", err), "")
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.Content, taskDate)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks/list.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// UpdateTaskStatus handles PUT /tasks/update/{task_id}/{action}.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "task_id")
	if err != nil {
		log.Debug("invalid task id", slog.String("value", chi.URLParam(r, "task_id")))
		HandleAPIError(w, r, err, "")
		return
	}

	action, err := domain.ParseTaskAction(chi.URLParam(r, "action"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status, err := h.tasks.TransitionStatus(r.Context(), userID, taskID, action)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskStatusResponse{
		ID:     taskID.String(),
		Status: string(status),
	})
}
