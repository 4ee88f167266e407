package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/naivetime"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskService is the task lifecycle: creating, listing and moving tasks
// through their statuses.
type TaskService interface {
	// CreateTask builds a ToStart task stamped with the service clock and saves it.
	CreateTask(ctx context.Context, userID uuid.UUID, content string, taskDate time.Time) (*domain.Task, error)

	// ListTasks returns the user's tasks oldest first. Never nil.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// TransitionStatus applies action to the user's task and returns the
	// resulting status. A transition that does not change the status is not
	// written.
	TransitionStatus(
		ctx context.Context,
		userID, taskID uuid.UUID,
		action domain.TaskAction,
	) (domain.TaskStatus, error)
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	now    func() time.Time
	logger *slog.Logger
}

// NewTaskService creates a TaskService. A nil clock means time.Now.
func NewTaskService(tasks store.TaskStore, clock func() time.Time, logger *slog.Logger) TaskService {
	if tasks == nil {
		panic("task store cannot be nil")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		now:    clock,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	content string,
	taskDate time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// stored timestamps are UTC at millisecond precision
	task, err := domain.NewTask(userID, content, naivetime.Normalize(taskDate), naivetime.Normalize(s.now()))
	if err != nil {
		log.Debug("rejected task", slog.String("error", err.Error()))
		return nil, err
	}

	id, err := s.tasks.Save(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	return task, nil
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// TransitionStatus implements TaskService.
func (s *taskServiceImpl) TransitionStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	action domain.TaskAction,
) (domain.TaskStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.RequireID("user_id", userID); err != nil {
		return "", err
	}
	if err := domain.RequireID("task_id", taskID); err != nil {
		return "", err
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTaskNotFound
		}
		return "", err
	}

	if !task.OwnedBy(userID) {
		log.Debug("task belongs to another user",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return "", ErrTaskNotFound
	}

	next := task.Status.Transition(action)
	if next == task.Status {
		log.Debug("transition does not change status",
			slog.String("task_id", taskID.String()),
			slog.String("status", string(next)),
			slog.String("action", string(action)))
		return next, nil
	}

	if err := s.tasks.UpdateStatus(ctx, userID, taskID, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrTaskNotFound
		}
		return "", err
	}

	log.Info("task status changed",
		slog.String("task_id", taskID.String()),
		slog.String("from", string(task.Status)),
		slog.String("to", string(next)))
	return next, nil
}
