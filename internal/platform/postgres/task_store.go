package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/naivetime"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

const (
	userExistsQuery = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	insertTaskQuery = `
		INSERT INTO tasks (user_id, content, status, task_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	listTasksQuery = `
		SELECT id, user_id, content, status, task_date, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	findTaskQuery = `
		SELECT id, user_id, content, status, task_date, created_at
		FROM tasks
		WHERE id = $1
	`

	updateTaskStatusQuery = `
		UPDATE tasks
		SET status = $1
		WHERE id = $2 AND user_id = $3
	`
)

// PostgresTaskStore implements store.TaskStore on PostgreSQL.
// Task dates are stored as TIMESTAMP WITHOUT TIME ZONE in UTC at
// millisecond precision.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store on db.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Save implements store.TaskStore.Save.
// The owner check and the insert share one transaction, so a task is never
// written for a user that does not exist.
func (s *PostgresTaskStore) Save(ctx context.Context, task *domain.Task) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task == nil {
		return uuid.Nil, domain.NewValidationError("task", "cannot be nil", nil)
	}
	if task.IsPersisted() {
		return uuid.Nil, domain.NewValidationError("id", "task is already persisted", domain.ErrInvalidID)
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during save",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return uuid.Nil, err
	}

	taskDate := timestampOf(naivetime.Encode(task.TaskDate))
	createdAt := timestampOf(naivetime.Encode(task.CreatedAt))

	var id uuid.UUID
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		exists, err := userExists(ctx, tx, task.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrUserNotFound
		}

		err = tx.QueryRowContext(ctx, insertTaskQuery,
			task.UserID,
			task.Content,
			string(task.Status),
			taskDate,
			createdAt,
		).Scan(&id)
		if err != nil {
			// the owner was deleted between the check and the insert
			if IsForeignKeyViolation(err) {
				return store.ErrUserNotFound
			}
			return MapError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("task owner not found", slog.String("user_id", task.UserID.String()))
		} else {
			log.Error("failed to save task",
				slog.String("error", err.Error()),
				slog.String("user_id", task.UserID.String()))
			err = store.NewStoreError("task", "save", "failed to insert task", err)
		}
		return uuid.Nil, err
	}

	task.ID = id

	log.Info("task saved",
		slog.String("task_id", id.String()),
		slog.String("user_id", task.UserID.String()))
	return id, nil
}

// ListAll implements store.TaskStore.ListAll.
func (s *PostgresTaskStore) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.RequireID("user_id", userID); err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, listTasksQuery, userID)
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			task, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		if err := rows.Err(); err != nil {
			return MapError(err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("task", "list", "failed to read tasks", err)
	}

	log.Debug("tasks listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindByID implements store.TaskStore.FindByID.
func (s *PostgresTaskStore) FindByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.RequireID("task_id", taskID); err != nil {
		return nil, err
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, findTaskQuery, taskID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found", slog.String("task_id", taskID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to find task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, store.NewStoreError("task", "find", "failed to read task", err)
	}

	return task, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus.
// The owner is part of the WHERE clause, so another user's task is
// indistinguishable from a missing one.
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.RequireID("user_id", userID); err != nil {
		return err
	}
	if err := domain.RequireID("task_id", taskID); err != nil {
		return err
	}
	if !status.IsValid() {
		return domain.NewValidationError("status", "unknown status "+string(status), domain.ErrInvalidTaskStatus)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, updateTaskStatusQuery, string(status), taskID, userID)
		if err != nil {
			return MapError(err)
		}
		return CheckRowsAffected(result, store.ErrTaskNotFound)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for status update",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
		} else {
			log.Error("failed to update task status",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()))
			err = store.NewStoreError("task", "update_status", "failed to update status", err)
		}
		return err
	}

	log.Info("task status updated",
		slog.String("task_id", taskID.String()),
		slog.String("status", string(status)))
	return nil
}

// userExists runs the owner check on q, which is usually the caller's transaction.
func userExists(ctx context.Context, q store.DBTX, userID uuid.UUID) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, userExistsQuery, userID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row. Rows that cannot be decoded produce
// store.ErrCorruptRecord.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		status    string
		taskDate  pgtype.Timestamp
		createdAt pgtype.Timestamp
	)

	if err := row.Scan(&task.ID, &task.UserID, &task.Content, &status, &taskDate, &createdAt); err != nil {
		return nil, MapError(err)
	}

	s, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, corrupt(task.ID, "status", err)
	}
	task.Status = s

	if task.TaskDate, err = decodeTimestamp(taskDate); err != nil {
		return nil, corrupt(task.ID, "task_date", err)
	}
	if task.CreatedAt, err = decodeTimestamp(createdAt); err != nil {
		return nil, corrupt(task.ID, "created_at", err)
	}

	return &task, nil
}

func corrupt(id uuid.UUID, column string, err error) error {
	return fmt.Errorf("%w: task %s column %s: %w", store.ErrCorruptRecord, id, column, err)
}

func timestampOf(dt civil.DateTime) pgtype.Timestamp {
	return pgtype.Timestamp{Time: naivetime.ToWallClock(dt), Valid: true}
}

func decodeTimestamp(ts pgtype.Timestamp) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%w: null", naivetime.ErrInvalidDateTime)
	}
	if ts.InfinityModifier != pgtype.Finite {
		return time.Time{}, fmt.Errorf("%w: infinite", naivetime.ErrInvalidDateTime)
	}
	return naivetime.Decode(naivetime.FromWallClock(ts.Time))
}
