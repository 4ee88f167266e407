package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/naivetime"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumns = []string{"id", "user_id", "content", "status", "task_date", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func newTaskStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMock(t)
	return NewPostgresTaskStore(db, nil), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func newUnsavedTask(t *testing.T, userID uuid.UUID) *domain.Task {
	t.Helper()
	taskDate := time.Date(2024, 3, 15, 11, 30, 0, 250_400_000, time.FixedZone("CET", 60*60))
	created := time.Date(2024, 3, 14, 8, 0, 0, 999_999_999, time.UTC)
	task, err := domain.NewTask(userID, "buy milk", taskDate, created)
	require.NoError(t, err)
	return task
}

func assertStoreError(t *testing.T, err error, entity, operation string) {
	t.Helper()
	var serr *store.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, entity, serr.Entity)
	assert.Equal(t, operation, serr.Operation)
}

func TestNewPostgresTaskStore_PanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })
}

func TestPostgresTaskStore_Save(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	newID := uuid.New()

	t.Run("persists task and assigns id", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(q("INSERT INTO tasks")).
			WithArgs(
				userID,
				"buy milk",
				"ToStart",
				time.Date(2024, 3, 15, 10, 30, 0, 250_000_000, time.UTC),
				time.Date(2024, 3, 14, 8, 0, 0, 999_000_000, time.UTC),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(newID.String()))
		mock.ExpectCommit()

		id, err := s.Save(ctx, task)
		require.NoError(t, err)
		assert.Equal(t, newID, id)
		assert.Equal(t, newID, task.ID)
	})

	t.Run("empty content is stored as given", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)
		task.Content = ""

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(q("INSERT INTO tasks")).
			WithArgs(userID, "", "ToStart", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(newID.String()))
		mock.ExpectCommit()

		_, err := s.Save(ctx, task)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user rolls back without insert", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		id, err := s.Save(ctx, task)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, uuid.Nil, id)
		assert.Equal(t, uuid.Nil, task.ID)
	})

	t.Run("foreign key violation maps to user not found", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(q("INSERT INTO tasks")).
			WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_user_id_fkey"})
		mock.ExpectRollback()

		_, err := s.Save(ctx, task)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.Equal(t, uuid.Nil, task.ID)
	})

	t.Run("driver failure is a persistence error", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)
		driverErr := errors.New("connection reset by peer")

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(q("INSERT INTO tasks")).WillReturnError(driverErr)
		mock.ExpectRollback()

		_, err := s.Save(ctx, task)
		assert.ErrorIs(t, err, store.ErrPersistence)
		assert.ErrorIs(t, err, driverErr)
		assertStoreError(t, err, "task", "save")
	})

	t.Run("owner check failure is a persistence error", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS")).WillReturnError(errors.New("timeout"))
		mock.ExpectRollback()

		_, err := s.Save(ctx, task)
		assert.ErrorIs(t, err, store.ErrPersistence)
	})

	t.Run("begin failure", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		_, err := s.Save(ctx, task)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
		assert.ErrorIs(t, err, store.ErrPersistence)
	})

	t.Run("commit failure leaves task unsaved", func(t *testing.T) {
		s, mock := newTaskStore(t)
		task := newUnsavedTask(t, userID)

		mock.ExpectBegin()
		mock.ExpectQuery(q("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(q("INSERT INTO tasks")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(newID.String()))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		_, err := s.Save(ctx, task)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
		assert.Equal(t, uuid.Nil, task.ID)
	})

	t.Run("validation happens before any I/O", func(t *testing.T) {
		s, _ := newTaskStore(t)

		_, err := s.Save(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)

		persisted := newUnsavedTask(t, userID)
		persisted.ID = uuid.New()
		_, err = s.Save(ctx, persisted)
		assert.ErrorIs(t, err, domain.ErrInvalidID)

		undated := newUnsavedTask(t, userID)
		undated.TaskDate = time.Time{}
		_, err = s.Save(ctx, undated)
		assert.ErrorIs(t, err, domain.ErrValidation)

		orphan := newUnsavedTask(t, userID)
		orphan.UserID = uuid.Nil
		_, err = s.Save(ctx, orphan)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestPostgresTaskStore_ListAll(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns decoded tasks in query order", func(t *testing.T) {
		s, mock := newTaskStore(t)
		first, second := uuid.New(), uuid.New()
		day := time.Date(2024, 3, 15, 10, 30, 0, 250_000_000, time.UTC)
		created1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		created2 := time.Date(2024, 3, 2, 9, 0, 0, 123_456_789, time.UTC)

		mock.ExpectBegin()
		mock.ExpectQuery(q("ORDER BY created_at ASC, id ASC")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(first.String(), userID.String(), "buy milk", "ToStart", day, created1).
				AddRow(second.String(), userID.String(), "walk dog", "Completed", day, created2))
		mock.ExpectCommit()

		tasks, err := s.ListAll(ctx, userID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)

		assert.Equal(t, first, tasks[0].ID)
		assert.Equal(t, userID, tasks[0].UserID)
		assert.Equal(t, "buy milk", tasks[0].Content)
		assert.Equal(t, domain.TaskStatusToStart, tasks[0].Status)
		assert.Equal(t, day, tasks[0].TaskDate)
		assert.Equal(t, created1, tasks[0].CreatedAt)

		assert.Equal(t, second, tasks[1].ID)
		assert.Equal(t, domain.TaskStatusCompleted, tasks[1].Status)
		assert.Equal(t, naivetime.Normalize(created2), tasks[1].CreatedAt)
	})

	t.Run("no tasks yields empty non-nil slice", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("FROM tasks")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(taskColumns))
		mock.ExpectCommit()

		tasks, err := s.ListAll(ctx, userID)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("unknown stored status is a corrupt record", func(t *testing.T) {
		s, mock := newTaskStore(t)
		now := time.Now().UTC()

		mock.ExpectBegin()
		mock.ExpectQuery(q("FROM tasks")).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(uuid.NewString(), userID.String(), "x", "Archived", now, now))
		mock.ExpectRollback()

		tasks, err := s.ListAll(ctx, userID)
		assert.Nil(t, tasks)
		assert.ErrorIs(t, err, store.ErrCorruptRecord)
		assert.ErrorIs(t, err, store.ErrPersistence)
	})

	t.Run("null timestamp is a corrupt record", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("FROM tasks")).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(uuid.NewString(), userID.String(), "x", "Started", nil, time.Now()))
		mock.ExpectRollback()

		_, err := s.ListAll(ctx, userID)
		assert.ErrorIs(t, err, store.ErrCorruptRecord)
		assert.ErrorIs(t, err, naivetime.ErrInvalidDateTime)
	})

	t.Run("query failure", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(q("FROM tasks")).WillReturnError(errors.New("relation does not exist"))
		mock.ExpectRollback()

		_, err := s.ListAll(ctx, userID)
		assert.ErrorIs(t, err, store.ErrPersistence)
		assertStoreError(t, err, "task", "list")
	})

	t.Run("nil user id", func(t *testing.T) {
		s, _ := newTaskStore(t)
		_, err := s.ListAll(ctx, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestPostgresTaskStore_FindByID(t *testing.T) {
	ctx := context.Background()
	taskID, userID := uuid.New(), uuid.New()

	t.Run("found", func(t *testing.T) {
		s, mock := newTaskStore(t)
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(q("WHERE id = $1")).
			WithArgs(taskID).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(taskID.String(), userID.String(), "buy milk", "Started", now, now))

		task, err := s.FindByID(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, taskID, task.ID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, domain.TaskStatusStarted, task.Status)
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectQuery(q("WHERE id = $1")).
			WithArgs(taskID).
			WillReturnRows(sqlmock.NewRows(taskColumns))

		task, err := s.FindByID(ctx, taskID)
		assert.Nil(t, task)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("driver failure", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectQuery(q("WHERE id = $1")).WillReturnError(errors.New("broken pipe"))

		_, err := s.FindByID(ctx, taskID)
		assert.ErrorIs(t, err, store.ErrPersistence)
		assert.False(t, errors.Is(err, store.ErrNotFound))
		assertStoreError(t, err, "task", "find")
	})

	t.Run("nil id", func(t *testing.T) {
		s, _ := newTaskStore(t)
		_, err := s.FindByID(ctx, uuid.Nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPostgresTaskStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	taskID, userID := uuid.New(), uuid.New()

	t.Run("updates owned task", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE tasks")).
			WithArgs("Started", taskID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, s.UpdateStatus(ctx, userID, taskID, domain.TaskStatusStarted))
	})

	t.Run("other owner or missing task", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("WHERE id = $2 AND user_id = $3")).
			WithArgs("Completed", taskID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.UpdateStatus(ctx, userID, taskID, domain.TaskStatusCompleted)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("exec failure", func(t *testing.T) {
		s, mock := newTaskStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(q("UPDATE tasks")).WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		err := s.UpdateStatus(ctx, userID, taskID, domain.TaskStatusCompleted)
		assert.ErrorIs(t, err, store.ErrPersistence)
		assertStoreError(t, err, "task", "update_status")
	})

	t.Run("invalid input never reaches the database", func(t *testing.T) {
		s, _ := newTaskStore(t)

		assert.ErrorIs(t, s.UpdateStatus(ctx, userID, taskID, "Done"), domain.ErrInvalidTaskStatus)
		assert.ErrorIs(t, s.UpdateStatus(ctx, uuid.Nil, taskID, domain.TaskStatusStarted), domain.ErrInvalidID)
		assert.ErrorIs(t, s.UpdateStatus(ctx, userID, uuid.Nil, domain.TaskStatusStarted), domain.ErrInvalidID)
	})
}
