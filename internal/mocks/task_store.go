package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a testify mock of store.TaskStore.
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Save is a mock implementation of store.TaskStore.Save
func (m *MockTaskStore) Save(ctx context.Context, task *domain.Task) (uuid.UUID, error) {
	args := m.Called(ctx, task)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

// ListAll is a mock implementation of store.TaskStore.ListAll
func (m *MockTaskStore) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID is a mock implementation of store.TaskStore.FindByID
func (m *MockTaskStore) FindByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus is a mock implementation of store.TaskStore.UpdateStatus
func (m *MockTaskStore) UpdateStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) error {
	args := m.Called(ctx, userID, taskID, status)
	return args.Error(0)
}

// InMemoryTaskStore is a concurrency-safe store.TaskStore kept in memory.
// It enforces the same ownership and ordering rules as the Postgres store.
type InMemoryTaskStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]struct{}
	tasks []*domain.Task

	// Err, when set, is returned by every operation.
	Err error

	SaveCalls         int
	UpdateStatusCalls int
}

var _ store.TaskStore = (*InMemoryTaskStore)(nil)

// NewInMemoryTaskStore creates an empty store with no known users.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{users: make(map[uuid.UUID]struct{})}
}

// AddUser registers userID as an existing task owner.
func (m *InMemoryTaskStore) AddUser(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = struct{}{}
}

// Save implements store.TaskStore.
func (m *InMemoryTaskStore) Save(_ context.Context, task *domain.Task) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++

	if m.Err != nil {
		return uuid.Nil, m.Err
	}
	if task == nil {
		return uuid.Nil, domain.NewValidationError("task", "cannot be nil", nil)
	}
	if err := task.Validate(); err != nil {
		return uuid.Nil, err
	}
	if _, ok := m.users[task.UserID]; !ok {
		return uuid.Nil, store.ErrUserNotFound
	}

	stored := *task
	stored.ID = uuid.New()
	m.tasks = append(m.tasks, &stored)
	task.ID = stored.ID
	return stored.ID, nil
}

// ListAll implements store.TaskStore. Tasks come back in insertion order,
// which matches created_at order for a monotonic clock.
func (m *InMemoryTaskStore) ListAll(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]*domain.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// FindByID implements store.TaskStore.
func (m *InMemoryTaskStore) FindByID(_ context.Context, taskID uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if t := m.find(taskID); t != nil {
		c := *t
		return &c, nil
	}
	return nil, store.ErrTaskNotFound
}

// UpdateStatus implements store.TaskStore.
func (m *InMemoryTaskStore) UpdateStatus(
	_ context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls++

	if m.Err != nil {
		return m.Err
	}
	if !status.IsValid() {
		return domain.NewValidationError("status", "unknown status "+string(status), domain.ErrInvalidTaskStatus)
	}
	t := m.find(taskID)
	if t == nil || t.UserID != userID {
		return store.ErrTaskNotFound
	}
	t.Status = status
	return nil
}

func (m *InMemoryTaskStore) find(taskID uuid.UUID) *domain.Task {
	for _, t := range m.tasks {
		if t.ID == taskID {
			return t
		}
	}
	return nil
}
