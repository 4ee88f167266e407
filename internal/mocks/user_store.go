package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements store.UserStore for testing. Function fields
// override the in-memory default behavior.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User, avatar *domain.Avatar) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetProfileFn func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	mu      sync.Mutex
	Users   map[string]*domain.User
	Avatars map[uuid.UUID]*domain.Avatar

	CreateError error
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:   make(map[string]*domain.User),
		Avatars: make(map[uuid.UUID]*domain.Avatar),
	}
}

// Create implements the UserStore interface. The default stores the
// plaintext password as the hash, so pair it with a MockPasswordVerifier.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User, avatar *domain.Avatar) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user, avatar)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	user.HashedPassword = user.Password
	user.Password = ""
	m.Users[user.Email] = user
	if avatar != nil {
		m.Avatars[user.ID] = avatar
	}
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID(id)
}

// GetProfile implements the UserStore interface
func (m *MockUserStore) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.byID(id)
	if err != nil {
		return nil, err
	}
	profile := &domain.Profile{UserID: user.ID, Username: user.Username, Email: user.Email}
	if avatar, ok := m.Avatars[id]; ok {
		profile.FileKey = avatar.FileKey
	}
	return profile, nil
}

func (m *MockUserStore) byID(id uuid.UUID) (*domain.User, error) {
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User, avatar *domain.Avatar) error {
	args := m.Called(ctx, user, avatar)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByEmail is a mock implementation of store.UserStore.GetByEmail
func (m *TestifyMockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetProfile is a mock implementation of store.UserStore.GetProfile
func (m *TestifyMockUserStore) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if profile, ok := args.Get(0).(*domain.Profile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}
