package mocks

import "github.com/phrazzld/todo-api/internal/service/auth"

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
// By default it succeeds when the hash equals the password, which pairs
// with MockUserStore storing plaintext as the hash.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error

	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}
	CompareCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == "" || hashedPassword != password {
		return auth.ErrInvalidCredentials
	}
	return nil
}
