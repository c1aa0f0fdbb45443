package testutil

import (
	"fmt"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
)

// MockUserRepository is an in-memory implementation of
// domain.UserRepository for tests.
type MockUserRepository struct {
	Users     map[string]*domain.User
	SaveErr   error
	SaveCalls int
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

// GetByUsername retrieves a user aggregate by username
func (m *MockUserRepository) GetByUsername(username string) (*domain.User, error) {
	if user, ok := m.Users[username]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create stores a new user aggregate
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.Users[user.Username]; ok {
		return nil, fmt.Errorf("user %q: %w", user.Username, domain.ErrAlreadyExists)
	}
	m.Users[user.Username] = user
	return user, nil
}

// Save persists a user aggregate. The aggregate is shared by reference, so
// Save only records the call (and fails if SaveErr is set).
func (m *MockUserRepository) Save(user *domain.User) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Users[user.Username] = user
	return nil
}

// AddUser seeds a user into the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Username] = user
}
