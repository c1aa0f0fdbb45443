package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService handles signup and credential verification. Token issuance
// lives in the middleware package; this service only deals with the user
// store and password hashes.
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup creates a user with an empty aggregate and a bcrypt password
// hash. Fails with ErrAlreadyExists if the username is taken.
func (s *AuthService) Signup(username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if len(username) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(domain.NewUser(username, string(hash)))
}

// Login verifies a username/password pair against the stored hash and
// returns the user. Both an unknown username and a wrong password fail
// with ErrUnauthorized so callers cannot probe for usernames.
func (s *AuthService) Login(username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
