package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/websocket"
)

// AccountPayload is the WebSocket event payload for account operations
type AccountPayload struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// AccountService implements the account use cases. Every mutating
// operation is a resolve/validate/mutate sequence on a freshly loaded
// user aggregate followed by a single Save; if any step fails before the
// Save, no mutation is persisted.
type AccountService struct {
	userRepo       domain.UserRepository
	eventPublisher websocket.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(userRepo domain.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *AccountService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AccountService) publishEvent(username string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(username, event)
	}
}

// CreateAccount creates a named account for the user. Fails with
// ErrAlreadyExists if the user already has an account with that name.
func (s *AccountService) CreateAccount(username, name string) (*domain.Account, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	if user.FindAccount(name) != nil {
		return nil, fmt.Errorf("account %q: %w", name, domain.ErrAlreadyExists)
	}

	account := domain.NewAccount(name)
	if err := user.AddAccount(account); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.AccountCreated(AccountPayload{ID: account.ID, Name: account.Name}))

	return account, nil
}

// RenameAccount renames an existing account. Fails with ErrNotFound if no
// account has oldName, and with ErrAlreadyExists if newName is taken by a
// different account. Renaming an account to its own name is a no-op.
func (s *AccountService) RenameAccount(username, oldName, newName string) (*domain.Account, error) {
	newName, err := validName(newName)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	account := user.FindAccount(oldName)
	if account == nil {
		return nil, fmt.Errorf("account %q: %w", oldName, domain.ErrNotFound)
	}

	if existing := user.FindAccount(newName); existing != nil && existing != account {
		return nil, fmt.Errorf("account %q: %w", newName, domain.ErrAlreadyExists)
	}

	account.Name = newName

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.AccountUpdated(AccountPayload{ID: account.ID, Name: account.Name}))

	return account, nil
}

// RemoveAccount removes an account from the user. Fails with ErrNotFound
// if the account does not exist and with ErrCannotRemove if it still
// holds transactions.
func (s *AccountService) RemoveAccount(username, name string) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}

	account := user.FindAccount(name)
	if account == nil {
		return fmt.Errorf("account %q: %w", name, domain.ErrNotFound)
	}

	if account.HasTransactions() {
		return fmt.Errorf("account %q has transactions: %w", name, domain.ErrCannotRemove)
	}

	user.RemoveAccount(account)

	if err := s.userRepo.Save(user); err != nil {
		return err
	}

	s.publishEvent(username, websocket.AccountDeleted(AccountPayload{ID: account.ID, Name: account.Name}))

	return nil
}

// GetAccounts returns a snapshot of the user's accounts.
func (s *AccountService) GetAccounts(username string) ([]*domain.Account, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return user.Accounts(), nil
}

// validName trims and validates an entity name.
func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}
