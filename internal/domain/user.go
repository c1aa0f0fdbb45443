package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is the aggregate root: everything reachable through its owned
// collections — accounts, the two-level category tree, and the tag
// registry — forms one consistency boundary. All mutation goes through
// the service layer; the aggregate's own add operations are the final
// guard against sibling-name collisions.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	accounts   []*Account
	categories []*Category
	tags       []*Tag
}

// NewUser creates a user aggregate with a generated ID and empty
// collections.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
	}
}

// FindAccount returns the account with the given name, or nil.
func (u *User) FindAccount(name string) *Account {
	for _, a := range u.accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AddAccount adds an account to the user. Adding nil fails with
// ErrInvalidInput; adding an account whose name is already taken fails
// with ErrAlreadyExists.
func (u *User) AddAccount(a *Account) error {
	if a == nil {
		return fmt.Errorf("%w: nil account", ErrInvalidInput)
	}
	if u.FindAccount(a.Name) != nil {
		return fmt.Errorf("account %q: %w", a.Name, ErrAlreadyExists)
	}
	u.accounts = append(u.accounts, a)
	return nil
}

// RemoveAccount removes an account from the user. Removing an account the
// user does not own is a no-op.
func (u *User) RemoveAccount(a *Account) {
	for i, existing := range u.accounts {
		if existing == a {
			u.accounts = append(u.accounts[:i], u.accounts[i+1:]...)
			return
		}
	}
}

// Accounts returns a snapshot of the user's accounts.
func (u *User) Accounts() []*Account {
	out := make([]*Account, len(u.accounts))
	copy(out, u.accounts)
	return out
}

// AccountByID returns the account with the given ID, or nil. Used to
// resolve a transaction's owner back-link.
func (u *User) AccountByID(id uuid.UUID) *Account {
	for _, a := range u.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// FindCategory returns the main category with the given name, or nil.
func (u *User) FindCategory(name string) *Category {
	for _, c := range u.categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddCategory adds a main category to the user. Adding nil fails with
// ErrInvalidInput; adding a category whose name is already taken among
// main categories fails with ErrAlreadyExists.
func (u *User) AddCategory(c *Category) error {
	if c == nil {
		return fmt.Errorf("%w: nil category", ErrInvalidInput)
	}
	if u.FindCategory(c.Name) != nil {
		return fmt.Errorf("category %q: %w", c.Name, ErrAlreadyExists)
	}
	u.categories = append(u.categories, c)
	return nil
}

// RemoveCategory removes a main category from the user. Removing a
// category the user does not own is a no-op.
func (u *User) RemoveCategory(c *Category) {
	for i, existing := range u.categories {
		if existing == c {
			u.categories = append(u.categories[:i], u.categories[i+1:]...)
			return
		}
	}
}

// Categories returns a snapshot of the user's main categories.
func (u *User) Categories() []*Category {
	out := make([]*Category, len(u.categories))
	copy(out, u.categories)
	return out
}

// SubCategoryByID returns the subcategory with the given ID from anywhere
// in the category tree, or nil. Used to resolve a transaction's owner
// back-link.
func (u *User) SubCategoryByID(id uuid.UUID) *Category {
	for _, main := range u.categories {
		for _, sub := range main.subCategories {
			if sub.ID == id {
				return sub
			}
		}
	}
	return nil
}

// FindTag returns the tag with the given name, or nil.
func (u *User) FindTag(name string) *Tag {
	for _, t := range u.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddTag registers a tag with the user. Adding nil fails with
// ErrInvalidInput; adding a tag whose name is already registered fails
// with ErrAlreadyExists.
func (u *User) AddTag(t *Tag) error {
	if t == nil {
		return fmt.Errorf("%w: nil tag", ErrInvalidInput)
	}
	if u.FindTag(t.Name) != nil {
		return fmt.Errorf("tag %q: %w", t.Name, ErrAlreadyExists)
	}
	u.tags = append(u.tags, t)
	return nil
}

// Tags returns a snapshot of the user's tag registry.
func (u *User) Tags() []*Tag {
	out := make([]*Tag, len(u.tags))
	copy(out, u.tags)
	return out
}

// FindTransaction returns the transaction with the given ID from any of
// the user's accounts, or nil. The owning account is not known a priori
// from the ID alone, so the accounts are scanned.
func (u *User) FindTransaction(id uuid.UUID) *Transaction {
	for _, a := range u.accounts {
		if t := a.FindTransaction(id); t != nil {
			return t
		}
	}
	return nil
}

// UserRepository loads and persists user aggregates. Save is expected to
// persist the whole aggregate atomically: the service layer mutates the
// in-memory graph first and calls Save exactly once per operation.
type UserRepository interface {
	GetByUsername(username string) (*User, error)
	Create(user *User) (*User, error)
	Save(user *User) error
}
