package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Account is a named container of transactions. An account that still
// holds transactions can never be removed from its user.
type Account struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	transactions []*Transaction
}

// NewAccount creates an account with a generated ID.
func NewAccount(name string) *Account {
	return &Account{
		ID:   uuid.New(),
		Name: name,
	}
}

// HasTransactions reports whether the account holds any transactions.
func (a *Account) HasTransactions() bool {
	return len(a.transactions) > 0
}

// AddTransaction links a transaction into the account. Adding nil fails
// with ErrInvalidInput.
func (a *Account) AddTransaction(t *Transaction) error {
	if t == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidInput)
	}
	a.transactions = append(a.transactions, t)
	return nil
}

// RemoveTransaction unlinks a transaction from the account. Removing a
// transaction the account does not hold is a no-op.
func (a *Account) RemoveTransaction(t *Transaction) {
	for i, existing := range a.transactions {
		if existing == t {
			a.transactions = append(a.transactions[:i], a.transactions[i+1:]...)
			return
		}
	}
}

// FindTransaction returns the transaction with the given ID, or nil if
// the account does not hold it.
func (a *Account) FindTransaction(id uuid.UUID) *Transaction {
	for _, t := range a.transactions {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Transactions returns a snapshot of the account's transactions.
func (a *Account) Transactions() []*Transaction {
	out := make([]*Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}
