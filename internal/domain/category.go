package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Category is a node in a user's two-level category tree. A main category
// owns subcategories; a subcategory owns transactions. The type is the
// same at both levels — the service layer never nests a category below
// depth two, so true recursion is never exercised.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	subCategories []*Category
	transactions  []*Transaction
}

// NewCategory creates a category with a generated ID.
func NewCategory(name string) *Category {
	return &Category{
		ID:   uuid.New(),
		Name: name,
	}
}

// FindSubCategory returns the subcategory with the given name, or nil.
func (c *Category) FindSubCategory(name string) *Category {
	for _, sub := range c.subCategories {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// AddSubCategory adds a subcategory under this category. Adding nil fails
// with ErrInvalidInput; adding a subcategory whose name is already taken
// among the siblings fails with ErrAlreadyExists. Callers check first —
// this is the final guard.
func (c *Category) AddSubCategory(sub *Category) error {
	if sub == nil {
		return fmt.Errorf("%w: nil category", ErrInvalidInput)
	}
	if c.FindSubCategory(sub.Name) != nil {
		return fmt.Errorf("subcategory %q: %w", sub.Name, ErrAlreadyExists)
	}
	c.subCategories = append(c.subCategories, sub)
	return nil
}

// RemoveSubCategory removes a subcategory from this category. Removing a
// subcategory the category does not hold is a no-op.
func (c *Category) RemoveSubCategory(sub *Category) {
	for i, existing := range c.subCategories {
		if existing == sub {
			c.subCategories = append(c.subCategories[:i], c.subCategories[i+1:]...)
			return
		}
	}
}

// HasSubCategories reports whether the category has any subcategories.
func (c *Category) HasSubCategories() bool {
	return len(c.subCategories) > 0
}

// HasTransactions reports whether the category holds any transactions.
func (c *Category) HasTransactions() bool {
	return len(c.transactions) > 0
}

// AddTransaction links a transaction into the category. Adding nil fails
// with ErrInvalidInput.
func (c *Category) AddTransaction(t *Transaction) error {
	if t == nil {
		return fmt.Errorf("%w: nil transaction", ErrInvalidInput)
	}
	c.transactions = append(c.transactions, t)
	return nil
}

// RemoveTransaction unlinks a transaction from the category. Removing a
// transaction the category does not hold is a no-op.
func (c *Category) RemoveTransaction(t *Transaction) {
	for i, existing := range c.transactions {
		if existing == t {
			c.transactions = append(c.transactions[:i], c.transactions[i+1:]...)
			return
		}
	}
}

// SubCategories returns a snapshot of the category's subcategories.
func (c *Category) SubCategories() []*Category {
	out := make([]*Category, len(c.subCategories))
	copy(out, c.subCategories)
	return out
}

// Transactions returns a snapshot of the category's transactions.
func (c *Category) Transactions() []*Transaction {
	out := make([]*Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}
