package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single money movement. It is owned jointly by one
// account and one subcategory; AccountID and CategoryID are back-links to
// the owners, maintained by the service layer so both sides stay
// consistent without cyclic object pointers.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	AccountID   uuid.UUID       `json:"accountId"`
	CategoryID  uuid.UUID       `json:"categoryId"`

	tags []*Tag
}

// NewTransaction creates a transaction with a generated ID. The owner
// back-links are set when the transaction is linked into an account and a
// subcategory.
func NewTransaction(description string, amount decimal.Decimal, date time.Time) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		Description: description,
		Amount:      amount,
		Date:        date,
	}
}

// Tags returns a snapshot of the transaction's tags.
func (t *Transaction) Tags() []*Tag {
	out := make([]*Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// HasTag reports whether a tag with the given name is attached.
func (t *Transaction) HasTag(name string) bool {
	for _, tag := range t.tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// AddTag attaches a tag to the transaction. Attaching nil fails with
// ErrInvalidInput; attaching a tag whose name is already present is a
// no-op, keeping the tag set duplicate-free.
func (t *Transaction) AddTag(tag *Tag) error {
	if tag == nil {
		return ErrInvalidInput
	}
	if t.HasTag(tag.Name) {
		return nil
	}
	t.tags = append(t.tags, tag)
	return nil
}

// ClearTags detaches every tag from the transaction. The tags themselves
// remain in the user's registry.
func (t *Transaction) ClearTags() {
	t.tags = nil
}
