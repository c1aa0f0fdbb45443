package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/websocket"
)

// TransactionPayload is the WebSocket event payload for transaction operations
type TransactionPayload struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags,omitempty"`
}

func transactionPayload(tx *domain.Transaction) TransactionPayload {
	tags := tx.Tags()
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return TransactionPayload{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Date:        tx.Date,
		Tags:        names,
	}
}

// TransactionService implements the transaction use cases. A transaction
// is owned jointly by one account and one subcategory; every operation
// keeps both owning collections and the tag links consistent within a
// single aggregate Save.
type TransactionService struct {
	userRepo       domain.UserRepository
	eventPublisher websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(userRepo domain.UserRepository) *TransactionService {
	return &TransactionService{userRepo: userRepo}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(username string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(username, event)
	}
}

// TransactionInput holds the caller-supplied fields of a transaction.
// AccountName and the category pair name the owners; Tags is the full
// desired tag set.
type TransactionInput struct {
	AccountName      string
	MainCategoryName string
	SubCategoryName  string
	Description      string
	Amount           decimal.Decimal
	Date             time.Time
	Tags             []string
}

func (in *TransactionInput) validate() error {
	if strings.TrimSpace(in.AccountName) == "" ||
		strings.TrimSpace(in.MainCategoryName) == "" ||
		strings.TrimSpace(in.SubCategoryName) == "" {
		return fmt.Errorf("%w: account and category names are required", domain.ErrInvalidInput)
	}
	if len(in.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description too long", domain.ErrInvalidInput)
	}
	return nil
}

// CreateTransaction creates a transaction and links it into the named
// account and subcategory. The account, the main category, and the
// subcategory are three distinct ErrNotFound causes. Tag names resolve
// through find-or-create on the user's registry; a name requested twice
// attaches once.
func (s *TransactionService) CreateTransaction(username string, input TransactionInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	account := user.FindAccount(input.AccountName)
	if account == nil {
		return nil, fmt.Errorf("account %q: %w", input.AccountName, domain.ErrNotFound)
	}

	sub, err := findSubCategory(user, input.MainCategoryName, input.SubCategoryName)
	if err != nil {
		return nil, err
	}

	tx := domain.NewTransaction(input.Description, input.Amount, input.Date)
	tx.AccountID = account.ID
	tx.CategoryID = sub.ID

	if err := account.AddTransaction(tx); err != nil {
		return nil, err
	}
	if err := sub.AddTransaction(tx); err != nil {
		return nil, err
	}

	if err := attachTags(user, tx, input.Tags); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.TransactionCreated(transactionPayload(tx)))

	return tx, nil
}

// UpdateTransaction updates a transaction's fields, re-links it into the
// (possibly new) account and subcategory, and replaces its tag set
// wholesale: a tag name omitted from input.Tags is detached from the
// transaction but stays in the registry.
func (s *TransactionService) UpdateTransaction(username string, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	tx := user.FindTransaction(id)
	if tx == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}

	account := user.FindAccount(input.AccountName)
	if account == nil {
		return nil, fmt.Errorf("account %q: %w", input.AccountName, domain.ErrNotFound)
	}

	sub, err := findSubCategory(user, input.MainCategoryName, input.SubCategoryName)
	if err != nil {
		return nil, err
	}

	tx.Description = input.Description
	tx.Amount = input.Amount
	tx.Date = input.Date

	if tx.AccountID != account.ID {
		if old := user.AccountByID(tx.AccountID); old != nil {
			old.RemoveTransaction(tx)
		}
		if err := account.AddTransaction(tx); err != nil {
			return nil, err
		}
		tx.AccountID = account.ID
	}

	if tx.CategoryID != sub.ID {
		if old := user.SubCategoryByID(tx.CategoryID); old != nil {
			old.RemoveTransaction(tx)
		}
		if err := sub.AddTransaction(tx); err != nil {
			return nil, err
		}
		tx.CategoryID = sub.ID
	}

	tx.ClearTags()
	if err := attachTags(user, tx, input.Tags); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	s.publishEvent(username, websocket.TransactionUpdated(transactionPayload(tx)))

	return tx, nil
}

// RemoveTransaction removes a transaction, unlinking it from both its
// owning account and its owning subcategory.
func (s *TransactionService) RemoveTransaction(username string, id uuid.UUID) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}

	tx := user.FindTransaction(id)
	if tx == nil {
		return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}

	if account := user.AccountByID(tx.AccountID); account != nil {
		account.RemoveTransaction(tx)
	}
	if sub := user.SubCategoryByID(tx.CategoryID); sub != nil {
		sub.RemoveTransaction(tx)
	}

	if err := s.userRepo.Save(user); err != nil {
		return err
	}

	s.publishEvent(username, websocket.TransactionDeleted(transactionPayload(tx)))

	return nil
}

// findSubCategory resolves a main category then one of its subcategories,
// failing with ErrNotFound naming the missing one.
func findSubCategory(user *domain.User, mainName, subName string) (*domain.Category, error) {
	main := user.FindCategory(mainName)
	if main == nil {
		return nil, fmt.Errorf("category %q: %w", mainName, domain.ErrNotFound)
	}
	sub := main.FindSubCategory(subName)
	if sub == nil {
		return nil, fmt.Errorf("subcategory %q: %w", subName, domain.ErrNotFound)
	}
	return sub, nil
}

// attachTags resolves each name through find-or-create on the user's tag
// registry and attaches the result to the transaction. Names are trimmed;
// empty names are skipped. Repeated names resolve to the same tag and
// attach once.
func attachTags(user *domain.User, tx *domain.Transaction, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := findOrCreateTag(user, name)
		if err != nil {
			return err
		}
		if err := tx.AddTag(tag); err != nil {
			return err
		}
	}
	return nil
}

// findOrCreateTag looks a tag up by exact name, creating and registering
// it only if absent.
func findOrCreateTag(user *domain.User, name string) (*domain.Tag, error) {
	if tag := user.FindTag(name); tag != nil {
		return tag, nil
	}
	tag := domain.NewTag(name)
	if err := user.AddTag(tag); err != nil {
		return nil, err
	}
	return tag, nil
}
