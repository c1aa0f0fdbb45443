package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
)

const uniqueViolationCode = "23505"

// UserRepository implements domain.UserRepository using PostgreSQL. The
// whole aggregate is loaded per request and written back atomically: Save
// replaces the user's child rows inside a single transaction, so every
// service operation commits or rolls back as one unit. Unique indexes on
// sibling names back the in-memory duplicate checks.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByUsername loads the full user aggregate: accounts, the category
// tree, the tag registry, and all transactions with their links.
func (r *UserRepository) GetByUsername(username string) (*domain.User, error) {
	ctx := context.Background()

	user := &domain.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}

	if err := r.loadAccounts(ctx, user); err != nil {
		return nil, err
	}
	if err := r.loadCategories(ctx, user); err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, user); err != nil {
		return nil, err
	}
	if err := r.loadTransactions(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) loadAccounts(ctx context.Context, user *domain.User) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM accounts WHERE user_id = $1 ORDER BY created_at`, user.ID)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(&account.ID, &account.Name); err != nil {
			return fmt.Errorf("scan account: %w", err)
		}
		if err := user.AddAccount(account); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *UserRepository) loadCategories(ctx context.Context, user *domain.User) error {
	// Main categories first, then subcategories attached to their parents
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM categories WHERE user_id = $1 AND parent_id IS NULL ORDER BY created_at`, user.ID)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	mains := make(map[uuid.UUID]*domain.Category)
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		if err := user.AddCategory(category); err != nil {
			return err
		}
		mains[category.ID] = category
	}
	if err := rows.Err(); err != nil {
		return err
	}

	subRows, err := r.pool.Query(ctx,
		`SELECT id, parent_id, name FROM categories WHERE user_id = $1 AND parent_id IS NOT NULL ORDER BY created_at`, user.ID)
	if err != nil {
		return fmt.Errorf("load subcategories: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		sub := &domain.Category{}
		var parentID uuid.UUID
		if err := subRows.Scan(&sub.ID, &parentID, &sub.Name); err != nil {
			return fmt.Errorf("scan subcategory: %w", err)
		}
		parent, ok := mains[parentID]
		if !ok {
			return fmt.Errorf("subcategory %q: orphaned parent %s", sub.Name, parentID)
		}
		if err := parent.AddSubCategory(sub); err != nil {
			return err
		}
	}
	return subRows.Err()
}

func (r *UserRepository) loadTags(ctx context.Context, user *domain.User) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM tags WHERE user_id = $1 ORDER BY created_at`, user.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tag := &domain.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if err := user.AddTag(tag); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *UserRepository) loadTransactions(ctx context.Context, user *domain.User) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, category_id, description, amount, transaction_date
		 FROM transactions WHERE user_id = $1 ORDER BY transaction_date, created_at`, user.ID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	transactions := make(map[uuid.UUID]*domain.Transaction)
	for rows.Next() {
		tx := &domain.Transaction{}
		var amount string
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.CategoryID, &tx.Description, &amount, &tx.Date); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("transaction %s: bad amount %q: %w", tx.ID, amount, err)
		}

		account := user.AccountByID(tx.AccountID)
		if account == nil {
			return fmt.Errorf("transaction %s: orphaned account %s", tx.ID, tx.AccountID)
		}
		sub := user.SubCategoryByID(tx.CategoryID)
		if sub == nil {
			return fmt.Errorf("transaction %s: orphaned category %s", tx.ID, tx.CategoryID)
		}
		if err := account.AddTransaction(tx); err != nil {
			return err
		}
		if err := sub.AddTransaction(tx); err != nil {
			return err
		}
		transactions[tx.ID] = tx
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.pool.Query(ctx,
		`SELECT tt.transaction_id, t.id, t.name
		 FROM transaction_tags tt
		 JOIN tags t ON t.id = tt.tag_id
		 WHERE t.user_id = $1`, user.ID)
	if err != nil {
		return fmt.Errorf("load transaction tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var txID, tagID uuid.UUID
		var tagName string
		if err := tagRows.Scan(&txID, &tagID, &tagName); err != nil {
			return fmt.Errorf("scan transaction tag: %w", err)
		}
		tx, ok := transactions[txID]
		if !ok {
			continue
		}
		// Reuse the registry instance so identity comparisons hold
		tag := user.FindTag(tagName)
		if tag == nil {
			return fmt.Errorf("transaction %s: orphaned tag %s", txID, tagID)
		}
		if err := tx.AddTag(tag); err != nil {
			return err
		}
	}
	return tagRows.Err()
}

// Create inserts a new user row. Fails with ErrAlreadyExists if the
// username is taken.
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	ctx := context.Background()

	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 RETURNING created_at, updated_at`,
		user.ID, user.Username, user.PasswordHash, now,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", user.Username, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return user, nil
}

// Save writes the whole aggregate back in one transaction: the user's
// child rows are replaced wholesale, so the stored state always matches
// the in-memory graph the services validated.
func (r *UserRepository) Save(user *domain.User) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET updated_at = $2 WHERE id = $1`, user.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch user: %w", err)
	}

	// Children are replaced wholesale; transaction_tags go first to
	// satisfy foreign keys, then transactions, then their owners.
	for _, stmt := range []string{
		`DELETE FROM transaction_tags WHERE tag_id IN (SELECT id FROM tags WHERE user_id = $1)`,
		`DELETE FROM transactions WHERE user_id = $1`,
		`DELETE FROM tags WHERE user_id = $1`,
		`DELETE FROM categories WHERE user_id = $1`,
		`DELETE FROM accounts WHERE user_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, user.ID); err != nil {
			return fmt.Errorf("clear aggregate: %w", err)
		}
	}

	now := time.Now().UTC()

	for i, account := range user.Accounts() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO accounts (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
			account.ID, user.ID, account.Name, orderedTime(now, i)); err != nil {
			return saveError("account", account.Name, err)
		}
	}

	categoryIndex := 0
	for _, main := range user.Categories() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO categories (id, user_id, parent_id, name, created_at) VALUES ($1, $2, NULL, $3, $4)`,
			main.ID, user.ID, main.Name, orderedTime(now, categoryIndex)); err != nil {
			return saveError("category", main.Name, err)
		}
		categoryIndex++
		for _, sub := range main.SubCategories() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO categories (id, user_id, parent_id, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
				sub.ID, user.ID, main.ID, sub.Name, orderedTime(now, categoryIndex)); err != nil {
				return saveError("subcategory", sub.Name, err)
			}
			categoryIndex++
		}
	}

	for i, tag := range user.Tags() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tags (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
			tag.ID, user.ID, tag.Name, orderedTime(now, i)); err != nil {
			return saveError("tag", tag.Name, err)
		}
	}

	for _, account := range user.Accounts() {
		for i, txn := range account.Transactions() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO transactions (id, user_id, account_id, category_id, description, amount, transaction_date, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				txn.ID, user.ID, txn.AccountID, txn.CategoryID, txn.Description, txn.Amount.String(), txn.Date, orderedTime(now, i)); err != nil {
				return saveError("transaction", txn.ID.String(), err)
			}
			for _, tag := range txn.Tags() {
				if _, err := tx.Exec(ctx,
					`INSERT INTO transaction_tags (transaction_id, tag_id) VALUES ($1, $2)`,
					txn.ID, tag.ID); err != nil {
					return saveError("transaction tag", tag.Name, err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// orderedTime spaces sibling created_at values so load order matches
// insert order.
func orderedTime(base time.Time, i int) time.Time {
	return base.Add(time.Duration(i) * time.Microsecond)
}

func saveError(kind, name string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s %q: %w", kind, name, domain.ErrAlreadyExists)
	}
	return fmt.Errorf("save %s %q: %w", kind, name, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
