package service

import (
	"errors"
	"testing"

	"github.com/budgeteer/budgeteer-backend/internal/domain"
	"github.com/budgeteer/budgeteer-backend/internal/testutil"
)

func seedUser(repo *testutil.MockUserRepository, username string) *domain.User {
	user := domain.NewUser(username, "hash")
	repo.AddUser(user)
	return user
}

func TestCreateAccount_Success(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	user := seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	account, err := svc.CreateAccount("alibaba", "wallet")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Name != "wallet" {
		t.Errorf("Expected name 'wallet', got %s", account.Name)
	}
	if user.FindAccount("wallet") != account {
		t.Error("Expected account to be findable on the aggregate")
	}
	if repo.SaveCalls != 1 {
		t.Errorf("Expected 1 save, got %d", repo.SaveCalls)
	}
}

func TestCreateAccount_TrimsName(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	account, err := svc.CreateAccount("alibaba", "  wallet  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if account.Name != "wallet" {
		t.Errorf("Expected trimmed name 'wallet', got '%s'", account.Name)
	}
}

func TestCreateAccount_EmptyName(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	_, err := svc.CreateAccount("alibaba", "   ")
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateAccount_UnknownUser(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	svc := NewAccountService(repo)

	_, err := svc.CreateAccount("nobody", "wallet")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateAccount_DuplicateName(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	user := seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	original, err := svc.CreateAccount("alibaba", "wallet")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = svc.CreateAccount("alibaba", "wallet")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	// The original account object is unchanged by the failed attempt.
	if user.FindAccount("wallet") != original {
		t.Error("Expected the original account to remain on the aggregate")
	}
	if repo.SaveCalls != 1 {
		t.Errorf("Expected no save on conflict, got %d saves", repo.SaveCalls)
	}
}

func TestRenameAccount_Success(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	user := seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	if _, err := svc.CreateAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	account, err := svc.RenameAccount("alibaba", "wallet", "purse")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if account.Name != "purse" {
		t.Errorf("Expected name 'purse', got %s", account.Name)
	}
	if user.FindAccount("wallet") != nil {
		t.Error("Expected old name to be gone")
	}
	if user.FindAccount("purse") != account {
		t.Error("Expected account under the new name")
	}
}

func TestRenameAccount_NotFound(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	_, err := svc.RenameAccount("alibaba", "wallet", "purse")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRenameAccount_NewNameTaken(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	if _, err := svc.CreateAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.CreateAccount("alibaba", "purse"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := svc.RenameAccount("alibaba", "wallet", "purse")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestRenameAccount_SameNameIsNoOp(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	if _, err := svc.CreateAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	account, err := svc.RenameAccount("alibaba", "wallet", "wallet")
	if err != nil {
		t.Fatalf("Expected same-name rename to succeed, got %v", err)
	}
	if account.Name != "wallet" {
		t.Errorf("Expected name 'wallet', got %s", account.Name)
	}
}

func TestRemoveAccount_Success(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	user := seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	if _, err := svc.CreateAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.RemoveAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.FindAccount("wallet") != nil {
		t.Error("Expected account to be removed")
	}
}

func TestRemoveAccount_NotFound(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	err := svc.RemoveAccount("alibaba", "wallet")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRemoveAccount_WithTransactions(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	user := seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	if _, err := svc.CreateAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	account := user.FindAccount("wallet")
	tx := testTransaction(t)
	if err := account.AddTransaction(tx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err := svc.RemoveAccount("alibaba", "wallet")
	if !errors.Is(err, domain.ErrCannotRemove) {
		t.Errorf("Expected ErrCannotRemove, got %v", err)
	}

	// The account stays findable with its transactions unchanged.
	if user.FindAccount("wallet") != account {
		t.Error("Expected account to remain on the aggregate")
	}
	if account.FindTransaction(tx.ID) != tx {
		t.Error("Expected transaction set to be unchanged")
	}
}

func TestGetAccounts(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	seedUser(repo, "alibaba")
	svc := NewAccountService(repo)

	if _, err := svc.CreateAccount("alibaba", "wallet"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.CreateAccount("alibaba", "bank"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	accounts, err := svc.GetAccounts("alibaba")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("Expected 2 accounts, got %d", len(accounts))
	}
}
