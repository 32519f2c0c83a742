package store

import (
	"context"
	"testing"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/model"
)

func TestCreateAndGetAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	account, err := CreateAccount(ctx, database, "alice@example.com", "Alice", "hash", model.RolePatron)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if account.Balance != 0 || account.IsRestricted {
		t.Errorf("new account should start with zero balance and no restriction: %+v", account)
	}

	got, _ := GetAccountByEmail(ctx, database, "alice@example.com")
	if got == nil || got.ID != account.ID || got.FullName != "Alice" {
		t.Errorf("GetAccountByEmail returned %+v", got)
	}
}

func TestCreateDuplicateAccountFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateAccount(ctx, database, "alice@example.com", "Alice", "hash", model.RolePatron)
	_, err := CreateAccount(ctx, database, "alice@example.com", "Other", "hash", model.RolePatron)
	if err == nil {
		t.Error("expected error creating duplicate account")
	}
}

func TestCreditAndDebitAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	account, _ := CreateAccount(ctx, database, "alice@example.com", "Alice", "hash", model.RolePatron)

	if err := CreditAccount(ctx, database, account.ID, 50); err != nil {
		t.Fatalf("CreditAccount: %v", err)
	}
	if err := DebitAccount(ctx, database, account.ID, 20); err != nil {
		t.Fatalf("DebitAccount: %v", err)
	}

	got, _ := GetAccount(ctx, database, account.ID)
	if got.Balance != 30 {
		t.Errorf("expected balance 30, got %d", got.Balance)
	}
}

func TestCreditAccountNonPositiveFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	account, _ := CreateAccount(ctx, database, "alice@example.com", "Alice", "hash", model.RolePatron)

	if err := CreditAccount(ctx, database, account.ID, 0); err == nil {
		t.Error("expected error for zero credit")
	}
	if err := DebitAccount(ctx, database, account.ID, -5); err == nil {
		t.Error("expected error for negative debit")
	}
}

func TestSetRestrictedAndList(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateAccount(ctx, database, "alice@example.com", "Alice", "hash", model.RolePatron)
	CreateAccount(ctx, database, "bob@example.com", "Bob", "hash", model.RolePatron)

	SetRestricted(ctx, database, alice.ID, true)

	restricted, _ := ListRestrictedAccounts(ctx, database)
	if len(restricted) != 1 || restricted[0].Email != "alice@example.com" {
		t.Errorf("expected only alice restricted, got %+v", restricted)
	}

	SetRestricted(ctx, database, alice.ID, false)
	restricted, _ = ListRestrictedAccounts(ctx, database)
	if len(restricted) != 0 {
		t.Errorf("expected no restricted accounts, got %d", len(restricted))
	}
}

func TestUpdateAccountPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	account, _ := CreateAccount(ctx, database, "alice@example.com", "Alice", "old", model.RolePatron)

	if err := UpdateAccountPassword(ctx, database, account.ID, "new"); err != nil {
		t.Fatalf("UpdateAccountPassword: %v", err)
	}

	got, _ := GetAccount(ctx, database, account.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
