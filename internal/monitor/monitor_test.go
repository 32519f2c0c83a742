package monitor

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// setupMonitor seeds a category (fee 2), a book and a funded account (balance
// 100), returning a monitor pinned to the given time.
func setupMonitor(t *testing.T, now time.Time) (*Monitor, *sql.DB, *model.Book, *model.Account) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, err := store.CreateCategory(ctx, database, "fantasy", 2, 3)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	book, err := store.CreateBook(ctx, database, "The Hobbit", "Tolkien", category.ID, 5, 5, 20)
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	account, err := store.CreateAccount(ctx, database, "alice@example.com", "Alice", "hash", model.RolePatron)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := store.CreditAccount(ctx, database, account.ID, 100); err != nil {
		t.Fatalf("CreditAccount: %v", err)
	}

	m := New(database)
	m.SetClock(func() time.Time { return now })
	return m, database, book, account
}

func TestOverdueScanChargesFeeAndRestricts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m, database, book, account := setupMonitor(t, now)
	ctx := context.Background()

	// Three-day loan taken four days ago: one day overdue.
	store.CreateBorrow(ctx, database, book.ID, account.ID, now.Add(-4*24*time.Hour), 3)

	if err := m.RunOverdueScan(ctx); err != nil {
		t.Fatalf("RunOverdueScan: %v", err)
	}

	got, _ := store.GetAccount(ctx, database, account.ID)
	// One holding fee (2) plus the overdue penalty (5 * 2).
	if got.Balance != 100-2-10 {
		t.Errorf("expected balance 88, got %d", got.Balance)
	}
	if !got.IsRestricted {
		t.Error("account with overdue loan should be restricted")
	}
}

func TestOverdueScanFeeOncePerDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m, database, book, account := setupMonitor(t, now)
	ctx := context.Background()

	// Loan well within its allowed duration: fees accrue, no penalty.
	store.CreateBorrow(ctx, database, book.ID, account.ID, now.Add(-24*time.Hour), 10)

	m.RunOverdueScan(ctx)
	m.RunOverdueScan(ctx)
	m.RunOverdueScan(ctx)

	got, _ := store.GetAccount(ctx, database, account.ID)
	if got.Balance != 98 {
		t.Errorf("expected one fee per day regardless of scan count, balance %d", got.Balance)
	}
	if got.IsRestricted {
		t.Error("account within loan duration must not be restricted")
	}

	// Next calendar day: one more fee.
	m.SetClock(func() time.Time { return now.Add(24 * time.Hour) })
	m.RunOverdueScan(ctx)

	got, _ = store.GetAccount(ctx, database, account.ID)
	if got.Balance != 96 {
		t.Errorf("expected second fee on next day, balance %d", got.Balance)
	}
}

func TestOverdueScanPenaltyOnlyOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m, database, book, account := setupMonitor(t, now)
	ctx := context.Background()

	store.CreateBorrow(ctx, database, book.ID, account.ID, now.Add(-4*24*time.Hour), 3)

	m.RunOverdueScan(ctx)

	// The next day the account is already restricted: holding fee accrues,
	// the penalty does not repeat.
	m.SetClock(func() time.Time { return now.Add(24 * time.Hour) })
	m.RunOverdueScan(ctx)

	got, _ := store.GetAccount(ctx, database, account.ID)
	// Day one: fee 2 + penalty 10. Day two: fee 2.
	if got.Balance != 100-2-10-2 {
		t.Errorf("expected balance 86, got %d", got.Balance)
	}
}

func TestOverdueScanSkipsReturnedLoans(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m, database, book, account := setupMonitor(t, now)
	ctx := context.Background()

	borrow, _ := store.CreateBorrow(ctx, database, book.ID, account.ID, now.Add(-24*time.Hour), 10)
	store.SetReturned(ctx, database, borrow.ID, now)

	m.RunOverdueScan(ctx)

	got, _ := store.GetAccount(ctx, database, account.ID)
	if got.Balance != 100 {
		t.Errorf("returned loan must not accrue fees, balance %d", got.Balance)
	}
}

func TestUnrestrictScanClearsAfterReturn(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m, database, book, account := setupMonitor(t, now)
	ctx := context.Background()

	borrow, _ := store.CreateBorrow(ctx, database, book.ID, account.ID, now.Add(-4*24*time.Hour), 3)
	store.SetRestricted(ctx, database, account.ID, true)

	// The overdue loan is still active: restriction stays.
	m.RunUnrestrictScan(ctx)
	got, _ := store.GetAccount(ctx, database, account.ID)
	if !got.IsRestricted {
		t.Fatal("account with active overdue loan must stay restricted")
	}

	// After returning the loan the restriction is cleared.
	store.SetReturned(ctx, database, borrow.ID, now)
	m.RunUnrestrictScan(ctx)
	got, _ = store.GetAccount(ctx, database, account.ID)
	if got.IsRestricted {
		t.Error("restriction should be cleared once no loan is overdue")
	}
}

func TestMonitorMutationHook(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m, database, book, account := setupMonitor(t, now)
	ctx := context.Background()

	fired := 0
	m.SetMutationHook(func(context.Context) { fired++ })

	// No active loans: the scan changes nothing and the hook stays quiet.
	m.RunOverdueScan(ctx)
	if fired != 0 {
		t.Errorf("hook fired on no-op scan, fired %d times", fired)
	}

	store.CreateBorrow(ctx, database, book.ID, account.ID, now.Add(-24*time.Hour), 10)
	m.RunOverdueScan(ctx)
	if fired != 1 {
		t.Errorf("expected hook to fire after fee charge, fired %d times", fired)
	}
}
