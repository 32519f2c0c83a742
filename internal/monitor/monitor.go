// Package monitor implements the periodic loan scans: accruing holding fees,
// restricting accounts with overdue loans, and clearing restrictions once an
// account no longer holds any overdue loan.
package monitor

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// overduePenaltyDays is the multiple of the daily fee charged when an
// account is first restricted for an overdue loan.
const overduePenaltyDays = 5

// Monitor runs the overdue and unrestrict scans. Each account is processed in
// its own transaction, so a failure on one account never aborts the batch and
// an interrupted scan leaves no account half-updated.
type Monitor struct {
	db       *sql.DB
	clock    func() time.Time
	onMutate func(context.Context)
}

// New creates a monitor over the given database.
func New(db *sql.DB) *Monitor {
	return &Monitor{db: db, clock: time.Now}
}

// SetClock replaces the monitor's time source.
func (m *Monitor) SetClock(clock func() time.Time) { m.clock = clock }

// SetMutationHook registers a callback fired after a scan that changed state.
func (m *Monitor) SetMutationHook(hook func(context.Context)) { m.onMutate = hook }

// Run drives both scans on a fixed interval until ctx is cancelled. The two
// scans run back to back within a tick so they never interleave on the same
// account.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runID := uuid.NewString()
		if err := m.RunOverdueScan(ctx); err != nil {
			slog.Error("overdue scan failed", "run_id", runID, "error", err)
		}
		if err := m.RunUnrestrictScan(ctx); err != nil {
			slog.Error("unrestrict scan failed", "run_id", runID, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOverdueScan walks every active loan, accruing the daily holding fee and
// restricting accounts that hold overdue loans. The holding fee is charged at
// most once per calendar day per loan, so the scan interval is a deployment
// choice, not a billing parameter. Per-loan failures are logged and skipped.
func (m *Monitor) RunOverdueScan(ctx context.Context) error {
	borrows, err := store.ListActiveBorrows(ctx, m.db)
	if err != nil {
		return err
	}

	changed := false
	for _, b := range borrows {
		didChange, err := m.scanBorrow(ctx, b.ID)
		if err != nil {
			slog.Error("scanning borrow failed", "borrow", b.ID, "account", b.AccountEmail, "error", err)
			continue
		}
		changed = changed || didChange
	}

	if changed && m.onMutate != nil {
		m.onMutate(ctx)
	}
	return nil
}

// scanBorrow processes one active loan in its own transaction: holding fee
// first, then the overdue penalty if the owning account is not yet restricted.
func (m *Monitor) scanBorrow(ctx context.Context, borrowID int64) (bool, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// Re-read inside the transaction; the loan may have been returned since
	// the scan listed it.
	b, err := store.GetBorrow(ctx, tx, borrowID)
	if err != nil {
		return false, err
	}
	if b == nil || !b.Active() {
		return false, nil
	}

	now := m.clock()
	changed := false

	if b.LastFeeDate == nil || !sameDay(*b.LastFeeDate, now) {
		if b.DailyBorrowFee > 0 {
			if err := store.DebitAccount(ctx, tx, b.AccountID, b.DailyBorrowFee); err != nil {
				return false, err
			}
		}
		if err := store.SetLastFeeDate(ctx, tx, b.ID, now); err != nil {
			return false, err
		}
		changed = true
	}

	if b.Overdue(now) {
		account, err := store.GetAccount(ctx, tx, b.AccountID)
		if err != nil {
			return false, err
		}
		if account != nil && !account.IsRestricted {
			penalty := b.DailyBorrowFee * overduePenaltyDays
			if penalty > 0 {
				if err := store.DebitAccount(ctx, tx, account.ID, penalty); err != nil {
					return false, err
				}
			}
			if err := store.SetRestricted(ctx, tx, account.ID, true); err != nil {
				return false, err
			}
			slog.Info("account restricted for overdue loan",
				"account", b.AccountEmail, "book", b.BookTitle, "penalty", penalty)
			changed = true
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return changed, nil
}

// RunUnrestrictScan clears the restriction on accounts that no longer hold
// any overdue active loan. Accounts with an overdue loan stay restricted.
// Per-account failures are logged and skipped.
func (m *Monitor) RunUnrestrictScan(ctx context.Context) error {
	accounts, err := store.ListRestrictedAccounts(ctx, m.db)
	if err != nil {
		return err
	}

	changed := false
	for _, a := range accounts {
		didClear, err := m.unrestrictAccount(ctx, a)
		if err != nil {
			slog.Error("unrestricting account failed", "account", a.Email, "error", err)
			continue
		}
		changed = changed || didClear
	}

	if changed && m.onMutate != nil {
		m.onMutate(ctx)
	}
	return nil
}

func (m *Monitor) unrestrictAccount(ctx context.Context, account model.Account) (bool, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	borrows, err := store.ListBorrowsByAccount(ctx, tx, account.ID)
	if err != nil {
		return false, err
	}

	now := m.clock()
	for _, b := range borrows {
		if b.Overdue(now) {
			return false, nil
		}
	}

	if err := store.SetRestricted(ctx, tx, account.ID, false); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	slog.Info("account restriction cleared", "account", account.Email)
	return true, nil
}

// sameDay reports whether two instants fall on the same UTC calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
