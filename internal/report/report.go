// Package report derives read-only aggregates from historical transactions:
// per-category profit, per-book borrow and sale counts, and the list of
// accounts with overdue history.
package report

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// Reporter computes reports, optionally serving them from a cache.
type Reporter struct {
	db    *sql.DB
	cache *Cache
	clock func() time.Time
}

// New creates a reporter over the given database.
func New(db *sql.DB) *Reporter {
	return &Reporter{db: db, clock: time.Now}
}

// SetClock replaces the reporter's time source.
func (r *Reporter) SetClock(clock func() time.Time) { r.clock = clock }

// SetCache attaches a result cache. A nil cache disables caching.
func (r *Reporter) SetCache(cache *Cache) { r.cache = cache }

// Invalidate drops all cached reports. Wired as the mutation hook of the
// transaction engine and the monitor.
func (r *Reporter) Invalidate(ctx context.Context) {
	r.cache.Invalidate(ctx)
}

// AccountViolations lists one account's overdue history.
type AccountViolations struct {
	Email   string         `json:"email"`
	Count   int            `json:"count"`
	Borrows []model.Borrow `json:"borrows"`
}

// ProfitByCategory computes revenue per category: every sale contributes the
// book's price, every loan contributes its duration in whole days times the
// category's daily fee. Unreturned loans are valued up to now. Every known
// category appears in the result, zero-profit ones included.
func (r *Reporter) ProfitByCategory(ctx context.Context) (map[string]int, error) {
	var cached map[string]int
	if r.cache.get(ctx, "profit", &cached) {
		return cached, nil
	}

	categories, err := store.ListCategories(ctx, r.db)
	if err != nil {
		return nil, err
	}
	borrows, err := store.ListBorrows(ctx, r.db)
	if err != nil {
		return nil, err
	}
	buys, err := store.ListBuys(ctx, r.db)
	if err != nil {
		return nil, err
	}

	now := r.clock()
	profits := make(map[string]int, len(categories))
	nameByID := make(map[int64]string, len(categories))
	for _, c := range categories {
		profits[c.Name] = 0
		nameByID[c.ID] = c.Name
	}
	for _, b := range borrows {
		end := now
		if b.ReturnedDate != nil {
			end = *b.ReturnedDate
		}
		profits[b.CategoryName] += wholeDays(end.Sub(b.BorrowedDate)) * b.DailyBorrowFee
	}
	for _, b := range buys {
		profits[nameByID[b.CategoryID]] += b.Price
	}

	r.cache.set(ctx, "profit", profits)
	return profits, nil
}

// ActiveBorrowCountsByBook returns the number of currently active loans per
// book title.
func (r *Reporter) ActiveBorrowCountsByBook(ctx context.Context) (map[string]int, error) {
	var cached map[string]int
	if r.cache.get(ctx, "active_borrows", &cached) {
		return cached, nil
	}

	counts, err := store.CountBorrowsByBook(ctx, r.db, true)
	if err != nil {
		return nil, err
	}

	r.cache.set(ctx, "active_borrows", counts)
	return counts, nil
}

// BorrowCountsByBook returns the all-time number of loans per book title.
func (r *Reporter) BorrowCountsByBook(ctx context.Context) (map[string]int, error) {
	var cached map[string]int
	if r.cache.get(ctx, "borrow_counts", &cached) {
		return cached, nil
	}

	counts, err := store.CountBorrowsByBook(ctx, r.db, false)
	if err != nil {
		return nil, err
	}

	r.cache.set(ctx, "borrow_counts", counts)
	return counts, nil
}

// BuyCountsByBook returns the number of sales per book title.
func (r *Reporter) BuyCountsByBook(ctx context.Context) (map[string]int, error) {
	var cached map[string]int
	if r.cache.get(ctx, "buy_counts", &cached) {
		return cached, nil
	}

	counts, err := store.CountBuysByBook(ctx, r.db)
	if err != nil {
		return nil, err
	}

	r.cache.set(ctx, "buy_counts", counts)
	return counts, nil
}

// Violations returns accounts with overdue history and the loans that caused
// it, sorted ascending by violation count. A loan counts as a violation if it
// was returned past its due date or is active and currently overdue. With a
// non-empty email only that account is reported.
func (r *Reporter) Violations(ctx context.Context, email string) ([]AccountViolations, error) {
	if email == "" {
		var cached []AccountViolations
		if r.cache.get(ctx, "violations", &cached) {
			return cached, nil
		}
	}

	borrows, err := store.ListBorrows(ctx, r.db)
	if err != nil {
		return nil, err
	}

	now := r.clock()
	byEmail := make(map[string][]model.Borrow)
	for _, b := range borrows {
		if email != "" && b.AccountEmail != email {
			continue
		}
		if violated(b, now) {
			byEmail[b.AccountEmail] = append(byEmail[b.AccountEmail], b)
		}
	}

	violations := make([]AccountViolations, 0, len(byEmail))
	for accountEmail, loans := range byEmail {
		violations = append(violations, AccountViolations{
			Email:   accountEmail,
			Count:   len(loans),
			Borrows: loans,
		})
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Count != violations[j].Count {
			return violations[i].Count < violations[j].Count
		}
		return violations[i].Email < violations[j].Email
	})

	if email == "" {
		r.cache.set(ctx, "violations", violations)
	}
	return violations, nil
}

// violated reports whether a loan was ever held past its allowed duration.
func violated(b model.Borrow, now time.Time) bool {
	allowed := time.Duration(b.BorrowDays) * 24 * time.Hour
	if b.ReturnedDate != nil {
		return b.ReturnedDate.Sub(b.BorrowedDate) > allowed
	}
	return now.Sub(b.BorrowedDate) > allowed
}

// wholeDays converts a duration to full elapsed days.
func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
