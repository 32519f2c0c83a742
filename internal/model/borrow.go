package model

import "time"

// Borrow represents a timed loan of one unit of a book. ReturnedDate is nil
// while the loan is active. BorrowDays is fixed at creation and never changes.
// LastFeeDate tracks the most recent holding-fee charge so the overdue scan
// charges at most once per day regardless of how often it runs.
type Borrow struct {
	ID           int64      `json:"id"`
	BookID       int64      `json:"book_id"`
	AccountID    int64      `json:"account_id"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	BorrowDays   int        `json:"borrow_days"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	LastFeeDate  *time.Time `json:"-"`

	// Joined fields (not always populated).
	BookTitle      string `json:"book_title,omitempty"`
	AccountEmail   string `json:"account_email,omitempty"`
	CategoryID     int64  `json:"category_id,omitempty"`
	CategoryName   string `json:"category_name,omitempty"`
	DailyBorrowFee int    `json:"-"`
}

// Active reports whether the loan has not been returned yet.
func (b *Borrow) Active() bool {
	return b.ReturnedDate == nil
}

// Overdue reports whether the loan has been held longer than its allowed
// duration as of now. A returned loan is never overdue.
func (b *Borrow) Overdue(now time.Time) bool {
	if !b.Active() {
		return false
	}
	return now.Sub(b.BorrowedDate) > time.Duration(b.BorrowDays)*24*time.Hour
}
