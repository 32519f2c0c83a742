package model

import "time"

// Buy represents a completed, non-reversible sale of one unit of a book.
type Buy struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	AccountID  int64     `json:"account_id"`
	BoughtDate time.Time `json:"bought_date"`

	// Joined fields (not always populated).
	BookTitle    string `json:"book_title,omitempty"`
	AccountEmail string `json:"account_email,omitempty"`
	Price        int    `json:"-"`
	CategoryID   int64  `json:"-"`
}
