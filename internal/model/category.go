package model

import "time"

// Category groups books and carries the lending policy knobs for the group.
type Category struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	DailyBorrowFee  int       `json:"daily_borrow_fee"`
	MaxBorrowAmount int       `json:"max_borrow_amount"`
	CreatedAt       time.Time `json:"created_at"`
}
