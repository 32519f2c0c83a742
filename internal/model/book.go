package model

import "time"

// Book represents a title in the catalog. StockAmount counts every physical
// unit owned; SalableQuantity counts the subset currently offered for sale.
// A borrowed copy leaves both pools until it is returned.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	CategoryID      int64     `json:"category_id"`
	StockAmount     int       `json:"stock_amount"`
	SalableQuantity int       `json:"salable_quantity"`
	Price           int       `json:"price"`
	CoverMime       string    `json:"cover_mime,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	// Joined fields (not always populated).
	CategoryName string `json:"category_name,omitempty"`
}
