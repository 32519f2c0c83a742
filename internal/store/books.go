package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// ErrNoBookUnits is returned when a unit adjustment would leave a book with
// negative stock or more salable units than stock.
var ErrNoBookUnits = errors.New("book unit adjustment out of range")

const bookColumns = `b.id, b.title, b.author, b.category_id, b.stock_amount,
	        b.salable_quantity, b.price, b.cover_mime, b.created_at, c.name AS category_name`

// CreateBook creates a new book in an existing category.
func CreateBook(ctx context.Context, q Querier, title, author string, categoryID int64, stockAmount, salableQuantity, price int) (*model.Book, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO books (title, author, category_id, stock_amount, salable_quantity, price)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, author, categoryID, stockAmount, salableQuantity, price,
	)
	if err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting book id: %w", err)
	}

	return GetBook(ctx, q, id)
}

// GetBook returns a book by ID.
func GetBook(ctx context.Context, q Querier, id int64) (*model.Book, error) {
	return getBook(ctx, q, `WHERE b.id = ?`, id)
}

// GetBookByTitle returns a book by its unique title.
func GetBookByTitle(ctx context.Context, q Querier, title string) (*model.Book, error) {
	return getBook(ctx, q, `WHERE b.title = ?`, title)
}

func getBook(ctx context.Context, q Querier, where string, arg any) (*model.Book, error) {
	b := &model.Book{}
	var coverMime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT `+bookColumns+`
		 FROM books b
		 JOIN categories c ON c.id = b.category_id `+where, arg,
	).Scan(&b.ID, &b.Title, &b.Author, &b.CategoryID, &b.StockAmount,
		&b.SalableQuantity, &b.Price, &coverMime, &b.CreatedAt, &b.CategoryName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting book: %w", err)
	}
	b.CoverMime = coverMime.String
	return b, nil
}

// ListBooks returns all books, optionally only those with salable units.
func ListBooks(ctx context.Context, q Querier, salableOnly bool) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + `
	          FROM books b
	          JOIN categories c ON c.id = b.category_id`
	if salableOnly {
		query += ` WHERE b.salable_quantity > 0`
	}
	query += ` ORDER BY b.title`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		var coverMime sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.CategoryID, &b.StockAmount,
			&b.SalableQuantity, &b.Price, &coverMime, &b.CreatedAt, &b.CategoryName); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		b.CoverMime = coverMime.String
		books = append(books, b)
	}
	return books, rows.Err()
}

// RestockBook adds units to a book's total stock and salable pool.
// Both deltas must be non-negative.
func RestockBook(ctx context.Context, q Querier, id int64, addStock, addSalable int) error {
	if addStock < 0 || addSalable < 0 {
		return fmt.Errorf("restock deltas must be non-negative")
	}
	_, err := q.ExecContext(ctx,
		`UPDATE books SET stock_amount = stock_amount + ?, salable_quantity = salable_quantity + ?
		 WHERE id = ?`,
		addStock, addSalable, id,
	)
	if err != nil {
		return fmt.Errorf("restocking book: %w", err)
	}
	return nil
}

// AdjustBookUnits moves both stock_amount and salable_quantity by delta
// (typically ±1 for a sale, borrow or return). The WHERE guard refuses an
// adjustment that would leave either quantity negative or salable above
// stock, returning ErrNoBookUnits.
func AdjustBookUnits(ctx context.Context, q Querier, id int64, delta int) error {
	result, err := q.ExecContext(ctx,
		`UPDATE books SET stock_amount = stock_amount + ?, salable_quantity = salable_quantity + ?
		 WHERE id = ? AND stock_amount + ? >= 0 AND salable_quantity + ? >= 0
		       AND salable_quantity + ? <= stock_amount + ?`,
		delta, delta, id, delta, delta, delta, delta,
	)
	if err != nil {
		return fmt.Errorf("adjusting book units: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting book units: %w", err)
	}
	if rows == 0 {
		return ErrNoBookUnits
	}
	return nil
}

// SetBookCover sets a book's cover image data.
func SetBookCover(ctx context.Context, q Querier, id int64, cover []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE books SET cover = ?, cover_mime = ? WHERE id = ?`,
		cover, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting book cover: %w", err)
	}
	return nil
}

// GetBookCover returns a book's cover image data and MIME type.
func GetBookCover(ctx context.Context, q Querier, id int64) ([]byte, string, error) {
	var cover []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT cover, cover_mime FROM books WHERE id = ?`, id,
	).Scan(&cover, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting book cover: %w", err)
	}
	return cover, mime.String, nil
}
