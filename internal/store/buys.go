package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
)

const buyColumns = `bu.id, bu.book_id, bu.account_id, bu.bought_date,
	        bk.title AS book_title, a.email AS account_email, bk.price, bk.category_id`

const buyJoins = `FROM buys bu
	 JOIN books bk ON bk.id = bu.book_id
	 JOIN accounts a ON a.id = bu.account_id`

// CreateBuy records a completed sale.
func CreateBuy(ctx context.Context, q Querier, bookID, accountID int64, boughtDate time.Time) (*model.Buy, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO buys (book_id, account_id, bought_date) VALUES (?, ?, ?)`,
		bookID, accountID, boughtDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating buy: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting buy id: %w", err)
	}

	return GetBuy(ctx, q, id)
}

// GetBuy returns a buy by ID with book and account joined.
func GetBuy(ctx context.Context, q Querier, id int64) (*model.Buy, error) {
	b := &model.Buy{}
	err := q.QueryRowContext(ctx,
		`SELECT `+buyColumns+` `+buyJoins+` WHERE bu.id = ?`, id,
	).Scan(&b.ID, &b.BookID, &b.AccountID, &b.BoughtDate,
		&b.BookTitle, &b.AccountEmail, &b.Price, &b.CategoryID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting buy: %w", err)
	}
	return b, nil
}

// ListBuys returns every sale, joined for reporting.
func ListBuys(ctx context.Context, q Querier) ([]model.Buy, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+buyColumns+` `+buyJoins+` ORDER BY bu.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing buys: %w", err)
	}
	defer rows.Close()

	var buys []model.Buy
	for rows.Next() {
		var b model.Buy
		if err := rows.Scan(&b.ID, &b.BookID, &b.AccountID, &b.BoughtDate,
			&b.BookTitle, &b.AccountEmail, &b.Price, &b.CategoryID); err != nil {
			return nil, fmt.Errorf("scanning buy: %w", err)
		}
		buys = append(buys, b)
	}
	return buys, rows.Err()
}

// CountBuysByBook returns the number of sales per book title.
func CountBuysByBook(ctx context.Context, q Querier) (map[string]int, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT bk.title, COUNT(*) FROM buys bu
		 JOIN books bk ON bk.id = bu.book_id
		 GROUP BY bk.title`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting buys by book: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var title string
		var count int
		if err := rows.Scan(&title, &count); err != nil {
			return nil, fmt.Errorf("scanning buy count: %w", err)
		}
		counts[title] = count
	}
	return counts, rows.Err()
}
