package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
)

const borrowColumns = `br.id, br.book_id, br.account_id, br.borrowed_date, br.borrow_days,
	        br.returned_date, br.last_fee_date,
	        bk.title AS book_title, a.email AS account_email,
	        bk.category_id, c.name AS category_name, c.daily_borrow_fee`

const borrowJoins = `FROM borrows br
	 JOIN books bk ON bk.id = br.book_id
	 JOIN categories c ON c.id = bk.category_id
	 JOIN accounts a ON a.id = br.account_id`

// CreateBorrow records a new active loan.
func CreateBorrow(ctx context.Context, q Querier, bookID, accountID int64, borrowedDate time.Time, borrowDays int) (*model.Borrow, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO borrows (book_id, account_id, borrowed_date, borrow_days) VALUES (?, ?, ?, ?)`,
		bookID, accountID, borrowedDate, borrowDays,
	)
	if err != nil {
		return nil, fmt.Errorf("creating borrow: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting borrow id: %w", err)
	}

	return GetBorrow(ctx, q, id)
}

// GetBorrow returns a borrow by ID with book, account and category joined.
func GetBorrow(ctx context.Context, q Querier, id int64) (*model.Borrow, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+borrowColumns+` `+borrowJoins+` WHERE br.id = ?`, id,
	)
	return scanBorrowRow(row)
}

// GetActiveBorrow returns the active (unreturned) loan for an account and
// book pair, or nil if there is none. At most one such loan exists at a time.
func GetActiveBorrow(ctx context.Context, q Querier, accountID, bookID int64) (*model.Borrow, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+borrowColumns+` `+borrowJoins+`
		 WHERE br.account_id = ? AND br.book_id = ? AND br.returned_date IS NULL`,
		accountID, bookID,
	)
	return scanBorrowRow(row)
}

// SetReturned marks a loan as returned at the given time.
func SetReturned(ctx context.Context, q Querier, id int64, returnedDate time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE borrows SET returned_date = ? WHERE id = ? AND returned_date IS NULL`,
		returnedDate, id,
	)
	if err != nil {
		return fmt.Errorf("marking borrow returned: %w", err)
	}
	return nil
}

// SetLastFeeDate records when a loan's holding fee was last charged.
func SetLastFeeDate(ctx context.Context, q Querier, id int64, t time.Time) error {
	_, err := q.ExecContext(ctx,
		`UPDATE borrows SET last_fee_date = ? WHERE id = ?`, t, id,
	)
	if err != nil {
		return fmt.Errorf("setting borrow fee date: %w", err)
	}
	return nil
}

// CountActiveBorrowsInCategory counts an account's unreturned loans of books
// belonging to the given category.
func CountActiveBorrowsInCategory(ctx context.Context, q Querier, accountID, categoryID int64) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows br
		 JOIN books bk ON bk.id = br.book_id
		 WHERE br.account_id = ? AND bk.category_id = ? AND br.returned_date IS NULL`,
		accountID, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active borrows in category: %w", err)
	}
	return count, nil
}

// CountBorrowsSince counts loans of a book created at or after the given time,
// returned or not.
func CountBorrowsSince(ctx context.Context, q Querier, bookID int64, since time.Time) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE book_id = ? AND borrowed_date >= ?`,
		bookID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting recent borrows: %w", err)
	}
	return count, nil
}

// ListActiveBorrows returns every unreturned loan, joined with book, account
// and category data, ordered by account so scans process accounts together.
func ListActiveBorrows(ctx context.Context, q Querier) ([]model.Borrow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+borrowColumns+` `+borrowJoins+`
		 WHERE br.returned_date IS NULL ORDER BY br.account_id, br.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing active borrows: %w", err)
	}
	defer rows.Close()

	return scanBorrows(rows)
}

// ListBorrowsByAccount returns all loans for one account, newest first.
func ListBorrowsByAccount(ctx context.Context, q Querier, accountID int64) ([]model.Borrow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+borrowColumns+` `+borrowJoins+`
		 WHERE br.account_id = ? ORDER BY br.borrowed_date DESC`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing account borrows: %w", err)
	}
	defer rows.Close()

	return scanBorrows(rows)
}

// ListBorrows returns every loan in the system, joined for reporting.
func ListBorrows(ctx context.Context, q Querier) ([]model.Borrow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+borrowColumns+` `+borrowJoins+` ORDER BY br.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing borrows: %w", err)
	}
	defer rows.Close()

	return scanBorrows(rows)
}

// CountBorrowsByBook returns the number of loans per book title, optionally
// counting only active (unreturned) ones.
func CountBorrowsByBook(ctx context.Context, q Querier, activeOnly bool) (map[string]int, error) {
	query := `SELECT bk.title, COUNT(*) FROM borrows br
	          JOIN books bk ON bk.id = br.book_id`
	if activeOnly {
		query += ` WHERE br.returned_date IS NULL`
	}
	query += ` GROUP BY bk.title`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting borrows by book: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var title string
		var count int
		if err := rows.Scan(&title, &count); err != nil {
			return nil, fmt.Errorf("scanning borrow count: %w", err)
		}
		counts[title] = count
	}
	return counts, rows.Err()
}

func scanBorrowRow(row *sql.Row) (*model.Borrow, error) {
	b := &model.Borrow{}
	err := row.Scan(&b.ID, &b.BookID, &b.AccountID, &b.BorrowedDate, &b.BorrowDays,
		&b.ReturnedDate, &b.LastFeeDate,
		&b.BookTitle, &b.AccountEmail, &b.CategoryID, &b.CategoryName, &b.DailyBorrowFee)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting borrow: %w", err)
	}
	return b, nil
}

func scanBorrows(rows *sql.Rows) ([]model.Borrow, error) {
	var borrows []model.Borrow
	for rows.Next() {
		var b model.Borrow
		if err := rows.Scan(&b.ID, &b.BookID, &b.AccountID, &b.BorrowedDate, &b.BorrowDays,
			&b.ReturnedDate, &b.LastFeeDate,
			&b.BookTitle, &b.AccountEmail, &b.CategoryID, &b.CategoryName, &b.DailyBorrowFee); err != nil {
			return nil, fmt.Errorf("scanning borrow: %w", err)
		}
		borrows = append(borrows, b)
	}
	return borrows, rows.Err()
}
