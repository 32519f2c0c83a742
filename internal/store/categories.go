package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// CreateCategory creates a new category.
func CreateCategory(ctx context.Context, q Querier, name string, dailyBorrowFee, maxBorrowAmount int) (*model.Category, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO categories (name, daily_borrow_fee, max_borrow_amount) VALUES (?, ?, ?)`,
		name, dailyBorrowFee, maxBorrowAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, q, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, q Querier, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, daily_borrow_fee, max_borrow_amount, created_at
		 FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.DailyBorrowFee, &c.MaxBorrowAmount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// GetCategoryByName returns a category by its unique name.
func GetCategoryByName(ctx context.Context, q Querier, name string) (*model.Category, error) {
	c := &model.Category{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, daily_borrow_fee, max_borrow_amount, created_at
		 FROM categories WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.DailyBorrowFee, &c.MaxBorrowAmount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category by name: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, q Querier) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, daily_borrow_fee, max_borrow_amount, created_at
		 FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DailyBorrowFee, &c.MaxBorrowAmount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
