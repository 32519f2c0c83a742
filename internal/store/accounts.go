package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/knjiznica/internal/model"
)

// CreateAccount creates a new account.
func CreateAccount(ctx context.Context, q Querier, email, fullName, passwordHash, role string) (*model.Account, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO accounts (email, full_name, password_hash, role) VALUES (?, ?, ?, ?)`,
		email, fullName, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, q, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, q Querier, id int64) (*model.Account, error) {
	return getAccount(ctx, q, `WHERE id = ?`, id)
}

// GetAccountByEmail returns an account by its unique email.
func GetAccountByEmail(ctx context.Context, q Querier, email string) (*model.Account, error) {
	return getAccount(ctx, q, `WHERE email = ?`, email)
}

func getAccount(ctx context.Context, q Querier, where string, arg any) (*model.Account, error) {
	a := &model.Account{}
	var fullName sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, email, full_name, password_hash, role, balance, is_restricted, created_at
		 FROM accounts `+where, arg,
	).Scan(&a.ID, &a.Email, &fullName, &a.PasswordHash, &a.Role, &a.Balance, &a.IsRestricted, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	a.FullName = fullName.String
	return a, nil
}

// ListAccounts returns all accounts ordered by email.
func ListAccounts(ctx context.Context, q Querier) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, email, full_name, password_hash, role, balance, is_restricted, created_at
		 FROM accounts ORDER BY email`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var fullName sql.NullString
		if err := rows.Scan(&a.ID, &a.Email, &fullName, &a.PasswordHash, &a.Role, &a.Balance, &a.IsRestricted, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.FullName = fullName.String
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ListRestrictedAccounts returns all currently restricted accounts.
func ListRestrictedAccounts(ctx context.Context, q Querier) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, email, full_name, password_hash, role, balance, is_restricted, created_at
		 FROM accounts WHERE is_restricted = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing restricted accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var fullName sql.NullString
		if err := rows.Scan(&a.ID, &a.Email, &fullName, &a.PasswordHash, &a.Role, &a.Balance, &a.IsRestricted, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.FullName = fullName.String
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreditAccount adds amount to an account's balance. Amount must be positive.
func CreditAccount(ctx context.Context, q Querier, id int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}
	_, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ? WHERE id = ?`, amount, id,
	)
	if err != nil {
		return fmt.Errorf("crediting account: %w", err)
	}
	return nil
}

// DebitAccount subtracts amount from an account's balance. Amount must be
// positive. No balance floor is enforced here; callers check affordability
// before debiting.
func DebitAccount(ctx context.Context, q Querier, id int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive")
	}
	_, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ? WHERE id = ?`, amount, id,
	)
	if err != nil {
		return fmt.Errorf("debiting account: %w", err)
	}
	return nil
}

// SetRestricted sets or clears an account's restriction flag. Idempotent.
func SetRestricted(ctx context.Context, q Querier, id int64, restricted bool) error {
	_, err := q.ExecContext(ctx,
		`UPDATE accounts SET is_restricted = ? WHERE id = ?`, restricted, id,
	)
	if err != nil {
		return fmt.Errorf("setting account restriction: %w", err)
	}
	return nil
}

// UpdateAccountPassword updates an account's password hash.
func UpdateAccountPassword(ctx context.Context, q Querier, id int64, passwordHash string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE id = ?`, passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating account password: %w", err)
	}
	return nil
}
