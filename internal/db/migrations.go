package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: partial index for the active-loan lookup, replacing the
	// older full index on (account_id, book_id).
	`DROP INDEX IF EXISTS idx_borrows_account_book`,
	// Migration 2: upgrade the partial index to UNIQUE so the database itself
	// rejects a second active loan of the same book by the same account.
	`DROP INDEX IF EXISTS idx_borrows_active`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_borrows_active
	     ON borrows(account_id, book_id) WHERE returned_date IS NULL`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
