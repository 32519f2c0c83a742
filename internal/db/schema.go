package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id                INTEGER PRIMARY KEY,
    name              TEXT NOT NULL UNIQUE,
    daily_borrow_fee  INTEGER NOT NULL CHECK (daily_borrow_fee >= 0),
    max_borrow_amount INTEGER NOT NULL CHECK (max_borrow_amount > 0),
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS books (
    id               INTEGER PRIMARY KEY,
    title            TEXT NOT NULL UNIQUE,
    author           TEXT NOT NULL,
    category_id      INTEGER NOT NULL REFERENCES categories(id),
    stock_amount     INTEGER NOT NULL CHECK (stock_amount >= 0),
    salable_quantity INTEGER NOT NULL CHECK (salable_quantity >= 0 AND salable_quantity <= stock_amount),
    price            INTEGER NOT NULL CHECK (price >= 0),
    cover            BLOB,
    cover_mime       TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS accounts (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    full_name     TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'patron' CHECK (role IN ('admin', 'patron')),
    balance       INTEGER NOT NULL DEFAULT 0,
    is_restricted INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS buys (
    id          INTEGER PRIMARY KEY,
    book_id     INTEGER NOT NULL REFERENCES books(id),
    account_id  INTEGER NOT NULL REFERENCES accounts(id),
    bought_date DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS borrows (
    id            INTEGER PRIMARY KEY,
    book_id       INTEGER NOT NULL REFERENCES books(id),
    account_id    INTEGER NOT NULL REFERENCES accounts(id),
    borrowed_date DATETIME NOT NULL,
    borrow_days   INTEGER NOT NULL CHECK (borrow_days > 0),
    returned_date DATETIME,
    last_fee_date DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_borrows_active
    ON borrows(account_id, book_id) WHERE returned_date IS NULL;

CREATE INDEX IF NOT EXISTS idx_borrows_book_date
    ON borrows(book_id, borrowed_date);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
