package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// Engine validates and executes catalog and account mutations. Every mutating
// operation runs inside a single database transaction: either all of its
// reads-then-writes commit, or none do.
type Engine struct {
	db *sql.DB

	// clock provides "now" and is replaceable in tests.
	clock func() time.Time

	// onMutate, if set, is called after every committed mutation so cached
	// reports can be invalidated.
	onMutate func(context.Context)
}

// New creates an engine over the given database.
func New(db *sql.DB) *Engine {
	return &Engine{db: db, clock: time.Now}
}

// SetClock replaces the engine's time source.
func (e *Engine) SetClock(clock func() time.Time) { e.clock = clock }

// SetMutationHook registers a callback fired after every committed mutation.
func (e *Engine) SetMutationHook(hook func(context.Context)) { e.onMutate = hook }

func (e *Engine) mutated(ctx context.Context) {
	if e.onMutate != nil {
		e.onMutate(ctx)
	}
}

// inTx runs fn inside a transaction, rolling back on any error.
func (e *Engine) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return storageFailure(err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageFailure(err)
	}
	return nil
}

// CreateCategory creates a new category with its lending policy values.
func (e *Engine) CreateCategory(ctx context.Context, name string, dailyBorrowFee, maxBorrowAmount int) (*model.Category, error) {
	if name == "" {
		return nil, invalidArgument("category name is required")
	}
	if dailyBorrowFee < 0 {
		return nil, invalidArgument("daily borrow fee must be non-negative")
	}
	if maxBorrowAmount <= 0 {
		return nil, invalidArgument("max borrow amount must be positive")
	}

	var category *model.Category
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := store.GetCategoryByName(ctx, tx, name)
		if err != nil {
			return storageFailure(err)
		}
		if existing != nil {
			return ErrDuplicateCategory
		}

		category, err = store.CreateCategory(ctx, tx, name, dailyBorrowFee, maxBorrowAmount)
		if err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return category, nil
}

// CreateBook creates a new book in an existing category.
func (e *Engine) CreateBook(ctx context.Context, title, author, categoryName string, stockAmount, salableQuantity, price int) (*model.Book, error) {
	if title == "" {
		return nil, invalidArgument("book title is required")
	}
	if stockAmount < 0 || salableQuantity < 0 || salableQuantity > stockAmount {
		return nil, invalidArgument("salable quantity must be between 0 and stock amount")
	}
	if price < 0 {
		return nil, invalidArgument("price must be non-negative")
	}

	var book *model.Book
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		category, err := store.GetCategoryByName(ctx, tx, categoryName)
		if err != nil {
			return storageFailure(err)
		}
		if category == nil {
			return ErrCategoryMissing
		}

		existing, err := store.GetBookByTitle(ctx, tx, title)
		if err != nil {
			return storageFailure(err)
		}
		if existing != nil {
			return ErrDuplicateBook
		}

		book, err = store.CreateBook(ctx, tx, title, author, category.ID, stockAmount, salableQuantity, price)
		if err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return book, nil
}

// RestockBook adds units to a book's stock and salable pool.
func (e *Engine) RestockBook(ctx context.Context, title string, addStock, addSalable int) (*model.Book, error) {
	if addStock < 0 || addSalable < 0 {
		return nil, invalidArgument("restock deltas must be non-negative")
	}

	var book *model.Book
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		b, err := store.GetBookByTitle(ctx, tx, title)
		if err != nil {
			return storageFailure(err)
		}
		if b == nil {
			return ErrBookNotFound
		}

		if err := store.RestockBook(ctx, tx, b.ID, addStock, addSalable); err != nil {
			return storageFailure(err)
		}

		book, err = store.GetBook(ctx, tx, b.ID)
		if err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return book, nil
}

// ChargeAccount adds funds to an account's balance.
func (e *Engine) ChargeAccount(ctx context.Context, email string, amount int) (*model.Account, error) {
	if amount <= 0 {
		return nil, invalidArgument("charge amount must be positive")
	}

	var account *model.Account
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		a, err := store.GetAccountByEmail(ctx, tx, email)
		if err != nil {
			return storageFailure(err)
		}
		if a == nil {
			return ErrAccountNotFound
		}

		if err := store.CreditAccount(ctx, tx, a.ID, amount); err != nil {
			return storageFailure(err)
		}

		account, err = store.GetAccount(ctx, tx, a.ID)
		if err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return account, nil
}

// Buy sells one unit of a book to an account. The availability check, unit
// decrement, balance debit and sale record are one atomic unit.
func (e *Engine) Buy(ctx context.Context, accountEmail, bookTitle string) (*model.Buy, error) {
	var buy *model.Buy
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		account, book, err := e.resolve(ctx, tx, accountEmail, bookTitle)
		if err != nil {
			return err
		}
		if account.IsRestricted {
			return ErrRestricted
		}
		if account.Balance < book.Price {
			return ErrInsufficientBalance
		}
		if book.SalableQuantity < 1 {
			return ErrOutOfStock
		}

		if err := e.takeUnit(ctx, tx, book.ID); err != nil {
			return err
		}
		if book.Price > 0 {
			if err := store.DebitAccount(ctx, tx, account.ID, book.Price); err != nil {
				return storageFailure(err)
			}
		}

		buy, err = store.CreateBuy(ctx, tx, book.ID, account.ID, e.clock())
		if err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return buy, nil
}

// CheckSaleability runs Buy's validation chain without mutating anything.
func (e *Engine) CheckSaleability(ctx context.Context, accountEmail, bookTitle string) error {
	account, book, err := e.resolve(ctx, e.db, accountEmail, bookTitle)
	if err != nil {
		return err
	}
	if account.IsRestricted {
		return ErrRestricted
	}
	if account.Balance < book.Price {
		return ErrInsufficientBalance
	}
	if book.SalableQuantity < 1 {
		return ErrOutOfStock
	}
	return nil
}

// Borrow lends one unit of a book to an account. The loan duration is
// computed from the book's recent demand; see MaxBorrowDays.
func (e *Engine) Borrow(ctx context.Context, accountEmail, bookTitle string) (*model.Borrow, error) {
	var borrow *model.Borrow
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		account, book, err := e.resolve(ctx, tx, accountEmail, bookTitle)
		if err != nil {
			return err
		}
		if account.IsRestricted {
			return ErrRestricted
		}

		// At most one active loan per (account, book) pair.
		active, err := store.GetActiveBorrow(ctx, tx, account.ID, book.ID)
		if err != nil {
			return storageFailure(err)
		}
		if active != nil {
			return ErrAlreadyBorrowed
		}

		// A borrow is checked against total stock, not the salable pool:
		// units reserved away from sale can still be lent.
		if book.StockAmount < 1 {
			return ErrOutOfStock
		}

		category, err := store.GetCategory(ctx, tx, book.CategoryID)
		if err != nil {
			return storageFailure(err)
		}
		if category == nil {
			return ErrCategoryMissing
		}

		// The account must be able to afford at least a minimum-length loan.
		if account.Balance < category.DailyBorrowFee*minAffordabilityDays {
			return ErrInsufficientBalance
		}

		activeInCategory, err := store.CountActiveBorrowsInCategory(ctx, tx, account.ID, category.ID)
		if err != nil {
			return storageFailure(err)
		}
		if activeInCategory >= category.MaxBorrowAmount {
			return ErrCategoryLimitExceeded
		}

		now := e.clock()
		windowStart := now.Add(-policyWindowDays * 24 * time.Hour)
		recentCount, err := store.CountBorrowsSince(ctx, tx, book.ID, windowStart)
		if err != nil {
			return storageFailure(err)
		}
		borrowDays := MaxBorrowDays(book.StockAmount, recentCount)

		borrow, err = store.CreateBorrow(ctx, tx, book.ID, account.ID, now, borrowDays)
		if err != nil {
			return storageFailure(err)
		}
		return e.takeUnit(ctx, tx, book.ID)
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return borrow, nil
}

// Return closes the account's active loan of the book and puts the unit back
// into both stock pools.
func (e *Engine) Return(ctx context.Context, accountEmail, bookTitle string) (*model.Borrow, error) {
	var borrow *model.Borrow
	err := e.inTx(ctx, func(tx *sql.Tx) error {
		account, book, err := e.resolve(ctx, tx, accountEmail, bookTitle)
		if err != nil {
			return err
		}

		active, err := store.GetActiveBorrow(ctx, tx, account.ID, book.ID)
		if err != nil {
			return storageFailure(err)
		}
		if active == nil {
			return ErrNoActiveBorrow
		}

		if err := store.SetReturned(ctx, tx, active.ID, e.clock()); err != nil {
			return storageFailure(err)
		}
		if err := store.AdjustBookUnits(ctx, tx, book.ID, 1); err != nil {
			return storageFailure(err)
		}

		borrow, err = store.GetBorrow(ctx, tx, active.ID)
		if err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mutated(ctx)
	return borrow, nil
}

// resolve looks up the account and book every transaction operation starts
// with, in that order.
func (e *Engine) resolve(ctx context.Context, q store.Querier, accountEmail, bookTitle string) (*model.Account, *model.Book, error) {
	account, err := store.GetAccountByEmail(ctx, q, accountEmail)
	if err != nil {
		return nil, nil, storageFailure(err)
	}
	if account == nil {
		return nil, nil, ErrAccountNotFound
	}

	book, err := store.GetBookByTitle(ctx, q, bookTitle)
	if err != nil {
		return nil, nil, storageFailure(err)
	}
	if book == nil {
		return nil, nil, ErrBookNotFound
	}

	return account, book, nil
}

// takeUnit removes one unit from both of a book's stock pools.
func (e *Engine) takeUnit(ctx context.Context, tx *sql.Tx, bookID int64) error {
	err := store.AdjustBookUnits(ctx, tx, bookID, -1)
	if errors.Is(err, store.ErrNoBookUnits) {
		return ErrOutOfStock
	}
	if err != nil {
		return storageFailure(err)
	}
	return nil
}
