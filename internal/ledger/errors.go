// Package ledger implements the lending and sales policy engine: the rules
// that decide whether a purchase or borrow is permitted, how long a borrow
// may last, and how each operation mutates the catalog and account state.
package ledger

import "fmt"

// Kind classifies an engine failure for callers that map errors to transport
// codes.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindPolicyViolation Kind = "policy_violation"
	KindStorageFailure  Kind = "storage_failure"
)

// Error is a typed engine failure with a machine-readable code and a human
// message. Storage failures additionally wrap the underlying error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Policy and lookup failures are fixed sentinels so callers can compare with
// errors.Is.
var (
	ErrAccountNotFound = &Error{Kind: KindNotFound, Code: "account_not_found", Message: "an account with this email does not exist"}
	ErrBookNotFound    = &Error{Kind: KindNotFound, Code: "book_not_found", Message: "a book with this title does not exist"}
	ErrCategoryMissing = &Error{Kind: KindNotFound, Code: "category_not_found", Message: "this category does not exist"}
	ErrNoActiveBorrow  = &Error{Kind: KindNotFound, Code: "no_active_borrow", Message: "no active loan exists for this account and book"}

	ErrDuplicateCategory = &Error{Kind: KindConflict, Code: "duplicate_category", Message: "a category with this name already exists"}
	ErrDuplicateBook     = &Error{Kind: KindConflict, Code: "duplicate_book", Message: "a book with this title already exists"}
	ErrAlreadyBorrowed   = &Error{Kind: KindConflict, Code: "already_borrowed", Message: "this account already has an active loan of this book"}

	ErrRestricted            = &Error{Kind: KindPolicyViolation, Code: "restricted", Message: "this account is restricted and cannot buy or borrow"}
	ErrInsufficientBalance   = &Error{Kind: KindPolicyViolation, Code: "insufficient_balance", Message: "the account balance is not enough for this operation"}
	ErrCategoryLimitExceeded = &Error{Kind: KindPolicyViolation, Code: "category_limit_exceeded", Message: "too many active loans from this category"}
	ErrOutOfStock            = &Error{Kind: KindPolicyViolation, Code: "out_of_stock", Message: "no units of this book are available"}
)

// invalidArgument reports a malformed input that no policy rule covers.
func invalidArgument(msg string) *Error {
	return &Error{Kind: KindPolicyViolation, Code: "invalid_argument", Message: msg}
}

// storageFailure wraps a persistence error. The transaction the operation ran
// in has been rolled back, so no partial writes survive.
func storageFailure(err error) *Error {
	return &Error{Kind: KindStorageFailure, Code: "storage_failure", Message: "storage operation failed", Err: err}
}
