package ledger

// Borrow policy constants.
const (
	// policyWindowDays is the trailing window used to measure recent demand.
	policyWindowDays = 30

	// MinBorrowDays is the floor on any computed loan duration.
	MinBorrowDays = 3

	// minAffordabilityDays is the number of daily fees an account must be
	// able to cover before a borrow is permitted.
	minAffordabilityDays = 3

	// overduePenaltyDays is the multiple of the daily fee charged when a
	// loan first goes overdue.
	overduePenaltyDays = 5
)

// MaxBorrowDays computes the allowed duration for a new loan of a book with
// the given total stock, given how many times the book was borrowed in the
// trailing thirty days. Higher recent demand relative to stock shortens the
// loan, throttling scarce titles. stockAmount must be at least 1; callers
// verify stock before computing a duration.
func MaxBorrowDays(stockAmount, recentBorrowCount int) int {
	days := (policyWindowDays*stockAmount)/(stockAmount+recentBorrowCount) + 1
	if days < MinBorrowDays {
		return MinBorrowDays
	}
	return days
}
