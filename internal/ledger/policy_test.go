package ledger

import "testing"

func TestMaxBorrowDays(t *testing.T) {
	tests := []struct {
		name   string
		stock  int
		recent int
		want   int
	}{
		{"no recent demand", 10, 0, 31},
		{"balanced demand", 5, 5, 16},
		{"heavy demand clamps to minimum", 1, 59, 3},
		{"single copy no demand", 1, 0, 31},
		{"scarce and popular", 2, 28, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxBorrowDays(tt.stock, tt.recent)
			if got != tt.want {
				t.Errorf("MaxBorrowDays(%d, %d) = %d, want %d", tt.stock, tt.recent, got, tt.want)
			}
		})
	}
}

func TestMaxBorrowDaysNeverBelowMinimum(t *testing.T) {
	for recent := 0; recent < 500; recent += 7 {
		if got := MaxBorrowDays(1, recent); got < MinBorrowDays {
			t.Fatalf("MaxBorrowDays(1, %d) = %d, below minimum", recent, got)
		}
	}
}
