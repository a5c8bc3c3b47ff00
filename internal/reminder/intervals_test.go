package reminder

import (
	"testing"
	"time"
)

func TestNextDelay(t *testing.T) {
	tests := []struct {
		reviewCount int
		want        time.Duration
	}{
		{reviewCount: 0, want: time.Hour},
		{reviewCount: 1, want: 24 * time.Hour},
		{reviewCount: 2, want: 3 * 24 * time.Hour},
		{reviewCount: 3, want: 7 * 24 * time.Hour},
		{reviewCount: 4, want: 14 * 24 * time.Hour},
		// Counts past the table reuse the longest interval
		{reviewCount: 10, want: 14 * 24 * time.Hour},
		{reviewCount: 1000, want: 14 * 24 * time.Hour},
		// Defensive: a negative count behaves like zero
		{reviewCount: -1, want: time.Hour},
	}

	for _, tc := range tests {
		if got := NextDelay(tc.reviewCount); got != tc.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tc.reviewCount, got, tc.want)
		}
	}
}
