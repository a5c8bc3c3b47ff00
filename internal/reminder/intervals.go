package reminder

import "time"

// reviewIntervals holds the successive reminder delays, indexed by how
// many reviews an item has completed. Counts past the end of the table
// reuse the longest interval.
var reviewIntervals = []time.Duration{
	time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
}

// NextDelay returns the reminder interval for an item that has completed
// reviewCount reviews
func NextDelay(reviewCount int) time.Duration {
	if reviewCount < 0 {
		reviewCount = 0
	}
	if reviewCount >= len(reviewIntervals) {
		reviewCount = len(reviewIntervals) - 1
	}
	return reviewIntervals[reviewCount]
}
