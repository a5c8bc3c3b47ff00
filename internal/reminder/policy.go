package reminder

import "time"

// Horizon is the maximum look-ahead for installing a deferred timer.
// Items due further out get no timer; they are picked up by a later
// scheduling call or sweep once they enter the horizon.
const Horizon = 7 * 24 * time.Hour

// Disposition says what the engine should do for an item right now
type Disposition int

const (
	// Immediate means the item is due or overdue and the reminder
	// fires right away
	Immediate Disposition = iota
	// Deferred means one timer is installed for the remaining delay
	Deferred
	// Suppressed means the item is beyond the horizon and no timer
	// is installed
	Suppressed
)

// String returns a readable name for the disposition
func (d Disposition) String() string {
	switch d {
	case Deferred:
		return "deferred"
	case Suppressed:
		return "suppressed"
	default:
		return "immediate"
	}
}

// Classify maps an item's next-review time to a disposition and, for
// Deferred, the delay until it is due. A nil nextReview means the item
// is due now; the persistence layer also maps unparseable stored values
// to nil, so malformed data fires a reminder rather than silently
// dropping one.
func Classify(now time.Time, nextReview *time.Time) (Disposition, time.Duration) {
	if nextReview == nil || !nextReview.After(now) {
		return Immediate, 0
	}
	delay := nextReview.Sub(now)
	if delay <= Horizon {
		return Deferred, delay
	}
	return Suppressed, 0
}
