package reminder

import "time"

// Timer is a cancelable deferred action
type Timer interface {
	// Stop cancels the timer. It reports false if the timer already
	// fired or was already stopped.
	Stop() bool
}

// Clock abstracts the host timer primitive so the engine can be driven
// by a simulated clock in tests
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewClock returns a Clock backed by the system timer
func NewClock() Clock {
	return realClock{}
}
