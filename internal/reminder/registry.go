package reminder

import (
	"sync"
	"time"
)

// pendingTimer is one scheduled reminder owned by the registry
type pendingTimer struct {
	timer  Timer
	fireAt time.Time
}

// timerRegistry holds at most one pending timer per item identifier.
// Timer callbacks run on their own goroutines, so all map access goes
// through the mutex.
type timerRegistry struct {
	clock Clock

	mu     sync.Mutex
	timers map[int64]*pendingTimer
}

func newTimerRegistry(clock Clock) *timerRegistry {
	return &timerRegistry{
		clock:  clock,
		timers: make(map[int64]*pendingTimer),
	}
}

// Schedule installs a deferred action for id, cancelling any pending one
// first. The action removes itself from the registry before it runs, so
// a fired or cancelled timer never counts as pending. Negative delays
// are clamped to zero.
func (r *timerRegistry) Schedule(id int64, delay time.Duration, fire func()) {
	if delay < 0 {
		delay = 0
	}
	// The policy never defers beyond the horizon; clamp here too so a
	// stray caller cannot install an unbounded timer
	if delay > Horizon {
		delay = Horizon
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.timers[id]; ok {
		existing.timer.Stop()
		delete(r.timers, id)
	}

	p := &pendingTimer{fireAt: r.clock.Now().Add(delay)}
	p.timer = r.clock.AfterFunc(delay, func() {
		r.mu.Lock()
		if cur, ok := r.timers[id]; ok && cur == p {
			delete(r.timers, id)
		}
		r.mu.Unlock()
		fire()
	})
	r.timers[id] = p
}

// Cancel stops and removes the pending timer for id. Unknown ids are a
// no-op.
func (r *timerRegistry) Cancel(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.timers[id]; ok {
		p.timer.Stop()
		delete(r.timers, id)
	}
}

// Count returns the number of currently pending timers
func (r *timerRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Clear cancels and removes every pending timer
func (r *timerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.timers {
		p.timer.Stop()
		delete(r.timers, id)
	}
}
