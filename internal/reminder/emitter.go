package reminder

import (
	"log"
	"sync"
	"time"
)

// displayWindow is how long a surfaced alert stays up before it is
// retired
const displayWindow = 10 * time.Second

// Notification is the payload handed to the host capability
type Notification struct {
	Title string
	Body  string
	// Tag correlates alerts: a later alert with the same tag replaces
	// the earlier one instead of stacking
	Tag string
	// OnActivate, when non-nil, runs if the user acts on the alert
	OnActivate func()
}

// Handle retires a surfaced alert
type Handle interface {
	Dismiss()
}

// Notifier is the host notification capability
type Notifier interface {
	Show(n Notification) (Handle, error)
}

// nopNotifier stands in when the host has no notification capability
type nopNotifier struct{}

func (nopNotifier) Show(Notification) (Handle, error) { return nil, nil }

type retirement struct {
	handle Handle
	timer  Timer
}

// emitter wraps the Notifier with the display-window auto-retirement,
// keyed by correlation tag
type emitter struct {
	clock    Clock
	notifier Notifier

	mu      sync.Mutex
	retires map[string]*retirement
}

func newEmitter(clock Clock, notifier Notifier) *emitter {
	return &emitter{
		clock:    clock,
		notifier: notifier,
		retires:  make(map[string]*retirement),
	}
}

// Emit surfaces an alert and schedules its retirement. Failures are
// logged, never propagated: a reminder that cannot be shown must not
// block the caller.
func (e *emitter) Emit(n Notification) {
	handle, err := e.notifier.Show(n)
	if err != nil {
		log.Printf("reminder: failed to show notification %q: %v", n.Tag, err)
		return
	}
	if handle == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// A newer alert for the same tag supersedes the old retirement
	if prev, ok := e.retires[n.Tag]; ok {
		prev.timer.Stop()
		delete(e.retires, n.Tag)
	}

	ret := &retirement{handle: handle}
	ret.timer = e.clock.AfterFunc(displayWindow, func() {
		e.mu.Lock()
		if cur, ok := e.retires[n.Tag]; ok && cur == ret {
			delete(e.retires, n.Tag)
		}
		e.mu.Unlock()
		handle.Dismiss()
	})
	e.retires[n.Tag] = ret
}

// closeAll stops every pending retirement and dismisses the alerts.
// Used by teardown.
func (e *emitter) closeAll() {
	e.mu.Lock()
	retires := e.retires
	e.retires = make(map[string]*retirement)
	e.mu.Unlock()

	for _, ret := range retires {
		ret.timer.Stop()
		ret.handle.Dismiss()
	}
}
