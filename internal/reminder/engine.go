package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/studyplan/pkg/models"
)

// Engine decides, for each revision item, whether, when and how a
// reminder is produced. It owns every pending timer and the periodic
// sweeper, and releases both in StopAllReminders. While notification
// permission is not granted every mutating operation silently no-ops;
// that is the expected idle state, not an error.
type Engine struct {
	clock   Clock
	perms   PermissionSource
	emitter *emitter
	reg     *timerRegistry

	mu       sync.Mutex
	sweeper  *gocron.Scheduler
	activate func(id int64)
}

// New builds an engine around the host capabilities. A nil notifier or
// permission source means the host has no notification capability: the
// engine reports the permission as denied and every operation degrades
// to a no-op.
func New(clock Clock, perms PermissionSource, notifier Notifier) *Engine {
	if clock == nil {
		clock = NewClock()
	}
	if perms == nil || notifier == nil {
		perms = deniedSource{}
		notifier = nopNotifier{}
	}
	return &Engine{
		clock:   clock,
		perms:   perms,
		emitter: newEmitter(clock, notifier),
		reg:     newTimerRegistry(clock),
	}
}

// OnActivate registers a callback invoked with the item id when the
// user acts on a reminder alert
func (e *Engine) OnActivate(fn func(id int64)) {
	e.mu.Lock()
	e.activate = fn
	e.mu.Unlock()
}

// CurrentPermission re-reads the host permission flag
func (e *Engine) CurrentPermission() PermissionState {
	return e.perms.Current()
}

// RequestPermission asks the host for notification permission
func (e *Engine) RequestPermission() RequestOutcome {
	return e.perms.Request()
}

func (e *Engine) granted() bool {
	return e.perms.Current() == PermissionGranted
}

// ScheduleReminder (re)schedules the single reminder for an item. A due
// or absent next-review time fires right away with nothing left in the
// registry; a next-review time within the horizon installs exactly one
// pending timer; anything further out installs nothing. In all three
// cases any stale pending timer for the id is cancelled, so at most one
// reminder per item ever remains.
func (e *Engine) ScheduleReminder(id int64, title string, nextReview *time.Time) {
	if !e.granted() {
		return
	}
	switch d, delay := Classify(e.clock.Now(), nextReview); d {
	case Immediate:
		e.reg.Cancel(id)
		e.emit(id, title)
	case Deferred:
		e.reg.Schedule(id, delay, func() { e.emit(id, title) })
	case Suppressed:
		e.reg.Cancel(id)
	}
}

// CancelReminder drops the pending reminder for an item, if any
func (e *Engine) CancelReminder(id int64) {
	e.reg.Cancel(id)
}

// PendingCount reports how many reminder timers are currently pending
func (e *Engine) PendingCount() int {
	return e.reg.Count()
}

// CheckOverdueNow returns the subset of items that are due right now
// and, when permission is granted, emits one reminder per overdue item.
// The subset is computed regardless of permission so callers can use
// this as a plain query.
func (e *Engine) CheckOverdueNow(items []models.RevisionItem) []models.RevisionItem {
	now := e.clock.Now()
	var overdue []models.RevisionItem
	for _, item := range items {
		if d, _ := Classify(now, item.NextReviewAt); d == Immediate {
			overdue = append(overdue, item)
		}
	}
	for _, item := range overdue {
		e.emit(item.ID, item.Title)
	}
	return overdue
}

// StopAllReminders releases everything the engine holds: pending
// timers, the active sweeper, and alerts awaiting retirement. Call it
// on teardown so no scheduled work leaks past the engine's lifetime.
func (e *Engine) StopAllReminders() {
	e.mu.Lock()
	if e.sweeper != nil {
		e.sweeper.Stop()
		e.sweeper = nil
	}
	e.mu.Unlock()

	e.reg.Clear()
	e.emitter.closeAll()
}

// emit surfaces one reminder. The permission flag is re-read here, at
// the moment of emission: a grant observed when a timer was installed
// must not outlive a later revocation, so a deferred fire stays silent
// if the host has since flipped to denied.
func (e *Engine) emit(id int64, title string) {
	if !e.granted() {
		return
	}
	e.emitter.Emit(Notification{
		Title: "Time to review",
		Body:  title,
		Tag:   fmt.Sprintf("revision-%d", id),
		OnActivate: func() {
			e.mu.Lock()
			fn := e.activate
			e.mu.Unlock()
			if fn != nil {
				fn(id)
			}
		},
	})
}
