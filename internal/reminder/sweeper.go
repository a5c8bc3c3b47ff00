package reminder

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/studyplan/pkg/models"
)

// SweepPeriod is how often the sweeper re-evaluates the working set for
// overdue items
const SweepPeriod = 5 * time.Minute

// StartPeriodicSweep runs an immediate overdue pass over the supplied
// snapshot and then arms a periodic re-check of the same snapshot. Only
// one sweeper is ever active: starting a new one stops the previous one
// first. An item that stays overdue is re-notified on every pass; there
// is no suppression once notified. The returned function cancels the
// periodic tick and is safe to call more than once.
func (e *Engine) StartPeriodicSweep(items []models.RevisionItem) func() {
	if !e.granted() {
		return func() {}
	}

	snapshot := make([]models.RevisionItem, len(items))
	copy(snapshot, items)

	s := gocron.NewScheduler(time.UTC)

	e.mu.Lock()
	if e.sweeper != nil {
		e.sweeper.Stop()
	}
	e.sweeper = s
	e.mu.Unlock()

	e.CheckOverdueNow(snapshot)

	// The synchronous pass above already covered "now"; the scheduled
	// job waits a full period before its first run.
	s.Every(SweepPeriod).WaitForSchedule().Do(func() {
		e.CheckOverdueNow(snapshot)
	})
	s.StartAsync()

	return func() {
		e.mu.Lock()
		if e.sweeper == s {
			e.sweeper = nil
		}
		e.mu.Unlock()
		s.Stop()
	}
}
