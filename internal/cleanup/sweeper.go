// Package cleanup runs the schedule retirement sweep: a daily pass
// that removes schedules whose travel date has passed, together with
// their bookings.
package cleanup

import (
	"context"
	"log"
	"time"
)

// Purger is the slice of the schedule repository the sweeper needs.
type Purger interface {
	PurgeBefore(ctx context.Context, date string) (int64, error)
}

// Sweeper fires once per day at a fixed hour and purges retired
// schedules. Errors are logged and swallowed; a failed pass is retried
// the next day and must never take the process down.
type Sweeper struct {
	Purger Purger
	Hour   int              // local hour of day to fire, 0 = midnight
	now    func() time.Time // overridable for tests
}

// New returns a Sweeper firing at the given hour of day.
func New(p Purger, hour int) *Sweeper {
	if hour < 0 || hour > 23 {
		hour = 0
	}
	return &Sweeper{Purger: p, Hour: hour, now: time.Now}
}

// Run blocks, sweeping once per day until ctx is cancelled. The first
// sweep happens at the next occurrence of the configured hour, not
// immediately, so restarts during the day do not trigger extra passes.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		wait := s.untilNext()
		log.Printf("sweeper: next retirement sweep in %s", wait.Round(time.Second))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		s.SweepOnce(ctx)
	}
}

// SweepOnce runs a single retirement pass. Schedules dated strictly
// before today are removed; today's departures survive until tomorrow.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	today := s.now().Format("2006-01-02")
	opCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	n, err := s.Purger.PurgeBefore(opCtx, today)
	if err != nil {
		log.Printf("sweeper: retirement sweep failed: %v", err)
		return
	}
	if n == 0 {
		log.Printf("sweeper: retirement sweep found nothing to remove")
		return
	}
	log.Printf("sweeper: retired %d schedule(s) dated before %s", n, today)
}

// untilNext returns the duration until the next occurrence of the
// configured hour.
func (s *Sweeper) untilNext() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
