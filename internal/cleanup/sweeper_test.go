package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePurger struct {
	gotDate string
	n       int64
	err     error
	calls   int
}

func (f *fakePurger) PurgeBefore(ctx context.Context, date string) (int64, error) {
	f.calls++
	f.gotDate = date
	return f.n, f.err
}

func TestSweepOncePurgesBeforeToday(t *testing.T) {
	p := &fakePurger{n: 2}
	s := New(p, 0)
	s.now = func() time.Time {
		return time.Date(2026, 9, 1, 0, 0, 5, 0, time.UTC)
	}

	s.SweepOnce(context.Background())

	if p.calls != 1 {
		t.Fatalf("PurgeBefore called %d times, want 1", p.calls)
	}
	if p.gotDate != "2026-09-01" {
		t.Fatalf("purge date = %q, want 2026-09-01", p.gotDate)
	}
}

// A failing pass is logged and swallowed; the sweeper must not panic
// or propagate the error.
func TestSweepOnceSurvivesError(t *testing.T) {
	p := &fakePurger{err: errors.New("db gone")}
	s := New(p, 0)

	s.SweepOnce(context.Background())

	if p.calls != 1 {
		t.Fatalf("PurgeBefore called %d times, want 1", p.calls)
	}
}

func TestUntilNext(t *testing.T) {
	s := New(&fakePurger{}, 3)

	// Before the hour: fires later the same day.
	s.now = func() time.Time {
		return time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)
	}
	if got := s.untilNext(); got != 2*time.Hour {
		t.Fatalf("untilNext before hour = %v, want 2h", got)
	}

	// After the hour: fires tomorrow.
	s.now = func() time.Time {
		return time.Date(2026, 9, 1, 4, 0, 0, 0, time.UTC)
	}
	if got := s.untilNext(); got != 23*time.Hour {
		t.Fatalf("untilNext after hour = %v, want 23h", got)
	}

	// Exactly on the hour counts as passed.
	s.now = func() time.Time {
		return time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	}
	if got := s.untilNext(); got != 24*time.Hour {
		t.Fatalf("untilNext on the hour = %v, want 24h", got)
	}
}

func TestNewClampsHour(t *testing.T) {
	if s := New(&fakePurger{}, -1); s.Hour != 0 {
		t.Fatalf("Hour = %d, want 0", s.Hour)
	}
	if s := New(&fakePurger{}, 24); s.Hour != 0 {
		t.Fatalf("Hour = %d, want 0", s.Hour)
	}
	if s := New(&fakePurger{}, 23); s.Hour != 23 {
		t.Fatalf("Hour = %d, want 23", s.Hour)
	}
}
