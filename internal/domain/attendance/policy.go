package attendance

import (
	"fmt"
	"time"
)

// Policy holds the office working-day rules used to date records and to
// decide whether a check-in is late.
type Policy struct {
	Location  *time.Location
	WorkStart time.Duration // offset from local midnight
	Grace     time.Duration
}

func NewPolicy(loc *time.Location, workStart string, graceMinutes int) (Policy, error) {
	t, err := time.Parse("15:04", workStart)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid work start time %q: %w", workStart, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Policy{
		Location:  loc,
		WorkStart: time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute,
		Grace:     time.Duration(graceMinutes) * time.Minute,
	}, nil
}

// LocalDate returns the office-local calendar date of t, as midnight UTC so it
// maps cleanly onto a DATE column.
func (p Policy) LocalDate(t time.Time) time.Time {
	local := t.In(p.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// LateAfter is the instant after which a check-in on date counts as late.
func (p Policy) LateAfter(date time.Time) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.Location)
	return midnight.Add(p.WorkStart + p.Grace)
}

// StatusFor classifies a check-in time.
func (p Policy) StatusFor(checkIn time.Time) Status {
	if checkIn.After(p.LateAfter(p.LocalDate(checkIn))) {
		return StatusLate
	}
	return StatusPresent
}

// LateMinutes is how far past the work start a late check-in landed. On-time
// check-ins, including those inside the grace period, count as zero.
func (p Policy) LateMinutes(checkIn time.Time) int {
	if p.StatusFor(checkIn) != StatusLate {
		return 0
	}
	workStart := p.LateAfter(p.LocalDate(checkIn)).Add(-p.Grace)
	return int(checkIn.Sub(workStart).Minutes())
}
