// Package schedule derives visit counts and dates from a contract's
// frequency and period. Everything here is pure date arithmetic; callers
// own validation and the clock.
package schedule

import (
	"fmt"
	"time"

	"fieldpos/internal/maintenance/models"
)

// CountVisits returns how many visits a contract owes for the period: the
// span divided by the frequency's step, rounded up, plus one for the
// inclusive start visit. Day-based frequencies divide the span in days;
// month-based divide the calendar month span with partial months floored.
func CountVisits(frequency models.Frequency, start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("period ends %s before it starts %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	if step, ok := frequency.DayStep(); ok {
		days := daysBetween(start, end)
		return ceilDiv(days, step) + 1, nil
	}
	if step, ok := frequency.MonthStep(); ok {
		months := monthsBetween(start, end)
		return ceilDiv(months, step) + 1, nil
	}
	return 0, fmt.Errorf("unknown frequency %q", frequency)
}

// BuildSchedule returns exactly total visit dates: start plus whole steps
// while they fit the period, and the end date itself for a partial final
// period. The caller passes the total CountVisits produced for the same
// arguments.
func BuildSchedule(frequency models.Frequency, start, end time.Time, total int) ([]time.Time, error) {
	if !frequency.Valid() {
		return nil, fmt.Errorf("unknown frequency %q", frequency)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("period ends %s before it starts %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if total < 1 {
		return nil, fmt.Errorf("total must be at least 1, got %d", total)
	}

	dates := make([]time.Time, 0, total)
	for i := 0; len(dates) < total; i++ {
		next := nth(frequency, start, i)
		if next.After(end) {
			break
		}
		dates = append(dates, next)
	}
	// A partial final period still gets its visit, booked on the last day
	// the contract covers.
	for len(dates) < total {
		dates = append(dates, end)
	}
	return dates, nil
}

// nth computes visit date i from the original start, not by repeated
// stepping, so month-end normalization cannot drift.
func nth(frequency models.Frequency, start time.Time, i int) time.Time {
	if step, ok := frequency.DayStep(); ok {
		return start.AddDate(0, 0, i*step)
	}
	step, _ := frequency.MonthStep()
	return start.AddDate(0, i*step, 0)
}

func daysBetween(start, end time.Time) int {
	return int(dateOnly(end).Sub(dateOnly(start)).Hours() / 24)
}

// monthsBetween counts whole calendar months from start to end; a final
// partial month does not count.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ceilDiv(span, step int) int {
	return (span + step - 1) / step
}
