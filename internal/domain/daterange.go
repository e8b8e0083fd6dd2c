package domain

import (
	"fmt"
	"time"
)

// HourSlot is a single hour on the Dukascopy archive's hourly grid, always
// normalized to the top of the hour in UTC.
type HourSlot time.Time

// Time returns the underlying time.Time.
func (h HourSlot) Time() time.Time { return time.Time(h) }

func (h HourSlot) String() string { return h.Time().Format("2006-01-02T15:00Z") }

// Before reports whether h is chronologically before other.
func (h HourSlot) Before(other HourSlot) bool { return h.Time().Before(other.Time()) }

// TruncateToHour normalizes t to the start of its UTC hour.
func TruncateToHour(t time.Time) HourSlot {
	u := t.UTC()
	return HourSlot(time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), 0, 0, 0, time.UTC))
}

// DateRangeError reports an invalid DateRange construction.
type DateRangeError struct {
	Start, End time.Time
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: %s > %s", e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// DateRange is an inclusive range of calendar days (UTC), expanded into
// hourly slots by the Range Planner.
type DateRange struct {
	Start, End time.Time // truncated to midnight UTC
}

// NewDateRange validates that start <= end and returns the range with both
// bounds truncated to midnight UTC.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if s.After(e) {
		return DateRange{}, &DateRangeError{Start: s, End: e}
	}
	return DateRange{Start: s, End: e}, nil
}

// SingleDay returns a DateRange covering exactly one day.
func SingleDay(date time.Time) DateRange {
	d := truncateToDay(date)
	return DateRange{Start: d, End: d}
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalDays returns the number of calendar days spanned by the range.
func (r DateRange) TotalDays() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// TotalHours returns the number of hourly slots spanned by the range.
func (r DateRange) TotalHours() int { return r.TotalDays() * 24 }

// Contains reports whether date falls within the range.
func (r DateRange) Contains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

// Hours returns every hourly slot in the range, in ascending order.
func (r DateRange) Hours() []HourSlot {
	total := r.TotalHours()
	slots := make([]HourSlot, total)
	cur := r.Start
	for i := 0; i < total; i++ {
		slots[i] = HourSlot(cur)
		cur = cur.Add(time.Hour)
	}
	return slots
}
