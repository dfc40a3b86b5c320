// Package report buckets task collections into human-readable summaries.
// Every function here is pure: tasks plus an explicit time window in, a
// rendered report body out.
package report

import (
	"strings"
	"time"
)

// closedStatuses are the status labels treated as "closed". Everything else
// counts as open.
var closedStatuses = map[string]struct{}{
	"complete":  {},
	"completed": {},
	"done":      {},
}

// IsClosed reports whether a status label counts as closed.
func IsClosed(status string) bool {
	_, ok := closedStatuses[strings.ToLower(status)]
	return ok
}

// ParseDate normalizes the three date formats the task service emits:
// a 13-digit millisecond epoch, an ISO-8601 string containing 'T', or a
// bare YYYY-MM-DD. Unparseable or absent values return ok=false and are
// excluded from date-bucketed computations.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	if len(s) == 13 && isDigits(s) {
		var ms int64
		for _, r := range s {
			ms = ms*10 + int64(r-'0')
		}
		return time.UnixMilli(ms).UTC(), true
	}

	if strings.Contains(s, "T") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), true
		}
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether two timestamps fall on the same UTC calendar date.
func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// daysBetween returns the whole calendar days from earlier to later.
func daysBetween(earlier, later time.Time) int {
	return int(dateOnly(later).Sub(dateOnly(earlier)).Hours() / 24)
}
