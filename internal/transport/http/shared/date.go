package shared

import (
	"errors"
	"time"
)

var ErrBadDate = errors.New("invalid date")

// ParseDate accepts either a plain calendar date or an RFC 3339 timestamp and
// returns the value truncated to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
