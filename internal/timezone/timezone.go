package timezone

import (
	"errors"
	"time"
)

const DefaultTimezone = "UTC"

var ErrInvalidDateTime = errors.New("invalid_datetime")

// Layouts accepted for naive clinic-local timestamps, most specific first.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

// Clock resolves "now" and parses timestamps in the clinic's location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(tz string) *Clock {
	return &Clock{loc: Location(tz), now: time.Now}
}

// WithNow pins the clock; used in tests.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc).Truncate(time.Second)
}

// ParseDateTime reads a clinic-local timestamp. RFC3339 input carrying an
// offset is converted into clinic-local time.
func (c *Clock) ParseDateTime(s string) (time.Time, error) {
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(c.loc), nil
	}
	return time.Time{}, ErrInvalidDateTime
}

func (c *Clock) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, c.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

// StartOfDay returns midnight of t's civil date in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
