package utils

import (
	"fmt"
	"time"
)

// CivilClock resolves wall-clock time to a fixed-offset civil calendar,
// independent of the server's own timezone. The rollover batch uses it both
// to pick the target date and to gate invocation eligibility.
type CivilClock struct {
	loc   *time.Location
	nowFn func() time.Time
}

// NewCivilClock creates a clock for the given offset east of UTC in minutes
// (330 for +05:30).
func NewCivilClock(offsetMinutes int) *CivilClock {
	return &CivilClock{
		loc:   FixedOffsetLocation(offsetMinutes),
		nowFn: time.Now,
	}
}

// NewCivilClockAt creates a clock whose notion of "now" comes from nowFn.
// Used by tests to pin the civil time.
func NewCivilClockAt(offsetMinutes int, nowFn func() time.Time) *CivilClock {
	return &CivilClock{
		loc:   FixedOffsetLocation(offsetMinutes),
		nowFn: nowFn,
	}
}

// Now returns the current instant expressed in the civil offset.
func (c *CivilClock) Now() time.Time {
	return c.nowFn().In(c.loc)
}

// Today returns the current civil calendar date as midnight UTC.
func (c *CivilClock) Today() time.Time {
	return DateOnly(c.Now())
}

// FixedOffsetLocation builds a fixed-offset location named like "UTC+05:30".
func FixedOffsetLocation(offsetMinutes int) *time.Location {
	sign := "+"
	minutes := offsetMinutes
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
	return time.FixedZone(name, offsetMinutes*60)
}

// DateOnly normalizes a timestamp to its calendar date, represented as
// midnight UTC. Work entries and rollover state are keyed by these values.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
