package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCivilClockResolvesFixedOffsetDate(t *testing.T) {
	// 18:45 UTC on June 1 is already June 2 at +05:30.
	instant := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)
	clock := NewCivilClockAt(330, func() time.Time { return instant })

	now := clock.Now()
	assert.Equal(t, 0, now.Hour())
	assert.Equal(t, 15, now.Minute())
	assert.Equal(t, 2, now.Day())

	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), clock.Today())
}

func TestCivilClockSameDayBeforeOffsetBoundary(t *testing.T) {
	// 18:29 UTC is still 23:59 on June 1 at +05:30.
	instant := time.Date(2025, 6, 1, 18, 29, 0, 0, time.UTC)
	clock := NewCivilClockAt(330, func() time.Time { return instant })

	assert.Equal(t, 23, clock.Now().Hour())
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), clock.Today())
}

func TestCivilClockNegativeOffset(t *testing.T) {
	// 02:00 UTC on June 2 is still June 1 at -05:00.
	instant := time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	clock := NewCivilClockAt(-300, func() time.Time { return instant })

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), clock.Today())
}

func TestFixedOffsetLocationName(t *testing.T) {
	assert.Equal(t, "UTC+05:30", FixedOffsetLocation(330).String())
	assert.Equal(t, "UTC-05:00", FixedOffsetLocation(-300).String())
}

func TestDateOnly(t *testing.T) {
	loc := FixedOffsetLocation(330)
	stamped := time.Date(2025, 6, 2, 0, 15, 42, 0, loc)

	date := DateOnly(stamped)

	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, time.UTC, date.Location())
}
