package centraltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToUTCStandardTime(t *testing.T) {
	// January is CST, UTC-6.
	got, err := ToUTC("2025-01-15T09:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC), got)
}

func TestToUTCDaylightTime(t *testing.T) {
	// July is CDT, UTC-5.
	got, err := ToUTC("2025-07-15T09:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC), got)
}

func TestToUTCAroundSpringForward(t *testing.T) {
	// 2025-03-09: clocks jump from 02:00 CST to 03:00 CDT.
	before, err := ToUTC("2025-03-09T01:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 7, 30, 0, 0, time.UTC), before)

	after, err := ToUTC("2025-03-09T03:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 8, 30, 0, 0, time.UTC), after)

	// The skipped hour names no instant.
	_, err = ToUTC("2025-03-09T02:30")
	assert.ErrorIs(t, err, ErrAmbiguousLocalTime)
}

func TestToUTCAroundFallBack(t *testing.T) {
	// 2025-11-02: 01:30 occurs twice; the daylight occurrence wins.
	got, err := ToUTC("2025-11-02T01:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 2, 6, 30, 0, 0, time.UTC), got)
}

func TestToUTCRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "2025-06-01", "06/01/2025 9:00", "2025-06-01T25:00"} {
		_, err := ToUTC(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 2, 5, 30, 0, 0, time.UTC),
	}

	for _, instant := range instants {
		back, err := ToUTC(FormatForm(instant))
		assert.NoError(t, err)
		assert.True(t, instant.Equal(back), "instant %s came back as %s", instant, back)
	}
}

func TestFormatHuman(t *testing.T) {
	// 15:00 UTC in January is 9:00 AM CST.
	got := FormatHuman(time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "Jan 15, 2025 9:00 AM CT", got)
}

func TestToDisplay(t *testing.T) {
	d := ToDisplay(time.Date(2025, 7, 15, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, "Jul 15, 2025 9:00 AM CT", d.Human)
	assert.Equal(t, "2025-07-15T09:00", d.Form)
}
