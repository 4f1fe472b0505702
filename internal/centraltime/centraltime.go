// Package centraltime converts between UTC instants as persisted and the
// Central Time wall clock the dashboard presents. The zone is fixed to
// America/Chicago; conversions are DST-aware for the calendar date of the
// value being converted, not the current date.
package centraltime

import (
	"errors"
	"fmt"
	"time"
	// Fall back to the embedded zone database when the host has none
	_ "time/tzdata"
)

// ZoneName is the one civil zone the dashboard operates in
const ZoneName = "America/Chicago"

// FormLayout matches the datetime-local input format, no zone suffix
const FormLayout = "2006-01-02T15:04"

// HumanLayout is the display format, suffixed with " CT" by FormatHuman
const HumanLayout = "Jan 2, 2006 3:04 PM"

// ErrAmbiguousLocalTime is returned when a wall-clock input falls in the
// spring-forward gap and names no real instant. Fall-back overlap times
// are not flagged; they resolve to the first (daylight) occurrence.
var ErrAmbiguousLocalTime = errors.New("local time does not exist in Central Time on that date")

var location *time.Location

func init() {
	var err error
	location, err = time.LoadLocation(ZoneName)
	if err != nil {
		panic(fmt.Sprintf("centraltime: load %s: %v", ZoneName, err))
	}
}

// Location returns the fixed Central Time location
func Location() *time.Location {
	return location
}

// Display carries both renderings of one instant
type Display struct {
	Human string
	Form  string
}

// ToDisplay formats a UTC instant for human display and for the editable
// form round-trip.
func ToDisplay(utc time.Time) Display {
	return Display{
		Human: FormatHuman(utc),
		Form:  FormatForm(utc),
	}
}

// FormatHuman renders an instant as Central wall clock, e.g.
// "Mar 9, 2025 1:30 AM CT".
func FormatHuman(utc time.Time) string {
	return utc.In(location).Format(HumanLayout) + " CT"
}

// FormatForm renders an instant as a datetime-local value in Central time
func FormatForm(utc time.Time) string {
	return utc.In(location).Format(FormLayout)
}

// ToUTC parses a datetime-local value as Central wall clock on that
// calendar date and returns the equivalent UTC instant. The offset applied
// is the one in force on that date, so values across DST boundaries come
// back correct. Inputs inside the spring-forward gap are rejected with
// ErrAmbiguousLocalTime rather than silently shifted.
func ToUTC(form string) (time.Time, error) {
	t, err := time.ParseInLocation(FormLayout, form, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local datetime %q: %w", form, err)
	}

	// A nonexistent wall clock normalizes to a different one; detect the
	// gap by formatting back.
	if t.Format(FormLayout) != form {
		return time.Time{}, ErrAmbiguousLocalTime
	}

	return t.UTC(), nil
}
