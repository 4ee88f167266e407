// Package naivetime converts between zoned instants and the zone-less
// calendar date-times stored in TIMESTAMP WITHOUT TIME ZONE columns.
//
// Stored values are always UTC at millisecond precision, so
// Decode(Encode(t)) equals t.UTC().Truncate(time.Millisecond).
package naivetime

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Precision is the resolution kept in storage.
const Precision = time.Millisecond

// ErrInvalidDateTime is returned when a stored value does not name a real
// calendar date-time.
var ErrInvalidDateTime = errors.New("invalid stored date-time")

// Encode converts t to UTC, truncates it to Precision and drops the zone.
func Encode(t time.Time) civil.DateTime {
	return civil.DateTimeOf(t.UTC().Truncate(Precision))
}

// Decode interprets dt as a UTC wall-clock reading.
// Sub-millisecond fractions are truncated.
func Decode(dt civil.DateTime) (time.Time, error) {
	if !dt.IsValid() {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d.%09d",
			ErrInvalidDateTime,
			dt.Date.Year, int(dt.Date.Month), dt.Date.Day,
			dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Nanosecond)
	}
	return dt.In(time.UTC).Truncate(Precision), nil
}

// FromWallClock reads the wall-clock fields of t, ignoring its location.
// Drivers return TIMESTAMP WITHOUT TIME ZONE values as time.Time in UTC,
// and this recovers the stored civil value from them.
func FromWallClock(t time.Time) civil.DateTime {
	return civil.DateTimeOf(t)
}

// ToWallClock renders dt as a time.Time in UTC for drivers that expect one.
func ToWallClock(dt civil.DateTime) time.Time {
	return dt.In(time.UTC)
}

// Normalize is Decode(Encode(t)) without the error path, for callers that
// need to compare a value with what a round trip through storage yields.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(Precision)
}
