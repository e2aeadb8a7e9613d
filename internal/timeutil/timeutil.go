package timeutil

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DayMs is the number of milliseconds in a day.
	DayMs = 1000 * 60 * 60 * 24

	// J1970 is the Julian day of the Unix epoch at noon.
	J1970 = 2440588

	// J2000 is the Julian day of the J2000.0 epoch (2000-01-01 12:00 TT).
	J2000 = 2451545
)

// Instants are limited to calendar years 0001..9999 at millisecond
// resolution, the range of a conventional datetime type.
const (
	minUnixMilli = -62135596800000
	maxUnixMilli = 253402300799999
)

// ErrOutOfRange is returned when a Julian day or instant falls outside the
// representable calendar range.
var ErrOutOfRange = errors.New("instant outside representable calendar range")

// rad converts degrees to radians.
const rad = math.Pi / 180.0

// -----------------------------
// Julian day conversions
// -----------------------------

// ToJulian returns the continuous Julian day of t, truncated to millisecond
// resolution.
func ToJulian(t time.Time) float64 {
	return float64(t.UnixMilli())/DayMs - 0.5 + J1970
}

// FromJulian converts a Julian day back to an instant in loc. The fractional
// millisecond is truncated toward zero.
//
// A NaN or out-of-range Julian day yields ErrOutOfRange; callers that treat
// NaN as "no event" must check for it first.
func FromJulian(j float64, loc *time.Location) (time.Time, error) {
	ms := (j + 0.5 - J1970) * DayMs
	if math.IsNaN(ms) || ms < minUnixMilli || ms > maxUnixMilli {
		return time.Time{}, fmt.Errorf("julian day %v: %w", j, ErrOutOfRange)
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(int64(ms)).In(loc), nil
}

// DaysSinceJ2000 returns the number of days between t and the J2000.0 epoch.
func DaysSinceJ2000(t time.Time) float64 {
	return ToJulian(t) - J2000
}

// InRange reports whether t lies inside the representable calendar range.
func InRange(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 1 && y <= 9999
}

// -----------------------------
// Calendar arithmetic
// -----------------------------

// HoursLater returns t shifted by a fractional number of hours, truncated to
// whole milliseconds.
func HoursLater(t time.Time, hours float64) time.Time {
	ms := math.Trunc(hours * float64(time.Hour/time.Millisecond))
	return t.Add(time.Duration(ms) * time.Millisecond)
}

// StartOfDay returns the instant at which t's calendar day begins. The clock
// time read in t's own location is subtracted, so the result keeps t's offset
// even on days with a zone transition. With inUTC set, t is first converted
// to UTC.
func StartOfDay(t time.Time, inUTC bool) time.Time {
	if inUTC {
		t = t.UTC()
	}
	h, m, s := t.Clock()
	sinceMidnight := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return t.Add(-sinceMidnight)
}

// -----------------------------
// Basic degree/radian helpers.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * rad
}

func Rad2Deg(r float64) float64 {
	return r / rad
}

func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}
