// Package suncalc computes the position of the Sun and Moon and the times of
// solar and lunar events (sunrise, sunset, twilight, moonrise, moonset) and
// the Moon's illumination for a given instant and observer location.
//
// The formulas are the closed-form approximations of
// http://aa.quae.nl/en/reken/zonpositie.html and
// http://aa.quae.nl/en/reken/hemelpositie.html. They are good to roughly a
// minute for solar events; they ignore observer elevation and model
// refraction with a fixed approximation.
//
// Angles are returned in radians. Latitude and longitude are in degrees,
// north and east positive. Returned times use the Location of the input.
//
// Geometric impossibilities such as a sunrise during polar night are not
// errors: they surface as events with OK set to false.
package suncalc

import (
	"errors"
	"time"

	"github.com/thurmanmarka/suncalc/internal/sun"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

// Position is a body's position above the observer's horizon.
type Position struct {
	Azimuth  float64 // radians, from south, increasing westward
	Altitude float64 // radians above the horizon
}

var (
	// ErrNoRiseNoSet is returned when the Sun does not rise or set on that
	// date at that location.
	ErrNoRiseNoSet = errors.New("body does not rise or set on this date")

	// ErrOutOfRange is returned when an input or computed instant falls
	// outside calendar years 0001..9999.
	ErrOutOfRange = timeutil.ErrOutOfRange
)

// GetPosition returns the Sun's azimuth and altitude at t for an observer
// at lat, lng.
func GetPosition(t time.Time, lat, lng float64) Position {
	hz := sun.Position(t, lat, lng)
	return Position{
		Azimuth:  hz.Azimuth,
		Altitude: hz.Altitude,
	}
}

// DaylightHours returns the time between sunrise and sunset, in hours, for
// the solar day nearest t.
//
// If the Sun does not rise or set (polar day or night) it returns 0 and
// ErrNoRiseNoSet.
func DaylightHours(t time.Time, lat, lng float64) (float64, error) {
	times, err := GetTimes(t, lat, lng)
	if err != nil {
		return 0, err
	}

	rise, set := times[Sunrise], times[Sunset]
	if !rise.OK || !set.OK {
		return 0, ErrNoRiseNoSet
	}

	return set.Time.Sub(rise.Time).Hours(), nil
}
