package suncalc

import (
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/suncalc/internal/moon"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

// MoonPosition is the Moon's apparent position, altitude corrected for
// refraction.
type MoonPosition struct {
	Azimuth          float64 // radians, from south, increasing westward
	Altitude         float64 // radians above the horizon
	Distance         float64 // Earth-Moon distance, km
	ParallacticAngle float64 // radians
}

// MoonIllumination describes the lit part of the Moon's disk.
type MoonIllumination struct {
	// Fraction is the illuminated fraction [0..1], 0=new, 1=full.
	Fraction float64
	// Phase runs through [0..1): 0 new moon, 0.25 first quarter, 0.5 full
	// moon, 0.75 last quarter. The Moon is waxing while Phase < 0.5.
	Phase float64
	// Angle is the midpoint angle (radians) of the illuminated limb,
	// eastward from the north point of the disk.
	Angle float64
}

// MoonTimes holds moonrise and moonset for one calendar day.
//
// AlwaysUp and AlwaysDown are only ever set when neither a rise nor a set
// occurs, and never both.
type MoonTimes struct {
	Rise time.Time
	Set  time.Time

	HasRise bool
	HasSet  bool

	AlwaysUp   bool
	AlwaysDown bool
}

// GetMoonPosition returns the Moon's position at t for an observer at
// lat, lng.
func GetMoonPosition(t time.Time, lat, lng float64) MoonPosition {
	p := moon.PositionAt(t, lat, lng)
	return MoonPosition{
		Azimuth:          p.Azimuth,
		Altitude:         p.Altitude,
		Distance:         p.Distance,
		ParallacticAngle: p.ParallacticAngle,
	}
}

// GetMoonIllumination returns the Moon's illumination at t. It is a
// geocentric quantity and does not depend on the observer.
func GetMoonIllumination(t time.Time) MoonIllumination {
	il := moon.IlluminationAt(timeutil.DaysSinceJ2000(t))
	return MoonIllumination{
		Fraction: il.Fraction,
		Phase:    il.Phase,
		Angle:    il.Angle,
	}
}

// Waxing reports whether illumination is increasing.
func (m MoonIllumination) Waxing() bool {
	return m.Phase < 0.5
}

// PhaseName returns a qualitative phase such as "Waxing Crescent".
func (m MoonIllumination) PhaseName() string {
	return classifyMoonPhaseName(m.Fraction, m.Waxing())
}

func classifyMoonPhaseName(f float64, waxing bool) string {
	const (
		eps        = 0.01 // near 0 or 1
		quarterTol = 0.05 // fraction window around 0.5
	)

	switch {
	case f < eps:
		return "New Moon"
	case f > 1-eps:
		return "Full Moon"
	case math.Abs(f-0.5) < quarterTol:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case f < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}

// GetMoonTimes finds moonrise and moonset during the calendar day containing
// t, as read in t's Location. With inUTC set, the day is the UTC calendar
// day instead and the results are in UTC.
//
// The only error is ErrOutOfRange, when the day lies outside the
// representable calendar range.
func GetMoonTimes(t time.Time, lat, lng float64, inUTC bool) (MoonTimes, error) {
	start := timeutil.StartOfDay(t, inUTC)
	if !timeutil.InRange(start) || !timeutil.InRange(start.Add(24*time.Hour)) {
		return MoonTimes{}, fmt.Errorf("moon times for %s: %w", start.Format(time.DateOnly), ErrOutOfRange)
	}

	rs := moon.RiseSetFrom(start, lat, lng)

	mt := MoonTimes{
		HasRise:    rs.HasRise,
		HasSet:     rs.HasSet,
		AlwaysUp:   rs.AlwaysUp,
		AlwaysDown: rs.AlwaysDown,
	}
	if rs.HasRise {
		mt.Rise = timeutil.HoursLater(start, rs.Rise)
	}
	if rs.HasSet {
		mt.Set = timeutil.HoursLater(start, rs.Set)
	}

	return mt, nil
}
