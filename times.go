package suncalc

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/atomic"

	"github.com/thurmanmarka/suncalc/internal/sun"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

// Event names always present in SunTimes.
const (
	SolarNoon = "solarNoon"
	Nadir     = "nadir"
)

// Event names of the built-in definitions.
const (
	Sunrise       = "sunrise"
	Sunset        = "sunset"
	SunriseEnd    = "sunriseEnd"
	SunsetStart   = "sunsetStart"
	Dawn          = "dawn"
	Dusk          = "dusk"
	NauticalDawn  = "nauticalDawn"
	NauticalDusk  = "nauticalDusk"
	NightEnd      = "nightEnd"
	Night         = "night"
	GoldenHourEnd = "goldenHourEnd"
	GoldenHour    = "goldenHour"
)

// TimeDefinition names the pair of events at which the Sun's center crosses
// Angle (degrees): MorningName while rising, EveningName while setting.
type TimeDefinition struct {
	Angle       float64
	MorningName string
	EveningName string
}

// Event is the instant of a solar event. OK is false when the event does not
// occur on that day; JulianDay is then NaN and Time is zero.
type Event struct {
	Time      time.Time
	JulianDay float64
	OK        bool
}

// SunTimes maps event names to events. It always holds SolarNoon and Nadir
// plus one morning and one evening entry per TimeDefinition active when it
// was computed. A later definition reusing a name replaces the earlier
// entry.
type SunTimes map[string]Event

var defaultTimes = []TimeDefinition{
	{Angle: sun.ApparentHorizonAltitude, MorningName: Sunrise, EveningName: Sunset},
	{Angle: -0.3, MorningName: SunriseEnd, EveningName: SunsetStart},
	{Angle: -6, MorningName: Dawn, EveningName: Dusk},
	{Angle: -12, MorningName: NauticalDawn, EveningName: NauticalDusk},
	{Angle: -18, MorningName: NightEnd, EveningName: Night},
	{Angle: 6, MorningName: GoldenHourEnd, EveningName: GoldenHour},
}

// timeDefs is never mutated in place: AddTime swaps in a new slice, so a
// loaded slice is a stable snapshot.
var timeDefs = atomic.NewPointer(&defaultTimes)

// AddTime appends a definition to the process-wide list consulted by
// GetTimes. Calls already in progress keep using the list they started
// with.
func AddTime(angle float64, morningName, eveningName string) {
	def := TimeDefinition{
		Angle:       angle,
		MorningName: morningName,
		EveningName: eveningName,
	}

	for {
		old := timeDefs.Load()
		next := make([]TimeDefinition, len(*old), len(*old)+1)
		copy(next, *old)
		next = append(next, def)

		if timeDefs.CompareAndSwap(old, &next) {
			return
		}
	}
}

// TimeDefinitions returns a copy of the active definition list.
func TimeDefinitions() []TimeDefinition {
	defs := *timeDefs.Load()
	out := make([]TimeDefinition, len(defs))
	copy(out, defs)
	return out
}

// GetTimes computes solar noon, nadir and every defined sunrise/sunset-like
// event for the solar day nearest t at lat, lng.
//
// An error is returned only if a computed instant falls outside the
// representable calendar range.
func GetTimes(t time.Time, lat, lng float64) (SunTimes, error) {
	defs := *timeDefs.Load()
	loc := t.Location()
	day := sun.NewDay(t, lat, lng)

	result := make(SunTimes, 2+2*len(defs))

	var err error
	if result[SolarNoon], err = newEvent(day.Noon, loc); err != nil {
		return nil, fmt.Errorf("solar noon: %w", err)
	}
	if result[Nadir], err = newEvent(day.Nadir(), loc); err != nil {
		return nil, fmt.Errorf("nadir: %w", err)
	}

	for _, def := range defs {
		rise, set := day.Events(def.Angle)

		if result[def.MorningName], err = newEvent(rise, loc); err != nil {
			return nil, fmt.Errorf("%s: %w", def.MorningName, err)
		}
		if result[def.EveningName], err = newEvent(set, loc); err != nil {
			return nil, fmt.Errorf("%s: %w", def.EveningName, err)
		}
	}

	return result, nil
}

func newEvent(j float64, loc *time.Location) (Event, error) {
	if math.IsNaN(j) {
		return Event{JulianDay: j}, nil
	}

	t, err := timeutil.FromJulian(j, loc)
	if err != nil {
		return Event{}, err
	}

	return Event{Time: t, JulianDay: j, OK: true}, nil
}
