package solver

import (
	"time"
)

// AltitudeFunc returns a body's altitude at time t. Units are up to the
// caller but must match the target passed to FindAltitudeEvent.
type AltitudeFunc func(t time.Time) float64

// HourlyFunc returns an altitude, already offset by the event threshold, a
// fractional number of hours after the start of a search.
type HourlyFunc func(hours float64) float64

// EventType describes whether we are looking for a rising or setting event.
type EventType int

const (
	// CrossingUp means altitude is increasing through the target value (rise).
	CrossingUp EventType = iota
	// CrossingDown means altitude is decreasing through the target value (set).
	CrossingDown
)

// Result holds the output of an altitude event search.
type Result struct {
	Time time.Time // approximate time of the event
	OK   bool      // true if an event was found
}

// FindAltitudeEvent searches [start, end] for the first time the altitude
// function crosses target in the direction given by eventType. It samples
// the interval at steps points to bracket a sign change, then bisects the
// bracket down to tol.
//
// It makes no assumption about the shape of the altitude curve, which makes
// it a numerical check on the closed-form transit solver.
func FindAltitudeEvent(f AltitudeFunc, start, end time.Time, target float64, eventType EventType, steps int, tol time.Duration) Result {
	if !start.Before(end) {
		return Result{OK: false}
	}
	if steps < 2 {
		steps = 2
	}

	interval := end.Sub(start) / time.Duration(steps-1)

	var (
		prevT   = start
		prevAlt = f(prevT) - target
	)

	for i := 1; i < steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		alt := f(t) - target

		if hasCrossing(prevAlt, alt, eventType) {
			return bisect(f, prevT, t, target, eventType, tol)
		}

		prevT, prevAlt = t, alt
	}

	return Result{OK: false}
}

func hasCrossing(a1, a2 float64, eventType EventType) bool {
	switch eventType {
	case CrossingUp:
		return a1 < 0 && a2 >= 0
	case CrossingDown:
		return a1 > 0 && a2 <= 0
	default:
		return a1*a2 <= 0
	}
}

func bisect(f AltitudeFunc, a, b time.Time, target float64, eventType EventType, tol time.Duration) Result {
	altA := f(a) - target
	altB := f(b) - target

	if !hasCrossing(altA, altB, eventType) {
		return Result{OK: false}
	}

	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - target

		if hasCrossing(altA, altM, eventType) {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}

	return Result{
		Time: a.Add(b.Sub(a) / 2),
		OK:   true,
	}
}
