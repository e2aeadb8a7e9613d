package moon

import (
	"time"

	"github.com/thurmanmarka/suncalc/internal/solver"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

// horizonCorrection is subtracted from the refracted altitude before looking
// for a crossing; it accounts for the Moon's radius and parallax.
const horizonCorrection = 0.133 * rad

// RiseSet holds lunar rise and set as hours after the search start.
type RiseSet struct {
	Rise, Set       float64
	HasRise, HasSet bool

	// AlwaysUp / AlwaysDown are set only when neither a rise nor a set was
	// found, from the sign of the last fitted vertex.
	AlwaysUp   bool
	AlwaysDown bool
}

// RiseSetFrom scans the 24 hours following start for moonrise and moonset.
func RiseSetFrom(start time.Time, lat, lng float64) RiseSet {
	return Scan(func(hours float64) float64 {
		return PositionAt(timeutil.HoursLater(start, hours), lat, lng).Altitude - horizonCorrection
	})
}

// Scan looks for the zero crossings of altitude over hours 0..24.
//
// The altitude is sampled every hour; each pair of 1-hour steps is fitted
// with a parabola whose zero crossings give the events. A later window
// overwrites events found earlier, and the scan stops once both are found.
func Scan(altitude solver.HourlyFunc) RiseSet {
	var (
		rs RiseSet
		ye float64
		h0 = altitude(0)
	)

	for i := 1; i <= 24; i += 2 {
		h1 := altitude(float64(i))
		h2 := altitude(float64(i + 1))

		w := solver.FitQuadratic(h0, h1, h2)
		ye = w.Ye

		switch w.Roots {
		case 1:
			if h0 < 0 {
				rs.Rise, rs.HasRise = float64(i)+w.X1, true
			} else {
				rs.Set, rs.HasSet = float64(i)+w.X1, true
			}
		case 2:
			// A minimum below the horizon means the Moon sets first and
			// rises again inside the window.
			if ye < 0 {
				rs.Rise, rs.Set = float64(i)+w.X2, float64(i)+w.X1
			} else {
				rs.Rise, rs.Set = float64(i)+w.X1, float64(i)+w.X2
			}
			rs.HasRise, rs.HasSet = true, true
		}

		if rs.HasRise && rs.HasSet {
			break
		}

		h0 = h2
	}

	if !rs.HasRise && !rs.HasSet {
		if ye > 0 {
			rs.AlwaysUp = true
		} else {
			rs.AlwaysDown = true
		}
	}

	return rs
}
