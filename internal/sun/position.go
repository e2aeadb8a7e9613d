package sun

import (
	"math"
	"time"

	"github.com/thurmanmarka/suncalc/internal/coord"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

const rad = math.Pi / 180.0

// perihelion is the ecliptic longitude of the Earth's perihelion.
const perihelion = rad * 102.9372

// MeanAnomaly returns the Sun's mean anomaly (radians) d days after J2000.
func MeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

// EclipticLongitude returns the Sun's ecliptic longitude for mean anomaly M:
//
//	L = M + C + P + π
//
// where C is the equation of center and P the perihelion longitude.
func EclipticLongitude(M float64) float64 {
	C := rad * (1.9148*math.Sin(M) + 0.02*math.Sin(2*M) + 0.0003*math.Sin(3*M))
	return M + C + perihelion + math.Pi
}

// Coordinates returns the Sun's geocentric RA/Dec d days after J2000.
// The Sun's ecliptic latitude is taken as 0.
func Coordinates(d float64) coord.Equatorial {
	L := EclipticLongitude(MeanAnomaly(d))
	return coord.EclipticToEquatorial(L, 0)
}

// Position returns the Sun's azimuth and altitude at t for an observer at
// lat, lng (degrees, east positive).
func Position(t time.Time, lat, lng float64) coord.Horizontal {
	lw := rad * -lng
	phi := rad * lat
	d := timeutil.DaysSinceJ2000(t)

	eq := Coordinates(d)
	H := coord.SiderealTime(d, lw) - eq.RA

	return coord.ToHorizontal(H, phi, eq.Dec)
}
