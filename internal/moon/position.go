package moon

import (
	"math"
	"time"

	"github.com/thurmanmarka/suncalc/internal/coord"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

const rad = math.Pi / 180.0

// EquatorialDistance holds geocentric RA/Dec (radians) and the Earth-Moon
// distance.
type EquatorialDistance struct {
	coord.Equatorial
	Distance float64 // km
}

// Position is the Moon's apparent position for an observer.
type Position struct {
	coord.Horizontal
	Distance         float64 // km
	ParallacticAngle float64 // radians
}

// Coordinates returns the Moon's geocentric equatorial coordinates and
// distance d days after J2000.
//
// Only the largest periodic term is kept in each series
// (http://aa.quae.nl/en/reken/hemelpositie.html):
//
//	L = mean longitude
//	M = mean anomaly
//	F = mean distance from the ascending node
func Coordinates(d float64) EquatorialDistance {
	L := rad * (218.316 + 13.176396*d)
	M := rad * (134.963 + 13.064993*d)
	F := rad * (93.272 + 13.229350*d)

	l := L + rad*6.289*math.Sin(M)
	b := rad * 5.128 * math.Sin(F)
	dt := 385001 - 20905*math.Cos(M)

	return EquatorialDistance{
		Equatorial: coord.EclipticToEquatorial(l, b),
		Distance:   dt,
	}
}

// PositionAt returns the Moon's azimuth, refracted altitude, distance and
// parallactic angle at t for an observer at lat, lng (degrees, east
// positive).
func PositionAt(t time.Time, lat, lng float64) Position {
	lw := rad * -lng
	phi := rad * lat
	d := timeutil.DaysSinceJ2000(t)

	c := Coordinates(d)
	H := coord.SiderealTime(d, lw) - c.RA
	h := coord.Altitude(H, phi, c.Dec)

	// Meeus 14.1
	pa := math.Atan2(math.Sin(H), math.Tan(phi)*math.Cos(c.Dec)-math.Sin(c.Dec)*math.Cos(H))

	h = h + coord.AstroRefraction(h)

	return Position{
		Horizontal: coord.Horizontal{
			Azimuth:  coord.Azimuth(H, phi, c.Dec),
			Altitude: h,
		},
		Distance:         c.Distance,
		ParallacticAngle: pa,
	}
}
