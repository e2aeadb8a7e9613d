package sun

import (
	"math"
	"time"

	"github.com/thurmanmarka/suncalc/internal/coord"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

// ApparentHorizonAltitude is the altitude (in degrees) of the Sun's center
// when its upper limb touches the horizon under standard refraction.
const ApparentHorizonAltitude = -0.833

// j0 is the fractional-day correction of the mean solar transit.
const j0 = 0.0009

// Day holds the transit quantities shared by every solar event of one day at
// one location. Values are Julian days unless noted.
type Day struct {
	lw  float64 // west longitude, radians
	phi float64 // latitude, radians
	n   float64 // Julian cycle
	m   float64 // mean anomaly at transit
	l   float64 // ecliptic longitude at transit
	dec float64 // declination at transit

	// Noon is the Julian day of solar transit.
	Noon float64
}

// NewDay computes the solar transit nearest to t at lat, lng (degrees).
func NewDay(t time.Time, lat, lng float64) Day {
	lw := rad * -lng
	d := timeutil.DaysSinceJ2000(t)
	n := julianCycle(d, lw)
	ds := approxTransit(0, lw, n)
	M := MeanAnomaly(ds)
	L := EclipticLongitude(M)

	return Day{
		lw:   lw,
		phi:  rad * lat,
		n:    n,
		m:    M,
		l:    L,
		dec:  coord.Declination(L, 0),
		Noon: solarTransitJ(ds, M, L),
	}
}

// Nadir returns the Julian day half a day before solar noon.
func (day Day) Nadir() float64 {
	return day.Noon - 0.5
}

// Events returns the Julian days at which the Sun's center crosses
// altitudeDeg while rising and while setting. Both are NaN when the Sun
// never reaches that altitude on this day (polar day or night).
//
// The rise is mirrored around transit, so Noon-rise equals set-Noon.
func (day Day) Events(altitudeDeg float64) (rise, set float64) {
	w := hourAngle(altitudeDeg*rad, day.phi, day.dec)
	a := approxTransit(w, day.lw, day.n)
	set = solarTransitJ(a, day.m, day.l)
	rise = day.Noon - (set - day.Noon)
	return rise, set
}

func julianCycle(d, lw float64) float64 {
	return math.RoundToEven(d - j0 - lw/(2*math.Pi))
}

func approxTransit(Ht, lw, n float64) float64 {
	return j0 + (Ht+lw)/(2*math.Pi) + n
}

func solarTransitJ(ds, M, L float64) float64 {
	return timeutil.J2000 + ds + 0.0053*math.Sin(M) - 0.0069*math.Sin(2*L)
}

// hourAngle is NaN when the acos argument leaves [-1, 1].
func hourAngle(h, phi, dec float64) float64 {
	return math.Acos((math.Sin(h) - math.Sin(phi)*math.Sin(dec)) / (math.Cos(phi) * math.Cos(dec)))
}
