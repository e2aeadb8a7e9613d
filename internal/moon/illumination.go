package moon

import (
	"math"

	"github.com/thurmanmarka/suncalc/internal/sun"
)

// sunDistanceKm is the mean Earth-Sun distance.
const sunDistanceKm = 149598000

// Illumination describes the lit part of the Moon's disk.
type Illumination struct {
	Fraction float64 // illuminated fraction, 0..1
	Phase    float64 // 0 new, 0.25 first quarter, 0.5 full, 0.75 last quarter
	Angle    float64 // midpoint angle of the bright limb, radians
}

// IlluminationAt computes illumination d days after J2000, following
// http://idlastro.gsfc.nasa.gov/ftp/pro/astro/mphase.pro and Meeus ch. 48.
func IlluminationAt(d float64) Illumination {
	s := sun.Coordinates(d)
	m := Coordinates(d)

	phi := math.Acos(math.Sin(s.Dec)*math.Sin(m.Dec) +
		math.Cos(s.Dec)*math.Cos(m.Dec)*math.Cos(s.RA-m.RA))

	inc := math.Atan2(sunDistanceKm*math.Sin(phi), m.Distance-sunDistanceKm*math.Cos(phi))

	angle := math.Atan2(math.Cos(s.Dec)*math.Sin(s.RA-m.RA),
		math.Sin(s.Dec)*math.Cos(m.Dec)-math.Cos(s.Dec)*math.Sin(m.Dec)*math.Cos(s.RA-m.RA))

	sign := 1.0
	if angle < 0 {
		sign = -1
	}

	return Illumination{
		Fraction: (1 + math.Cos(inc)) / 2,
		Phase:    0.5 + 0.5*inc*sign/math.Pi,
		Angle:    angle,
	}
}
