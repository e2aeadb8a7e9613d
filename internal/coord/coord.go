// Package coord holds the spherical-astronomy primitives shared by the solar
// and lunar models: ecliptic to equatorial conversion, equatorial to
// horizontal conversion, sidereal time and atmospheric refraction.
//
// All angles are in radians. Formulas follow
// http://aa.quae.nl/en/reken/zonpositie.html and Meeus, "Astronomical
// Algorithms" (2nd ed.).
package coord

import "math"

const rad = math.Pi / 180.0

// Obliquity is the obliquity of the Earth's axis, held fixed.
const Obliquity = rad * 23.4397

// Equatorial holds geocentric equatorial coordinates in radians.
type Equatorial struct {
	RA  float64 // right ascension
	Dec float64 // declination
}

// Horizontal holds a body's position above the observer's horizon.
// Azimuth is measured from south, increasing westward.
type Horizontal struct {
	Azimuth  float64
	Altitude float64
}

// RightAscension converts ecliptic longitude l and latitude b.
func RightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(Obliquity)-math.Tan(b)*math.Sin(Obliquity), math.Cos(l))
}

// Declination converts ecliptic longitude l and latitude b.
func Declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(Obliquity) + math.Cos(b)*math.Sin(Obliquity)*math.Sin(l))
}

// EclipticToEquatorial applies RightAscension and Declination together.
func EclipticToEquatorial(l, b float64) Equatorial {
	return Equatorial{
		RA:  RightAscension(l, b),
		Dec: Declination(l, b),
	}
}

// Azimuth for hour angle H, observer latitude phi and declination dec.
func Azimuth(H, phi, dec float64) float64 {
	return math.Atan2(math.Sin(H), math.Cos(H)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
}

// Altitude for hour angle H, observer latitude phi and declination dec.
func Altitude(H, phi, dec float64) float64 {
	return math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(H))
}

// ToHorizontal converts equatorial coordinates to horizontal ones for the
// given hour angle and observer latitude.
func ToHorizontal(H, phi, dec float64) Horizontal {
	return Horizontal{
		Azimuth:  Azimuth(H, phi, dec),
		Altitude: Altitude(H, phi, dec),
	}
}

// SiderealTime returns local sidereal time for d days since J2000 and
// west longitude lw (radians, i.e. the negated east longitude).
func SiderealTime(d, lw float64) float64 {
	return rad*(280.16+360.9856235*d) - lw
}

// AstroRefraction returns the correction (radians) added to the Moon's true
// altitude h: Meeus 16.4 with its degree constants scaled by rad. It is not
// clamped, so it diverges as h approaches -5.10 degrees.
func AstroRefraction(h float64) float64 {
	return rad * 0.017 / math.Tan(h+rad*10.26/(h+rad*5.10))
}
