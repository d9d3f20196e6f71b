// Package sunpos is a low precision solar ephemeris after Michalsky (1988),
// as given in the WMO Guide to Instruments and Methods of Observation, Annex 7.D.
//
// All Julian dates in this package count days from J2000.0, see xrit.CdsTime.JulianDate.
package sunpos

import "math"

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

func mod360(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	return x
}

// MeanLongitude of the sun in degrees.
func MeanLongitude(jd float64) float64 {
	return mod360(280.460 + 0.9856474*jd)
}

// MeanAnomaly of the sun in degrees.
func MeanAnomaly(jd float64) float64 {
	return mod360(357.528 + 0.9856003*jd)
}

// GMST is the Greenwich mean sidereal time in hours. It is not reduced to [0, 24).
func GMST(jd float64) float64 {
	hh := math.Mod(jd-0.5, 1) * 24
	return 6.697375 + 0.0657098242*jd + hh
}

// DeclinationRA returns the solar declination and right ascension in radians,
// the right ascension in [0, 2pi).
func DeclinationRA(jd float64) (dec, ra float64) {
	mnlon := MeanLongitude(jd)
	g := MeanAnomaly(jd) * deg2rad

	sinG, cosG := math.Sincos(g)
	eclon := (mnlon + sinG*(1.915+0.040*cosG)) * deg2rad
	obl := (23.439 - 0.0000004*jd) * deg2rad

	sinEc, cosEc := math.Sincos(eclon)
	sinObl, cosObl := math.Sincos(obl)

	dec = math.Asin(sinObl * sinEc)
	ra = math.Atan2(cosObl*sinEc, cosEc)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return dec, ra
}

// Ephemeris caches the time dependent terms so many locations can share one timestamp.
type Ephemeris struct {
	sinDec, cosDec float64
	sinGHA, cosGHA float64
}

// At computes the ephemeris for jd.
func At(jd float64) Ephemeris {
	dec, ra := DeclinationRA(jd)
	gha := GMST(jd)*15*deg2rad - ra

	var e Ephemeris
	e.sinDec, e.cosDec = math.Sincos(dec)
	e.sinGHA, e.cosGHA = math.Sincos(gha)
	return e
}

// Angles returns the cosine of the solar zenith angle and the solar azimuth
// (degrees clockwise from north) at lat/lon in degrees.
func (e Ephemeris) Angles(lat, lon float64) (mu0, azimuth float64) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return math.NaN(), math.NaN()
	}
	sinLat, cosLat := math.Sincos(lat * deg2rad)
	sinLon, cosLon := math.Sincos(lon * deg2rad)

	// local hour angle
	sinHA := e.sinGHA*cosLon + e.cosGHA*sinLon
	cosHA := e.cosGHA*cosLon - e.sinGHA*sinLon

	mu0 = e.sinDec*sinLat + e.cosDec*cosLat*cosHA

	s := -e.cosDec * sinHA / math.Sqrt(1-mu0*mu0)
	az := math.Asin(math.Max(-1, math.Min(1, s)))
	if e.sinDec >= mu0*sinLat {
		if az < 0 {
			az += 2 * math.Pi
		}
	} else {
		az = math.Pi - az
	}
	return mu0, az * rad2deg
}

// Angles is At(jd).Angles(lat, lon).
func Angles(jd, lat, lon float64) (mu0, azimuth float64) {
	return At(jd).Angles(lat, lon)
}

// EarthSunDistance in astronomical units.
func EarthSunDistance(jd float64) float64 {
	g := MeanAnomaly(jd) * deg2rad
	return 1.00014 - 0.01671*math.Cos(g) + 0.00014*math.Cos(2*g)
}
