// Package geos implements the normalized geostationary projection of
// CGMS 03 (LRIT/HRIT Global Specification, section 4.4.3.2) and the
// satellite viewing geometry derived from it.
package geos

import (
	"math"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi

	// Distance from the earth centre to the satellite and the earth radii, km
	SatelliteDistance = 42164.0
	EquatorialRadius  = 6378.1690
	PolarRadius       = 6356.5838

	// scan angle scaling of the VIS/IR and HRV reference grids
	visirFactor = 13642337
	visirOffset = 1856
	hrvFactor   = 40927014
	hrvOffset   = 5566
)

// Invalid marks a pixel whose line of sight misses the earth.
var Invalid = math.NaN()

// IsInvalid reports whether v is the Invalid sentinel.
func IsInvalid(v float64) bool {
	return math.IsNaN(v)
}

// Param holds the projection constants of one scene.
type Param struct {
	H, A, B float64 // satellite distance, equatorial and polar radius in km

	C1 float64 // (a/b)^2
	C2 float64 // 1-(b/a)^2
	C3 float64 // (b/a)^2
	C4 float64 // (a/h)^2

	// scan angle of the first row/column and the step per row/column, radians
	X0, DX float64
	Y0, DY float64
}

// New returns the projection for the default earth model.
func New(x0, dx, y0, dy float64) *Param {
	return NewEllipsoid(EquatorialRadius, PolarRadius, x0, dx, y0, dy)
}

// NewEllipsoid returns the projection for an earth with radii a and b.
func NewEllipsoid(a, b, x0, dx, y0, dy float64) *Param {
	h := SatelliteDistance
	return &Param{
		H: h, A: a, B: b,
		C1: (a / b) * (a / b),
		C2: 1 - (b/a)*(b/a),
		C3: (b / a) * (b / a),
		C4: (a / h) * (a / h),
		X0: x0, DX: dx,
		Y0: y0, DY: dy,
	}
}

// FromCoverage places row 0 on the northern line and column 0 on the western
// column of a grid with north/west bounds. hrv selects the 3 times finer grid.
func FromCoverage(north, west int, hrv bool) *Param {
	factor, offset := float64(visirFactor), float64(visirOffset)
	if hrv {
		factor, offset = hrvFactor, hrvOffset
	}
	step := 65536 / factor * deg2rad
	return New((offset-float64(west))*step, step, (float64(north)-offset)*step, -step)
}

// ScanAngles of row/column in radians.
func (p *Param) ScanAngles(row, col int) (vertical, horizontal float64) {
	return p.Y0 + p.DY*float64(row), p.X0 + p.DX*float64(col)
}

// LatLon of row/column in degrees, Invalid for both when the line of sight
// misses the earth. sslon is the longitude of the sub satellite point.
func (p *Param) LatLon(sslon float64, row, col int) (lat, lon float64) {
	vsa, hsa := p.ScanAngles(row, col)
	sinV, cosV := math.Sincos(vsa)
	sinH, cosH := math.Sincos(hsa)
	return p.latlon(sslon, sinV, cosV, sinH, cosH)
}

func (p *Param) latlon(sslon, sinV, cosV, sinH, cosH float64) (lat, lon float64) {
	c := 1 + (p.C1-1)*sinV*sinV
	p2 := cosV * cosH / c
	q := (1 - p.C4) / c
	discr := p2*p2 - q
	if discr < 0 {
		return Invalid, Invalid
	}
	gd := p2 - math.Sqrt(discr)

	x := p.H * (1 - gd*cosH*cosV)
	y := p.H * gd * sinH * cosV
	z := p.H * gd * sinV

	lat = math.Atan(p.C1*z/math.Hypot(x, y)) * rad2deg
	lon = math.Atan(y/x)*rad2deg + sslon
	return lat, lon
}

// Grid fills lat and lon (row major, nlin*ncol each) for the first nlin rows and ncol columns.
func (p *Param) Grid(sslon float64, nlin, ncol int, lat, lon []float64) {
	sinH := make([]float64, ncol)
	cosH := make([]float64, ncol)
	for c := 0; c < ncol; c++ {
		sinH[c], cosH[c] = math.Sincos(p.X0 + p.DX*float64(c))
	}
	for l := 0; l < nlin; l++ {
		sinV, cosV := math.Sincos(p.Y0 + p.DY*float64(l))
		for c := 0; c < ncol; c++ {
			i := l*ncol + c
			lat[i], lon[i] = p.latlon(sslon, sinV, cosV, sinH[c], cosH[c])
		}
	}
}

// ViewingAngles returns the cosine of the satellite zenith angle and the
// satellite azimuth in degrees [0, 360) seen from lat/lon. sslon is the true
// sub satellite longitude. Invalid input gives Invalid output.
func (p *Param) ViewingAngles(sslon, lat, lon float64) (mu, azimuth float64) {
	if IsInvalid(lat) || IsInvalid(lon) {
		return Invalid, Invalid
	}

	// geocentric latitude and earth centred coordinates of the point
	clat := math.Atan(p.C3 * math.Tan(lat*deg2rad))
	sinC, cosC := math.Sincos(clat)
	dlon := (lon - sslon) * deg2rad
	sinD, cosD := math.Sincos(dlon)
	re := p.B / math.Sqrt(1-p.C2*cosC*cosC)

	x := re * cosC * cosD
	y := re * cosC * sinD
	z := re * sinC

	slat := math.Atan(-z / math.Hypot(y, p.H-x))
	slon := math.Atan(-y / (p.H - x))

	return zenithAzimuth(lat*deg2rad, slat, dlon-slon)
}

// zenithAzimuth decomposes the direction towards a point at angular distance
// (lat2, dlon) from an observer at lat1 into east/north/up components.
func zenithAzimuth(lat1, lat2, dlon float64) (mu, azimuth float64) {
	sin1, cos1 := math.Sincos(lat1)
	sin2, cos2 := math.Sincos(lat2)
	sinD, cosD := math.Sincos(dlon)

	e := -cos2 * sinD
	n := -sin1*cos2*cosD + cos1*sin2
	u := sin1*sin2 + cos1*cos2*cosD

	azimuth = math.Atan2(e, n) * rad2deg
	if azimuth < 0 {
		azimuth += 360
	}
	return u, azimuth
}
