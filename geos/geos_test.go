package geos

import (
	"math"
	"testing"
)

func TestEllipsoidRatios(t *testing.T) {
	p := New(0, 0, 0, 0)

	tests := []struct {
		name      string
		got, want float64
	}{
		{"c1", p.C1, 1.006803},
		{"c2", p.C2, 0.00675701},
		{"c3", p.C3, 0.993243},
		{"c4", p.C4, 0.02288276},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-6 {
				t.Errorf("%s = %.8f, want %.8f", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLatLonOffEarth(t *testing.T) {
	p := New(-0.15, 0.0008, 0.15, -0.0008)

	lat, lon := p.LatLon(0, 0, 0)
	if !IsInvalid(lat) || !IsInvalid(lon) {
		t.Errorf("corner = %v, %v, want invalid", lat, lon)
	}

	// every corner of the grid misses the earth, the centre does not
	for _, rc := range [][2]int{{0, 374}, {374, 0}, {374, 374}} {
		if lat, _ := p.LatLon(0, rc[0], rc[1]); !IsInvalid(lat) {
			t.Errorf("row %d col %d = %v, want invalid", rc[0], rc[1], lat)
		}
	}
	if lat, lon := p.LatLon(0, 187, 187); IsInvalid(lat) || math.Abs(lat) > 1 || math.Abs(lon) > 1 {
		t.Errorf("centre = %v, %v", lat, lon)
	}
}

func TestLatLonSubSatellitePoint(t *testing.T) {
	p := New(0, 0.001, 0, -0.001)

	for _, sslon := range []float64{0, 9.5, -3.4} {
		lat, lon := p.LatLon(sslon, 0, 0)
		if math.Abs(lat) > 1e-9 || math.Abs(lon-sslon) > 1e-9 {
			t.Errorf("sslon %v: nadir = %v, %v", sslon, lat, lon)
		}
	}
}

func TestLatLonHemispheres(t *testing.T) {
	// full disk VIS/IR grid, row 0 is the northern line and column 0 the western column
	p := FromCoverage(3712, 3712, false)

	lat, lon := p.LatLon(0, 1000, 1000)
	if IsInvalid(lat) || lat <= 0 || lon >= 0 {
		t.Errorf("north west quadrant pixel = %v, %v", lat, lon)
	}
	lat, lon = p.LatLon(0, 2700, 2700)
	if IsInvalid(lat) || lat >= 0 || lon <= 0 {
		t.Errorf("south east quadrant pixel = %v, %v", lat, lon)
	}
	if lat, _ := p.LatLon(0, 0, 0); !IsInvalid(lat) {
		t.Errorf("full disk corner = %v, want invalid", lat)
	}
}

func TestFromCoverageHRV(t *testing.T) {
	visir := FromCoverage(3712, 3712, false)
	hrv := FromCoverage(11136, 11136, true)

	if math.Abs(visir.DX/hrv.DX-3) > 1e-3 {
		t.Errorf("HRV step ratio = %v, want 3", visir.DX/hrv.DX)
	}
	if math.Abs(visir.X0-hrv.X0) > 2*visir.DX || math.Abs(visir.Y0-hrv.Y0) > 2*visir.DX {
		t.Errorf("full disk origins differ: %v/%v vs %v/%v", visir.X0, visir.Y0, hrv.X0, hrv.Y0)
	}
}

func TestGrid(t *testing.T) {
	p := New(-0.01, 0.001, 0.01, -0.001)
	nlin, ncol := 21, 21
	lat := make([]float64, nlin*ncol)
	lon := make([]float64, nlin*ncol)
	p.Grid(3.5, nlin, ncol, lat, lon)

	for _, rc := range [][2]int{{0, 0}, {10, 10}, {20, 3}} {
		wantLat, wantLon := p.LatLon(3.5, rc[0], rc[1])
		i := rc[0]*ncol + rc[1]
		if lat[i] != wantLat || lon[i] != wantLon {
			t.Errorf("Grid[%d,%d] = %v, %v, LatLon = %v, %v", rc[0], rc[1], lat[i], lon[i], wantLat, wantLon)
		}
	}
}

func TestViewingAngles(t *testing.T) {
	p := New(0, 0, 0, 0)

	tests := []struct {
		name     string
		sslon    float64
		lat, lon float64
		zenith   float64
		azimuth  float64
	}{
		{"nadir", 0, 0, 0, 0, -1},
		{"east of nadir", 0, 0, 60, 68.07, 270},
		{"west of nadir", 0, 0, -60, 68.07, 90},
		{"shifted satellite", 9.5, 0, 69.5, 68.07, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu, az := p.ViewingAngles(tt.sslon, tt.lat, tt.lon)
			if got := math.Acos(mu) * rad2deg; math.Abs(got-tt.zenith) > 0.05 {
				t.Errorf("zenith = %.3f, want %.2f", got, tt.zenith)
			}
			if tt.azimuth >= 0 && math.Abs(az-tt.azimuth) > 0.01 {
				t.Errorf("azimuth = %.3f, want %.2f", az, tt.azimuth)
			}
		})
	}
}

func TestViewingAnglesNorth(t *testing.T) {
	p := New(0, 0, 0, 0)

	// the satellite is due south of a point on its meridian in the northern hemisphere
	mu, az := p.ViewingAngles(0, 45, 0)
	if math.Abs(az-180) > 1e-6 {
		t.Errorf("azimuth = %v, want 180", az)
	}
	if zen := math.Acos(mu) * rad2deg; zen < 45 || zen > 60 {
		t.Errorf("zenith = %v", zen)
	}
}

func TestViewingAnglesInvalid(t *testing.T) {
	p := New(0, 0, 0, 0)
	mu, az := p.ViewingAngles(0, Invalid, Invalid)
	if !IsInvalid(mu) || !IsInvalid(az) {
		t.Errorf("ViewingAngles(invalid) = %v, %v", mu, az)
	}
}
