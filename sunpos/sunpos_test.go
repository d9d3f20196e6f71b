package sunpos

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// jdOf returns days since J2000.0 for a UTC time.
func jdOf(t time.Time) float64 {
	return float64(t.Unix())/86400 + 2440587.5 - 2451545.0
}

func TestDeclinationSolstice(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"june", time.Date(2006, time.June, 21, 12, 26, 0, 0, time.UTC), 23.44},
		{"december", time.Date(2006, time.December, 22, 0, 22, 0, 0, time.UTC), -23.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, ra := DeclinationRA(jdOf(tt.at))
			if got := dec * rad2deg; math.Abs(got-tt.want) > 0.05 {
				t.Errorf("declination = %.3f, want %.2f", got, tt.want)
			}
			if ra < 0 || ra >= 2*math.Pi {
				t.Errorf("right ascension %v outside [0, 2pi)", ra)
			}
		})
	}
}

func TestGMSTAgainstSGP4(t *testing.T) {
	tests := []time.Time{
		time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2006, time.June, 21, 12, 0, 0, 0, time.UTC),
		time.Date(2012, time.March, 5, 3, 45, 30, 0, time.UTC),
		time.Date(2021, time.October, 19, 23, 59, 0, 0, time.UTC),
	}

	for _, at := range tests {
		t.Run(at.Format(time.RFC3339), func(t *testing.T) {
			got := math.Mod(GMST(jdOf(at))*15*deg2rad, 2*math.Pi)
			if got < 0 {
				got += 2 * math.Pi
			}
			ref := satellite.GSTimeFromDate(at.Year(), int(at.Month()), at.Day(), at.Hour(), at.Minute(), at.Second())

			diff := math.Abs(got - ref)
			if diff > math.Pi {
				diff = 2*math.Pi - diff
			}
			if diff > 1e-4 {
				t.Errorf("GMST = %.6f rad, go-satellite %.6f rad", got, ref)
			}
		})
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		name         string
		at           time.Time
		lat, lon     float64
		mu0, mu0Tol  float64
		azMin, azMax float64
	}{
		{"50N noon", time.Date(2006, time.June, 21, 12, 0, 0, 0, time.UTC), 50, 0, 0.894, 0.003, 178.5, 181.5},
		{"50N morning", time.Date(2006, time.June, 21, 6, 0, 0, 0, time.UTC), 50, 0, 0.305, 0.01, 60, 90},
		{"50N evening", time.Date(2006, time.June, 21, 18, 0, 0, 0, time.UTC), 50, 0, 0.305, 0.01, 270, 300},
		{"35S noon", time.Date(2006, time.June, 21, 12, 0, 0, 0, time.UTC), -35, 0, 0.523, 0.005, -1, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu0, az := Angles(jdOf(tt.at), tt.lat, tt.lon)
			if math.Abs(mu0-tt.mu0) > tt.mu0Tol {
				t.Errorf("mu0 = %.4f, want %.3f", mu0, tt.mu0)
			}
			if az > 359 {
				az -= 360
			}
			if az < tt.azMin || az > tt.azMax {
				t.Errorf("azimuth = %.2f, want within [%v, %v]", az, tt.azMin, tt.azMax)
			}
		})
	}
}

func TestAnglesInvalid(t *testing.T) {
	mu0, az := Angles(0, math.NaN(), 10)
	if !math.IsNaN(mu0) || !math.IsNaN(az) {
		t.Errorf("Angles(NaN) = %v, %v", mu0, az)
	}
}

func TestEarthSunDistance(t *testing.T) {
	tests := []struct {
		name string
		jd   float64
		want float64
	}{
		{"perihelion", 2, 0.9835706},
		{"aphelion", 180, 1.0169226},
		{"january 2006", jdOf(time.Date(2006, time.January, 4, 0, 0, 0, 0, time.UTC)), 0.9835705},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EarthSunDistance(tt.jd); math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("EarthSunDistance(%.2f) = %.7f AU, want %.7f", tt.jd, got, tt.want)
			}
		})
	}
}
