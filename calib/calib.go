// Package calib converts SEVIRI counts to radiance, brightness temperature and reflectance.
//
// Radiances are in mW m-2 sr-1 (cm-1)-1, see EUM/MET/TEN/11/0569
// (The Conversion from Effective Radiances to Equivalent Brightness Temperatures).
package calib

import "math"

const (
	// C1 = 2hc^2 and C2 = hc/k in the units used for SEVIRI radiances
	C1 = 1.19104e-5
	C2 = 1.43877
)

// Radiance is the linear count to radiance transform.
func Radiance(slope, offset float64, count uint16) float64 {
	return slope*float64(count) + offset
}

// BrightnessTemperature inverts the Planck function for a channel with
// central wavenumber nu (cm-1) and the band correction alpha/beta.
// Non-positive radiances give NaN.
func BrightnessTemperature(nu, alpha, beta, radiance float64) float64 {
	if radiance <= 0 || math.IsNaN(radiance) {
		return math.NaN()
	}
	return (C2*nu/math.Log(1+nu*nu*nu*C1/radiance) - beta) / alpha
}

// PlanckRadiance is the inverse of BrightnessTemperature.
func PlanckRadiance(nu, alpha, beta, temperature float64) float64 {
	t := alpha*temperature + beta
	return C1 * nu * nu * nu / (math.Exp(C2*nu/t) - 1)
}

// ReflectanceScale converts radiance slope and offset into reflectance slope
// and offset for a channel with solar irradiance f0 at earth-sun distance d (AU).
// Channels without solar irradiance get zero.
func ReflectanceScale(slope, offset, f0, d float64) (reflSlope, reflOffset float64) {
	if f0 <= 0 {
		return 0, 0
	}
	k := math.Pi * d * d / f0
	return slope * k, offset * k
}

// Reflectance of a count given the scale from ReflectanceScale.
func Reflectance(reflSlope, reflOffset float64, count uint16) float64 {
	return reflSlope*float64(count) + reflOffset
}

// CentralWavenumber falls back to the central wavelength (um) when nu is unset.
func CentralWavenumber(nu, lambda float64) float64 {
	if nu > 0 {
		return nu
	}
	if lambda <= 0 {
		return 0
	}
	return 1e4 / lambda
}
