package l15

import (
	"github.com/jddeal/go-seviri/calib"
	"github.com/jddeal/go-seviri/sunpos"
	"github.com/jddeal/go-seviri/xrit"
)

// ChannelInfo holds the channel constants that are not part of the prologue.
type ChannelInfo struct {
	F0      float64 // band solar irradiance, 0 for thermal channels
	LambdaC float64 // central wavelength, um
	NuC     float64 // central wavenumber, cm-1
	Alpha   float64
	Beta    float64
}

// Annotate sets the calibration and channel constants of img from the
// prologue and the channel table.
func Annotate(img *Image, pro *Prologue, ch ChannelInfo) {
	cal := pro.Calibration(int(img.ChannelID))
	img.CalSlope = cal.Slope
	img.CalOffset = cal.Offset
	img.SpacecraftID = pro.SatelliteStatus.Definition.SatelliteID

	img.F0 = ch.F0
	img.LambdaC = ch.LambdaC
	img.NuC = calib.CentralWavenumber(ch.NuC, ch.LambdaC)
	img.Alpha = ch.Alpha
	img.Beta = ch.Beta

	jd := pro.PlannedAcquisition.TrueRepeatCycleStart.JulianDate(xrit.EpochJ2000)
	img.ReflSlope, img.ReflOffset = calib.ReflectanceScale(img.CalSlope, img.CalOffset, img.F0, sunpos.EarthSunDistance(jd))
}
