package l15

import (
	"math"
	"testing"

	"github.com/jddeal/go-seviri/sunpos"
	"github.com/jddeal/go-seviri/xrit"
)

func TestAnnotate(t *testing.T) {
	pro := &Prologue{}
	pro.SatelliteStatus.Definition.SatelliteID = 322
	pro.PlannedAcquisition.TrueRepeatCycleStart = xrit.CdsTime{Days: 17338, Msec: 43200000}
	pro.RadiometricProcessing.Calibration[0] = Calibration{Slope: 0.0233, Offset: -1.19}
	pro.RadiometricProcessing.Calibration[8] = Calibration{Slope: 0.2, Offset: -10.2}

	vis := &Image{ChannelID: 1}
	Annotate(vis, pro, ChannelInfo{F0: 65.2065, LambdaC: 0.635})

	if vis.SpacecraftID != 322 || vis.CalSlope != 0.0233 || vis.CalOffset != -1.19 {
		t.Errorf("vis006 calibration = %d %v %v", vis.SpacecraftID, vis.CalSlope, vis.CalOffset)
	}
	d := sunpos.EarthSunDistance(pro.PlannedAcquisition.TrueRepeatCycleStart.JulianDate(xrit.EpochJ2000))
	if d < 1.01 || d > 1.02 {
		t.Fatalf("earth-sun distance in June = %v", d)
	}
	k := math.Pi * d * d / 65.2065
	if math.Abs(vis.ReflSlope-0.0233*k) > 1e-12 || math.Abs(vis.ReflOffset+1.19*k) > 1e-12 {
		t.Errorf("reflectance scale = %v %v", vis.ReflSlope, vis.ReflOffset)
	}
	if math.Abs(vis.NuC-1e4/0.635) > 1e-9 {
		t.Errorf("NuC = %v", vis.NuC)
	}

	ir := &Image{ChannelID: 9}
	Annotate(ir, pro, ChannelInfo{LambdaC: 10.8, NuC: 930.659, Alpha: 0.9983, Beta: 0.627})
	if ir.CalSlope != 0.2 || ir.NuC != 930.659 || ir.Alpha != 0.9983 || ir.Beta != 0.627 {
		t.Errorf("ir_108 = %+v", ir)
	}
	if ir.ReflSlope != 0 || ir.ReflOffset != 0 {
		t.Errorf("thermal channel has a reflectance scale")
	}
}
