package l15

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jddeal/go-seviri/xrit"
	"github.com/sirupsen/logrus"
)

const (
	numOrbitCoefs    = 100
	numChebyshev     = 8
	numDetectors     = 42
	orbitCoefLength  = 396
	attitudeCoefLen  = 204
	calibrationEntry = 16
)

// SatelliteDefinition (L15 header 1.1)
type SatelliteDefinition struct {
	SatelliteID      uint16
	NominalLongitude float32
	Status           uint8
}

// Manoeuvre is one of the last/next manoeuvre entries of SatelliteOperations.
type Manoeuvre struct {
	Flag      bool
	StartTime xrit.CdsTime
	EndTime   xrit.CdsTime
	Type      uint8
}

// OrbitCoef is the Chebyshev fit of the satellite position and velocity over one window.
type OrbitCoef struct {
	StartTime  xrit.CdsTime
	EndTime    xrit.CdsTime
	X, Y, Z    [numChebyshev]float64
	VX, VY, VZ [numChebyshev]float64
}

// Orbit (L15 header 1.3)
type Orbit struct {
	PeriodStartTime xrit.CdsTime
	PeriodEndTime   xrit.CdsTime
	Coefs           [numOrbitCoefs]OrbitCoef
}

// AttitudeCoef is the Chebyshev fit of the spin axis over one window.
type AttitudeCoef struct {
	StartTime xrit.CdsTime
	EndTime   xrit.CdsTime
	X, Y, Z   [numChebyshev]float64
}

// Attitude (L15 header 1.4)
type Attitude struct {
	PeriodStartTime          xrit.CdsTime
	PeriodEndTime            xrit.CdsTime
	PrincipalAxisOffsetAngle float64
	Coefs                    [numOrbitCoefs]AttitudeCoef
}

// UTCCorrelation (L15 header 1.6)
type UTCCorrelation struct {
	PeriodStartTime     xrit.CdsTime
	PeriodEndTime       xrit.CdsTime
	OnBoardTimeStart    [7]byte
	VarOnBoardTimeStart float64
	A1                  float64
	VarA1               float64
	A2                  float64
	VarA2               float64
}

// SatelliteStatus (L15 header 1)
type SatelliteStatus struct {
	Definition     SatelliteDefinition
	LastManoeuvre  Manoeuvre
	NextManoeuvre  Manoeuvre
	Orbit          Orbit
	Attitude       Attitude
	SpinRate       float64
	UTCCorrelation UTCCorrelation
}

// PlannedAcquisitionTime (L15 header 2.1)
type PlannedAcquisitionTime struct {
	TrueRepeatCycleStart  xrit.CdsTime
	PlannedFwdScanEnd     xrit.CdsTime
	PlannedRepeatCycleEnd xrit.CdsTime
}

// ReferenceGrid (L15 header 4.2)
type ReferenceGrid struct {
	Lines      int32
	Columns    int32
	LineStep   float32 // km
	ColumnStep float32 // km
	Origin     uint8
}

// ImageDescription (L15 header 4)
type ImageDescription struct {
	ProjectionType        uint8
	LongitudeOfSSP        float32
	ReferenceGridVisIR    ReferenceGrid
	ReferenceGridHRV      ReferenceGrid
	PlannedCoverageVisIR  Coverage
	PlannedCoverageHRVLow Coverage
	PlannedCoverageHRVUp  Coverage
	ImageProcDirection    uint8
	PixelGenDirection     uint8
	PlannedChanProcessing [NumChannels]uint8
}

// Calibration is the count to radiance slope and offset of one channel.
type Calibration struct {
	Slope  float64
	Offset float64
}

// RadiometricProcessing (L15 header 5)
type RadiometricProcessing struct {
	RadianceLinearization [NumChannels]bool
	DetectorEqualization  [NumChannels]bool
	OnboardCalibration    [NumChannels]bool
	MPEFCalFeedback       [NumChannels]bool
	MTFAdaptation         [NumChannels]bool
	StrayLightCorrection  [NumChannels]bool
	Calibration           [NumChannels]Calibration
}

// EarthModel (L15 header 6.2), radii in km
type EarthModel struct {
	Type             uint8
	EquatorialRadius float64
	NorthPolarRadius float64
	SouthPolarRadius float64
}

// GeometricProcessing (L15 header 6)
type GeometricProcessing struct {
	EWFocalPlane [numDetectors]float32
	NSFocalPlane [numDetectors]float32
	EarthModel   EarthModel
}

// Prologue is the decoded L15 header, shared read-only by every channel of a scene.
type Prologue struct {
	SatelliteStatus       SatelliteStatus
	PlannedAcquisition    PlannedAcquisitionTime
	ImageDescription      ImageDescription
	RadiometricProcessing RadiometricProcessing
	GeometricProcessing   GeometricProcessing
}

// Calibration of channel id, zero for an unknown channel.
func (p *Prologue) Calibration(id int) Calibration {
	if id < 1 || id > NumChannels {
		return Calibration{}
	}
	return p.RadiometricProcessing.Calibration[id-1]
}

// prologue section indices
const (
	proSatelliteStatus = iota
	proImageAcquisition
	proCelestialEvents
	proImageDescription
	proRadiometricProcessing
	proGeometricProcessing
	proImpfConfiguration
)

func manoeuvre(b []byte, off int) Manoeuvre {
	return Manoeuvre{
		Flag:      b[off] != 0,
		StartTime: cds(b, off+1),
		EndTime:   cds(b, off+7),
		Type:      b[off+13],
	}
}

func flags(b []byte, dst []bool) {
	for i := range dst {
		dst[i] = b[i] != 0
	}
}

var prologueLayout = &layout[Prologue]{
	name: "prologue",
	sections: []section{
		{"SatelliteStatus", 60134},
		{"ImageAcquisition", 700},
		{"CelestialEvents", 326058},
		{"ImageDescription", 101},
		{"RadiometricProcessing", 20815},
		{"GeometricProcessing", 17653},
		{"ImpfConfiguration", 19786},
	},
	fields: []field[Prologue]{
		{"SatelliteDefinition", proSatelliteStatus, 0, 7, func(b []byte, p *Prologue) {
			p.SatelliteStatus.Definition = SatelliteDefinition{
				SatelliteID:      be16(b, 0),
				NominalLongitude: f32(b, 2),
				Status:           b[6],
			}
		}},
		{"SatelliteOperations", proSatelliteStatus, 7, 28, func(b []byte, p *Prologue) {
			p.SatelliteStatus.LastManoeuvre = manoeuvre(b, 0)
			p.SatelliteStatus.NextManoeuvre = manoeuvre(b, 14)
		}},
		{"Orbit", proSatelliteStatus, 35, 12 + numOrbitCoefs*orbitCoefLength, func(b []byte, p *Prologue) {
			o := &p.SatelliteStatus.Orbit
			o.PeriodStartTime = cds(b, 0)
			o.PeriodEndTime = cds(b, 6)
			for i := range o.Coefs {
				r := b[12+i*orbitCoefLength:]
				c := &o.Coefs[i]
				c.StartTime = cds(r, 0)
				c.EndTime = cds(r, 6)
				f64s(r, 12, c.X[:])
				f64s(r, 76, c.Y[:])
				f64s(r, 140, c.Z[:])
				f64s(r, 204, c.VX[:])
				f64s(r, 268, c.VY[:])
				f64s(r, 332, c.VZ[:])
			}
		}},
		{"Attitude", proSatelliteStatus, 39647, 20 + numOrbitCoefs*attitudeCoefLen, func(b []byte, p *Prologue) {
			a := &p.SatelliteStatus.Attitude
			a.PeriodStartTime = cds(b, 0)
			a.PeriodEndTime = cds(b, 6)
			a.PrincipalAxisOffsetAngle = f64(b, 12)
			for i := range a.Coefs {
				r := b[20+i*attitudeCoefLen:]
				c := &a.Coefs[i]
				c.StartTime = cds(r, 0)
				c.EndTime = cds(r, 6)
				f64s(r, 12, c.X[:])
				f64s(r, 76, c.Y[:])
				f64s(r, 140, c.Z[:])
			}
		}},
		{"SpinRate", proSatelliteStatus, 60067, 8, func(b []byte, p *Prologue) {
			p.SatelliteStatus.SpinRate = f64(b, 0)
		}},
		{"UTCCorrelation", proSatelliteStatus, 60075, 59, func(b []byte, p *Prologue) {
			u := &p.SatelliteStatus.UTCCorrelation
			u.PeriodStartTime = cds(b, 0)
			u.PeriodEndTime = cds(b, 6)
			copy(u.OnBoardTimeStart[:], b[12:19])
			u.VarOnBoardTimeStart = f64(b, 19)
			u.A1 = f64(b, 27)
			u.VarA1 = f64(b, 35)
			u.A2 = f64(b, 43)
			u.VarA2 = f64(b, 51)
		}},
		{"PlannedAcquisitionTime", proImageAcquisition, 0, 30, func(b []byte, p *Prologue) {
			p.PlannedAcquisition = PlannedAcquisitionTime{
				TrueRepeatCycleStart:  cds(b, 0),
				PlannedFwdScanEnd:     cds(b, 10),
				PlannedRepeatCycleEnd: cds(b, 20),
			}
		}},
		{"ProjectionDescription", proImageDescription, 0, 5, func(b []byte, p *Prologue) {
			p.ImageDescription.ProjectionType = b[0]
			p.ImageDescription.LongitudeOfSSP = f32(b, 1)
		}},
		{"ReferenceGridVIS_IR", proImageDescription, 5, 17, func(b []byte, p *Prologue) {
			p.ImageDescription.ReferenceGridVisIR = referenceGrid(b)
		}},
		{"ReferenceGridHRV", proImageDescription, 22, 17, func(b []byte, p *Prologue) {
			p.ImageDescription.ReferenceGridHRV = referenceGrid(b)
		}},
		{"PlannedCoverageVIS_IR", proImageDescription, 39, 16, func(b []byte, p *Prologue) {
			p.ImageDescription.PlannedCoverageVisIR = coverage(b, 0, "")
		}},
		{"PlannedCoverageHRV", proImageDescription, 55, 32, func(b []byte, p *Prologue) {
			p.ImageDescription.PlannedCoverageHRVLow = coverage(b, 0, "hrv")
			p.ImageDescription.PlannedCoverageHRVUp = coverage(b, 16, "hrv")
		}},
		{"Level15ImageProduction", proImageDescription, 87, 14, func(b []byte, p *Prologue) {
			p.ImageDescription.ImageProcDirection = b[0]
			p.ImageDescription.PixelGenDirection = b[1]
			copy(p.ImageDescription.PlannedChanProcessing[:], b[2:14])
		}},
		{"RPSummary", proRadiometricProcessing, 0, 6 * NumChannels, func(b []byte, p *Prologue) {
			rp := &p.RadiometricProcessing
			flags(b[0:], rp.RadianceLinearization[:])
			flags(b[12:], rp.DetectorEqualization[:])
			flags(b[24:], rp.OnboardCalibration[:])
			flags(b[36:], rp.MPEFCalFeedback[:])
			flags(b[48:], rp.MTFAdaptation[:])
			flags(b[60:], rp.StrayLightCorrection[:])
		}},
		{"Level15ImageCalibration", proRadiometricProcessing, 72, NumChannels * calibrationEntry, func(b []byte, p *Prologue) {
			for i := range p.RadiometricProcessing.Calibration {
				p.RadiometricProcessing.Calibration[i] = Calibration{
					Slope:  f64(b, i*calibrationEntry),
					Offset: f64(b, i*calibrationEntry+8),
				}
			}
		}},
		{"OptAxisDistances", proGeometricProcessing, 0, 2 * numDetectors * 4, func(b []byte, p *Prologue) {
			g := &p.GeometricProcessing
			for i := 0; i < numDetectors; i++ {
				g.EWFocalPlane[i] = f32(b, 4*i)
				g.NSFocalPlane[i] = f32(b, 4*(numDetectors+i))
			}
		}},
		{"EarthModel", proGeometricProcessing, 2 * numDetectors * 4, 25, func(b []byte, p *Prologue) {
			p.GeometricProcessing.EarthModel = EarthModel{
				Type:             b[0],
				EquatorialRadius: f64(b, 1),
				NorthPolarRadius: f64(b, 9),
				SouthPolarRadius: f64(b, 17),
			}
		}},
	},
}

func referenceGrid(b []byte) ReferenceGrid {
	return ReferenceGrid{
		Lines:      i32(b, 0),
		Columns:    i32(b, 4),
		LineStep:   f32(b, 8),
		ColumnStep: f32(b, 12),
		Origin:     b[16],
	}
}

// PrologueLength is the size of the prologue data field in bytes.
func PrologueLength() int { return prologueLayout.Length() }

// DecodePrologue decodes the data field of a prologue file.
func DecodePrologue(data []byte) (*Prologue, error) {
	p := &Prologue{}
	if err := prologueLayout.decode(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadPrologue opens and decodes a prologue file.
func ReadPrologue(path string) (*Prologue, error) {
	f, err := xrit.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.Expect(FilePrologue); err != nil {
		return nil, err
	}
	data, err := f.ReadData()
	if err != nil {
		return nil, err
	}

	p, err := DecodePrologue(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("prologue %s: satellite %s, ssp %s", path,
		color.CyanString("%d", p.SatelliteStatus.Definition.SatelliteID),
		color.CyanString("%.1f", p.ImageDescription.LongitudeOfSSP))
	return p, nil
}
