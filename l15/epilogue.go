package l15

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jddeal/go-seviri/xrit"
	"github.com/sirupsen/logrus"
)

// ScanningSummary (L15 trailer 1.2)
type ScanningSummary struct {
	NominalImageScanning bool
	ReducedScan          bool
	ForwardScanStart     xrit.CdsTime
	ForwardScanEnd       xrit.CdsTime
}

// RadiometerBehaviour (L15 trailer 1.3)
type RadiometerBehaviour struct {
	NominalBehaviour            bool
	RadScanIrregularity         bool
	RadStoppage                 bool
	RepeatCycleNotCompleted     bool
	GainChangeTookPlace         bool
	DecontaminationTookPlace    bool
	NoBBCalibrationAchieved     bool
	IncorrectTemperature        bool
	InvalidBBData               bool
	InvalidAuxOrHKTMData        bool
	RefocusingMechanismActuated bool
	MirrorBackToReferencePos    bool
}

// ReceptionStats (L15 trailer 1.4), per channel counts of level 1.0 lines
type ReceptionStats struct {
	Planned   [NumChannels]uint32
	Missing   [NumChannels]uint32
	Corrupted [NumChannels]uint32
	Replaced  [NumChannels]uint32
}

// ImageValidity (L15 trailer 1.5)
type ImageValidity struct {
	NominalImage                 bool
	NonNominalBecauseIncomplete  bool
	NonNominalRadiometricQuality bool
	NonNominalGeometricQuality   bool
	NonNominalTimeliness         bool
	IncompleteL15                bool
}

// Epilogue is the decoded L15 trailer.
type Epilogue struct {
	Version             uint8
	SatelliteID         uint16
	Scanning            ScanningSummary
	RadiometerBehaviour RadiometerBehaviour
	Reception           ReceptionStats
	Validity            [NumChannels]ImageValidity
	ActualCoverageVisIR Coverage
	ActualCoverageHRVLo Coverage
	ActualCoverageHRVUp Coverage
}

// MeanScanTime is the midpoint of the forward scan.
func (e *Epilogue) MeanScanTime() xrit.CdsTime {
	return e.Scanning.ForwardScanStart.Add(e.Scanning.ForwardScanEnd.Sub(e.Scanning.ForwardScanStart) / 2)
}

// epilogue section indices
const (
	epiVersion = iota
	epiImageProductionStats
	epiNavigationExtraction
	epiRadiometricQuality
	epiGeometricQuality
	epiTimelinessAndCompleteness
)

var epilogueLayout = &layout[Epilogue]{
	name: "epilogue",
	sections: []section{
		{"Version", 1},
		{"ImageProductionStats", 340},
		{"NavigationExtractionResults", 5680},
		{"RadiometricQuality", 371256},
		{"GeometricQuality", 2916},
		{"TimelinessAndCompleteness", 132},
	},
	fields: []field[Epilogue]{
		{"Version", epiVersion, 0, 1, func(b []byte, e *Epilogue) {
			e.Version = b[0]
		}},
		{"SatelliteId", epiImageProductionStats, 0, 2, func(b []byte, e *Epilogue) {
			e.SatelliteID = be16(b, 0)
		}},
		{"ActualScanningSummary", epiImageProductionStats, 2, 14, func(b []byte, e *Epilogue) {
			e.Scanning = ScanningSummary{
				NominalImageScanning: b[0] != 0,
				ReducedScan:          b[1] != 0,
				ForwardScanStart:     cds(b, 2),
				ForwardScanEnd:       cds(b, 8),
			}
		}},
		{"RadiometerBehaviour", epiImageProductionStats, 16, 12, func(b []byte, e *Epilogue) {
			e.RadiometerBehaviour = RadiometerBehaviour{
				NominalBehaviour:            b[0] != 0,
				RadScanIrregularity:         b[1] != 0,
				RadStoppage:                 b[2] != 0,
				RepeatCycleNotCompleted:     b[3] != 0,
				GainChangeTookPlace:         b[4] != 0,
				DecontaminationTookPlace:    b[5] != 0,
				NoBBCalibrationAchieved:     b[6] != 0,
				IncorrectTemperature:        b[7] != 0,
				InvalidBBData:               b[8] != 0,
				InvalidAuxOrHKTMData:        b[9] != 0,
				RefocusingMechanismActuated: b[10] != 0,
				MirrorBackToReferencePos:    b[11] != 0,
			}
		}},
		{"ReceptionSummaryStats", epiImageProductionStats, 28, 4 * 4 * NumChannels, func(b []byte, e *Epilogue) {
			for i := 0; i < NumChannels; i++ {
				e.Reception.Planned[i] = be32(b, 4*i)
				e.Reception.Missing[i] = be32(b, 4*(NumChannels+i))
				e.Reception.Corrupted[i] = be32(b, 4*(2*NumChannels+i))
				e.Reception.Replaced[i] = be32(b, 4*(3*NumChannels+i))
			}
		}},
		{"L15ImageValidity", epiImageProductionStats, 220, 6 * NumChannels, func(b []byte, e *Epilogue) {
			for i := range e.Validity {
				v := b[6*i:]
				e.Validity[i] = ImageValidity{
					NominalImage:                 v[0] != 0,
					NonNominalBecauseIncomplete:  v[1] != 0,
					NonNominalRadiometricQuality: v[2] != 0,
					NonNominalGeometricQuality:   v[3] != 0,
					NonNominalTimeliness:         v[4] != 0,
					IncompleteL15:                v[5] != 0,
				}
			}
		}},
		{"ActualL15Coverage", epiImageProductionStats, 292, 48, func(b []byte, e *Epilogue) {
			e.ActualCoverageVisIR = coverage(b, 0, "")
			e.ActualCoverageHRVLo = coverage(b, 16, "hrv")
			e.ActualCoverageHRVUp = coverage(b, 32, "hrv")
		}},
	},
}

// EpilogueLength is the size of the epilogue data field in bytes.
func EpilogueLength() int { return epilogueLayout.Length() }

// DecodeEpilogue decodes the data field of an epilogue file.
func DecodeEpilogue(data []byte) (*Epilogue, error) {
	e := &Epilogue{}
	if err := epilogueLayout.decode(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ReadEpilogue opens and decodes an epilogue file.
func ReadEpilogue(path string) (*Epilogue, error) {
	f, err := xrit.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.Expect(FileEpilogue); err != nil {
		return nil, err
	}
	data, err := f.ReadData()
	if err != nil {
		return nil, err
	}

	e, err := DecodeEpilogue(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("epilogue %s: satellite %s, forward scan %v - %v", path,
		color.CyanString("%d", e.SatelliteID), e.Scanning.ForwardScanStart, e.Scanning.ForwardScanEnd)
	return e, nil
}
