// Package l15 decodes MSG SEVIRI level 1.5 image data disseminated as HRIT files.
//
// The documents used and referenced in this package:
//  • HRIT: EUM/MSG/ICD/105, MSG Ground Segment LRIT/HRIT Mission Specific Implementation
//  • L15: EUM/MSG/ICD/105 Appendix, MSG Level 1.5 Image Data Format Description
package l15

import (
	"errors"
	"fmt"
	"time"

	"github.com/jddeal/go-seviri/xrit"
)

const (
	// FilePrologue and FileEpilogue are the mission specific frame types (HRIT 4.3.1)
	FilePrologue xrit.FileType = 128
	FileEpilogue xrit.FileType = 129

	// NumChannels is the number of SEVIRI channels, HRV is the last one
	NumChannels = 12
	ChannelHRV  = 12

	// FullDiskLines is the VIS/IR reference grid size, the HRV grid is 3 times larger
	FullDiskLines    = 3712
	FullDiskLinesHRV = 3 * FullDiskLines

	// grid origin the navigation COFF/LOFF are relative to
	visirOrigin = 1856
	hrvOrigin   = 5566
)

var (
	ErrNoPrologue        = errors.New("no prologue")
	ErrNoEpilogue        = errors.New("no epilogue")
	ErrUnknownChannel    = errors.New("unknown channel")
	ErrUnknownService    = errors.New("unknown service")
	ErrCompressedPayload = errors.New("compressed payload and no decompressor")
	ErrNoOrbitWindow     = errors.New("no orbit coefficients cover time")
	ErrCoverage          = errors.New("invalid coverage")
)

// Coverage is a rectangle in the native grid. Lines count south to north and
// columns east to west, so a valid coverage has North >= South and West >= East.
type Coverage struct {
	Channel string `json:"channel" yaml:"channel"`
	South   int    `json:"southern_line" yaml:"southern_line"`
	North   int    `json:"northern_line" yaml:"northern_line"`
	East    int    `json:"eastern_column" yaml:"eastern_column"`
	West    int    `json:"western_column" yaml:"western_column"`
}

func (c Coverage) Lines() int   { return c.North - c.South + 1 }
func (c Coverage) Columns() int { return c.West - c.East + 1 }

// Valid coverages have at least one line and column.
func (c Coverage) Valid() bool {
	return c.North >= c.South && c.West >= c.East
}

// Overlaps is symmetric; a valid coverage always overlaps itself.
func (c Coverage) Overlaps(o Coverage) bool {
	return c.South <= o.North && c.North >= o.South && c.East <= o.West && c.West >= o.East
}

// VisIRToHRV maps a VIS/IR coverage onto the 3 times finer HRV grid.
func VisIRToHRV(c Coverage) Coverage {
	return Coverage{
		Channel: "hrv",
		South:   3*c.South - 3,
		North:   3*c.North - 1,
		East:    3*c.East - 3,
		West:    3*c.West - 1,
	}
}

// FullDisk covers the whole reference grid of the channel.
func FullDisk(channelID int) Coverage {
	n := FullDiskLines
	if channelID == ChannelHRV {
		n = FullDiskLinesHRV
	}
	return Coverage{Channel: ChannelName(channelID), South: 1, North: n, East: 1, West: n}
}

// LineInfo is the line side information carried per image line (HRIT 5.4.2).
type LineInfo struct {
	NumberInGrid       int32        `json:"nr_in_grid"`
	AcquisitionTime    xrit.CdsTime `json:"acquisition_time"`
	Validity           uint8        `json:"validity"`
	RadiometricQuality uint8        `json:"radiometric_quality"`
	GeometricQuality   uint8        `json:"geometric_quality"`
}

// Image is one channel over a coverage. Row 0 is the northern line and
// column 0 the western column. len(Counts) == Lines*Columns and
// len(LineInfo) == Lines at all times.
type Image struct {
	Lines        int
	Columns      int
	Depth        int
	SpacecraftID uint16
	ChannelID    uint8
	SegmentID    uint16

	CalSlope  float64
	CalOffset float64

	// channel constants, filled in by Annotate
	F0         float64
	LambdaC    float64
	NuC        float64
	Alpha      float64
	Beta       float64
	ReflSlope  float64
	ReflOffset float64

	Coverage Coverage
	Counts   []uint16
	LineInfo []LineInfo

	identified bool // identity fields set by the first mapped segment
}

// NewImage allocates an image for the coverage.
func NewImage(c Coverage) (*Image, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%+v: %w", c, ErrCoverage)
	}
	nlin, ncol := c.Lines(), c.Columns()
	return &Image{
		Lines:    nlin,
		Columns:  ncol,
		Depth:    10,
		Coverage: c,
		Counts:   make([]uint16, nlin*ncol),
		LineInfo: make([]LineInfo, nlin),
	}, nil
}

// At returns the count at row r (from north) and column c (from west).
func (img *Image) At(r, c int) uint16 {
	return img.Counts[r*img.Columns+c]
}

// LineNumber is the grid line shown in row r.
func (img *Image) LineNumber(r int) int {
	return img.Coverage.North - r
}

// ColumnNumber is the grid column shown in column c.
func (img *Image) ColumnNumber(c int) int {
	return img.Coverage.West - c
}

// LineTime of row r, zero when the line was never acquired.
func (img *Image) LineTime(r int) time.Time {
	t := img.LineInfo[r].AcquisitionTime
	if t.IsZero() {
		return time.Time{}
	}
	return t.Time()
}
