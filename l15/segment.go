package l15

import (
	"errors"
	"fmt"

	"github.com/bamiaux/iobit"
	"github.com/fatih/color"
	"github.com/jddeal/go-seviri/xrit"
	"github.com/sirupsen/logrus"
)

// Decompressor unpacks a compressed segment payload into lines*columns samples.
type Decompressor interface {
	Decompress(data []byte, lines, columns, depth int) ([]uint16, error)
}

// DecompressorFunc adapts a function to the Decompressor interface.
type DecompressorFunc func(data []byte, lines, columns, depth int) ([]uint16, error)

func (f DecompressorFunc) Decompress(data []byte, lines, columns, depth int) ([]uint16, error) {
	return f(data, lines, columns, depth)
}

// Segment is one image segment file. Counts and LineInfo are in scan order:
// row r holds grid line Coverage.South+r and sample k of a row grid column
// Coverage.East+k.
type Segment struct {
	Path           string
	Identification SegmentIdentificationRecord
	Structure      xrit.ImageStructureRecord
	Navigation     xrit.ImageNavigationRecord
	Coverage       Coverage

	Counts   []uint16
	LineInfo []LineInfo
}

func (s *Segment) Lines() int   { return int(s.Structure.Lines) }
func (s *Segment) Columns() int { return int(s.Structure.Columns) }

// segmentCoverage places a segment in the reference grid using its navigation offsets.
func segmentCoverage(channelID int, nav xrit.ImageNavigationRecord, is xrit.ImageStructureRecord) Coverage {
	origin := visirOrigin
	if channelID == ChannelHRV {
		origin = hrvOrigin
	}
	south := origin - int(nav.LOFF) + 1
	east := origin - int(nav.COFF) + 1
	return Coverage{
		Channel: ChannelName(channelID),
		South:   south,
		North:   south + int(is.Lines) - 1,
		East:    east,
		West:    east + int(is.Columns) - 1,
	}
}

// openSegment reads the header records of an image segment and leaves the frame open.
func openSegment(path string) (*Segment, *xrit.Frame, error) {
	f, err := xrit.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := f.Expect(xrit.FileImage); err != nil {
		f.Close()
		return nil, nil, err
	}
	hdr, err := f.ReadHeader()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	seg, err := decodeSegmentHeader(path, hdr)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return seg, f, nil
}

func decodeSegmentHeader(path string, hdr []byte) (*Segment, error) {
	seg := &Segment{Path: path}

	rec, err := Records.Find(hdr, xrit.RecordImageStructure)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	seg.Structure = rec.(xrit.ImageStructureRecord)

	rec, err = Records.Find(hdr, xrit.RecordImageNavigation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	seg.Navigation = rec.(xrit.ImageNavigationRecord)

	rec, err = Records.Find(hdr, RecordSegmentIdentification)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	seg.Identification = rec.(SegmentIdentificationRecord)

	seg.LineInfo = make([]LineInfo, seg.Lines())
	rec, err = Records.Find(hdr, RecordSegmentLineQuality)
	switch {
	case err == nil:
		copy(seg.LineInfo, rec.(SegmentLineQualityRecord).Lines)
	case errors.Is(err, xrit.ErrRecordNotFound):
		logrus.Debugf("%s has no line quality record", path)
	default:
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	seg.Coverage = segmentCoverage(int(seg.Identification.ChannelID), seg.Navigation, seg.Structure)
	return seg, nil
}

// SegmentCoverage decodes just enough of a segment file to place it in the grid.
func SegmentCoverage(path string) (Coverage, error) {
	seg, f, err := openSegment(path)
	if err != nil {
		return Coverage{}, err
	}
	f.Close()
	return seg.Coverage, nil
}

// ReadSegment reads the headers and pixel payload of a segment file.
func ReadSegment(path string, dec Decompressor) (*Segment, error) {
	seg, f, err := openSegment(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := seg.readCounts(f, dec); err != nil {
		return nil, err
	}
	return seg, nil
}

func (s *Segment) readCounts(f *xrit.Frame, dec Decompressor) error {
	data, err := f.ReadData()
	if err != nil {
		return err
	}

	nlin, ncol, depth := s.Lines(), s.Columns(), int(s.Structure.BitsPerPixel)
	logrus.Tracef("segment %s: %dx%d depth %d compression %d (%s bytes)", s.Path, nlin, ncol, depth,
		s.Structure.Compression, color.CyanString("%d", len(data)))

	if s.Structure.Compression > 0 {
		if dec == nil {
			return fmt.Errorf("%s: %w", s.Path, ErrCompressedPayload)
		}
		s.Counts, err = dec.Decompress(data, nlin, ncol, depth)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Path, err)
		}
		if len(s.Counts) != nlin*ncol {
			return fmt.Errorf("%s: decompressed %d samples, want %d", s.Path, len(s.Counts), nlin*ncol)
		}
		return nil
	}

	s.Counts, err = Unpack(data, nlin*ncol, depth)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Path, err)
	}
	return nil
}

// Unpack reads n big endian samples of depth bits each from a packed bit stream.
func Unpack(data []byte, n, depth int) ([]uint16, error) {
	if depth < 1 || depth > 16 {
		return nil, fmt.Errorf("unsupported depth %d", depth)
	}
	if need := (n*depth + 7) / 8; len(data) < need {
		return nil, fmt.Errorf("payload is %d bytes, need %d: %w", len(data), need, xrit.ErrTruncatedFile)
	}

	out := make([]uint16, n)
	r := iobit.NewReader(data)
	for i := range out {
		out[i] = r.Uint16(uint(depth))
	}
	return out, nil
}
