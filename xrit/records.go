package xrit

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// RecordType is the leading byte of every header record.
type RecordType uint8

// Generic header record types (LRIT/HRIT 4.4)
const (
	RecordPrimary           RecordType = 0
	RecordImageStructure    RecordType = 1
	RecordImageNavigation   RecordType = 2
	RecordImageDataFunction RecordType = 3
	RecordAnnotation        RecordType = 4
	RecordTimeStamp         RecordType = 5
	RecordAncillaryText     RecordType = 6
	RecordKeyHeader         RecordType = 7

	// RecordPrefixLength is the type byte plus the 16 bit record length
	RecordPrefixLength = 3
)

// Record is any decoded header record.
type Record interface {
	RecordType() RecordType
	RecordLength() uint16
}

// RecordHeader is the prefix shared by all header records. Length includes the prefix itself.
type RecordHeader struct {
	Type   RecordType
	Length uint16
}

func (h RecordHeader) RecordType() RecordType { return h.Type }
func (h RecordHeader) RecordLength() uint16   { return h.Length }

// PrimaryRecord (type 0) mirrors the frame prefix.
type PrimaryRecord struct {
	RecordHeader
	FileType        FileType
	TotalHeaderLen  uint32
	DataFieldLength uint64 // bits
}

// ImageStructureRecord (type 1)
type ImageStructureRecord struct {
	RecordHeader
	BitsPerPixel uint8
	Columns      uint16
	Lines        uint16
	Compression  uint8 // 0 none, otherwise the payload needs a Decompressor
}

// ImageNavigationRecord (type 2). The scaling factors and offsets are signed.
type ImageNavigationRecord struct {
	RecordHeader
	Projection string // eg "GEOS(+000.0)"
	CFAC       int32
	LFAC       int32
	COFF       int32
	LOFF       int32
}

// TextRecord carries the free text records: image data function (3),
// annotation (4) and ancillary text (6).
type TextRecord struct {
	RecordHeader
	Text string
}

// TimeStampRecord (type 5)
type TimeStampRecord struct {
	RecordHeader
	PField uint8
	Time   CdsTime
}

// KeyHeaderRecord (type 7) is kept as raw bytes, encryption is not supported.
type KeyHeaderRecord struct {
	RecordHeader
	Key []byte
}

// Decoder turns one complete header record into a typed Record.
type Decoder func(b []byte, h RecordHeader) (Record, error)

// DecoderTable maps record types to their decoders.
type DecoderTable map[RecordType]Decoder

// Generic is the decoder table for the records every HRIT mission shares.
var Generic = DecoderTable{
	RecordPrimary:           decodePrimary,
	RecordImageStructure:    decodeImageStructure,
	RecordImageNavigation:   decodeImageNavigation,
	RecordImageDataFunction: decodeText,
	RecordAnnotation:        decodeText,
	RecordTimeStamp:         decodeTimeStamp,
	RecordAncillaryText:     decodeText,
	RecordKeyHeader:         decodeKeyHeader,
}

// With returns a copy of the table extended by other. Entries in other win.
func (t DecoderTable) With(other DecoderTable) DecoderTable {
	merged := make(DecoderTable, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// ParseRecordHeader reads the 3 byte record prefix.
func ParseRecordHeader(b []byte) (RecordHeader, error) {
	if len(b) < RecordPrefixLength {
		return RecordHeader{}, fmt.Errorf("record prefix (%d bytes): %w", len(b), ErrMalformedRecord)
	}
	return RecordHeader{
		Type:   RecordType(b[0]),
		Length: binary.BigEndian.Uint16(b[1:3]),
	}, nil
}

// FindRecord scans the header records in hdr and returns the byte range of
// the first record of type t.
func FindRecord(hdr []byte, t RecordType) ([]byte, error) {
	off := 0
	for off+RecordPrefixLength <= len(hdr) {
		h, _ := ParseRecordHeader(hdr[off:])
		if h.Length < RecordPrefixLength || off+int(h.Length) > len(hdr) {
			return nil, fmt.Errorf("record type %d at offset %d has length %d: %w", h.Type, off, h.Length, ErrMalformedRecord)
		}
		if h.Type == t {
			logrus.Tracef("  found record type %s at offset %d (%d bytes)", color.CyanString("%d", t), off, h.Length)
			return hdr[off : off+int(h.Length)], nil
		}
		off += int(h.Length)
	}
	return nil, fmt.Errorf("record type %d: %w", t, ErrRecordNotFound)
}

// Records splits hdr into its individual records.
func Records(hdr []byte) ([][]byte, error) {
	var recs [][]byte
	off := 0
	for off+RecordPrefixLength <= len(hdr) {
		h, _ := ParseRecordHeader(hdr[off:])
		if h.Length < RecordPrefixLength || off+int(h.Length) > len(hdr) {
			return recs, fmt.Errorf("record type %d at offset %d has length %d: %w", h.Type, off, h.Length, ErrMalformedRecord)
		}
		recs = append(recs, hdr[off:off+int(h.Length)])
		off += int(h.Length)
	}
	return recs, nil
}

// Decode a single record using the table. Unknown types return ErrUnsupportedRecord
// which callers are free to ignore.
func (t DecoderTable) Decode(b []byte) (Record, error) {
	h, err := ParseRecordHeader(b)
	if err != nil {
		return nil, err
	}
	if int(h.Length) > len(b) {
		return nil, fmt.Errorf("record type %d claims %d of %d bytes: %w", h.Type, h.Length, len(b), ErrMalformedRecord)
	}
	decode, ok := t[h.Type]
	if !ok {
		return nil, fmt.Errorf("record type %d: %w", h.Type, ErrUnsupportedRecord)
	}
	return decode(b[:h.Length], h)
}

// DecodeRecord decodes a generic header record.
func DecodeRecord(b []byte) (Record, error) {
	return Generic.Decode(b)
}

// Find locates and decodes the record of type t in one go.
func (t DecoderTable) Find(hdr []byte, rt RecordType) (Record, error) {
	b, err := FindRecord(hdr, rt)
	if err != nil {
		return nil, err
	}
	return t.Decode(b)
}

// NeedLength fails with ErrMalformedRecord when the record is shorter than n.
func NeedLength(b []byte, h RecordHeader, n int) error {
	if len(b) < n {
		return fmt.Errorf("record type %d is %d bytes, need %d: %w", h.Type, len(b), n, ErrMalformedRecord)
	}
	return nil
}

func decodePrimary(b []byte, h RecordHeader) (Record, error) {
	if err := NeedLength(b, h, 16); err != nil {
		return nil, err
	}
	return PrimaryRecord{
		RecordHeader:    h,
		FileType:        FileType(b[3]),
		TotalHeaderLen:  binary.BigEndian.Uint32(b[4:8]),
		DataFieldLength: binary.BigEndian.Uint64(b[8:16]),
	}, nil
}

func decodeImageStructure(b []byte, h RecordHeader) (Record, error) {
	if err := NeedLength(b, h, 9); err != nil {
		return nil, err
	}
	return ImageStructureRecord{
		RecordHeader: h,
		BitsPerPixel: b[3],
		Columns:      binary.BigEndian.Uint16(b[4:6]),
		Lines:        binary.BigEndian.Uint16(b[6:8]),
		Compression:  b[8],
	}, nil
}

func decodeImageNavigation(b []byte, h RecordHeader) (Record, error) {
	if err := NeedLength(b, h, 51); err != nil {
		return nil, err
	}
	return ImageNavigationRecord{
		RecordHeader: h,
		Projection:   trimText(b[3:35]),
		CFAC:         int32(binary.BigEndian.Uint32(b[35:39])),
		LFAC:         int32(binary.BigEndian.Uint32(b[39:43])),
		COFF:         int32(binary.BigEndian.Uint32(b[43:47])),
		LOFF:         int32(binary.BigEndian.Uint32(b[47:51])),
	}, nil
}

func decodeText(b []byte, h RecordHeader) (Record, error) {
	return TextRecord{RecordHeader: h, Text: trimText(b[RecordPrefixLength:])}, nil
}

func decodeTimeStamp(b []byte, h RecordHeader) (Record, error) {
	if err := NeedLength(b, h, RecordPrefixLength+1+CdsTimeLength); err != nil {
		return nil, err
	}
	return TimeStampRecord{
		RecordHeader: h,
		PField:       b[3],
		Time:         DecodeCdsTime(b[4:10]),
	}, nil
}

func decodeKeyHeader(b []byte, h RecordHeader) (Record, error) {
	key := make([]byte, len(b)-RecordPrefixLength)
	copy(key, b[RecordPrefixLength:])
	return KeyHeaderRecord{RecordHeader: h, Key: key}, nil
}

func trimText(b []byte) string {
	return strings.TrimRight(string(b), "\x00 ")
}
