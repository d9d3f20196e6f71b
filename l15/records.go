package l15

import (
	"encoding/binary"

	"github.com/jddeal/go-seviri/xrit"
)

// MSG specific header record types (HRIT 5.4)
const (
	RecordSegmentIdentification xrit.RecordType = 128
	RecordSegmentLineQuality    xrit.RecordType = 129

	lineQualityEntryLength = 13
)

// SegmentIdentificationRecord (type 128)
type SegmentIdentificationRecord struct {
	xrit.RecordHeader
	SatelliteID             uint16
	ChannelID               uint8
	SequenceNumber          uint16
	PlannedStartSequence    uint16
	PlannedEndSequence      uint16
	DataFieldRepresentation uint8
}

// SegmentLineQualityRecord (type 129) holds one entry per segment line in scan order.
type SegmentLineQualityRecord struct {
	xrit.RecordHeader
	Lines []LineInfo
}

// Records decodes generic and MSG specific header records.
var Records = xrit.Generic.With(xrit.DecoderTable{
	RecordSegmentIdentification: decodeSegmentIdentification,
	RecordSegmentLineQuality:    decodeSegmentLineQuality,
})

func decodeSegmentIdentification(b []byte, h xrit.RecordHeader) (xrit.Record, error) {
	if err := xrit.NeedLength(b, h, 13); err != nil {
		return nil, err
	}
	return SegmentIdentificationRecord{
		RecordHeader:            h,
		SatelliteID:             binary.BigEndian.Uint16(b[3:5]),
		ChannelID:               b[5],
		SequenceNumber:          binary.BigEndian.Uint16(b[6:8]),
		PlannedStartSequence:    binary.BigEndian.Uint16(b[8:10]),
		PlannedEndSequence:      binary.BigEndian.Uint16(b[10:12]),
		DataFieldRepresentation: b[12],
	}, nil
}

func decodeSegmentLineQuality(b []byte, h xrit.RecordHeader) (xrit.Record, error) {
	n := (len(b) - xrit.RecordPrefixLength) / lineQualityEntryLength
	lq := SegmentLineQualityRecord{RecordHeader: h, Lines: make([]LineInfo, n)}

	entry := b[xrit.RecordPrefixLength:]
	for i := range lq.Lines {
		lq.Lines[i] = LineInfo{
			NumberInGrid:       int32(binary.BigEndian.Uint32(entry[0:4])),
			AcquisitionTime:    xrit.DecodeCdsTime(entry[4:10]),
			Validity:           entry[10],
			RadiometricQuality: entry[11],
			GeometricQuality:   entry[12],
		}
		entry = entry[lineQualityEntryLength:]
	}
	return lq, nil
}
