package l15

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jddeal/go-seviri/xrit"
)

func hrec(t xrit.RecordType, body []byte) []byte {
	b := make([]byte, 3, 3+len(body))
	b[0] = byte(t)
	binary.BigEndian.PutUint16(b[1:3], uint16(3+len(body)))
	return append(b, body...)
}

// frame assembles an HRIT file from its records and data field.
func frame(ft xrit.FileType, recs [][]byte, data []byte) []byte {
	headerLen := xrit.PrefixLength
	for _, r := range recs {
		headerLen += len(r)
	}
	out := make([]byte, xrit.PrefixLength)
	out[0] = byte(xrit.RecordPrimary)
	binary.BigEndian.PutUint16(out[1:3], xrit.PrefixLength)
	out[3] = byte(ft)
	binary.BigEndian.PutUint32(out[4:8], uint32(headerLen))
	binary.BigEndian.PutUint64(out[8:16], uint64(len(data))*8)
	for _, r := range recs {
		out = append(out, r...)
	}
	return append(out, data...)
}

// pack writes samples as a big endian bit stream of depth bits each.
func pack(samples []uint16, depth int) []byte {
	out := make([]byte, (len(samples)*depth+7)/8)
	bit := 0
	for _, s := range samples {
		for i := depth - 1; i >= 0; i-- {
			if s>>uint(i)&1 == 1 {
				out[bit/8] |= 0x80 >> uint(bit%8)
			}
			bit++
		}
	}
	return out
}

// fakeSegment describes a synthetic segment. Samples are produced in scan
// order: line south+r, column east+k.
type fakeSegment struct {
	channel     uint8
	satID       uint16
	seq         uint16
	south, east int
	nlin, ncol  int
	depth       int
	compression uint8
	value       func(line, col int) uint16
}

func (s fakeSegment) origin() int {
	if s.channel == ChannelHRV {
		return hrvOrigin
	}
	return visirOrigin
}

func (s fakeSegment) samples() []uint16 {
	out := make([]uint16, 0, s.nlin*s.ncol)
	for r := 0; r < s.nlin; r++ {
		for k := 0; k < s.ncol; k++ {
			out = append(out, s.value(s.south+r, s.east+k))
		}
	}
	return out
}

func (s fakeSegment) bytes() []byte {
	depth := s.depth
	if depth == 0 {
		depth = 10
	}

	structure := []byte{byte(depth), 0, 0, 0, 0, s.compression}
	binary.BigEndian.PutUint16(structure[1:3], uint16(s.ncol))
	binary.BigEndian.PutUint16(structure[3:5], uint16(s.nlin))

	nav := make([]byte, 48)
	copy(nav, "GEOS(+000.0)")
	scale := int32(-13642337)
	binary.BigEndian.PutUint32(nav[32:36], uint32(scale))
	binary.BigEndian.PutUint32(nav[36:40], uint32(scale))
	binary.BigEndian.PutUint32(nav[40:44], uint32(int32(s.origin()-s.east+1)))
	binary.BigEndian.PutUint32(nav[44:48], uint32(int32(s.origin()-s.south+1)))

	id := make([]byte, 10)
	binary.BigEndian.PutUint16(id[0:2], s.satID)
	id[2] = s.channel
	binary.BigEndian.PutUint16(id[3:5], s.seq)
	binary.BigEndian.PutUint16(id[5:7], 1)
	binary.BigEndian.PutUint16(id[7:9], 8)

	quality := make([]byte, 0, 13*s.nlin)
	for r := 0; r < s.nlin; r++ {
		e := make([]byte, 13)
		binary.BigEndian.PutUint32(e[0:4], uint32(s.south+r))
		binary.BigEndian.PutUint16(e[4:6], 17338)
		binary.BigEndian.PutUint32(e[6:10], uint32(43200000+100*(s.south+r)))
		e[10], e[11], e[12] = 3, 4, 4
		quality = append(quality, e...)
	}

	recs := [][]byte{
		hrec(xrit.RecordImageStructure, structure),
		hrec(xrit.RecordImageNavigation, nav),
		hrec(RecordSegmentIdentification, id),
		hrec(RecordSegmentLineQuality, quality),
	}
	return frame(xrit.FileImage, recs, pack(s.samples(), depth))
}

func writeFile(t *testing.T, dir, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func putF32(b []byte, off int, v float32) {
	binary.BigEndian.PutUint32(b[off:], math.Float32bits(v))
}

func putF64(b []byte, off int, v float64) {
	binary.BigEndian.PutUint64(b[off:], math.Float64bits(v))
}

func putCds(b []byte, off int, t xrit.CdsTime) {
	binary.BigEndian.PutUint16(b[off:], t.Days)
	binary.BigEndian.PutUint32(b[off+2:], t.Msec)
}

func putCoverage(b []byte, off int, c Coverage) {
	for i, v := range []int{c.South, c.North, c.East, c.West} {
		binary.BigEndian.PutUint32(b[off+4*i:], uint32(int32(v)))
	}
}
