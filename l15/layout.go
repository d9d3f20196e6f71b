package l15

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jddeal/go-seviri/xrit"
)

// section is one top level record of a fixed layout metadata block.
type section struct {
	name   string
	length int
}

// field is a single entry of an offset table. off is relative to the start
// of its section and size is the number of bytes decode may touch.
type field[T any] struct {
	name    string
	section int
	off     int
	size    int
	decode  func(b []byte, v *T)
}

// layout is a fixed offset binary block: its sections, in order, and the
// fields decoded from them.
type layout[T any] struct {
	name     string
	sections []section
	fields   []field[T]
}

func (l *layout[T]) sectionOffset(i int) int {
	off := 0
	for _, s := range l.sections[:i] {
		off += s.length
	}
	return off
}

// Length is the total size of the block.
func (l *layout[T]) Length() int {
	return l.sectionOffset(len(l.sections))
}

// validate checks every field lies inside its section.
func (l *layout[T]) validate() error {
	for _, f := range l.fields {
		if f.section < 0 || f.section >= len(l.sections) {
			return fmt.Errorf("%s.%s: no section %d", l.name, f.name, f.section)
		}
		s := l.sections[f.section]
		if f.off < 0 || f.size <= 0 || f.off+f.size > s.length {
			return fmt.Errorf("%s.%s: bytes %d-%d outside %s (%d bytes)", l.name, f.name, f.off, f.off+f.size, s.name, s.length)
		}
	}
	return nil
}

// decode runs every field decoder over data, which must hold the whole block.
func (l *layout[T]) decode(data []byte, v *T) error {
	if len(data) < l.Length() {
		return fmt.Errorf("%s is %d bytes, need %d: %w", l.name, len(data), l.Length(), xrit.ErrTruncatedFile)
	}
	for _, f := range l.fields {
		off := l.sectionOffset(f.section) + f.off
		f.decode(data[off:off+f.size], v)
	}
	return nil
}

func be16(b []byte, off int) uint16 { return binary.BigEndian.Uint16(b[off:]) }
func be32(b []byte, off int) uint32 { return binary.BigEndian.Uint32(b[off:]) }
func i32(b []byte, off int) int32   { return int32(binary.BigEndian.Uint32(b[off:])) }

func f32(b []byte, off int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[off:]))
}

func f64(b []byte, off int) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b[off:]))
}

func f64s(b []byte, off int, dst []float64) {
	for i := range dst {
		dst[i] = f64(b, off+8*i)
	}
}

func cds(b []byte, off int) xrit.CdsTime {
	return xrit.DecodeCdsTime(b[off : off+xrit.CdsTimeLength])
}

// coverage reads four signed 32 bit bounds in south, north, east, west order.
func coverage(b []byte, off int, channel string) Coverage {
	return Coverage{
		Channel: channel,
		South:   int(i32(b, off)),
		North:   int(i32(b, off+4)),
		East:    int(i32(b, off+8)),
		West:    int(i32(b, off+12)),
	}
}
