package xrit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Frame is one HRIT file: the 16 byte primary header plus positioned access
// to the header and data fields that follow it (LRIT/HRIT 4.3.1).
type Frame struct {
	Name      string
	Type      FileType
	HeaderLen uint32 // total length of all header records in bytes
	DataLen   uint64 // length of the data field in bits

	r      io.ReaderAt
	closer io.Closer
}

// Open a frame from disk. Files ending in .bz2 are decompressed into memory first.
func Open(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, err
	}

	if !strings.HasSuffix(strings.ToLower(path), ".bz2") {
		f, err := NewFrame(file, path)
		if err != nil {
			file.Close()
			return nil, err
		}
		f.closer = file
		return f, nil
	}

	defer file.Close()
	bzipReader, err := bzip2.NewReader(file, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer bzipReader.Close()

	raw, err := io.ReadAll(bzipReader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("decompressed %s (%s)", path, color.CyanString(humanize.Bytes(uint64(len(raw)))))

	return NewFrame(bytes.NewReader(raw), path)
}

// NewFrame reads the primary header from r. name is only used in errors and logs.
func NewFrame(r io.ReaderAt, name string) (*Frame, error) {
	prefix := make([]byte, PrefixLength)
	if n, err := r.ReadAt(prefix, 0); n < PrefixLength {
		return nil, fmt.Errorf("%s: primary header (%d of %d bytes): %w", name, n, PrefixLength, truncated(err))
	}

	f := &Frame{
		Name:      name,
		Type:      FileType(prefix[3]),
		HeaderLen: binary.BigEndian.Uint32(prefix[4:8]),
		DataLen:   binary.BigEndian.Uint64(prefix[8:16]),
		r:         r,
	}

	logrus.Tracef("frame %s type=%s header=%s data=%s bits", name,
		color.CyanString("%s", f.Type),
		color.CyanString("%d", f.HeaderLen),
		color.CyanString("%d", f.DataLen))

	return f, nil
}

// DataBytes is the byte length of the data field; trailing partial bits round up.
func (f *Frame) DataBytes() uint64 {
	return (f.DataLen + 7) / 8
}

// Expect checks the frame is of type t.
func (f *Frame) Expect(t FileType) error {
	if f.Type == t {
		return nil
	}
	if t == FileImage {
		return fmt.Errorf("%s: type %d: %w", f.Name, f.Type, ErrNotAnImageFrame)
	}
	return fmt.Errorf("%s: type %d, want %d: %w", f.Name, f.Type, t, ErrWrongFrameType)
}

// ReadHeader returns all header records, starting with the primary header at offset 0.
func (f *Frame) ReadHeader() ([]byte, error) {
	return f.readAt(0, uint64(f.HeaderLen), "header")
}

// ReadData returns the data field which starts right after the header records.
func (f *Frame) ReadData() ([]byte, error) {
	return f.readAt(int64(f.HeaderLen), f.DataBytes(), "data")
}

func (f *Frame) readAt(off int64, size uint64, what string) ([]byte, error) {
	buf := make([]byte, size)
	n, err := f.r.ReadAt(buf, off)
	if uint64(n) < size {
		return nil, fmt.Errorf("%s: %s (%d of %d bytes): %w", f.Name, what, n, size, truncated(err))
	}
	logrus.Tracef("read %s %s (%s bytes)", f.Name, what, color.CyanString("%d", n))
	return buf, nil
}

// Close releases the underlying file, it is safe to call more than once.
func (f *Frame) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

func truncated(err error) error {
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncatedFile
	}
	return fmt.Errorf("%w: %v", ErrTruncatedFile, err)
}
