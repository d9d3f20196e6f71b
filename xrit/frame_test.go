package xrit

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
)

func TestOpen(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	raw := buildFrame(FileImage, [][]byte{record(RecordAnnotation, []byte("H-000-MSG1"))}, data, 37)
	path := writeTemp(t, "segment", raw)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer f.Close()

	if f.Type != FileImage {
		t.Errorf("Type = %v, want image", f.Type)
	}
	if f.HeaderLen != PrefixLength+13 {
		t.Errorf("HeaderLen = %d", f.HeaderLen)
	}
	if f.DataBytes() != 5 {
		t.Errorf("DataBytes() = %d, want 5 (37 bits rounded up)", f.DataBytes())
	}

	hdr, err := f.ReadHeader()
	if err != nil {
		t.Fatalf("failed to read header: %v", err)
	}
	if !bytes.Equal(hdr, raw[:f.HeaderLen]) {
		t.Errorf("header mismatch")
	}

	got, err := f.ReadData()
	if err != nil {
		t.Fatalf("failed to read data: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadData() = %v, want %v", got, data)
	}

	if err := f.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestOpenBzip2(t *testing.T) {
	data := bytes.Repeat([]byte{0xab}, 1000)
	raw := buildFrame(FileImage, nil, data, 8000)

	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestSpeed})
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	w.Write(raw)
	w.Close()

	f, err := Open(writeTemp(t, "segment.bz2", buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer f.Close()

	got, err := f.ReadData()
	if err != nil {
		t.Fatalf("failed to read data: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("bzip2 data mismatch")
	}
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("err = %v, want ErrFileNotFound", err)
		}
	})

	t.Run("short prefix", func(t *testing.T) {
		_, err := Open(writeTemp(t, "short", []byte{0, 0, 16, 0}))
		if !errors.Is(err, ErrTruncatedFile) {
			t.Errorf("err = %v, want ErrTruncatedFile", err)
		}
	})

	t.Run("short data", func(t *testing.T) {
		raw := buildFrame(FileImage, nil, []byte{1, 2}, 64)
		f, err := Open(writeTemp(t, "short", raw))
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer f.Close()
		if _, err := f.ReadData(); !errors.Is(err, ErrTruncatedFile) {
			t.Errorf("err = %v, want ErrTruncatedFile", err)
		}
	})
}

func TestFrameExpect(t *testing.T) {
	f, err := NewFrame(bytes.NewReader(buildFrame(FileAlphanumeric, nil, nil, 0)), "text")
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	if err := f.Expect(FileAlphanumeric); err != nil {
		t.Errorf("Expect(alphanumeric) = %v", err)
	}
	if err := f.Expect(FileImage); !errors.Is(err, ErrNotAnImageFrame) {
		t.Errorf("Expect(image) = %v, want ErrNotAnImageFrame", err)
	}
	if err := f.Expect(FileType(128)); !errors.Is(err, ErrWrongFrameType) {
		t.Errorf("Expect(128) = %v, want ErrWrongFrameType", err)
	}
}
