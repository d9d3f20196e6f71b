package xrit

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func record(t RecordType, body []byte) []byte {
	b := make([]byte, RecordPrefixLength, RecordPrefixLength+len(body))
	b[0] = byte(t)
	binary.BigEndian.PutUint16(b[1:3], uint16(RecordPrefixLength+len(body)))
	return append(b, body...)
}

func primary(ft FileType, headerLen uint32, dataBits uint64) []byte {
	body := make([]byte, 13)
	body[0] = byte(ft)
	binary.BigEndian.PutUint32(body[1:5], headerLen)
	binary.BigEndian.PutUint64(body[5:13], dataBits)
	return record(RecordPrimary, body)
}

// buildFrame assembles a primary header, the given records and a data field.
func buildFrame(ft FileType, recs [][]byte, data []byte, dataBits uint64) []byte {
	headerLen := PrefixLength
	for _, r := range recs {
		headerLen += len(r)
	}
	out := primary(ft, uint32(headerLen), dataBits)
	for _, r := range recs {
		out = append(out, r...)
	}
	return append(out, data...)
}

func writeTemp(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
