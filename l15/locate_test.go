package l15

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var slot = time.Date(2006, 6, 21, 12, 0, 0, 0, time.UTC)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		channel int
	}{
		{"H-000-MSG2__-MSG2________-_________-PRO______-200606211200-__", "PRO", 0},
		{"H-000-MSG2__-MSG2________-_________-EPI______-200606211200-__", "EPI", 0},
		{"H-000-MSG2__-MSG2________-IR_108___-000001___-200606211200-C_", "000001", 9},
		{"/data/H-000-MSG1__-MSG1________-HRV______-000024___-200606211200-C_", "000024", 12},
	}
	for _, tt := range tests {
		tag, ch, err := ParseName(tt.name)
		if err != nil {
			t.Errorf("ParseName(%s) failed: %v", tt.name, err)
			continue
		}
		if tag != tt.tag || ch != tt.channel {
			t.Errorf("ParseName(%s) = %q, %d, want %q, %d", tt.name, tag, ch, tt.tag, tt.channel)
		}
	}

	if _, _, err := ParseName("H-000-MSG2"); err == nil {
		t.Errorf("short name accepted")
	}
	if _, _, err := ParseName("H-000-MSG2__-MSG2________-XX_999___-000001___-200606211200-C_"); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("unknown channel err = %v", err)
	}
}

func TestPattern(t *testing.T) {
	p, err := Pattern("/data", slot, "PZS")
	if err != nil || p != "/data/H-000-MSG*200606211200*" {
		t.Errorf("Pattern(pzs) = %q, %v", p, err)
	}
	p, err = Pattern("/data", slot.In(time.FixedZone("CEST", 7200)), ServiceRSS)
	if err != nil || p != "/data/H-000-MSG*RSS*200606211200*" {
		t.Errorf("Pattern(rss) = %q, %v", p, err)
	}
	if _, err := Pattern("/data", slot, "lrit"); !errors.Is(err, ErrUnknownService) {
		t.Errorf("err = %v, want ErrUnknownService", err)
	}
}

func TestListSegments(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"H-000-MSG2__-MSG2________-_________-PRO______-200606211200-__",
		"H-000-MSG2__-MSG2________-_________-EPI______-200606211200-__",
		"H-000-MSG2__-MSG2________-IR_108___-000002___-200606211200-C_",
		"H-000-MSG2__-MSG2________-IR_108___-000001___-200606211200-C_",
		"H-000-MSG2__-MSG2________-HRV______-000001___-200606211200-C_",
		"H-000-MSG2__-MSG2________-IR_108___-000001___-200606211215-C_",
		"H-000-MSG2__-MSG2_RSS____-IR_108___-000003___-200606211200-C_",
		"H-000-MSG2__-MSG2_RSS____-_________-PRO______-200606211200-__",
	)

	fs, err := ListSegments(dir, slot, ServiceHRS)
	if err != nil {
		t.Fatalf("ListSegments() failed: %v", err)
	}
	if filepath.Base(fs.Prologue) != "H-000-MSG2__-MSG2________-_________-PRO______-200606211200-__" {
		t.Errorf("prologue = %s", fs.Prologue)
	}
	ir := fs.Channel(9)
	if len(ir) != 2 || filepath.Base(ir[0]) != "H-000-MSG2__-MSG2________-IR_108___-000001___-200606211200-C_" {
		t.Errorf("ir_108 segments = %v", ir)
	}
	if len(fs.Channel(ChannelHRV)) != 1 || fs.Channel(1) != nil {
		t.Errorf("segments = %v", fs.Segments)
	}

	fs, err = ListSegments(dir, slot, ServiceRSS)
	if !errors.Is(err, ErrNoEpilogue) {
		t.Errorf("rss err = %v, want ErrNoEpilogue", err)
	}
	if fs == nil || len(fs.Channel(9)) != 1 || fs.Prologue == "" {
		t.Errorf("rss file set = %+v", fs)
	}

	if _, err := ListSegments(dir, slot.Add(time.Hour), ServiceHRS); !errors.Is(err, ErrNoPrologue) {
		t.Errorf("empty slot err = %v, want ErrNoPrologue", err)
	}
}
