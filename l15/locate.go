package l15

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Services disseminating SEVIRI HRIT data
const (
	ServiceHRS = "hrs" // full disk high rate service, also "pzs"
	ServiceRSS = "rss" // rapid scan service

	channelOffset = 26
	segmentOffset = 36
	tagLength     = 6
)

// FileSet groups the files of one repeat cycle.
type FileSet struct {
	Prologue string
	Epilogue string
	// Segments holds segment files per channel id, sorted by name
	Segments map[int][]string
}

// Channel returns the segment files of a channel, nil when there are none.
func (fs *FileSet) Channel(id int) []string {
	return fs.Segments[id]
}

// ParseName classifies an HRIT file name. It returns "PRO", "EPI" or the
// channel id for image segments.
func ParseName(path string) (tag string, channel int, err error) {
	base := filepath.Base(path)
	if len(base) < segmentOffset+3 {
		return "", 0, fmt.Errorf("%s: name too short", base)
	}

	seg := base[segmentOffset:min(len(base), segmentOffset+tagLength)]
	switch {
	case strings.HasPrefix(strings.ToUpper(seg), "PRO"):
		return "PRO", 0, nil
	case strings.HasPrefix(strings.ToUpper(seg), "EPI"):
		return "EPI", 0, nil
	}

	id, err := ChannelID(base[channelOffset : channelOffset+tagLength])
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", base, err)
	}
	return strings.TrimRight(seg, "_"), id, nil
}

// Pattern is the glob matching the files of service at t in dir.
func Pattern(dir string, t time.Time, service string) (string, error) {
	ts := t.UTC().Format("200601021504")
	switch strings.ToLower(service) {
	case ServiceHRS, "pzs":
		return filepath.Join(dir, "H-000-MSG*"+ts+"*"), nil
	case ServiceRSS:
		return filepath.Join(dir, "H-000-MSG*RSS*"+ts+"*"), nil
	}
	return "", fmt.Errorf("%q: %w", service, ErrUnknownService)
}

// ListSegments finds the prologue, epilogue and image segments of a repeat cycle.
func ListSegments(dir string, t time.Time, service string) (*FileSet, error) {
	pattern, err := Pattern(dir, t, service)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	rss := strings.EqualFold(service, ServiceRSS)
	fs := &FileSet{Segments: map[int][]string{}}
	for _, path := range matches {
		base := filepath.Base(path)
		// the full disk pattern matches rapid scan files as well
		if !rss && strings.Contains(base, "RSS") {
			continue
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}

		tag, id, err := ParseName(path)
		if err != nil {
			logrus.Debugf("ignoring %s: %v", path, err)
			continue
		}
		switch tag {
		case "PRO":
			fs.Prologue = path
		case "EPI":
			fs.Epilogue = path
		default:
			fs.Segments[id] = append(fs.Segments[id], path)
		}
	}

	logrus.Debugf("found %s files matching %s", color.CyanString("%d", len(matches)), pattern)
	if fs.Prologue == "" {
		return fs, fmt.Errorf("%s: %w", pattern, ErrNoPrologue)
	}
	if fs.Epilogue == "" {
		return fs, fmt.Errorf("%s: %w", pattern, ErrNoEpilogue)
	}
	return fs, nil
}
