// Package export writes scene products to disk.
package export

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/jddeal/go-seviri/l15"
)

// Grid encoding: raw = round((value - GridOffset) / GridScale), GridInvalid for NaN.
const (
	GridScale   = 0.01
	GridOffset  = -180.0
	GridInvalid = math.MaxUint16
)

var (
	ErrShape         = errors.New("product shape mismatch")
	ErrUnknownFormat = errors.New("unknown output format")
)

// Meta identifies the scene a product belongs to.
type Meta struct {
	Satellite string    `json:"satellite"`
	Time      time.Time `json:"time"`
	Service   string    `json:"service"`
	Region    string    `json:"region"`
}

// FileName is <sat>-sevi-<YYYYmmddHHMM>-l15-<service>-<region>-<product>.<ext>
func (m Meta) FileName(product, ext string) string {
	return fmt.Sprintf("%s-sevi-%s-l15-%s-%s-%s.%s",
		strings.ToLower(m.Satellite), m.Time.UTC().Format("200601021504"),
		strings.ToLower(m.Service), strings.ToLower(m.Region), strings.ToLower(product), ext)
}

// Grid is a lines x columns field of float values in row major order, row 0 north.
type Grid struct {
	Name    string
	Unit    string
	Lines   int
	Columns int
	Values  []float64
}

func (g *Grid) check() error {
	if g.Lines*g.Columns != len(g.Values) || g.Lines <= 0 || g.Columns <= 0 {
		return fmt.Errorf("%s: %dx%d with %d values: %w", g.Name, g.Lines, g.Columns, len(g.Values), ErrShape)
	}
	return nil
}

// Encode scales a value to its 16 bit representation.
func Encode(v float64) uint16 {
	if math.IsNaN(v) {
		return GridInvalid
	}
	raw := math.Round((v - GridOffset) / GridScale)
	if raw < 0 {
		return 0
	}
	if raw >= GridInvalid {
		return GridInvalid - 1
	}
	return uint16(raw)
}

// Decode is the inverse of Encode.
func Decode(raw uint16) float64 {
	if raw == GridInvalid {
		return math.NaN()
	}
	return float64(raw)*GridScale + GridOffset
}

// Sink receives the products of a scene.
type Sink interface {
	WriteChannel(meta Meta, img *l15.Image) (string, error)
	WriteGrid(meta Meta, g *Grid) (string, error)
}

// New returns the sink for a format name, "tiff" or "pgm".
func New(format, dir string) (Sink, error) {
	switch strings.ToLower(format) {
	case "tiff", "tif":
		return &TIFFSink{Dir: dir}, nil
	case "pgm":
		return &PGMSink{Dir: dir}, nil
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

func channelProduct(img *l15.Image) string {
	if name := l15.ChannelName(int(img.ChannelID)); name != "" {
		return name
	}
	return fmt.Sprintf("ch%02d", img.ChannelID)
}

func path(dir string, meta Meta, product, ext string) string {
	return filepath.Join(dir, meta.FileName(product, ext))
}
