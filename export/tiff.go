package export

import (
	"image"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/jddeal/go-seviri/l15"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/tiff"
)

// TIFFSink writes 16 bit grayscale TIFFs, each with a JSON sidecar.
type TIFFSink struct {
	Dir string
}

// ChannelSidecar is the JSON sidecar of a channel image.
type ChannelSidecar struct {
	Meta
	Channel    string         `json:"channel"`
	ChannelID  uint8          `json:"channel_id"`
	Spacecraft uint16         `json:"spacecraft_id"`
	Lines      int            `json:"lines"`
	Columns    int            `json:"columns"`
	Depth      int            `json:"depth"`
	Coverage   l15.Coverage   `json:"coverage"`
	CalSlope   float64        `json:"cal_slope"`
	CalOffset  float64        `json:"cal_offset"`
	ReflSlope  float64        `json:"refl_slope,omitempty"`
	ReflOffset float64        `json:"refl_offset,omitempty"`
	F0         float64        `json:"f0,omitempty"`
	LambdaC    float64        `json:"lambda_c"`
	NuC        float64        `json:"nu_c"`
	Alpha      float64        `json:"alpha"`
	Beta       float64        `json:"beta"`
	LineInfo   []l15.LineInfo `json:"line_info"`
}

// GridSidecar is the JSON sidecar of a geometry grid.
type GridSidecar struct {
	Meta
	Name    string  `json:"name"`
	Unit    string  `json:"unit,omitempty"`
	Lines   int     `json:"lines"`
	Columns int     `json:"columns"`
	Scale   float64 `json:"scale"`
	Offset  float64 `json:"offset"`
	Invalid uint16  `json:"invalid"`
}

func (s *TIFFSink) WriteChannel(meta Meta, img *l15.Image) (string, error) {
	g := image.NewGray16(image.Rect(0, 0, img.Columns, img.Lines))
	for r := 0; r < img.Lines; r++ {
		for c := 0; c < img.Columns; c++ {
			v := img.At(r, c)
			i := g.PixOffset(c, r)
			g.Pix[i] = uint8(v >> 8)
			g.Pix[i+1] = uint8(v)
		}
	}

	name := channelProduct(img)
	out := path(s.Dir, meta, name, "tif")
	if err := writeTIFF(out, g); err != nil {
		return "", err
	}

	side := ChannelSidecar{
		Meta:       meta,
		Channel:    name,
		ChannelID:  img.ChannelID,
		Spacecraft: img.SpacecraftID,
		Lines:      img.Lines,
		Columns:    img.Columns,
		Depth:      img.Depth,
		Coverage:   img.Coverage,
		CalSlope:   img.CalSlope,
		CalOffset:  img.CalOffset,
		ReflSlope:  img.ReflSlope,
		ReflOffset: img.ReflOffset,
		F0:         img.F0,
		LambdaC:    img.LambdaC,
		NuC:        img.NuC,
		Alpha:      img.Alpha,
		Beta:       img.Beta,
		LineInfo:   img.LineInfo,
	}
	return out, writeSidecar(out, side)
}

func (s *TIFFSink) WriteGrid(meta Meta, grid *Grid) (string, error) {
	if err := grid.check(); err != nil {
		return "", err
	}
	g := image.NewGray16(image.Rect(0, 0, grid.Columns, grid.Lines))
	for i, v := range grid.Values {
		raw := Encode(v)
		g.Pix[2*i] = uint8(raw >> 8)
		g.Pix[2*i+1] = uint8(raw)
	}

	out := path(s.Dir, meta, grid.Name, "tif")
	if err := writeTIFF(out, g); err != nil {
		return "", err
	}
	side := GridSidecar{
		Meta:    meta,
		Name:    grid.Name,
		Unit:    grid.Unit,
		Lines:   grid.Lines,
		Columns: grid.Columns,
		Scale:   GridScale,
		Offset:  GridOffset,
		Invalid: GridInvalid,
	}
	return out, writeSidecar(out, side)
}

func writeTIFF(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		logrus.Debugf("wrote %s (%s)", path, color.CyanString(humanize.Bytes(uint64(info.Size()))))
	}
	return nil
}

// SidecarPath is the JSON file written next to an image.
func SidecarPath(image string) string {
	return strings.TrimSuffix(image, ".tif") + ".json"
}

func writeSidecar(image string, v interface{}) error {
	j, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(SidecarPath(image), j, 0644)
}
