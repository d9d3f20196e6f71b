package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jddeal/go-seviri/l15"
	"github.com/sirupsen/logrus"
)

// PGMSink writes binary (P5) 16 bit portable graymaps.
type PGMSink struct {
	Dir string
}

// ChannelMaxval is the PGM maxval of channel images, counts are 10 bit.
const ChannelMaxval = 1023

func (s *PGMSink) WriteChannel(meta Meta, img *l15.Image) (string, error) {
	out := path(s.Dir, meta, channelProduct(img), "pgm")
	comment := fmt.Sprintf("cal_slope=%.8f cal_offset=%.8f", img.CalSlope, img.CalOffset)
	return out, writePGM(out, comment, img.Columns, img.Lines, ChannelMaxval, func(i int) uint16 {
		return min(img.Counts[i], ChannelMaxval)
	})
}

func (s *PGMSink) WriteGrid(meta Meta, g *Grid) (string, error) {
	if err := g.check(); err != nil {
		return "", err
	}
	out := path(s.Dir, meta, g.Name, "pgm")
	comment := fmt.Sprintf("scale=%g offset=%g invalid=%d", GridScale, GridOffset, GridInvalid)
	return out, writePGM(out, comment, g.Columns, g.Lines, GridInvalid, func(i int) uint16 {
		return Encode(g.Values[i])
	})
}

func writePGM(path, comment string, width, height, maxval int, sample func(i int) uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	_, err = fmt.Fprintf(w, "P5\n# %s\n%d %d\n%d\n", comment, width, height, maxval)
	row := make([]byte, 2*width)
	for y := 0; y < height && err == nil; y++ {
		for x := 0; x < width; x++ {
			binary.BigEndian.PutUint16(row[2*x:], sample(y*width+x))
		}
		_, err = w.Write(row)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("wrote %s (%sx%s)", path, color.CyanString("%d", width), color.CyanString("%d", height))
	return nil
}
