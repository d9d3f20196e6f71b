// Package scene builds calibrated, geolocated multi channel scenes from the
// HRIT files of one repeat cycle.
package scene

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jddeal/go-seviri/config"
	"github.com/jddeal/go-seviri/export"
	"github.com/jddeal/go-seviri/l15"
	"github.com/jddeal/go-seviri/xrit"
	"github.com/sirupsen/logrus"
)

// Options of a scene build.
type Options struct {
	Dir      string
	Time     time.Time
	Service  string // "hrs" (or "pzs") and "rss"
	Region   string
	Channels []int // channel ids, all channels when empty

	Tables       *config.Tables // config.Defaults() when nil
	Decompressor l15.Decompressor
	Workers      int
	Timeout      time.Duration

	Geolocation bool // lat/lon grids
	View        bool // satellite zenith and azimuth
	Sun         bool // solar zenith and azimuth

	Metrics *Metrics
	// OnChannel is called after each channel has been read
	OnChannel func(img *l15.Image)
}

// Scene is one repeat cycle of a region.
type Scene struct {
	Meta      export.Meta
	Prologue  *l15.Prologue
	Epilogue  *l15.Epilogue
	Satellite *config.Satellite
	Coverage  l15.Coverage

	// Channels in the requested order
	Channels []*l15.Image

	// LineTimes of the first channel, one per row, zero where a line is missing
	LineTimes []xrit.CdsTime

	// geometry on the grid of the first channel, degrees, NaN off earth
	Lat, Lon              []float64
	SatZenith, SatAzimuth []float64
	SunZenith, SunAzimuth []float64
}

// Build locates, decodes and merges the requested channels and derives
// the requested geometry.
func Build(ctx context.Context, opts Options) (*Scene, error) {
	start := time.Now()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if opts.Tables == nil {
		opts.Tables = config.Defaults()
	}
	channels := opts.Channels
	if len(channels) == 0 {
		for id := 1; id <= l15.NumChannels; id++ {
			channels = append(channels, id)
		}
	}

	fs, err := l15.ListSegments(opts.Dir, opts.Time, opts.Service)
	if err != nil {
		return nil, err
	}
	pro, err := l15.ReadPrologue(fs.Prologue)
	if err != nil {
		return nil, err
	}
	epi, err := l15.ReadEpilogue(fs.Epilogue)
	if err != nil {
		return nil, err
	}

	satID := pro.SatelliteStatus.Definition.SatelliteID
	sat, err := opts.Tables.Satellite(satID)
	if err != nil {
		return nil, err
	}
	region, err := opts.Tables.Region(opts.Service, opts.Region)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Meta: export.Meta{
			Satellite: sat.Name,
			Time:      opts.Time,
			Service:   strings.ToLower(opts.Service),
			Region:    region.Name,
		},
		Prologue:  pro,
		Epilogue:  epi,
		Satellite: sat,
		Coverage:  region.Coverage(),
	}
	logrus.Infof("building %s %s region %s (%dx%d)", color.CyanString(sat.Name),
		opts.Time.UTC().Format("2006-01-02 15:04"), color.CyanString(region.Name), region.NLin, region.NCol)

	for _, id := range channels {
		img, err := s.readChannel(ctx, opts, fs, id)
		if err != nil {
			return nil, err
		}
		s.Channels = append(s.Channels, img)
		if opts.OnChannel != nil {
			opts.OnChannel(img)
		}
	}

	if len(s.Channels) > 0 {
		first := s.Channels[0]
		s.LineTimes = make([]xrit.CdsTime, first.Lines)
		for r, li := range first.LineInfo {
			s.LineTimes[r] = li.AcquisitionTime
		}
		if opts.Geolocation || opts.View || opts.Sun {
			if err := s.geometry(ctx, opts); err != nil {
				return nil, err
			}
		}
	}

	if opts.Metrics != nil {
		opts.Metrics.buildSeconds.Set(time.Since(start).Seconds())
		opts.Metrics.lastScan.Set(float64(epi.MeanScanTime().Unix()))
	}
	return s, nil
}

func (s *Scene) readChannel(ctx context.Context, opts Options, fs *l15.FileSet, id int) (*l15.Image, error) {
	name := l15.ChannelName(id)
	if name == "" {
		return nil, fmt.Errorf("channel id %d: %w", id, l15.ErrUnknownChannel)
	}
	ch, err := opts.Tables.Channel(s.Satellite.ID, id)
	if err != nil {
		return nil, err
	}

	cov := s.Coverage
	cov.Channel = name
	if id == l15.ChannelHRV {
		cov = l15.VisIRToHRV(s.Coverage)
	}

	files := fs.Channel(id)
	if len(files) == 0 {
		logrus.Warnf("no %s segments in %s", name, opts.Dir)
	}

	r := &l15.Reader{
		Decompressor: opts.Decompressor,
		Workers:      opts.Workers,
		OnSegment: func(res l15.SegmentResult) {
			opts.Metrics.segment(name, res)
		},
	}
	img, err := r.ReadImage(ctx, files, &cov)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	img.ChannelID = uint8(id)
	l15.Annotate(img, s.Prologue, ch.Info())

	logrus.Infof("read %s from %s segments", color.CyanString(name), color.CyanString("%d", len(files)))
	return img, nil
}
