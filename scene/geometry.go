package scene

import (
	"context"
	"math"

	"github.com/jddeal/go-seviri/export"
	"github.com/jddeal/go-seviri/geos"
	"github.com/jddeal/go-seviri/l15"
	"github.com/jddeal/go-seviri/sunpos"
	"github.com/jddeal/go-seviri/xrit"
	"github.com/sirupsen/logrus"
)

const rad2deg = 180 / math.Pi

// Projection of a coverage using the earth model of the prologue when it has one.
func Projection(pro *l15.Prologue, cov l15.Coverage, hrv bool) *geos.Param {
	p := geos.FromCoverage(cov.North, cov.West, hrv)
	em := pro.GeometricProcessing.EarthModel
	if em.EquatorialRadius > 0 && em.NorthPolarRadius > 0 && em.SouthPolarRadius > 0 {
		b := (em.NorthPolarRadius + em.SouthPolarRadius) / 2
		p = geos.NewEllipsoid(em.EquatorialRadius, b, p.X0, p.DX, p.Y0, p.DY)
	}
	return p
}

func zenith(mu float64) float64 {
	return math.Acos(math.Max(-1, math.Min(1, mu))) * rad2deg
}

func nanGrid(n int) []float64 {
	g := make([]float64, n)
	for i := range g {
		g[i] = geos.Invalid
	}
	return g
}

func (s *Scene) geometry(ctx context.Context, opts Options) error {
	ref := s.Channels[0]
	n := ref.Lines * ref.Columns
	p := Projection(s.Prologue, ref.Coverage, ref.ChannelID == l15.ChannelHRV)

	lat := make([]float64, n)
	lon := make([]float64, n)
	p.Grid(float64(s.Prologue.ImageDescription.LongitudeOfSSP), ref.Lines, ref.Columns, lat, lon)
	if opts.Geolocation {
		s.Lat, s.Lon = lat, lon
	}

	if opts.View {
		sslon := float64(s.Prologue.SatelliteStatus.Definition.NominalLongitude)
		s.SatZenith = make([]float64, n)
		s.SatAzimuth = make([]float64, n)
		for i := range lat {
			mu, az := p.ViewingAngles(sslon, lat[i], lon[i])
			s.SatZenith[i], s.SatAzimuth[i] = zenith(mu), az
		}
	}

	if opts.Sun {
		s.SunZenith = nanGrid(n)
		s.SunAzimuth = nanGrid(n)
		missing := 0
		for r := 0; r < ref.Lines; r++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := s.LineTimes[r]
			if t.Days == 0 {
				missing++
				continue
			}
			e := sunpos.At(t.JulianDate(xrit.EpochJ2000))
			for c := 0; c < ref.Columns; c++ {
				i := r*ref.Columns + c
				mu0, az := e.Angles(lat[i], lon[i])
				s.SunZenith[i], s.SunAzimuth[i] = zenith(mu0), az
			}
		}
		if missing > 0 {
			logrus.Debugf("%d lines without acquisition time have no sun angles", missing)
		}
	}
	return nil
}

// Grids returns the geometry products that were computed.
func (s *Scene) Grids() []*export.Grid {
	var grids []*export.Grid
	if len(s.Channels) == 0 {
		return nil
	}
	ref := s.Channels[0]
	add := func(name string, v []float64) {
		if v != nil {
			grids = append(grids, &export.Grid{Name: name, Unit: "degrees", Lines: ref.Lines, Columns: ref.Columns, Values: v})
		}
	}
	add("lat", s.Lat)
	add("lon", s.Lon)
	add("satz", s.SatZenith)
	add("sata", s.SatAzimuth)
	add("sunz", s.SunZenith)
	add("suna", s.SunAzimuth)
	return grids
}

// Write passes every channel and grid to sink and returns the files written.
func (s *Scene) Write(sink export.Sink) ([]string, error) {
	var files []string
	for _, img := range s.Channels {
		f, err := sink.WriteChannel(s.Meta, img)
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	for _, g := range s.Grids() {
		f, err := sink.WriteGrid(s.Meta, g)
		if err != nil {
			return files, err
		}
		files = append(files, f)
	}
	return files, nil
}
