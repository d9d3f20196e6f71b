// Package config holds the satellite and region description tables used to
// resolve channel constants and requested coverages.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jddeal/go-seviri/l15"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var (
	ErrUnknownSatellite = errors.New("unknown satellite")
	ErrUnknownRegion    = errors.New("unknown region")
	ErrUnknownFormat    = errors.New("unknown config format")
)

// Channel constants not carried in the prologue.
type Channel struct {
	ID      int     `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	LambdaC float64 `json:"lambda_c" yaml:"lambda_c"` // central wavelength, um
	NuC     float64 `json:"nu_c" yaml:"nu_c"`         // central wavenumber, cm-1
	F0      float64 `json:"f0" yaml:"f0"`             // band solar irradiance
	Alpha   float64 `json:"alpha" yaml:"alpha"`
	Beta    float64 `json:"beta" yaml:"beta"`
}

// Info converts the table entry into the constants Annotate needs.
func (c Channel) Info() l15.ChannelInfo {
	return l15.ChannelInfo{F0: c.F0, LambdaC: c.LambdaC, NuC: c.NuC, Alpha: c.Alpha, Beta: c.Beta}
}

// Satellite description
type Satellite struct {
	ID       uint16    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	LongName string    `json:"long_name" yaml:"long_name"`
	Channels []Channel `json:"channels" yaml:"channels"`
}

// Region is a named window in the VIS/IR reference grid, 1 based.
type Region struct {
	Name string `json:"name" yaml:"name"`
	Lin0 int    `json:"lin0" yaml:"lin0"`
	Col0 int    `json:"col0" yaml:"col0"`
	NLin int    `json:"nlin" yaml:"nlin"`
	NCol int    `json:"ncol" yaml:"ncol"`
}

// Coverage of the region in the VIS/IR grid.
func (r Region) Coverage() l15.Coverage {
	return l15.Coverage{
		South: r.Lin0,
		North: r.Lin0 + r.NLin - 1,
		East:  r.Col0,
		West:  r.Col0 + r.NCol - 1,
	}
}

// Tables is the whole configuration.
type Tables struct {
	Satellites []Satellite         `json:"satellites" yaml:"satellites"`
	Regions    map[string][]Region `json:"regions" yaml:"regions"` // keyed by service
}

// Satellite looks up a satellite by id.
func (t *Tables) Satellite(id uint16) (*Satellite, error) {
	for i := range t.Satellites {
		if t.Satellites[i].ID == id {
			return &t.Satellites[i], nil
		}
	}
	return nil, fmt.Errorf("satellite id %d: %w", id, ErrUnknownSatellite)
}

// Channel looks up the constants of a channel of a satellite.
func (t *Tables) Channel(satID uint16, chanID int) (*Channel, error) {
	sat, err := t.Satellite(satID)
	if err != nil {
		return nil, err
	}
	for i := range sat.Channels {
		if sat.Channels[i].ID == chanID {
			return &sat.Channels[i], nil
		}
	}
	return nil, fmt.Errorf("satellite %s channel %d: %w", sat.Name, chanID, l15.ErrUnknownChannel)
}

// Region looks up a region of a service, "pzs" is an alias of "hrs".
func (t *Tables) Region(service, name string) (Region, error) {
	svc := strings.ToLower(service)
	if svc == "pzs" {
		svc = l15.ServiceHRS
	}
	for _, r := range t.Regions[svc] {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("service %s region %s: %w", service, name, ErrUnknownRegion)
}

// merge overlays other onto t: satellites replace by id, regions by service and name.
func (t *Tables) merge(other *Tables) {
	for _, s := range other.Satellites {
		if existing, err := t.Satellite(s.ID); err == nil {
			*existing = s
		} else {
			t.Satellites = append(t.Satellites, s)
		}
	}
	if t.Regions == nil {
		t.Regions = map[string][]Region{}
	}
	for svc, regions := range other.Regions {
		svc = strings.ToLower(svc)
	next:
		for _, r := range regions {
			for i := range t.Regions[svc] {
				if strings.EqualFold(t.Regions[svc][i].Name, r.Name) {
					t.Regions[svc][i] = r
					continue next
				}
			}
			t.Regions[svc] = append(t.Regions[svc], r)
		}
	}
}

// Load reads a YAML (.yaml, .yml) or JSON (.json) file and overlays it on the defaults.
func Load(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file Tables
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	case ".json":
		err = json.Unmarshal(raw, &file)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := Defaults()
	t.merge(&file)
	logrus.Debugf("loaded %d satellites from %s", len(file.Satellites), path)
	return t, nil
}
