package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/jddeal/go-seviri/l15"
	"github.com/jddeal/go-seviri/xrit"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

var cli struct {
	Args struct {
		Prologue string
		Epilogue string
	} `positional-args:"yes"`
	LogLevel    string `short:"l" long:"log-level" description:"logging level" choice:"error" choice:"info" choice:"debug" choice:"trace" default:"info"`
	Orbit       bool   `long:"orbit" description:"print the satellite position at the mean scan time (needs the epilogue)"`
	Calibration bool   `long:"calibration" description:"print the calibration table"`
	JSON        bool   `long:"json" description:"dump the decoded prologue and epilogue as JSON"`
	Segment     string `long:"segment" description:"also print the coverage of an image segment file"`
	CPUProfile  string `long:"cpu-profile" description:"write a CPU profile, inspect with go tool pprof"`
}

func main() {

	// parse the input args
	_, err := flags.Parse(&cli)
	if err != nil {
		os.Exit(1)
	}
	if cli.Args.Prologue == "" && cli.Segment == "" {
		fmt.Fprintln(os.Stderr, "nothing to do, give a prologue file or --segment")
		os.Exit(1)
	}

	// set the logging level
	errorLevels := map[string]logrus.Level{
		"error": logrus.ErrorLevel,
		"info":  logrus.InfoLevel,
		"debug": logrus.DebugLevel,
		"trace": logrus.TraceLevel,
	}
	logrus.SetLevel(errorLevels[cli.LogLevel])

	if cli.CPUProfile != "" {
		f, err := os.Create(cli.CPUProfile)
		if err != nil {
			logrus.Fatal(err)
		}
		pprof.StartCPUProfile(f)
	}

	err = run()
	if cli.CPUProfile != "" {
		pprof.StopCPUProfile()
	}
	if err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	if cli.Segment != "" {
		if err := showSegment(cli.Segment); err != nil {
			return err
		}
	}
	if cli.Args.Prologue == "" {
		return nil
	}

	logrus.Debug(color.CyanString("decoding %s", cli.Args.Prologue))
	pro, err := l15.ReadPrologue(cli.Args.Prologue)
	if err != nil {
		return err
	}

	var epi *l15.Epilogue
	if cli.Args.Epilogue != "" {
		epi, err = l15.ReadEpilogue(cli.Args.Epilogue)
		if err != nil {
			return err
		}
	}

	if cli.JSON {
		j, err := json.MarshalIndent(struct {
			Prologue *l15.Prologue `json:"prologue"`
			Epilogue *l15.Epilogue `json:"epilogue,omitempty"`
		}{pro, epi}, "", "  ")
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(j, '\n'))
		return err
	}

	showPrologue(pro)
	if cli.Calibration {
		showCalibration(pro)
	}
	if epi != nil {
		showEpilogue(epi)
	}
	if cli.Orbit {
		if epi == nil {
			return errors.New("--orbit needs the epilogue")
		}
		return showOrbit(pro, epi.MeanScanTime())
	}
	return nil
}

func showPrologue(pro *l15.Prologue) {
	def := pro.SatelliteStatus.Definition
	id := pro.ImageDescription
	fmt.Printf("satellite         %s (nominal longitude %.1f, status %d)\n", color.CyanString("%d", def.SatelliteID), def.NominalLongitude, def.Status)
	fmt.Printf("repeat cycle      %v\n", pro.PlannedAcquisition.TrueRepeatCycleStart)
	fmt.Printf("projection        type %d, ssp longitude %.2f\n", id.ProjectionType, id.LongitudeOfSSP)
	fmt.Printf("vis/ir grid       %dx%d (%.4f km)\n", id.ReferenceGridVisIR.Lines, id.ReferenceGridVisIR.Columns, id.ReferenceGridVisIR.LineStep)
	fmt.Printf("hrv grid          %dx%d (%.4f km)\n", id.ReferenceGridHRV.Lines, id.ReferenceGridHRV.Columns, id.ReferenceGridHRV.LineStep)
	fmt.Printf("planned coverage  %s\n", coverage(id.PlannedCoverageVisIR))
	em := pro.GeometricProcessing.EarthModel
	fmt.Printf("earth model       type %d, a=%.4f b=%.4f/%.4f km\n", em.Type, em.EquatorialRadius, em.NorthPolarRadius, em.SouthPolarRadius)
}

func showCalibration(pro *l15.Prologue) {
	for id := 1; id <= l15.NumChannels; id++ {
		cal := pro.Calibration(id)
		fmt.Printf("  %-7s slope %12.8f offset %12.8f\n", l15.ChannelName(id), cal.Slope, cal.Offset)
	}
}

func showEpilogue(epi *l15.Epilogue) {
	sc := epi.Scanning
	fmt.Printf("forward scan      %v - %v (nominal %v)\n", sc.ForwardScanStart, sc.ForwardScanEnd, sc.NominalImageScanning)
	fmt.Printf("actual coverage   %s\n", coverage(epi.ActualCoverageVisIR))
	for i := 0; i < l15.NumChannels; i++ {
		r := epi.Reception
		if r.Planned[i] == 0 {
			continue
		}
		fmt.Printf("  %-7s planned %5d missing %4d corrupted %4d replaced %4d nominal %v\n", l15.ChannelName(i+1),
			r.Planned[i], r.Missing[i], r.Corrupted[i], r.Replaced[i], epi.Validity[i].NominalImage)
	}
}

func showOrbit(pro *l15.Prologue, t xrit.CdsTime) error {
	x, y, z, err := pro.SatelliteStatus.Orbit.Position(t)
	if err != nil {
		return err
	}
	fmt.Printf("position at %v  x=%.3f y=%.3f z=%.3f km\n", t, x, y, z)
	return nil
}

func showSegment(path string) error {
	seg, err := l15.ReadSegment(path, nil)
	if err != nil {
		// compressed payloads still have a coverage
		c, cerr := l15.SegmentCoverage(path)
		if cerr != nil {
			return err
		}
		logrus.Warn(err)
		fmt.Printf("segment coverage  %s\n", coverage(c))
		return nil
	}
	fmt.Printf("segment %s #%d   %s, %d bits\n", color.CyanString(l15.ChannelName(int(seg.Identification.ChannelID))),
		seg.Identification.SequenceNumber, coverage(seg.Coverage), seg.Structure.BitsPerPixel)
	return nil
}

func coverage(c l15.Coverage) string {
	return fmt.Sprintf("lines %d-%d columns %d-%d", c.South, c.North, c.East, c.West)
}
