package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/jddeal/go-seviri/config"
	"github.com/jddeal/go-seviri/export"
	"github.com/jddeal/go-seviri/l15"
	"github.com/jddeal/go-seviri/scene"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string

	dir         string
	slot        string
	service     string
	region      string
	channels    []string
	configFile  string
	outDir      string
	format      string
	sun         bool
	view        bool
	geolocation bool
	workers     int
	timeout     time.Duration
	metricsFile string
	noProgress  bool
)

var errorLevels = map[string]logrus.Level{
	"error": logrus.ErrorLevel,
	"info":  logrus.InfoLevel,
	"debug": logrus.DebugLevel,
	"trace": logrus.TraceLevel,
}

func main() {
	root := &cobra.Command{
		Use:           "hrit-scene",
		Short:         "Build calibrated SEVIRI scenes from HRIT segment files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := errorLevels[logLevel]
			if !ok {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "logging level (error, info, debug, trace)")

	build := &cobra.Command{
		Use:   "build",
		Short: "Read one repeat cycle and write its channels and geometry",
		Long:  `Read one repeat cycle and write its channels and geometry.

Only uncompressed segment files are supported. Wavelet compressed
segments (as disseminated) have to be decompressed beforehand, they
are logged and left out otherwise.`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}
	f := build.Flags()
	f.StringVar(&dir, "dir", ".", "directory holding the HRIT files")
	f.StringVar(&slot, "time", "", "repeat cycle start, YYYYmmddHHMM")
	f.StringVar(&service, "service", l15.ServiceHRS, "hrs (or pzs) or rss")
	f.StringVar(&region, "region", "full", "region name from the config tables")
	f.StringSliceVar(&channels, "channels", nil, "channel names, all channels when empty")
	f.StringVar(&configFile, "config", "", "YAML or JSON tables overlaid on the built in ones")
	f.StringVar(&outDir, "out", ".", "output directory")
	f.StringVar(&format, "format", "tiff", "output format, tiff or pgm")
	f.BoolVar(&sun, "sun", false, "write solar zenith and azimuth")
	f.BoolVar(&view, "view", false, "write satellite zenith and azimuth")
	f.BoolVar(&geolocation, "geolocation", false, "write latitude and longitude")
	f.IntVar(&workers, "workers", 4, "segments decoded at once")
	f.DurationVar(&timeout, "timeout", 5*time.Minute, "give up on the build after this long, 0 for never")
	f.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
	f.BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	build.MarkFlagRequired("time")

	root.AddCommand(build)
	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	t, err := time.Parse("200601021504", slot)
	if err != nil {
		return fmt.Errorf("--time: %w", err)
	}

	tables := config.Defaults()
	if configFile != "" {
		if tables, err = config.Load(configFile); err != nil {
			return err
		}
	}

	ids := make([]int, 0, len(channels))
	for _, name := range channels {
		id, err := l15.ChannelID(name)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	sink, err := export.New(format, outDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	n := len(ids)
	if n == 0 {
		n = l15.NumChannels
	}
	bar := pb.New(n)
	bar.SetWriter(os.Stderr)
	if !noProgress {
		bar.Start()
	}

	metrics := scene.NewMetrics()
	s, err := scene.Build(context.Background(), scene.Options{
		Dir:         dir,
		Time:        t,
		Service:     service,
		Region:      region,
		Channels:    ids,
		Tables:      tables,
		Workers:     workers,
		Timeout:     timeout,
		Geolocation: geolocation,
		View:        view,
		Sun:         sun,
		Metrics:     metrics,
		OnChannel: func(img *l15.Image) {
			bar.Increment()
		},
	})
	if !noProgress {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	files, err := s.Write(sink)
	if err != nil {
		return err
	}
	for _, f := range files {
		logrus.Infof("wrote %s", color.CyanString(f))
	}

	if metricsFile != "" {
		if err := metrics.WriteFile(metricsFile); err != nil {
			return err
		}
	}
	return nil
}
