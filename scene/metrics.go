package scene

import (
	"github.com/jddeal/go-seviri/l15"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the work done by Build. Each Metrics has its own registry so
// it can be written as a node exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	segmentsTotal *prometheus.CounterVec
	linesTotal    *prometheus.CounterVec
	bytesTotal    prometheus.Counter
	buildSeconds  prometheus.Gauge
	lastScan      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		segmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seviri_segments_total",
				Help: "Segment files handled, by channel and result.",
			},
			[]string{"channel", "result"},
		),
		linesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seviri_lines_mapped_total",
				Help: "Image lines copied from segments into scenes.",
			},
			[]string{"channel"},
		),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seviri_segment_bytes_total",
			Help: "Bytes of segment payload read.",
		}),
		buildSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seviri_scene_build_seconds",
			Help: "Duration of the last scene build.",
		}),
		lastScan: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seviri_scene_scan_time_seconds",
			Help: "Mean scan time of the last scene built, unix seconds.",
		}),
	}
	m.registry.MustRegister(m.segmentsTotal, m.linesTotal, m.bytesTotal, m.buildSeconds, m.lastScan)
	return m
}

// Registry exposes the collectors, eg to serve or gather them.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) segment(channel string, res l15.SegmentResult) {
	if m == nil {
		return
	}
	result := "read"
	switch {
	case res.Err != nil:
		result = "failed"
	case res.Skipped:
		result = "skipped"
	}
	m.segmentsTotal.WithLabelValues(channel, result).Inc()
	if result == "read" {
		m.linesTotal.WithLabelValues(channel).Add(float64(res.Lines))
		m.bytesTotal.Add(float64(res.Bytes))
	}
}

// WriteFile writes the metrics in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
