package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scene-preparation pipeline.
type Metrics struct {
	FilesDiscovered *prometheus.CounterVec // label: filetype={image,gridded}
	ScenesExtracted *prometheus.CounterVec // label: filetype={image,gridded}
	ExtractErrors   prometheus.Counter

	SceneWriteDuration prometheus.Histogram
	RunDuration        prometheus.Histogram
	RunActive          prometheus.Gauge
	ManifestEntries    prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesDiscovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scene_etl",
			Name:      "files_discovered_total",
			Help:      "Source files found in the data directory, by file type.",
		}, []string{"filetype"}),
		ScenesExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scene_etl",
			Name:      "scenes_extracted_total",
			Help:      "Scenes written to disk, by source file type.",
		}, []string{"filetype"}),
		ExtractErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scene_etl",
			Name:      "extract_errors_total",
			Help:      "Source files that failed extraction.",
		}),
		SceneWriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scene_etl",
			Name:      "scene_write_duration_seconds",
			Help:      "Time to write one scene file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scene_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete discover-extract-manifest run.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 60, 300},
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scene_etl",
			Name:      "run_active",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		ManifestEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scene_etl",
			Name:      "manifest_entries",
			Help:      "Scene ids recorded in the last written manifest.",
		}),
	}

	prometheus.MustRegister(
		m.FilesDiscovered,
		m.ScenesExtracted,
		m.ExtractErrors,
		m.SceneWriteDuration,
		m.RunDuration,
		m.RunActive,
		m.ManifestEntries,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesDiscovered:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scene_etl", Name: "files_discovered_total"}, []string{"filetype"}),
		ScenesExtracted:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "scene_etl", Name: "scenes_extracted_total"}, []string{"filetype"}),
		ExtractErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "scene_etl", Name: "extract_errors_total"}),
		SceneWriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "scene_etl", Name: "scene_write_duration_seconds"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "scene_etl", Name: "run_duration_seconds"}),
		RunActive:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "scene_etl", Name: "run_active"}),
		ManifestEntries:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "scene_etl", Name: "manifest_entries"}),
	}
}
