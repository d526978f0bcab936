// Package metrics exposes Prometheus metrics for document loading, linting
// and bundling. A Metrics value implements the observer interfaces of the
// parser, linter and bundler packages.
package metrics

import (
	"time"

	"github.com/jirutka/openapi-cli/bundler"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "openapi"

// Metrics holds the collectors of one process.
type Metrics struct {
	documentsLoaded *prometheus.CounterVec
	loadDuration    *prometheus.HistogramVec
	loadedBytes     prometheus.Counter
	entries         *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	findings        *prometheus.CounterVec
	relocations     *prometheus.CounterVec
}

var (
	_ parser.LoadObserver = (*Metrics)(nil)
	_ linter.Observer     = (*Metrics)(nil)
	_ bundler.Observer    = (*Metrics)(nil)
)

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		documentsLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "loader",
				Name:      "documents_total",
				Help:      "Documents fetched and parsed.",
			},
			[]string{"scheme", "result"}, // "file" or "http"; "success" or "error"
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "loader",
				Name:      "load_duration_seconds",
				Help:      "Time to fetch and parse one document in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"scheme"},
		),
		loadedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "loader",
				Name:      "bytes_total",
				Help:      "Bytes of document content parsed.",
			},
		),
		entries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_total",
				Help:      "Entry documents processed.",
			},
			[]string{"command", "result"}, // "lint" or "bundle"; "valid" or "invalid"
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Time to process one entry document in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
			},
			[]string{"command"},
		),
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "findings_total",
				Help:      "Findings reported.",
			},
			[]string{"command", "rule", "severity"},
		),
		relocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bundler",
				Name:      "relocations_total",
				Help:      "External targets copied into component slots.",
			},
			[]string{"section"},
		),
	}
}

// MustRegister registers the metrics with the given Prometheus registry.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(
		m.documentsLoaded,
		m.loadDuration,
		m.loadedBytes,
		m.entries,
		m.runDuration,
		m.findings,
		m.relocations,
	)
}

// ObserveLoad records one fetch-and-parse attempt.
func (m *Metrics) ObserveLoad(locator string, size int64, elapsed time.Duration, err error) {
	scheme := "file"
	if parser.IsURL(locator) {
		scheme = "http"
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.documentsLoaded.WithLabelValues(scheme, result).Inc()
	m.loadDuration.WithLabelValues(scheme).Observe(elapsed.Seconds())
	if err == nil && size > 0 {
		m.loadedBytes.Add(float64(size))
	}
}

// ObserveLint records the outcome of linting one entry.
func (m *Metrics) ObserveLint(r *linter.LintResult) {
	m.observeEntry("lint", r.Valid, r.Duration, r.Findings)
}

// ObserveBundle records the outcome of bundling one entry.
func (m *Metrics) ObserveBundle(r *bundler.BundleResult) {
	m.observeEntry("bundle", len(r.Findings) == 0, r.Duration, r.Findings)
	for _, rel := range r.Relocations {
		m.relocations.WithLabelValues(rel.Section).Inc()
	}
}

func (m *Metrics) observeEntry(command string, valid bool, d time.Duration, findings []linter.Finding) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	m.entries.WithLabelValues(command, result).Inc()
	m.runDuration.WithLabelValues(command).Observe(d.Seconds())
	for _, f := range findings {
		m.findings.WithLabelValues(command, f.Rule, f.Severity.String()).Inc()
	}
}

// WriteToTextfile writes everything gathered by g to path in the text
// exposition format, for the node_exporter textfile collector.
func WriteToTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
