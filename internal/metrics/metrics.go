// Package metrics counts import and export runs on a private prometheus
// registry and can dump it for the node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row outcomes.
const (
	OutcomeImported = "imported"
	OutcomeInvalid  = "invalid_dni"
	OutcomeDup      = "duplicate"
	OutcomeError    = "error"
)

type Recorder struct {
	reg *prometheus.Registry

	importRows *prometheus.CounterVec
	importRuns prometheus.Counter
	exportRuns *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		importRows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expedientes_import_rows_total",
			Help: "Import rows by outcome.",
		}, []string{"outcome"}),
		importRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "expedientes_import_runs_total",
			Help: "Completed import runs.",
		}),
		exportRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expedientes_export_runs_total",
			Help: "Export runs by status.",
		}, []string{"status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expedientes_operation_duration_seconds",
			Help:    "Duration of import, export and validation runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Methods on a nil *Recorder do nothing.
func (r *Recorder) ImportRow(outcome string) {
	if r == nil {
		return
	}
	r.importRows.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ImportRun(d time.Duration) {
	if r == nil {
		return
	}
	r.importRuns.Inc()
	r.duration.WithLabelValues("import").Observe(d.Seconds())
}

func (r *Recorder) ExportRun(ok bool, d time.Duration) {
	if r == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	r.exportRuns.WithLabelValues(status).Inc()
	r.duration.WithLabelValues("export").Observe(d.Seconds())
}

func (r *Recorder) Observe(op string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(op).Observe(d.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile writes the registry to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
