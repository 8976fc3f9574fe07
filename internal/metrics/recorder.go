// Package metrics records per-run pipeline measurements in a private
// Prometheus registry and serialises them in the text exposition format.
package metrics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Recorder owns one registry per run so repeated runs in a process never
// collide on collector registration.
type Recorder struct {
	registry  *prometheus.Registry
	stages    *prometheus.HistogramVec
	scores    *prometheus.GaugeVec
	selected  *prometheus.GaugeVec
	artifacts *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	records   prometheus.Gauge
}

// NewRecorder builds a recorder whose series carry a constant run_id label.
func NewRecorder(runID string) *Recorder {
	constLabels := prometheus.Labels{"run_id": runID}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "hcroi",
			Name:        "stage_duration_seconds",
			Help:        "Wall time spent in each pipeline stage.",
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 8),
			ConstLabels: constLabels,
		}, []string{"stage"}),
		scores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "hcroi",
			Name:        "cv_r2",
			Help:        "Mean cross-validated R² per target and model.",
			ConstLabels: constLabels,
		}, []string{"target", "model"}),
		selected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "hcroi",
			Name:        "selected_model",
			Help:        "1 for the model selected for a target.",
			ConstLabels: constLabels,
		}, []string{"target", "model"}),
		artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hcroi",
			Name:        "artifacts_total",
			Help:        "Artifacts written, by format.",
			ConstLabels: constLabels,
		}, []string{"format"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hcroi",
			Name:        "artifact_bytes_total",
			Help:        "Artifact bytes written, by format.",
			ConstLabels: constLabels,
		}, []string{"format"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "hcroi",
			Name:        "state_records",
			Help:        "State records in the loaded table.",
			ConstLabels: constLabels,
		}),
	}
	r.registry.MustRegister(r.stages, r.scores, r.selected, r.artifacts, r.bytes, r.records)
	return r
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stages.WithLabelValues(stage).Observe(d.Seconds())
}

// SetScore records a candidate's mean cross-validated R².
func (r *Recorder) SetScore(target, model string, r2 float64) {
	r.scores.WithLabelValues(target, model).Set(r2)
}

// MarkSelected flags the model chosen for target.
func (r *Recorder) MarkSelected(target, model string) {
	r.selected.WithLabelValues(target, model).Set(1)
}

// AddArtifact counts one written artifact of size bytes.
func (r *Recorder) AddArtifact(format string, size int64) {
	r.artifacts.WithLabelValues(format).Inc()
	r.bytes.WithLabelValues(format).Add(float64(size))
}

// SetRecords records the state table size.
func (r *Recorder) SetRecords(n int) { r.records.Set(float64(n)) }

// Registry exposes the underlying registry for callers that gather directly.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Encode gathers every family and renders it in the Prometheus text format,
// suitable for a node-exporter textfile collector.
func (r *Recorder) Encode() ([]byte, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}
