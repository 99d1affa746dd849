package provisioning

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects run metrics for one CLI invocation. The zero value is not
// usable; a nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	phaseDuration   *prometheus.HistogramVec
	operationsTotal *prometheus.CounterVec
	resourceEvents  *prometheus.CounterVec
	changes         *prometheus.GaugeVec
}

// NewMetrics creates the run metrics in a dedicated registry labelled with
// the topology name.
func NewMetrics(topology string) *Metrics {
	constLabels := prometheus.Labels{"topology": topology}
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   "psclink",
				Subsystem:   "run",
				Name:        "phase_duration_seconds",
				Help:        "Duration of provisioning phases in seconds",
				Buckets:     prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
				ConstLabels: constLabels,
			},
			[]string{"phase", "result"},
		),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "psclink",
				Subsystem:   "engine",
				Name:        "operations_total",
				Help:        "Total number of engine operations by operation and result",
				ConstLabels: constLabels,
			},
			[]string{"operation", "result"},
		),
		resourceEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   "psclink",
				Subsystem:   "engine",
				Name:        "resource_events_total",
				Help:        "Total number of terminal resource events by phase and type",
				ConstLabels: constLabels,
			},
			[]string{"phase", "event"},
		),
		changes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   "psclink",
				Subsystem:   "engine",
				Name:        "resource_changes",
				Help:        "Resource changes reported by the last engine operation",
				ConstLabels: constLabels,
			},
			[]string{"operation", "change"},
		),
	}
	m.Registry.MustRegister(m.phaseDuration, m.operationsTotal, m.resourceEvents, m.changes)
	return m
}

// ObservePhase records the duration and result of a phase.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase, result(err)).Observe(d.Seconds())
}

// RecordOperation counts an engine operation.
func (m *Metrics) RecordOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, result(err)).Inc()
}

// RecordChanges stores the change summary of an engine operation.
func (m *Metrics) RecordChanges(res *OperationResult) {
	if m == nil || res == nil {
		return
	}
	for change, n := range res.Changes {
		m.changes.WithLabelValues(res.Operation, change).Set(float64(n))
	}
}

// RecordResourceEvent counts terminal resource events.
func (m *Metrics) RecordResourceEvent(e Event) {
	if m == nil || !e.Type.IsTerminal() {
		return
	}
	m.resourceEvents.WithLabelValues(e.Phase, string(e.Type)).Inc()
}

// WriteToTextfile writes the metrics in the text exposition format, for
// collection by the node exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
