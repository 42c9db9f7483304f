// Package prometheus exports worker-pool execution events and stats
// snapshots as Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/renholt/go-worker-pool/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// Exporter adapts core.Metrics to Prometheus collectors.
type Exporter struct {
	taskDurationSeconds *prom.HistogramVec
	tasksFinishedTotal  *prom.CounterVec
	tasksRejectedTotal  *prom.CounterVec
	queueDepth          *prom.GaugeVec
}

var _ core.Metrics = (*Exporter)(nil)

// NewExporter creates and registers the collectors.
func NewExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*Exporter, error) {
	if namespace == "" {
		namespace = "workerpool"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"pool", "priority"})
	finishedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_finished_total",
		Help:      "Total terminal task transitions by state.",
	}, []string{"pool", "state"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_rejected_total",
		Help:      "Total submissions the pool refused.",
	}, []string{"pool", "reason"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current pending-queue depth.",
	}, []string{"pool"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if finishedVec, err = registerCollector(reg, finishedVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}

	return &Exporter{
		taskDurationSeconds: durationVec,
		tasksFinishedTotal:  finishedVec,
		tasksRejectedTotal:  rejectedVec,
		queueDepth:          queueDepthVec,
	}, nil
}

// RecordTaskDuration records task execution duration.
func (e *Exporter) RecordTaskDuration(pool string, priority core.Priority, d time.Duration) {
	if e == nil {
		return
	}
	e.taskDurationSeconds.WithLabelValues(normalizeLabel(pool, "unknown"), priority.String()).Observe(d.Seconds())
}

// RecordTaskFinished records one terminal transition.
func (e *Exporter) RecordTaskFinished(pool string, state core.State) {
	if e == nil {
		return
	}
	e.tasksFinishedTotal.WithLabelValues(normalizeLabel(pool, "unknown"), state.String()).Inc()
}

// RecordQueueDepth records the pending-queue depth.
func (e *Exporter) RecordQueueDepth(pool string, depth int) {
	if e == nil {
		return
	}
	e.queueDepth.WithLabelValues(normalizeLabel(pool, "unknown")).Set(float64(depth))
}

// RecordTaskRejected records one refused submission.
func (e *Exporter) RecordTaskRejected(pool string, reason string) {
	if e == nil {
		return
	}
	e.tasksRejectedTotal.WithLabelValues(normalizeLabel(pool, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

func normalizeLabel(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prom.AlreadyRegisteredError
	if errors.As(err, &already) {
		existing, ok := already.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
