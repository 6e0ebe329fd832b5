// Package metrics instruments archival runs with Prometheus metrics.
//
// segvault is a single-shot tool driven by an external scheduler, so there
// is no HTTP listener: at the end of a run the registry is flushed to a
// .prom textfile for the node_exporter textfile collector to pick up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and all per-run metrics.
type Collector struct {
	registry *prometheus.Registry

	segmentsMigrated prometheus.Counter
	bytesArchived    prometheus.Counter
	aborts           *prometheus.CounterVec
	runDuration      prometheus.Gauge
	lastRunTime      prometheus.Gauge
	archiveUsed      prometheus.Gauge
}

// NewCollector creates a Collector with its own registry. namespace prefixes
// every metric name.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		segmentsMigrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_migrated_total",
			Help:      "Number of segment files migrated to the archive volume.",
		}),
		bytesArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_archived_total",
			Help:      "Total size of archived segment copies in bytes.",
		}),
		aborts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aborts_total",
			Help:      "Aborted runs by reason.",
		}, []string{"reason"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last archival run.",
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last archival run.",
		}),
		archiveUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "archive_volume_used_percent",
			Help:      "Used-space percentage of the archive volume after the run.",
		}),
	}

	registry.MustRegister(
		c.segmentsMigrated,
		c.bytesArchived,
		c.aborts,
		c.runDuration,
		c.lastRunTime,
		c.archiveUsed,
	)

	return c
}

// RecordMigrated counts one migrated segment of the given size.
func (c *Collector) RecordMigrated(bytes int64) {
	c.segmentsMigrated.Inc()
	c.bytesArchived.Add(float64(bytes))
}

// RecordAbort counts an aborted run under its reason.
func (c *Collector) RecordAbort(reason string) {
	c.aborts.WithLabelValues(reason).Inc()
}

// SetArchiveUsage records the archive volume's used-space percentage.
func (c *Collector) SetArchiveUsage(pct float64) {
	c.archiveUsed.Set(pct)
}

// ObserveRun records the run's duration and completion time.
func (c *Collector) ObserveRun(d time.Duration) {
	c.runDuration.Set(d.Seconds())
	c.lastRunTime.Set(float64(time.Now().Unix()))
}
