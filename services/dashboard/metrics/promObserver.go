package metrics

import (
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "dashboard"

// promObserver exposes the ingestion and push channel events as Prometheus metrics on its own registry
type promObserver struct {
	registry         *prometheus.Registry
	snapshotsApplied prometheus.Counter
	snapshotsDropped *prometheus.CounterVec
	schemaGaps       prometheus.Counter
	channelLost      prometheus.Counter
	windowLength     prometheus.Gauge
	channelState     prometheus.Gauge
	redrawDuration   prometheus.Histogram
}

// NewPromObserver creates the collectors and registers them, together with the Go runtime collectors, on a new registry
func NewPromObserver(sessionName string) *promObserver {
	constLabels := prometheus.Labels{"session": sessionName}

	po := &promObserver{
		registry: prometheus.NewRegistry(),
		snapshotsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "snapshots_applied_total",
			Help:        "Telemetry snapshots appended to the series window.",
			ConstLabels: constLabels,
		}),
		snapshotsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "snapshots_dropped_total",
			Help:        "Telemetry messages that did not advance the series window.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		schemaGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "schema_gaps_total",
			Help:        "Schema metrics absent from a snapshot and recorded with the gap fill value.",
			ConstLabels: constLabels,
		}),
		channelLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "channel_lost_total",
			Help:        "Times the telemetry push channel was lost.",
			ConstLabels: constLabels,
		}),
		windowLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "window_length",
			Help:        "Points currently held by the series window.",
			ConstLabels: constLabels,
		}),
		channelState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "channel_state",
			Help:        "Push channel state: 0 connecting, 1 connected, 2 lost, 3 closed.",
			ConstLabels: constLabels,
		}),
		redrawDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "redraw_duration_seconds",
			Help:        "Time spent redrawing the chart after one snapshot.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	po.registry.MustRegister(
		po.snapshotsApplied,
		po.snapshotsDropped,
		po.schemaGaps,
		po.channelLost,
		po.windowLength,
		po.channelState,
		po.redrawDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return po
}

// SnapshotApplied -
func (po *promObserver) SnapshotApplied(windowLength int) {
	po.snapshotsApplied.Inc()
	po.windowLength.Set(float64(windowLength))
}

// SnapshotDropped -
func (po *promObserver) SnapshotDropped(reason string) {
	po.snapshotsDropped.WithLabelValues(reason).Inc()
}

// SchemaGap -
func (po *promObserver) SchemaGap(missing int) {
	po.schemaGaps.Add(float64(missing))
}

// RedrawDuration -
func (po *promObserver) RedrawDuration(duration time.Duration) {
	po.redrawDuration.Observe(duration.Seconds())
}

// ChannelStateChanged -
func (po *promObserver) ChannelStateChanged(state common.ChannelState) {
	po.channelState.Set(float64(state))
	if state == common.ChannelLost {
		po.channelLost.Inc()
	}
}

// Gatherer returns the registry holding the dashboard metrics
func (po *promObserver) Gatherer() prometheus.Gatherer {
	return po.registry
}

// IsInterfaceNil returns true if the value under the interface is nil
func (po *promObserver) IsInterfaceNil() bool {
	return po == nil
}
