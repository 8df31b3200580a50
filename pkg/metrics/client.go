package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records backend call latency and realtime channel activity.
type ClientMetrics struct {
	callDuration  *prometheus.HistogramVec
	callFailure   *prometheus.CounterVec
	eventsApplied *prometheus.CounterVec
	emitsDropped  *prometheus.CounterVec
	syncRuns      *prometheus.CounterVec
}

// NewClientMetrics registers the client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	callDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_call_duration_seconds",
		Help:    "Duration of backend REST calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	callFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_call_failure",
		Help: "Failed backend REST calls by error code.",
	}, []string{"operation", "code"})
	eventsApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_applied",
		Help: "Realtime events applied to local stores.",
	}, []string{"event"})
	emitsDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_emits_dropped",
		Help: "Realtime emissions dropped because the channel was disconnected.",
	}, []string{"event"})
	syncRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_runs",
		Help: "Menu reconciler runs by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(callDuration, callFailure, eventsApplied, emitsDropped, syncRuns)
	return &ClientMetrics{
		callDuration:  callDuration,
		callFailure:   callFailure,
		eventsApplied: eventsApplied,
		emitsDropped:  emitsDropped,
		syncRuns:      syncRuns,
	}
}

// ObserveCall records the duration for the named backend operation.
func (c *ClientMetrics) ObserveCall(operation string, duration time.Duration) {
	if c == nil || c.callDuration == nil {
		return
	}
	c.callDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCallFailure increments the failure counter for the operation and code.
func (c *ClientMetrics) IncCallFailure(operation, code string) {
	if c == nil || c.callFailure == nil {
		return
	}
	c.callFailure.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// IncEventApplied increments the applied counter for the named event.
func (c *ClientMetrics) IncEventApplied(event string) {
	if c == nil || c.eventsApplied == nil {
		return
	}
	c.eventsApplied.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncEmitDropped increments the dropped counter for the named event.
func (c *ClientMetrics) IncEmitDropped(event string) {
	if c == nil || c.emitsDropped == nil {
		return
	}
	c.emitsDropped.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncSyncRun records a reconciler run outcome (applied, noop, failed).
func (c *ClientMetrics) IncSyncRun(outcome string) {
	if c == nil || c.syncRuns == nil {
		return
	}
	c.syncRuns.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
