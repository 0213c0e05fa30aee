package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels shared by the sync metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// SyncMetrics records CRM call latencies and handled order events.
type SyncMetrics struct {
	callDuration *prometheus.HistogramVec
	calls        *prometheus.CounterVec
	events       *prometheus.CounterVec
}

// NewSyncMetrics registers the lead sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	callDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wtamocrm",
		Name:      "amocrm_call_duration_seconds",
		Help:      "Duration of AmoCRM API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wtamocrm",
		Name:      "amocrm_calls_total",
		Help:      "AmoCRM API calls by operation and result.",
	}, []string{"operation", "result"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wtamocrm",
		Name:      "order_events_total",
		Help:      "RadicalMart order events by kind and result.",
	}, []string{"kind", "result"})
	reg.MustRegister(callDuration, calls, events)
	return &SyncMetrics{
		callDuration: callDuration,
		calls:        calls,
		events:       events,
	}
}

// ObserveCall records one CRM call.
func (m *SyncMetrics) ObserveCall(operation string, duration time.Duration, err error) {
	if m == nil || m.calls == nil {
		return
	}
	op := normalizeLabel(operation)
	m.callDuration.WithLabelValues(op).Observe(duration.Seconds())
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.calls.WithLabelValues(op, result).Inc()
}

// IncEvent counts one handled order event.
func (m *SyncMetrics) IncEvent(kind, result string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(kind), normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
