package service

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/here-event-os/pkg/tabular"
)

// MetricsSnapshot is the aggregated view served by the metrics summary endpoint.
type MetricsSnapshot struct {
	Requests           uint64            `json:"requests"`
	AvgRequestMs       float64           `json:"avg_request_ms"`
	StoreOperations    uint64            `json:"store_operations"`
	StoreFailures      uint64            `json:"store_failures"`
	AvgStoreMs         float64           `json:"avg_store_ms"`
	Decisions          map[string]uint64 `json:"decisions"`
	NotificationsSent  uint64            `json:"notifications_sent"`
	NotificationsError uint64            `json:"notifications_failed"`
	Goroutines         int               `json:"goroutines"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	decisions       *prometheus.CounterVec
	notifications   *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	storeCount           uint64
	storeFailures        uint64
	storeDurationTotal   uint64
	approvals            uint64
	rejections           uint64
	notifySent           uint64
	notifyFailed         uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tabular_store_operation_seconds",
		Help:    "Duration of tabular store calls",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"op", "table", "result"})

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_decisions_total",
		Help: "Decisions written to approval queues",
	}, []string{"queue", "decision"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Best-effort notifications by outcome",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeDuration, decisions, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeDuration:   storeDuration,
		decisions:       decisions,
		notifications:   notifications,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveStoreOperation implements tabular.Observer.
func (m *MetricsService) ObserveStoreOperation(op, table string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := storeResult(err)
	m.storeDuration.WithLabelValues(op, table, result).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeCount, 1)
	atomic.AddUint64(&m.storeDurationTotal, uint64(duration.Nanoseconds()))
	if err != nil {
		atomic.AddUint64(&m.storeFailures, 1)
	}
}

func storeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, tabular.ErrTableNotFound):
		return "not_found"
	case errors.Is(err, tabular.ErrOutOfRange):
		return "out_of_range"
	default:
		return "unavailable"
	}
}

// RecordDecision counts an approve or reject written to a queue.
func (m *MetricsService) RecordDecision(queue, decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(queue, decision).Inc()
	switch decision {
	case DecisionApprove:
		atomic.AddUint64(&m.approvals, 1)
	case DecisionReject:
		atomic.AddUint64(&m.rejections, 1)
	}
}

// RecordNotification counts a notification hand-off.
func (m *MetricsService) RecordNotification(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.notifications.WithLabelValues("sent").Inc()
		atomic.AddUint64(&m.notifySent, 1)
		return
	}
	m.notifications.WithLabelValues("failed").Inc()
	atomic.AddUint64(&m.notifyFailed, 1)
}

// Snapshot returns aggregated metrics suitable for the summary endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	storeCount := atomic.LoadUint64(&m.storeCount)
	storeDuration := atomic.LoadUint64(&m.storeDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}
	var avgStoreMs float64
	if storeCount > 0 {
		avgStoreMs = float64(storeDuration) / float64(storeCount) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		Requests:        requests,
		AvgRequestMs:    avgRequestMs,
		StoreOperations: storeCount,
		StoreFailures:   atomic.LoadUint64(&m.storeFailures),
		AvgStoreMs:      avgStoreMs,
		Decisions: map[string]uint64{
			DecisionApprove: atomic.LoadUint64(&m.approvals),
			DecisionReject:  atomic.LoadUint64(&m.rejections),
		},
		NotificationsSent:  atomic.LoadUint64(&m.notifySent),
		NotificationsError: atomic.LoadUint64(&m.notifyFailed),
		Goroutines:         runtime.NumGoroutine(),
	}
}
