// Package telemetry records request metrics for Prometheus scraping.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "huddle",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "huddle",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	messagesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "huddle",
		Name:      "messages_delivered_total",
		Help:      "Messages delivered to container logs, deferred and standup included.",
	})

	snapshotsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "huddle",
		Name:      "snapshots_saved_total",
		Help:      "Workspace snapshots written to disk.",
	})
)

// CountMessageDelivered bumps the delivery counter.
func CountMessageDelivered() { messagesDelivered.Inc() }

// CountSnapshotSaved bumps the snapshot counter.
func CountSnapshotSaved() { snapshotsSaved.Inc() }

// RouteFunc maps a request to its route template so metrics do not explode
// per-id. Wired to mux.CurrentRoute by the app.
type RouteFunc func(r *http.Request) string

// Middleware records request count and latency for every handled request.
func Middleware(route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(srw, r)

			rt := r.URL.Path
			if route != nil {
				if t := route(r); t != "" {
					rt = t
				}
			}
			requestsTotal.WithLabelValues(r.Method, rt, strconv.Itoa(srw.status)).Inc()
			requestDuration.WithLabelValues(rt).Observe(time.Since(start).Seconds())
		})
	}
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
