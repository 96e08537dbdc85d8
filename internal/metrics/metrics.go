// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skripsi"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	AuthFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "auth_failures_total", Help: "Rejected logins and tokens",
	})
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "events_published_total", Help: "Notification events sent to the broker",
	}, []string{"type", "result"})
	EventsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "events_consumed_total", Help: "Notification events read from the broker",
	}, []string{"result"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, AuthFailures, EventsPublished, EventsConsumed, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveRequest(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObservePublish(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(eventType, result).Inc()
}
