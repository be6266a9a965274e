package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docparse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests served, by route pattern and status code.",
	}, []string{"handler", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "docparse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Request latency, by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"handler"})

	pagesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docparse",
		Name:      "pages_extracted_total",
		Help:      "Pages processed by full extraction requests.",
	})

	tablesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docparse",
		Name:      "tables_extracted_total",
		Help:      "Tables returned across all extraction requests.",
	})

	scannedPages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docparse",
		Name:      "scanned_pages_total",
		Help:      "Pages classified as scanned.",
	})
)

// observeRequest labels by the matched route pattern; unmatched paths
// collapse into one label value so the series set stays bounded.
func observeRequest(r *http.Request, status int, took time.Duration) {
	handler := r.Pattern
	if handler == "" {
		handler = "unmatched"
	}
	requestsTotal.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(handler).Observe(took.Seconds())
}
