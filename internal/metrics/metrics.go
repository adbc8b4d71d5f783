// Package metrics exposes the site's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PageViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_page_views_total",
			Help: "Total page views by path",
		},
		[]string{"path"},
	)

	RenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_render_errors_total",
			Help: "Total template render failures by path",
		},
		[]string{"path"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "web_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "status"},
	)
)

// ObserveRequest records one request in the duration histogram.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
