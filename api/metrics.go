package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_exports_total",
			Help: "Exports served, by format",
		},
		[]string{"format"},
	)
	notificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_notification_failures_total",
			Help: "New-project notifications that could not be delivered",
		},
	)
	adminLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_admin_logins_total",
			Help: "Admin sign-in attempts by method and outcome",
		},
		[]string{"method", "success"},
	)
)

// PrometheusMiddleware records request duration keyed by the matched route pattern,
// so /projects/1 and /projects/2 share a series.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func recordAdminLogin(method string, success bool) {
	adminLogins.WithLabelValues(method, strconv.FormatBool(success)).Inc()
}
