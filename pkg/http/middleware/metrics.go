package middleware

import (
	"strconv"
	"sync"
	"time"

	applogger "HurstLab/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type httpMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
	size     *prometheus.HistogramVec
}

var (
	httpMetricsOnce sync.Once
	httpM           *httpMetrics
)

func loadHTTPMetrics() *httpMetrics {
	httpMetricsOnce.Do(func() {
		httpM = &httpMetrics{
			requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "hurstlab_http_requests_total",
				Help: "HTTP requests by route template, method and status code.",
			}, []string{"route", "method", "code"}),
			// analysis requests may load years of quotes, hence the long tail
			latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "hurstlab_http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			}, []string{"route", "method"}),
			inFlight: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "hurstlab_http_requests_in_flight",
				Help: "Requests currently being served.",
			}),
			size: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "hurstlab_http_response_size_bytes",
				Help:    "Response body size.",
				Buckets: prometheus.ExponentialBuckets(256, 8, 7),
			}, []string{"route"}),
		}
	})
	return httpM
}

// Metrics records per-route Prometheus metrics. Routes are labelled by
// their registered template. Server errors are logged at error level and
// requests slower than slow at warn level.
func Metrics(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	m := loadHTTPMetrics()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.inFlight.Inc()
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)
			m.inFlight.Dec()

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			code := c.Response().Status

			m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
			m.latency.WithLabelValues(route, method).Observe(elapsed.Seconds())
			m.size.WithLabelValues(route).Observe(float64(c.Response().Size))

			fields := []applogger.Field{
				applogger.String("route", route),
				applogger.String("method", method),
				applogger.Int("status", code),
				applogger.Duration("elapsed", elapsed),
			}
			if code >= 500 {
				l.Error("request failed", fields...)
			} else if slow > 0 && elapsed >= slow {
				l.Warn("slow request", fields...)
			}
			return nil
		}
	}
}
