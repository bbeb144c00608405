package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wienermonitor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wienermonitor",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wienermonitor",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Monitor metrics
	PollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wienermonitor",
		Subsystem: "monitor",
		Name:      "poll_duration_seconds",
		Help:      "Duration of realtime monitor fetches",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"stop"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wienermonitor",
		Subsystem: "monitor",
		Name:      "fetch_errors_total",
		Help:      "Total failed realtime monitor fetches",
	}, []string{"stop"})

	StickyUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wienermonitor",
		Subsystem: "monitor",
		Name:      "sticky_updates_total",
		Help:      "Polls that found no departure time and kept the previous state",
	}, []string{"sensor"})

	DuplicateMonitors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wienermonitor",
		Subsystem: "monitor",
		Name:      "duplicates_total",
		Help:      "Configured sensors skipped because their monitor was already registered",
	})

	Sensors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wienermonitor",
		Subsystem: "monitor",
		Name:      "sensors",
		Help:      "Number of active sensors",
	})

	PublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wienermonitor",
		Subsystem: "monitor",
		Name:      "publish_errors_total",
		Help:      "Failed writes of sensor state to a sink",
	}, []string{"sink"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wienermonitor",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
