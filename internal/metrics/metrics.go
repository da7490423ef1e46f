package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	cpRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_registrations_total",
			Help: "Total number of CP registration attempts",
		},
		[]string{"result"},
	)

	cpReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_reviews_total",
			Help: "Total number of CP review decisions",
		},
		[]string{"decision"},
	)

	cpLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_logins_total",
			Help: "Total number of CP login attempts",
		},
		[]string{"result"},
	)

	leadStageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_stage_transitions_total",
			Help: "Total number of lead stage changes",
		},
		[]string{"to", "result"},
	)
)

// Middleware records request counts and latency. The route pattern is used as
// the path label so ids in the URL do not explode cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func RecordRegistration(result string) {
	cpRegistrations.WithLabelValues(result).Inc()
}

func RecordReview(decision string) {
	cpReviews.WithLabelValues(decision).Inc()
}

func RecordLogin(result string) {
	cpLogins.WithLabelValues(result).Inc()
}

func RecordStageTransition(to, result string) {
	leadStageTransitions.WithLabelValues(to, result).Inc()
}
