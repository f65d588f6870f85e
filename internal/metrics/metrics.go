package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status changes by target status.",
		},
		[]string{"status"},
	)

	availability = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "availability_requests_total",
			Help:      "Availability computations served.",
		},
	)
)

const (
	OutcomeCreated  = "created"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Register registers the collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpDuration, bookings, transitions, availability)
	})
}

func IncBooking(outcome string) {
	bookings.WithLabelValues(outcome).Inc()
}

func IncTransition(status string) {
	transitions.WithLabelValues(status).Inc()
}

func IncAvailability() {
	availability.Inc()
}

// Middleware records request latency labelled by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
