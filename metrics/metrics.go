package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var PartiesJoined = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mesaja_queue_joined_total",
		Help: "Total number of parties that joined the waiting queue",
	},
)

// PartiesSeated is labelled by how the tables were chosen: single, combined or manual.
var PartiesSeated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mesaja_parties_seated_total",
		Help: "Total number of parties seated",
	},
	[]string{"mode"},
)

var AllocationFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mesaja_allocation_failures_total",
		Help: "Allocation attempts that ended without seating anyone",
	},
	[]string{"reason"},
)

var WaitDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "mesaja_wait_duration_seconds",
		Help:    "Time between arrival and seating",
		Buckets: []float64{60, 300, 600, 900, 1200, 1800, 2700, 3600},
	},
)

var NotificationsDelivered = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mesaja_notifications_delivered_total",
		Help: "Notifications delivered per sink",
	},
	[]string{"sink"},
)

var NotificationFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mesaja_notification_failures_total",
		Help: "Notification deliveries that failed per sink",
	},
	[]string{"sink"},
)

var NotificationsDropped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "mesaja_notifications_dropped_total",
		Help: "Notifications dropped because the dispatch buffer was full",
	},
)

var RequestDurationHistogram = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "mesaja_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

func init() {
	prometheus.MustRegister(PartiesJoined)
	prometheus.MustRegister(PartiesSeated)
	prometheus.MustRegister(AllocationFailures)
	prometheus.MustRegister(WaitDuration)
	prometheus.MustRegister(NotificationsDelivered)
	prometheus.MustRegister(NotificationFailures)
	prometheus.MustRegister(NotificationsDropped)
	prometheus.MustRegister(RequestDurationHistogram)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request duration using the route template as path label.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDurationHistogram.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
