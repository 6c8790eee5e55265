package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests.
	// Labels: method, route (gin full path), status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hopon",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests served",
	}, []string{"method", "route", "status"})

	// HTTPLatency measures handler latency in seconds.
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hopon",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RideTransitions counts ride lifecycle changes.
	// Labels: event (started, completed, cancelled)
	RideTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hopon",
		Subsystem: "rides",
		Name:      "transitions_total",
		Help:      "Total ride lifecycle transitions",
	}, []string{"event"})

	// RideDuration tracks actual ride minutes of completed rides.
	RideDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hopon",
		Subsystem: "rides",
		Name:      "duration_minutes",
		Help:      "Actual duration of completed rides in minutes",
		Buckets:   []float64{5, 10, 15, 20, 30, 45, 60, 90, 120},
	})

	// BookingConflicts counts bookings lost to another user.
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hopon",
		Subsystem: "bikes",
		Name:      "booking_conflicts_total",
		Help:      "Bookings rejected because the bike was already taken",
	})

	// CacheLookups counts bike cache reads.
	// Labels: result (hit, miss, error)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hopon",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Bike cache lookups by result",
	}, []string{"result"})
)
