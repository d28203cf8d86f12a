package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hotwell/breeze/core/http"
)

// metrics instruments the chain with Prometheus collectors.
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Metrics creates a middleware that records request counts, latency,
// and in-flight requests on reg.
func Metrics(reg prometheus.Registerer) Middleware {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests handled, by method and status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request handling latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being handled.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

func (m *metrics) Name() string { return "metrics" }

func (m *metrics) Handle(req *http.Request, next Next) (*http.Response, error) {
	m.inFlight.Inc()
	defer m.inFlight.Dec()

	start := time.Now()
	res := next.Run(req)

	m.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	m.requests.WithLabelValues(req.Method, strconv.Itoa(res.Status)).Inc()
	return res, nil
}
