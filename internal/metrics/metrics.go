package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Client: HTTP adapter

	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "focusboard",
		Subsystem: "client",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of backend calls made by the client, by outcome kind.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "route", "outcome"})

	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "client",
		Name:      "api_requests_total",
		Help:      "Backend calls made by the client, by outcome kind.",
	}, []string{"method", "route", "outcome"})

	// Client: session and watchdog

	SessionTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "client",
		Name:      "session_transitions_total",
		Help:      "Session state machine transitions, by target status.",
	}, []string{"status"})

	WatchdogLogoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "client",
		Name:      "watchdog_logouts_total",
		Help:      "Logouts forced by the session watchdog, by reason.",
	}, []string{"reason"})

	// Client: resource slices

	StaleResponsesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "client",
		Name:      "stale_responses_discarded_total",
		Help:      "Responses dropped because a newer request for the same record was issued.",
	}, []string{"resource"})

	RollbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "client",
		Name:      "optimistic_rollbacks_total",
		Help:      "Optimistic cache mutations restored after a failed write.",
	}, []string{"resource"})

	// Backend HTTP

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "focusboard",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Latency of REST API requests, by route template and status class.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "route", "class"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "REST API requests, by route template and exact status.",
	}, []string{"method", "route", "status"})

	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "focusboard",
		Subsystem: "api",
		Name:      "requests_in_flight",
		Help:      "REST API requests currently being served.",
	})

	AuthRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focusboard",
		Subsystem: "api",
		Name:      "auth_rejections_total",
		Help:      "Requests refused by the bearer or role check, by reason.",
	}, []string{"reason"})
)

func RegisterClient(reg prometheus.Registerer) {
	reg.MustRegister(
		APIRequestDuration,
		APIRequestsTotal,
		SessionTransitionsTotal,
		WatchdogLogoutsTotal,
		StaleResponsesTotal,
		RollbacksTotal,
	)
}

func RegisterServer(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		HTTPInFlight,
		AuthRejectionsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness endpoints backed
// by checker.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, res health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if res.Status != health.StatusUp {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(res)
}
