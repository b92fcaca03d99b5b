package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/elbuensabor/verification-service/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Verification workflow

	CodesIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "codes_issued_total",
		Help:      "One-time codes generated and dispatched, by flow.",
	}, []string{"flow"})

	CodeVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "code_verifications_total",
		Help:      "Code submissions, by flow and outcome.",
	}, []string{"flow", "outcome"})

	DispatchFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "dispatch_failures_total",
		Help:      "Notification deliveries that failed and were rolled back.",
	}, []string{"flow"})

	AccountsPromotedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "accounts_promoted_total",
		Help:      "Pending registrations promoted into accounts.",
	})

	PasswordsChangedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "passwords_changed_total",
		Help:      "Password changes completed through the recovery flow.",
	})

	// Sweeper

	SweeperReapedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "sweeper_reaped_total",
		Help:      "Expired rows removed by the sweeper, by table.",
	}, []string{"table"})

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "verification",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one sweeper cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "verification",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verification",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		CodesIssuedTotal,
		CodeVerificationsTotal,
		DispatchFailuresTotal,
		AccountsPromotedTotal,
		PasswordsChangedTotal,
		SweeperReapedTotal,
		SweepCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on a
// port separate from the API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
