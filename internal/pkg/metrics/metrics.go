// Package metrics holds the Prometheus collectors of the service. Collectors are created
// per instance and registered explicitly, so tests can use a private registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Claim outcomes.
const (
	ClaimWon      = "won"
	ClaimConflict = "conflict"
	ClaimRejected = "rejected"
)

// OTP outcomes.
const (
	OTPGenerated = "generated"
	OTPVerified  = "verified"
	OTPExpired   = "expired"
	OTPMismatch  = "mismatch"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ClaimsTotal         *prometheus.CounterVec
	DeliveriesTotal     *prometheus.CounterVec
	OTPTotal            *prometheus.CounterVec
	JobRunsTotal        *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		ClaimsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_claims_total",
				Help: "Claim attempts by outcome",
			},
			[]string{"outcome"},
		),
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_deliveries_total",
				Help: "Completed deliveries by proof kind",
			},
			[]string{"proof"},
		),
		OTPTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_otp_total",
				Help: "Handover code operations by outcome",
			},
			[]string{"outcome"},
		),
		JobRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_runs_total",
				Help: "Background job runs by job and result",
			},
			[]string{"job", "result"},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ClaimsTotal,
		m.DeliveriesTotal,
		m.OTPTotal,
		m.JobRunsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// JobRun counts one run of a background job.
func (m *Metrics) JobRun(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.JobRunsTotal.WithLabelValues(job, result).Inc()
}
