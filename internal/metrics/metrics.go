// Package metrics collects and exposes Prometheus metrics for the
// authentication flows and the authorization middleware.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	OutcomeAllowed      = "allowed"
	OutcomeUnauthorized = "unauthorized"
	OutcomeForbidden    = "forbidden"
	OutcomeRevoked      = "revoked"
)

// Recorder is what the flows and middleware report to.
type Recorder interface {
	RecordAttempt(flow string, outcome string, reason string)
	RecordTokenIssued(flow string)
	RecordFlowLatency(flow string, d time.Duration)
	RecordAuthorization(outcome string)
}

// Collector is the Prometheus Recorder.
type Collector struct {
	attempts      *prometheus.CounterVec
	tokensIssued  *prometheus.CounterVec
	flowLatency   *prometheus.HistogramVec
	authorization *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_auth_attempts_total",
			Help: "Authentication attempts by flow, outcome and failure reason.",
		}, []string{"flow", "outcome", "reason"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_auth_tokens_issued_total",
			Help: "Bearer tokens issued by flow.",
		}, []string{"flow"}),
		flowLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skill_auth_flow_duration_seconds",
			Help:    "Duration of authentication flows.",
			Buckets: prometheus.DefBuckets,
		}, []string{"flow"}),
		authorization: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_auth_authorization_total",
			Help: "Authorization decisions on protected routes.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.attempts,
		c.tokensIssued,
		c.flowLatency,
		c.authorization,
	)

	return c
}

func (c *Collector) RecordAttempt(flow string, outcome string, reason string) {
	c.attempts.WithLabelValues(flow, outcome, reason).Inc()
}

func (c *Collector) RecordTokenIssued(flow string) {
	c.tokensIssued.WithLabelValues(flow).Inc()
}

func (c *Collector) RecordFlowLatency(flow string, d time.Duration) {
	c.flowLatency.WithLabelValues(flow).Observe(d.Seconds())
}

func (c *Collector) RecordAuthorization(outcome string) {
	c.authorization.WithLabelValues(outcome).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAttempt(string, string, string)    {}
func (Nop) RecordTokenIssued(string)                {}
func (Nop) RecordFlowLatency(string, time.Duration) {}
func (Nop) RecordAuthorization(string)              {}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
