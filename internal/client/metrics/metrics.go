// Package metrics records session-renewal activity of the ledger client.
//
// The Recorder interface is what the client and coordinator depend on; Nop
// discards everything and Prometheus exports the counters through
// client_golang.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder observes the refresh coordinator and HTTP client.
type Recorder interface {
	// RenewalStarted is called when a renewal call is issued.
	RenewalStarted()
	// RenewalJoined is called when a caller queues behind a running renewal.
	RenewalJoined()
	// RenewalFinished is called once per renewal with its outcome.
	RenewalFinished(ok bool, took time.Duration)
	// RequestReplayed is called when a request is re-issued after a renewal.
	RequestReplayed()
	// ValidationChecked is called by every validity check.
	ValidationChecked(cacheHit bool)
}

// Nop is a Recorder that does nothing.
type Nop struct{}

func (Nop) RenewalStarted()                     {}
func (Nop) RenewalJoined()                      {}
func (Nop) RenewalFinished(bool, time.Duration) {}
func (Nop) RequestReplayed()                    {}
func (Nop) ValidationChecked(bool)              {}

// Prometheus is a Recorder backed by client_golang collectors.
type Prometheus struct {
	renewals        *prometheus.CounterVec
	renewalWaiters  prometheus.Counter
	renewalDuration prometheus.Histogram
	replays         prometheus.Counter
	validations     *prometheus.CounterVec
}

// NewPrometheus registers the client collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		renewals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_client_session_renewals_total",
			Help: "Session renewal calls by outcome.",
		}, []string{"outcome"}),
		renewalWaiters: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_client_session_renewal_waiters_total",
			Help: "Requests that queued behind an in-flight renewal.",
		}),
		renewalDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_client_session_renewal_duration_seconds",
			Help:    "Duration of session renewal calls.",
			Buckets: prometheus.DefBuckets,
		}),
		replays: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_client_requests_replayed_total",
			Help: "Requests re-issued after a successful renewal.",
		}),
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_client_session_validation_checks_total",
			Help: "Session validity checks by answer source.",
		}, []string{"source"}),
	}
}

func (p *Prometheus) RenewalStarted() {
	p.renewals.WithLabelValues("started").Inc()
}

func (p *Prometheus) RenewalJoined() {
	p.renewalWaiters.Inc()
}

func (p *Prometheus) RenewalFinished(ok bool, took time.Duration) {
	outcome := "failed"
	if ok {
		outcome = "succeeded"
	}
	p.renewals.WithLabelValues(outcome).Inc()
	p.renewalDuration.Observe(took.Seconds())
}

func (p *Prometheus) RequestReplayed() {
	p.replays.Inc()
}

func (p *Prometheus) ValidationChecked(cacheHit bool) {
	source := "server"
	if cacheHit {
		source = "cache"
	}
	p.validations.WithLabelValues(source).Inc()
}

// Handler serves the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
