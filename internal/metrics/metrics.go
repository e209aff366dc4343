// Package metrics exposes Prometheus counters for the matching core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// Recorder is what the service layer reports matching events to.
type Recorder interface {
	TripCreated(t domain.TripType)
	RequestSent(t domain.NotificationType)
	Resolved(d domain.Decision, o domain.Outcome)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	tripsCreated *prometheus.CounterVec
	requests     *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its counters with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tripsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zypool_trips_created_total",
			Help: "Trips created, by trip type.",
		}, []string{"type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zypool_requests_total",
			Help: "Join and offer requests sent, by notification type.",
		}, []string{"type"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zypool_resolutions_total",
			Help: "Notifications resolved, by decision and outcome.",
		}, []string{"decision", "outcome"}),
	}

	reg.MustRegister(c.tripsCreated, c.requests, c.resolutions)
	return c
}

func (c *Collector) TripCreated(t domain.TripType) {
	c.tripsCreated.WithLabelValues(string(t)).Inc()
}

func (c *Collector) RequestSent(t domain.NotificationType) {
	c.requests.WithLabelValues(string(t)).Inc()
}

func (c *Collector) Resolved(d domain.Decision, o domain.Outcome) {
	c.resolutions.WithLabelValues(string(d), string(o)).Inc()
}

// Noop discards every event. Services fall back to it when no Recorder is set.
type Noop struct{}

func (Noop) TripCreated(domain.TripType)              {}
func (Noop) RequestSent(domain.NotificationType)      {}
func (Noop) Resolved(domain.Decision, domain.Outcome) {}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
