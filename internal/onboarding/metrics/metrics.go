// Package metrics holds the Prometheus instruments for the onboarding wizard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts wizard lifecycle events.
type Metrics struct {
	ApplicationsStarted   prometheus.Counter
	ApplicationsResumed   prometheus.Counter
	ApplicationsDiscarded prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	StaleStateResets      prometheus.Counter
	StepsSubmitted        *prometheus.CounterVec
}

// New creates and registers all wizard metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_applications_started_total",
			Help: "Applications started by choosing the new-customer flow",
		}),
		ApplicationsResumed: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_applications_resumed_total",
			Help: "Applications continued from the resume prompt",
		}),
		ApplicationsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_applications_discarded_total",
			Help: "Applications discarded from the resume prompt",
		}),
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_applications_submitted_total",
			Help: "Applications that reached final submission",
		}),
		StaleStateResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_stale_state_resets_total",
			Help: "Silent resets of stale or mismatched persisted state",
		}),
		StepsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_steps_submitted_total",
			Help: "Step submissions accepted by the wizard",
		}, []string{"step"}),
	}
}
