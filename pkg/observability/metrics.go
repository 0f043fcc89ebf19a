package observability

import (
	"context"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts chain transitions.
type Metrics struct {
	Started   *prometheus.CounterVec
	Advanced  *prometheus.CounterVec
	Completed *prometheus.CounterVec
	Exited    *prometheus.CounterVec
	Stale     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calcchain",
			Name:      name,
			Help:      help,
		}, labels)
	}

	m := &Metrics{
		Started:   counter("chains_started_total", "Chains started.", "chain_id"),
		Advanced:  counter("chain_steps_advanced_total", "Steps advanced past with a next step remaining.", "chain_id", "step"),
		Completed: counter("chains_completed_total", "Chains whose final step was completed.", "chain_id"),
		Exited:    counter("chains_exited_total", "Chains abandoned before completion.", "chain_id"),
		Stale:     counter("chain_stale_advances_total", "Advance calls ignored because the slug was not the current step.", "chain_id"),
	}
	reg.MustRegister(m.Started, m.Advanced, m.Completed, m.Exited, m.Stale)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChainStart: func(_ context.Context, e *domain.ChainEvent) {
			m.Started.WithLabelValues(e.ChainID).Inc()
		},
		OnStepAdvance: func(_ context.Context, e *domain.ChainEvent) {
			m.Advanced.WithLabelValues(e.ChainID, e.StepSlug).Inc()
		},
		OnChainComplete: func(_ context.Context, e *domain.ChainEvent) {
			m.Completed.WithLabelValues(e.ChainID).Inc()
		},
		OnChainExit: func(_ context.Context, e *domain.ChainEvent) {
			m.Exited.WithLabelValues(e.ChainID).Inc()
		},
		OnStaleAdvance: func(_ context.Context, e *domain.ChainEvent) {
			m.Stale.WithLabelValues(e.ChainID).Inc()
		},
	}
}
