// Package metrics exposes the solver's search statistics as Prometheus
// collectors. It implements sat.Hooks so a *Collector can be wired
// directly into a sat.Solver; it replaces the stdout-printed search
// stats that the teacher's main.go printed at the end of a run with
// counters a scrape can observe mid-search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records solver search events as Prometheus counters. The
// zero value is not usable; construct with NewCollector.
type Collector struct {
	propagations prometheus.Counter
	conflicts    prometheus.Counter
	decisions    prometheus.Counter
	traps        prometheus.Counter
}

// NewCollector registers a fresh set of counters against reg and
// returns a Collector ready to be assigned to a sat.Solver's Hooks
// field. Passing prometheus.NewRegistry() keeps registrations isolated
// between solver instances in tests; cmd/isingsat passes the default
// registry for a single long-lived process.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		propagations: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdclsat_propagations_total",
			Help: "Total unit propagations performed.",
		}),
		conflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdclsat_conflicts_total",
			Help: "Total conflicts encountered during search.",
		}),
		decisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdclsat_decisions_total",
			Help: "Total branching decisions made.",
		}),
		traps: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdclsat_traps_total",
			Help: "Total times search returned control because the next decision variable's activity did not exceed the threshold.",
		}),
	}
}

// OnPropagate implements sat.Hooks.
func (c *Collector) OnPropagate() { c.propagations.Inc() }

// OnConflict implements sat.Hooks.
func (c *Collector) OnConflict() { c.conflicts.Inc() }

// OnDecision implements sat.Hooks.
func (c *Collector) OnDecision() { c.decisions.Inc() }

// OnTrap implements sat.Hooks.
func (c *Collector) OnTrap() { c.traps.Inc() }
