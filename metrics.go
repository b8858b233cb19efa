package swim

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments the Failure Detector and
// Join Coordinator update as a read-mostly side effect; the engine
// never reads them back. A nil *Metrics (what an Engine holds when
// WithMetrics is never called) makes every method a no-op, so tests
// and the sim harness don't need a live Prometheus registry.
type Metrics struct {
	probesDirect   prometheus.Counter
	probesIndirect prometheus.Counter
	acks           prometheus.Counter
	joins          prometheus.Counter
	removals       prometheus.Counter
	members        prometheus.Gauge
}

// NewMetrics registers the standard instrument set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		probesDirect: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swim_probes_direct_total",
			Help: "Direct PING probes sent.",
		}),
		probesIndirect: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swim_probes_indirect_total",
			Help: "Indirect (relayed) PING probes sent.",
		}),
		acks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swim_acks_total",
			Help: "ACKs that completed the current probe.",
		}),
		joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swim_joins_total",
			Help: "Members added to the membership list.",
		}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swim_members_removed_total",
			Help: "Members removed from the membership list.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swim_members",
			Help: "Current membership list size.",
		}),
	}
	reg.MustRegister(m.probesDirect, m.probesIndirect, m.acks, m.joins, m.removals, m.members)
	return m
}

func (m *Metrics) incDirectProbe() {
	if m != nil {
		m.probesDirect.Inc()
	}
}

func (m *Metrics) incIndirectProbe() {
	if m != nil {
		m.probesIndirect.Inc()
	}
}

func (m *Metrics) incAck() {
	if m != nil {
		m.acks.Inc()
	}
}

func (m *Metrics) incJoin() {
	if m != nil {
		m.joins.Inc()
	}
}

func (m *Metrics) incRemoval() {
	if m != nil {
		m.removals.Inc()
	}
}

func (m *Metrics) setMembers(n int) {
	if m != nil {
		m.members.Set(float64(n))
	}
}
