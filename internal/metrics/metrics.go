// Package metrics exposes Prometheus counters for the domain services.
//
// A nil *Metrics is valid and records nothing, so services and tests
// that don't care about metrics can pass nil.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hostel"

type Metrics struct {
	assignments *prometheus.CounterVec
	transitions *prometheus.CounterVec
	storeRetry  *prometheus.CounterVec
	feesOverdue prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		assignments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_assignment_ops_total",
			Help:      "Room ledger operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_transitions_total",
			Help:      "Workflow actions on complaints and leaves by action and result.",
		}, []string{"action", "result"}),
		storeRetry: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_retries_total",
			Help:      "Record store calls retried after a transient failure.",
		}, []string{"op"}),
		feesOverdue: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_marked_overdue_total",
			Help:      "Fees moved from pending to overdue by the sweep.",
		}),
	}
}

func (m *Metrics) Assignment(op, outcome string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Transition(action string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.transitions.WithLabelValues(action, result).Inc()
}

func (m *Metrics) StoreRetry(op string) {
	if m == nil {
		return
	}
	m.storeRetry.WithLabelValues(op).Inc()
}

func (m *Metrics) FeesOverdue(n int) {
	if m == nil {
		return
	}
	m.feesOverdue.Add(float64(n))
}
