package rbac

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/assokit/assokit/pkg/validator"
)

// Metrics holds the Prometheus collectors of an Engine and its guards.
// A nil *Metrics records nothing.
type Metrics struct {
	MutationsTotal   *prometheus.CounterVec
	MutationDuration *prometheus.HistogramVec
	ConflictsTotal   *prometheus.CounterVec
	DecisionsTotal   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assokit_rbac_mutations_total",
				Help: "Total number of rbac mutations by operation and result",
			},
			[]string{"operation", "result"},
		),
		MutationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assokit_rbac_mutation_duration_seconds",
				Help:    "Duration of rbac mutations including lock wait and commit",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ConflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assokit_rbac_commit_conflicts_total",
				Help: "Total number of commits that lost the version race",
			},
			[]string{"operation"},
		),
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assokit_rbac_guard_decisions_total",
				Help: "Total number of HTTP guard decisions by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.MutationsTotal, m.MutationDuration, m.ConflictsTotal, m.DecisionsTotal)
	return m
}

// Mutation results.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultError    = "error"
)

// Guard decision results.
const (
	decisionAllow = "allow"
	decisionDeny  = "deny"
	decisionError = "error"
)

func (m *Metrics) observeMutation(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(op, mutationResult(err)).Inc()
	m.MutationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeConflict(op string) {
	if m == nil {
		return
	}
	m.ConflictsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) observeDecision(result string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(result).Inc()
}

// mutationResult separates business rejections from infrastructure failures.
func mutationResult(err error) string {
	switch {
	case err == nil:
		return resultOK
	case validator.IsValidationError(err),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrUniqueRoleConflict),
		errors.Is(err, ErrRoleInUse),
		errors.Is(err, ErrMandatoryRoleViolation):
		return resultRejected
	default:
		return resultError
	}
}
