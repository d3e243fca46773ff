package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for person writes.
type Metrics struct {
	PersonsStored     prometheus.Counter
	PersonsUpdated    prometheus.Counter
	FamilyContactsSet prometheus.Counter
	CardsDropped      prometheus.Counter
	WriteFailures     *prometheus.CounterVec
	WriteDuration     *prometheus.HistogramVec
	HookFailures      *prometheus.CounterVec
}

// New registers the people metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PersonsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "persona_persons_stored_total",
			Help: "Total number of persons created",
		}),
		PersonsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "persona_persons_updated_total",
			Help: "Total number of person updates committed",
		}),
		FamilyContactsSet: factory.NewCounter(prometheus.CounterOpts{
			Name: "persona_family_contacts_written_total",
			Help: "Family contacts created or changed by person writes",
		}),
		CardsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "persona_card_identities_dropped_total",
			Help: "Identity-card entries dropped because their type is not allowed",
		}),
		WriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_person_write_failures_total",
			Help: "Failed person writes by operation and error code",
		}, []string{"op", "code"}),
		WriteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "persona_person_write_duration_seconds",
			Help:    "Duration of person write operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
		HookFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_post_commit_hook_failures_total",
			Help: "Post-commit hook failures by entity type",
		}, []string{"entity"}),
	}
}

func (m *Metrics) IncrementStored() {
	m.PersonsStored.Inc()
}

func (m *Metrics) IncrementUpdated() {
	m.PersonsUpdated.Inc()
}

func (m *Metrics) IncrementFamilyWritten() {
	m.FamilyContactsSet.Inc()
}

func (m *Metrics) AddCardsDropped(n int) {
	m.CardsDropped.Add(float64(n))
}

func (m *Metrics) IncrementFailure(op, code string) {
	m.WriteFailures.WithLabelValues(op, code).Inc()
}

func (m *Metrics) IncrementHookFailure(entity string) {
	m.HookFailures.WithLabelValues(entity).Inc()
}

// ObserveWrite records the duration of op. Call with time.Now() at the start
// of the operation.
func (m *Metrics) ObserveWrite(op string, start time.Time) {
	m.WriteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
