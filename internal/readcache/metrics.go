package readcache

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts cache outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Hits          *prometheus.CounterVec
	Misses        *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
}

// NewMetrics registers the cache metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_readcache_hits_total",
			Help: "Read cache hits by key family",
		}, []string{"family"}),
		Misses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_readcache_misses_total",
			Help: "Read cache misses by key family",
		}, []string{"family"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_readcache_errors_total",
			Help: "Swallowed read cache backend errors by operation",
		}, []string{"op"}),
		Invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_readcache_invalidations_total",
			Help: "Tag invalidations by tag",
		}, []string{"tag"}),
	}
}

// family is the first segment of a key, keeping label cardinality bounded.
func family(key string) string {
	f, _, _ := strings.Cut(key, ":")
	return f
}

func (m *Metrics) hit(key string) {
	if m != nil {
		m.Hits.WithLabelValues(family(key)).Inc()
	}
}

func (m *Metrics) miss(key string) {
	if m != nil {
		m.Misses.WithLabelValues(family(key)).Inc()
	}
}

func (m *Metrics) failed(op string) {
	if m != nil {
		m.Errors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) invalidated(tags []string) {
	if m == nil {
		return
	}
	for _, tag := range tags {
		m.Invalidations.WithLabelValues(tag).Inc()
	}
}
