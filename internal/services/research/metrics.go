package research

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch sources recorded on divcast_fetch_total.
const (
	SourceCache    = "cache"
	SourceProvider = "provider"
	SourceError    = "error"
)

// counters track estimation paths and fetch outcomes.
type counters struct {
	estimations *prometheus.CounterVec
	fetches     *prometheus.CounterVec
}

// newCounters registers the counters on reg. A nil registry yields
// unregistered counters that are still safe to increment.
func newCounters(reg prometheus.Registerer) *counters {
	m := &counters{
		estimations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "divcast_estimations_total",
			Help: "Estimates produced, by estimate kind and estimation method.",
		}, []string{"kind", "method"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "divcast_fetch_total",
			Help: "Research input lookups, by source.",
		}, []string{"source"}),
	}
	if reg != nil {
		reg.MustRegister(m.estimations, m.fetches)
	}
	return m
}

func (m *counters) observeReport(r *Report) {
	m.estimations.WithLabelValues("gap", methodLabel(r.Metrics.Gap.Method)).Inc()
	m.estimations.WithLabelValues("last_dividend", methodLabel(r.LastDividend.Method)).Inc()
	m.estimations.WithLabelValues("dividend_rate", methodLabel(r.DividendInfo.RateMethod)).Inc()
	m.estimations.WithLabelValues("payout_ratio", methodLabel(r.DividendInfo.RatioMethod)).Inc()
}

// methodLabel strips the diagnostic detail some methods carry (pattern
// statistics, panic text) so the label stays one of the method constants.
func methodLabel(method string) string {
	if i := strings.IndexAny(method, " :["); i >= 0 {
		method = method[:i]
	}
	if method == "" {
		return "none"
	}
	return method
}

func (m *counters) observeFetch(source string) {
	m.fetches.WithLabelValues(source).Inc()
}
