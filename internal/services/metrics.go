package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the ledger's Prometheus instruments. A nil *Metrics records
// nothing.
type Metrics struct {
	lines        *prometheus.CounterVec
	syncs        *prometheus.CounterVec
	replications *prometheus.CounterVec
	reportCache  *prometheus.CounterVec
	expenses     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		lines: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gastos",
			Name:      "lines_parsed_total",
			Help:      "Input lines parsed, by result.",
		}, []string{"result"}),
		syncs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gastos",
			Name:      "sync_down_total",
			Help:      "Sync down attempts, by status.",
		}, []string{"status"}),
		replications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gastos",
			Name:      "replications_total",
			Help:      "Upstream replication attempts, by outcome.",
		}, []string{"outcome"}),
		reportCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gastos",
			Name:      "report_cache_lookups_total",
			Help:      "Report cache lookups, by result.",
		}, []string{"result"}),
		expenses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "gastos",
			Name:      "expenses",
			Help:      "Expenses currently in the collection.",
		}),
	}
}

func (m *Metrics) observeBatch(added, failed int) {
	if m == nil {
		return
	}
	m.lines.WithLabelValues("added").Add(float64(added))
	m.lines.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) observeSync(status SyncStatus) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) observeReplication(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.replications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeReportCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.reportCache.WithLabelValues(result).Inc()
}

func (m *Metrics) setExpenses(n int) {
	if m == nil {
		return
	}
	m.expenses.Set(float64(n))
}
