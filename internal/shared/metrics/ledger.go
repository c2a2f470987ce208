package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ledger agrupa as métricas de negócio do bankroll-service.
// Métodos aceitam receiver nil (métricas desligadas).
type Ledger struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rejections *prometheus.CounterVec
	cache      *prometheus.CounterVec
}

func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankroll_operations_total",
			Help: "operações do ledger por resultado",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bankroll_operation_duration_seconds",
			Help:    "duração das operações do ledger",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankroll_rejections_total",
			Help: "escritas recusadas por regra de negócio",
		}, []string{"reason"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankroll_dashboard_cache_total",
			Help: "leituras do dashboard em cache",
		}, []string{"result"}),
	}
	reg.MustRegister(m.operations, m.duration, m.rejections, m.cache)
	return m
}

// Observe conta a operação e registra a duração
func (m *Ledger) Observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *Ledger) Reject(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// CacheResult: "hit", "miss" ou "error"
func (m *Ledger) CacheResult(result string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(result).Inc()
}
