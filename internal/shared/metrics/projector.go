package metrics

import "github.com/prometheus/client_golang/prometheus"

// Projector agrupa os contadores por estágio do ledger-projector-worker
type Projector struct {
	Consumed    prometheus.Counter
	Refreshed   prometheus.Counter
	Broadcasted prometheus.Counter
	DeadLetters prometheus.Counter
	Errors      *prometheus.CounterVec
}

func NewProjector(reg prometheus.Registerer) *Projector {
	m := &Projector{
		Consumed:    prometheus.NewCounter(prometheus.CounterOpts{Name: "projector_messages_consumed_total", Help: "mensagens consumidas"}),
		Refreshed:   prometheus.NewCounter(prometheus.CounterOpts{Name: "projector_dashboards_refreshed_total", Help: "dashboards recalculados"}),
		Broadcasted: prometheus.NewCounter(prometheus.CounterOpts{Name: "projector_broadcasts_total", Help: "updates publicados no Pub/Sub"}),
		DeadLetters: prometheus.NewCounter(prometheus.CounterOpts{Name: "projector_dead_letters_total", Help: "mensagens enviadas à DLQ"}),
		Errors:      prometheus.NewCounterVec(prometheus.CounterOpts{Name: "projector_errors_total", Help: "erros por estágio"}, []string{"stage"}),
	}
	reg.MustRegister(m.Consumed, m.Refreshed, m.Broadcasted, m.DeadLetters, m.Errors)
	return m
}
