// Package metrics exposes Prometheus counters for participation, reminders and trades.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"guildbot/internal/ports/output"
)

var _ output.Metrics = (*Recorder)(nil)

type Recorder struct {
	participation *prometheus.CounterVec
	reminders     *prometheus.CounterVec
	trades        *prometheus.CounterVec
	pending       prometheus.Gauge
}

// NewRecorder builds the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		participation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildbot_participation_operations_total",
				Help: "Join, waitlist, leave and promotion operations by result",
			},
			[]string{"operation", "result"},
		),
		reminders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildbot_reminders_total",
				Help: "Reminder outcomes (sent, empty, gone, dropped, late)",
			},
			[]string{"result"},
		),
		trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guildbot_trade_transitions_total",
				Help: "Trade negotiation transitions by stage reached",
			},
			[]string{"stage"},
		),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "guildbot_reminders_pending",
			Help: "Reminders queued and not yet fired",
		}),
	}
	reg.MustRegister(r.participation, r.reminders, r.trades, r.pending)
	return r
}

func (r *Recorder) Participation(op, result string) {
	r.participation.WithLabelValues(op, result).Inc()
}

func (r *Recorder) Reminder(result string) {
	r.reminders.WithLabelValues(result).Inc()
}

func (r *Recorder) Trade(stage string) {
	r.trades.WithLabelValues(stage).Inc()
}

func (r *Recorder) PendingReminders(n int) {
	r.pending.Set(float64(n))
}
