package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remindersScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ritual_agent_reminders_scheduled_total",
			Help: "Total number of reminder submissions accepted by the agent",
		},
	)

	remindersCanceled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ritual_agent_reminders_canceled_total",
			Help: "Total number of reminder cancellations processed",
		},
	)

	remindersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ritual_agent_reminders_fired_total",
			Help: "Total number of reminders that came due, by delivery result",
		},
		[]string{"result"},
	)

	remindersPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ritual_agent_reminders_pending",
			Help: "Number of reminders currently waiting to fire",
		},
	)
)
