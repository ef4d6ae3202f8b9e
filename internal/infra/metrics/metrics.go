package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pandabot_commands_total",
		Help: "Bot commands processed, by command name.",
	}, []string{"command"})

	AlertsTriggeredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pandabot_alerts_triggered_total",
		Help: "Price alerts that crossed their threshold and notified.",
	})

	RemindersDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pandabot_reminders_delivered_total",
		Help: "Reminders delivered to users.",
	})

	QuoteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pandabot_quote_requests_total",
		Help: "Upstream quote requests, by provider.",
	}, []string{"provider"})
)
