package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// STKPushes counts initiation attempts by outcome:
	// ok | validation | auth | transport | rejected | storage.
	STKPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chartitze_stk_push_total",
		Help: "STK push initiations by outcome",
	}, []string{"outcome"})

	// Callbacks counts provider callback deliveries by how they resolved:
	// completed | failed | unknown | invalid | error.
	Callbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chartitze_mpesa_callbacks_total",
		Help: "M-Pesa callbacks by resolution",
	}, []string{"resolution"})

	// EmailsSent counts notification emails by outcome: ok | error.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chartitze_emails_sent_total",
		Help: "Notification emails by outcome",
	}, []string{"outcome"})
)
