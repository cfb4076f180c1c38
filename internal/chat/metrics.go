package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Number of peers currently registered",
	})

	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total messages broadcast by type",
	}, []string{"type"})

	DeliveriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_deliveries_total",
		Help: "Successful per-peer writes during fan-out",
	})

	DeliveryFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_delivery_failures_total",
		Help: "Failed per-peer writes during fan-out by error kind",
	}, []string{"kind"})

	HandshakeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_handshake_failures_total",
		Help: "Connections dropped before a nickname was received",
	})

	BroadcastDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_broadcast_seconds",
		Help:    "Time to fan one message out to all recipients",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(ConnectedClients)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(DeliveriesTotal)
	prometheus.MustRegister(DeliveryFailuresTotal)
	prometheus.MustRegister(HandshakeFailuresTotal)
	prometheus.MustRegister(BroadcastDuration)
}
