// Package metrics exposes the Prometheus collectors for the platform. All
// collectors are registered via promauto at init time and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallTransitions counts lifecycle transitions by resulting status.
	CallTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusconnect_call_transitions_total",
			Help: "Call request lifecycle transitions by resulting status",
		},
		[]string{"status"},
	)

	// SignalMessages counts signaling messages processed by the relay, by kind
	// and outcome ("forwarded", "broadcast", "dropped").
	SignalMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusconnect_signal_messages_total",
			Help: "Signaling messages processed by the relay",
		},
		[]string{"kind", "outcome"},
	)

	// ActiveRooms tracks the number of live signaling rooms.
	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campusconnect_active_rooms",
			Help: "Signaling rooms currently holding at least one peer",
		},
	)

	// ConnectedPeers tracks open signaling connections.
	ConnectedPeers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campusconnect_connected_peers",
			Help: "Open signaling websocket connections",
		},
	)
)
