package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nexus_gateway"

var (
	// ActiveConnections tracks clients currently attached to the gateway.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Client connections currently open.",
	})

	// FramesRead counts decoded inbound frames by message label.
	FramesRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_read_total",
		Help:      "Inbound frames successfully decoded.",
	}, []string{"message"})

	// FramesWritten counts outbound frames by message label.
	FramesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_written_total",
		Help:      "Outbound frames written to clients.",
	}, []string{"message"})

	// DecodeFailures counts dropped connections by failure class.
	DecodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decode_failures_total",
		Help:      "Inbound frames that failed to decode, by reason.",
	}, []string{"reason"})
)
