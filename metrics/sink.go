package metrics

import (
	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// Sink adapts the metrics server to the event stream so counters track
// registry and discovery activity without the domain packages importing
// Prometheus directly.
type Sink struct {
	m *MetricsServer
}

// NewSink wraps a metrics server as an event sink.
func NewSink(m *MetricsServer) *Sink {
	return &Sink{m: m}
}

// Publish increments the counter matching the event kind.
func (s *Sink) Publish(event interfaces.Event) {
	switch event.Kind {
	case interfaces.EventMinted:
		s.m.TokensMinted.WithLabelValues(event.Registry.String()).Inc()
	case interfaces.EventRevoked:
		s.m.TokensRevoked.WithLabelValues(event.Registry.String()).Inc()
	case interfaces.EventOwnerChanged:
		s.m.OwnerChanges.WithLabelValues(event.Registry.String()).Inc()
	case interfaces.EventRegistryAdded:
		s.m.DiscoveryUpdates.WithLabelValues("add").Inc()
	case interfaces.EventRegistryRemoved:
		s.m.DiscoveryUpdates.WithLabelValues("remove").Inc()
	}
}
