package interfaces

import "time"

// EventKind identifies a registry or discovery store notification.
type EventKind string

const (
	// EventMinted fires once per successful mint.
	EventMinted EventKind = "minted"

	// EventRevoked fires once per valid-to-revoked transition.
	EventRevoked EventKind = "revoked"

	// EventOwnerChanged fires when a token record migrates between two
	// wallets of the same holder via the pull extension.
	EventOwnerChanged EventKind = "owner_changed"

	// EventRegistryAdded fires when a holder publishes a registry in the
	// discovery store.
	EventRegistryAdded EventKind = "registry_added"

	// EventRegistryRemoved fires when a holder unpublishes a registry.
	EventRegistryRemoved EventKind = "registry_removed"
)

// Event is a single notification. Registry events carry the registry
// address, the affected owner and token; discovery events carry the holder
// as Owner and the published registry as Registry, with TokenID zero.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Registry  Address   `json:"registry"`
	Owner     Address   `json:"owner"`
	TokenID   TokenID   `json:"token_id,omitempty"`
	Recipient Address   `json:"recipient,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSink receives notifications after the emitting operation's state
// change has committed. Sinks are invoked synchronously in per-instance
// event order and must be fast; durable sinks batch internally.
type EventSink interface {
	Publish(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

// Publish calls f(e).
func (f EventSinkFunc) Publish(e Event) { f(e) }

// MultiSink fans a notification out to several sinks in order.
type MultiSink []EventSink

// Publish forwards the event to every sink.
func (m MultiSink) Publish(e Event) {
	for _, s := range m {
		s.Publish(e)
	}
}
