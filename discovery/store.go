// Package discovery implements the discovery store: a shared, issuer-agnostic
// reverse index letting token holders publish which registries hold tokens
// for them.
package discovery

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// Store is an in-memory discovery store. Entries are advisory pointers: the
// store never validates that a published address is a real registry, and
// verifiers must check each returned address independently.
type Store struct {
	mu      sync.RWMutex
	entries map[interfaces.Address][]interfaces.Address
	sink    interfaces.EventSink
	log     *slog.Logger
}

// NewStore creates an empty in-memory discovery store.
func NewStore(sink interfaces.EventSink, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		entries: make(map[interfaces.Address][]interfaces.Address),
		sink:    sink,
		log:     log,
	}
}

// Add appends registry to holder's published set. Re-adding an existing
// entry is a no-op; the Added notification fires only on actual insertion.
func (s *Store) Add(holder interfaces.Address, registry interfaces.Address) error {
	if holder.IsZero() || registry.IsZero() {
		return interfaces.ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entries[holder] {
		if existing.Equal(registry) {
			return nil
		}
	}
	s.entries[holder] = append(s.entries[holder], registry)

	s.log.Debug("Published registry",
		slog.String("holder", holder.String()),
		slog.String("registry", registry.String()))
	s.emitLocked(interfaces.EventRegistryAdded, holder, registry)

	return nil
}

// Remove deletes registry from holder's published set. Removing an absent
// entry is a no-op, symmetric with Add's idempotence.
func (s *Store) Remove(holder interfaces.Address, registry interfaces.Address) error {
	if holder.IsZero() || registry.IsZero() {
		return interfaces.ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	published := s.entries[holder]
	for i, existing := range published {
		if existing.Equal(registry) {
			s.entries[holder] = append(published[:i:i], published[i+1:]...)

			s.log.Debug("Unpublished registry",
				slog.String("holder", holder.String()),
				slog.String("registry", registry.String()))
			s.emitLocked(interfaces.EventRegistryRemoved, holder, registry)
			return nil
		}
	}
	return nil
}

// Get returns holder's published registries in insertion order. Unknown
// holders yield an empty slice.
func (s *Store) Get(holder interfaces.Address) ([]interfaces.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	published := s.entries[holder]
	out := make([]interfaces.Address, len(published))
	copy(out, published)
	return out, nil
}

func (s *Store) emitLocked(kind interfaces.EventKind, holder, registry interfaces.Address) {
	if s.sink == nil {
		return
	}

	s.sink.Publish(interfaces.Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Registry:  registry,
		Owner:     holder,
		Timestamp: time.Now().UTC(),
	})
}
