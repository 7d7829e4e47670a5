package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// Manager hosts the registry instances served by one deployment and
// resolves them by address. It implements interfaces.RegistryResolver.
type Manager struct {
	mu         sync.RWMutex
	registries map[interfaces.Address]*Registry
	nonces     map[interfaces.Address]uint64

	storage interfaces.StorageBackend
	sink    interfaces.EventSink
	log     *slog.Logger
}

// NewManager creates an empty registry manager. The storage backend and
// event sink are shared by every registry the manager creates.
func NewManager(storage interfaces.StorageBackend, sink interfaces.EventSink, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		registries: make(map[interfaces.Address]*Registry),
		nonces:     make(map[interfaces.Address]uint64),
		storage:    storage,
		sink:       sink,
		log:        log,
	}
}

// Create instantiates a new registry for the issuer in cfg. The manager
// assigns the nonce (one per issuer, incremented per creation), the shared
// storage backend, event sink and logger; any values for those fields in
// cfg are ignored.
func (m *Manager) Create(cfg Config) (*Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg.Nonce = m.nonces[cfg.Issuer]
	cfg.Storage = m.storage
	cfg.Sink = m.sink
	cfg.Log = m.log

	reg, err := New(cfg)
	if err != nil {
		return nil, err
	}

	m.nonces[cfg.Issuer]++
	m.registries[reg.Address()] = reg

	m.log.Info("Created registry",
		slog.String("registry", reg.Address().String()),
		slog.String("issuer", cfg.Issuer.String()),
		slog.Any("capabilities", cfg.Capabilities.Names()))

	return reg, nil
}

// RegistryFor returns the registry instance at the given address.
func (m *Manager) RegistryFor(addr interfaces.Address) (interfaces.TokenRegistry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reg, ok := m.registries[addr]
	if !ok {
		return nil, fmt.Errorf("%w: registry %s", interfaces.ErrNotFound, addr)
	}
	return reg, nil
}

// Addresses returns the addresses of all hosted registries.
func (m *Manager) Addresses() []interfaces.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]interfaces.Address, 0, len(m.registries))
	for addr := range m.registries {
		out = append(out, addr)
	}
	return out
}
