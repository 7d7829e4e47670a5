package discovery

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a discovery store persisted in a SQLite database, so the
// holder-to-registries index survives restarts. Mutations are serialized
// behind a mutex; reads go straight to the database.
type SQLiteStore struct {
	mu   sync.Mutex
	db   *sql.DB
	sink interfaces.EventSink
	log  *slog.Logger
}

// NewSQLiteStore opens (and if needed creates) the discovery database at
// dbPath.
func NewSQLiteStore(dbPath string, sink interfaces.EventSink, log *slog.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open discovery database: %w", err)
	}

	store := &SQLiteStore{db: db, sink: sink, log: log}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate discovery database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS published_registries (
		holder   TEXT NOT NULL,
		registry TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (holder, registry)
	);
	CREATE INDEX IF NOT EXISTS idx_published_holder ON published_registries (holder, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add appends registry to holder's published set. Re-adding an existing
// entry is a no-op.
func (s *SQLiteStore) Add(holder interfaces.Address, registry interfaces.Address) error {
	if holder.IsZero() || registry.IsZero() {
		return interfaces.ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Position preserves insertion order across restarts.
	res, err := s.db.Exec(`
		INSERT INTO published_registries (holder, registry, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM published_registries WHERE holder = ?))
		ON CONFLICT (holder, registry) DO NOTHING`,
		holder.String(), registry.String(), holder.String())
	if err != nil {
		return fmt.Errorf("failed to publish registry: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to publish registry: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	s.log.Debug("Published registry",
		slog.String("holder", holder.String()),
		slog.String("registry", registry.String()))
	s.emit(interfaces.EventRegistryAdded, holder, registry)

	return nil
}

// Remove deletes registry from holder's published set; absent entries are a
// no-op.
func (s *SQLiteStore) Remove(holder interfaces.Address, registry interfaces.Address) error {
	if holder.IsZero() || registry.IsZero() {
		return interfaces.ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM published_registries WHERE holder = ? AND registry = ?`,
		holder.String(), registry.String())
	if err != nil {
		return fmt.Errorf("failed to unpublish registry: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to unpublish registry: %w", err)
	}
	if deleted == 0 {
		return nil
	}

	s.log.Debug("Unpublished registry",
		slog.String("holder", holder.String()),
		slog.String("registry", registry.String()))
	s.emit(interfaces.EventRegistryRemoved, holder, registry)

	return nil
}

// Get returns holder's published registries in insertion order.
func (s *SQLiteStore) Get(holder interfaces.Address) ([]interfaces.Address, error) {
	rows, err := s.db.Query(`SELECT registry FROM published_registries WHERE holder = ? ORDER BY position`,
		holder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query published registries: %w", err)
	}
	defer rows.Close()

	out := []interfaces.Address{}
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("failed to scan published registry: %w", err)
		}
		addr, err := interfaces.NewAddressFromHex(hex)
		if err != nil {
			return nil, fmt.Errorf("corrupt registry address %q: %w", hex, err)
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) emit(kind interfaces.EventKind, holder, registry interfaces.Address) {
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
