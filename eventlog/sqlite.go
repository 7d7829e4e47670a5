package eventlog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ruteri/ntt-registry-backend/interfaces"
	_ "modernc.org/sqlite"
)

// SQLiteLog is a durable, append-only notification log. It implements
// interfaces.EventSink; appends run on the caller's goroutine and must stay
// cheap, so each Publish is a single INSERT.
type SQLiteLog struct {
	mu  sync.Mutex
	db  *sql.DB
	log *slog.Logger
}

// Filter selects events when listing the log. Zero values match everything.
type Filter struct {
	Registry interfaces.Address
	Owner    interfaces.Address
	Kind     interfaces.EventKind
	Limit    int
}

// NewSQLiteLog opens (and if needed creates) the event log database at
// dbPath.
func NewSQLiteLog(dbPath string, log *slog.Logger) (*SQLiteLog, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open event log database: %w", err)
	}

	l := &SQLiteLog{db: db, log: log}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate event log database: %w", err)
	}

	return l, nil
}

func (l *SQLiteLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		id        TEXT NOT NULL UNIQUE,
		kind      TEXT NOT NULL,
		registry  TEXT NOT NULL,
		owner     TEXT NOT NULL,
		token_id  INTEGER NOT NULL,
		recipient TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_registry ON events (registry, seq);
	CREATE INDEX IF NOT EXISTS idx_events_owner ON events (owner, seq);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Publish appends the event. Failures are logged, not surfaced: the ledger
// mutation that emitted the event has already committed, and the log is an
// audit trail, not a source of truth.
func (l *SQLiteLog) Publish(e interfaces.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`
		INSERT INTO events (id, kind, registry, owner, token_id, recipient, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Registry.String(), e.Owner.String(),
		uint64(e.TokenID), e.Recipient.String(), e.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		l.log.Error("Failed to append event", "err", err, "event_id", e.ID)
	}
}

// List returns logged events matching the filter in append order.
func (l *SQLiteLog) List(filter Filter) ([]interfaces.Event, error) {
	query := `SELECT id, kind, registry, owner, token_id, recipient, timestamp FROM events WHERE 1=1`
	var args []any

	if !filter.Registry.IsZero() {
		query += ` AND registry = ?`
		args = append(args, filter.Registry.String())
	}
	if !filter.Owner.IsZero() {
		query += ` AND owner = ?`
		args = append(args, filter.Owner.String())
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY seq`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event log: %w", err)
	}
	defer rows.Close()

	var out []interfaces.Event
	for rows.Next() {
		var (
			e                                    interfaces.Event
			kind, registry, owner, recipient, ts string
			tokenID                              uint64
		)
		if err := rows.Scan(&e.ID, &kind, &registry, &owner, &tokenID, &recipient, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		e.Kind = interfaces.EventKind(kind)
		e.TokenID = interfaces.TokenID(tokenID)
		if e.Registry, err = interfaces.NewAddressFromHex(registry); err != nil {
			return nil, fmt.Errorf("corrupt registry address in event log: %w", err)
		}
		if e.Owner, err = interfaces.NewAddressFromHex(owner); err != nil {
			return nil, fmt.Errorf("corrupt owner address in event log: %w", err)
		}
		if e.Recipient, err = interfaces.NewAddressFromHex(recipient); err != nil {
			return nil, fmt.Errorf("corrupt recipient address in event log: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("corrupt timestamp in event log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
