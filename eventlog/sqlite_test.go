package eventlog

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, hex string) interfaces.Address {
	addr, err := interfaces.NewAddressFromHex(hex)
	require.NoError(t, err)
	return addr
}

func newTestLog(t *testing.T) *SQLiteLog {
	t.Helper()
	log, err := NewSQLiteLog(filepath.Join(t.TempDir(), "events.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestSQLiteLog_AppendAndList(t *testing.T) {
	log := newTestLog(t)

	registry := mustAddr(t, "a00000000000000000000000000000000000000a")
	otherRegistry := mustAddr(t, "b00000000000000000000000000000000000000b")
	owner := mustAddr(t, "2000000000000000000000000000000000000002")

	events := []interfaces.Event{
		{ID: uuid.NewString(), Kind: interfaces.EventMinted, Registry: registry, Owner: owner, TokenID: 1},
		{ID: uuid.NewString(), Kind: interfaces.EventRevoked, Registry: registry, Owner: owner, TokenID: 1},
		{ID: uuid.NewString(), Kind: interfaces.EventMinted, Registry: otherRegistry, Owner: owner, TokenID: 1},
	}
	for i := range events {
		events[i].Timestamp = time.Now().UTC().Truncate(time.Millisecond)
		log.Publish(events[i])
	}

	all, err := log.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, events[0].ID, all[0].ID, "append order preserved")
	assert.Equal(t, events[0].Kind, all[0].Kind)
	assert.Equal(t, registry, all[0].Registry)
	assert.Equal(t, owner, all[0].Owner)
	assert.Equal(t, interfaces.TokenID(1), all[0].TokenID)
	assert.Equal(t, events[0].Timestamp, all[0].Timestamp)

	byRegistry, err := log.List(Filter{Registry: registry})
	require.NoError(t, err)
	assert.Len(t, byRegistry, 2)

	byKind, err := log.List(Filter{Kind: interfaces.EventRevoked})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, events[1].ID, byKind[0].ID)

	limited, err := log.List(Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteLog_AsRegistrySink(t *testing.T) {
	log := newTestLog(t)

	e := interfaces.Event{
		ID:        uuid.NewString(),
		Kind:      interfaces.EventOwnerChanged,
		Registry:  mustAddr(t, "a00000000000000000000000000000000000000a"),
		Owner:     mustAddr(t, "2000000000000000000000000000000000000002"),
		TokenID:   7,
		Recipient: mustAddr(t, "3000000000000000000000000000000000000003"),
		Timestamp: time.Now().UTC(),
	}

	var sink interfaces.EventSink = log
	sink.Publish(e)

	got, err := log.List(Filter{Kind: interfaces.EventOwnerChanged})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.Recipient, got[0].Recipient)
}
