package registry

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	issuerAddr = mustAddr("1000000000000000000000000000000000000001")
	holderA    = mustAddr("2000000000000000000000000000000000000002")
	holderB    = mustAddr("3000000000000000000000000000000000000003")
	operatorX  = mustAddr("4000000000000000000000000000000000000004")
)

func mustAddr(hex string) interfaces.Address {
	addr, err := interfaces.NewAddressFromHex(hex)
	if err != nil {
		panic(err)
	}
	return addr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, caps interfaces.Capability) *Registry {
	t.Helper()
	reg, err := New(Config{
		Issuer:       issuerAddr,
		Name:         "Example Diplomas",
		Symbol:       "DIPL",
		BaseURI:      "https://credentials.example.org/tokens",
		Capabilities: caps,
		Log:          testLogger(),
	})
	require.NoError(t, err)
	return reg
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Log: testLogger()})
	assert.ErrorIs(t, err, interfaces.ErrInvalidAddress, "zero issuer must be rejected")

	_, err = New(Config{Issuer: issuerAddr, Capabilities: interfaces.CapConsensus, Log: testLogger()})
	assert.ErrorIs(t, err, ErrNoVoters)

	_, err = New(Config{Issuer: issuerAddr, Voters: []interfaces.Address{holderA}, Log: testLogger()})
	assert.Error(t, err, "voters without the consensus capability must be rejected")
}

func TestNew_AddressDerivation(t *testing.T) {
	first, err := New(Config{Issuer: issuerAddr, Nonce: 0, Log: testLogger()})
	require.NoError(t, err)
	second, err := New(Config{Issuer: issuerAddr, Nonce: 1, Log: testLogger()})
	require.NoError(t, err)
	replay, err := New(Config{Issuer: issuerAddr, Nonce: 0, Log: testLogger()})
	require.NoError(t, err)

	assert.NotEqual(t, first.Address(), second.Address())
	assert.Equal(t, first.Address(), replay.Address(), "address derivation must be deterministic")
}

func TestMint_IDsUniqueAndSequential(t *testing.T) {
	reg := newTestRegistry(t, 0)

	seen := make(map[interfaces.TokenID]bool)
	for i := 0; i < 10; i++ {
		owner := holderA
		if i%2 == 1 {
			owner = holderB
		}
		id, err := reg.Mint(issuerAddr, owner)
		require.NoError(t, err)
		assert.False(t, seen[id], "token ids must be pairwise distinct")
		seen[id] = true
	}

	assert.Equal(t, uint64(5), reg.BalanceOf(holderA))
	assert.Equal(t, uint64(5), reg.BalanceOf(holderB))
}

func TestMint_Unauthorized(t *testing.T) {
	reg := newTestRegistry(t, 0)

	_, err := reg.Mint(holderA, holderA)
	assert.ErrorIs(t, err, interfaces.ErrUnauthorized)

	_, err = reg.Mint(issuerAddr, interfaces.Address{})
	assert.ErrorIs(t, err, interfaces.ErrInvalidAddress)
}

func TestRevoke_PermanenceAndMonotonicity(t *testing.T) {
	reg := newTestRegistry(t, 0)

	id, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)

	valid, err := reg.IsValid(id)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, reg.Revoke(issuerAddr, id))

	valid, err = reg.IsValid(id)
	require.NoError(t, err)
	assert.False(t, valid)

	// The record survives revocation.
	owner, err := reg.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, holderA, owner)
	assert.Equal(t, uint64(1), reg.BalanceOf(holderA))

	// Re-revoking is an error, not a silent no-op.
	assert.ErrorIs(t, reg.Revoke(issuerAddr, id), interfaces.ErrAlreadyRevoked)
}

func TestRevoke_Errors(t *testing.T) {
	reg := newTestRegistry(t, 0)

	assert.ErrorIs(t, reg.Revoke(issuerAddr, 99), interfaces.ErrNotFound)

	id, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)
	assert.ErrorIs(t, reg.Revoke(holderA, id), interfaces.ErrUnauthorized)
}

func TestHasValid_Aggregation(t *testing.T) {
	reg := newTestRegistry(t, 0)

	assert.False(t, reg.HasValid(holderA), "no tokens yet")

	first, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)
	second, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)

	assert.True(t, reg.HasValid(holderA))

	require.NoError(t, reg.Revoke(issuerAddr, first))
	assert.True(t, reg.HasValid(holderA), "one valid token remains")

	require.NoError(t, reg.Revoke(issuerAddr, second))
	assert.False(t, reg.HasValid(holderA), "all tokens revoked")
}

func TestLookup_UnknownToken(t *testing.T) {
	reg := newTestRegistry(t, 0)

	_, err := reg.OwnerOf(1)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = reg.IsValid(1)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	assert.Equal(t, uint64(0), reg.BalanceOf(holderA))
}

func TestEnumeration(t *testing.T) {
	reg := newTestRegistry(t, interfaces.CapEnumerable)

	var minted []interfaces.TokenID
	for i := 0; i < 3; i++ {
		id, err := reg.Mint(issuerAddr, holderA)
		require.NoError(t, err)
		minted = append(minted, id)
	}
	extra, err := reg.Mint(issuerAddr, holderB)
	require.NoError(t, err)

	assert.Equal(t, uint64(4), reg.EmittedCount())
	assert.Equal(t, uint64(2), reg.HoldersCount())

	// Owner-indexed lookup follows mint order without duplicates.
	seen := make(map[interfaces.TokenID]bool)
	for i, want := range minted {
		got, err := reg.TokenOfOwnerByIndex(holderA, uint64(i))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.False(t, seen[got])
		seen[got] = true
	}

	_, err = reg.TokenOfOwnerByIndex(holderA, 3)
	assert.ErrorIs(t, err, interfaces.ErrOutOfRange)

	got, err := reg.TokenByIndex(3)
	require.NoError(t, err)
	assert.Equal(t, extra, got)

	_, err = reg.TokenByIndex(4)
	assert.ErrorIs(t, err, interfaces.ErrOutOfRange)
}

func TestEnumeration_CountersSurviveRevocation(t *testing.T) {
	reg := newTestRegistry(t, interfaces.CapEnumerable)

	id, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)
	require.NoError(t, reg.Revoke(issuerAddr, id))

	assert.Equal(t, uint64(1), reg.EmittedCount())
	assert.Equal(t, uint64(1), reg.HoldersCount(), "holders count never decrements")
}

func TestCapabilityGating(t *testing.T) {
	reg := newTestRegistry(t, 0)

	assert.False(t, reg.Supports(interfaces.CapEnumerable))

	_, err := reg.TokenByIndex(0)
	assert.ErrorIs(t, err, interfaces.ErrUnsupported)

	_, err = reg.TokenURI(1)
	assert.ErrorIs(t, err, interfaces.ErrUnsupported)

	assert.ErrorIs(t, reg.Delegate(issuerAddr, operatorX, holderA), interfaces.ErrUnsupported)

	_, _, err = reg.ApproveMint(issuerAddr, holderA)
	assert.ErrorIs(t, err, interfaces.ErrUnsupported)

	assert.ErrorIs(t, reg.ChangeOwner(1, holderB, nil), interfaces.ErrUnsupported)
}

func TestEvents_OrderAndUniqueness(t *testing.T) {
	var events []interfaces.Event
	reg, err := New(Config{
		Issuer:       issuerAddr,
		Capabilities: 0,
		Sink:         interfaces.EventSinkFunc(func(e interfaces.Event) { events = append(events, e) }),
		Log:          testLogger(),
	})
	require.NoError(t, err)

	id, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)
	require.NoError(t, reg.Revoke(issuerAddr, id))

	// A failed revoke must not emit.
	require.Error(t, reg.Revoke(issuerAddr, id))

	require.Len(t, events, 2)
	assert.Equal(t, interfaces.EventMinted, events[0].Kind)
	assert.Equal(t, interfaces.EventRevoked, events[1].Kind)
	assert.Equal(t, holderA, events[0].Owner)
	assert.Equal(t, id, events[0].TokenID)
	assert.Equal(t, reg.Address(), events[0].Registry)
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestManager(t *testing.T) {
	mgr := NewManager(nil, nil, testLogger())

	first, err := mgr.Create(Config{Issuer: issuerAddr, Name: "A", Symbol: "A"})
	require.NoError(t, err)
	second, err := mgr.Create(Config{Issuer: issuerAddr, Name: "B", Symbol: "B"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Address(), second.Address(), "per-issuer nonce must advance")

	resolved, err := mgr.RegistryFor(first.Address())
	require.NoError(t, err)
	assert.Equal(t, "A", resolved.Name())

	_, err = mgr.RegistryFor(holderA)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	assert.Len(t, mgr.Addresses(), 2)
}
