package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/ntt-registry-backend/cryptoutils"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeOwner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := interfaces.Address(crypto.PubkeyToAddress(key.PublicKey))
	recipient := mustAddr("9000000000000000000000000000000000000009")

	reg := newTestRegistry(t, interfaces.CapPull|interfaces.CapEnumerable)

	id, err := reg.Mint(issuerAddr, owner)
	require.NoError(t, err)
	require.NoError(t, reg.Revoke(issuerAddr, id))

	other, err := reg.Mint(issuerAddr, owner)
	require.NoError(t, err)

	sig, err := cryptoutils.SignPull(key, reg.Address().Common(), uint64(id), owner.Common(), recipient.Common())
	require.NoError(t, err)

	require.NoError(t, reg.ChangeOwner(id, recipient, sig))

	// The record moved wholesale: owner, balance, and local enumeration.
	got, err := reg.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, recipient, got)
	assert.Equal(t, uint64(1), reg.BalanceOf(owner))
	assert.Equal(t, uint64(1), reg.BalanceOf(recipient))

	remaining, err := reg.TokenOfOwnerByIndex(owner, 0)
	require.NoError(t, err)
	assert.Equal(t, other, remaining)

	moved, err := reg.TokenOfOwnerByIndex(recipient, 0)
	require.NoError(t, err)
	assert.Equal(t, id, moved)

	// Validity state travels with the record.
	valid, err := reg.IsValid(id)
	require.NoError(t, err)
	assert.False(t, valid, "revocation survives wallet migration")

	// Global enumeration order is untouched.
	first, err := reg.TokenByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, id, first)

	assert.Equal(t, uint64(2), reg.HoldersCount(), "recipient counts as a holder")
}

func TestChangeOwner_RejectsWrongSigner(t *testing.T) {
	ownerKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	owner := interfaces.Address(crypto.PubkeyToAddress(ownerKey.PublicKey))
	recipient := mustAddr("9000000000000000000000000000000000000009")

	reg := newTestRegistry(t, interfaces.CapPull)
	id, err := reg.Mint(issuerAddr, owner)
	require.NoError(t, err)

	sig, err := cryptoutils.SignPull(otherKey, reg.Address().Common(), uint64(id), owner.Common(), recipient.Common())
	require.NoError(t, err)
	assert.ErrorIs(t, reg.ChangeOwner(id, recipient, sig), interfaces.ErrUnauthorized)

	// A signature over a different recipient must not authorize this one.
	sig, err = cryptoutils.SignPull(ownerKey, reg.Address().Common(), uint64(id), owner.Common(), holderB.Common())
	require.NoError(t, err)
	assert.ErrorIs(t, reg.ChangeOwner(id, recipient, sig), interfaces.ErrUnauthorized)

	got, err := reg.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, owner, got, "failed pulls must not move the record")
}

func TestChangeOwner_Errors(t *testing.T) {
	reg := newTestRegistry(t, interfaces.CapPull)

	assert.ErrorIs(t, reg.ChangeOwner(42, holderB, make([]byte, cryptoutils.PullSignatureLength)), interfaces.ErrNotFound)

	id, err := reg.Mint(issuerAddr, holderA)
	require.NoError(t, err)

	assert.ErrorIs(t, reg.ChangeOwner(id, interfaces.Address{}, nil), interfaces.ErrInvalidAddress)
	assert.ErrorIs(t, reg.ChangeOwner(id, holderA, nil), interfaces.ErrInvalidAddress)
	assert.ErrorIs(t, reg.ChangeOwner(id, holderB, []byte{0x01}), interfaces.ErrInvalidSignature)
}
