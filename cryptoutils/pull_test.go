package cryptoutils

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullSignatureRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	registry := common.HexToAddress("0x1111111111111111111111111111111111111111")
	recipient := common.HexToAddress("0x2222222222222222222222222222222222222222")

	sig, err := SignPull(key, registry, 42, owner, recipient)
	require.NoError(t, err)
	require.Len(t, sig, PullSignatureLength)

	digest := PullDigest(registry, 42, owner, recipient)
	signer, err := RecoverPullSigner(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, owner, signer)
}

func TestPullDigestBindsAllFields(t *testing.T) {
	registry := common.HexToAddress("0x1111111111111111111111111111111111111111")
	owner := common.HexToAddress("0x3333333333333333333333333333333333333333")
	recipient := common.HexToAddress("0x2222222222222222222222222222222222222222")

	base := PullDigest(registry, 1, owner, recipient)

	otherRegistry := PullDigest(common.HexToAddress("0x4444444444444444444444444444444444444444"), 1, owner, recipient)
	otherToken := PullDigest(registry, 2, owner, recipient)
	otherRecipient := PullDigest(registry, 1, owner, common.HexToAddress("0x5555555555555555555555555555555555555555"))

	assert.NotEqual(t, base, otherRegistry, "digest must bind the registry address")
	assert.NotEqual(t, base, otherToken, "digest must bind the token id")
	assert.NotEqual(t, base, otherRecipient, "digest must bind the recipient")
}

func TestRecoverPullSigner_Malformed(t *testing.T) {
	digest := PullDigest(common.Address{}, 1, common.Address{}, common.Address{})

	_, err := RecoverPullSigner(digest, []byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrMalformedSignature)
}
