// Package cryptoutils provides the cryptographic primitives used by the NTT
// registry system: digest construction and secp256k1 signing/recovery for
// pull (wallet migration) authorizations.
package cryptoutils

import (
	"crypto/ecdsa"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PullSignatureLength is the expected length of a pull authorization
// signature: 64 bytes of r||s plus one recovery byte.
const PullSignatureLength = 65

// ErrMalformedSignature is returned when a signature has the wrong length
// or an invalid recovery byte.
var ErrMalformedSignature = errors.New("malformed pull signature")

// PullDigest computes the digest a token owner signs to authorize moving a
// token record to another of their own wallets. The digest binds the
// registry instance, the token, the current owner and the recipient, so a
// signature cannot be replayed against another registry, token, or
// destination.
func PullDigest(registry common.Address, tokenID uint64, owner, recipient common.Address) [32]byte {
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], tokenID)

	msg := make([]byte, 0, 68)
	msg = append(msg, registry.Bytes()...)
	msg = append(msg, idBytes[:]...)
	msg = append(msg, owner.Bytes()...)
	msg = append(msg, recipient.Bytes()...)

	return crypto.Keccak256Hash(msg)
}

// SignPull produces a pull authorization signature over the digest of
// (registry, tokenID, owner, recipient) with the owner's private key.
func SignPull(key *ecdsa.PrivateKey, registry common.Address, tokenID uint64, owner, recipient common.Address) ([]byte, error) {
	digest := PullDigest(registry, tokenID, owner, recipient)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign pull digest: %w", err)
	}
	return sig, nil
}

// RecoverPullSigner recovers the address that signed a pull authorization.
// The caller compares the result against the token's current owner.
func RecoverPullSigner(digest [32]byte, signature []byte) (common.Address, error) {
	if len(signature) != PullSignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSignature, PullSignatureLength, len(signature))
	}

	pubkey, err := crypto.SigToPub(digest[:], signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}

	return crypto.PubkeyToAddress(*pubkey), nil
}
