// Package interfaces defines the core interfaces and types for the NTT registry system.
// It provides the contract between different components without implementation details.
package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address represents a 20-byte account address: a token holder, an issuing
// authority, a delegated operator, or a registry instance.
type Address [20]byte

// NewAddressFromBytes creates an address from a raw 20-byte slice.
func NewAddressFromBytes(addr []byte) (Address, error) {
	if len(addr) != 20 {
		return Address{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res Address
	copy(res[:], addr)
	return res, nil
}

// NewAddressFromHex creates an address from a 40-character hex string,
// with or without a 0x prefix.
func NewAddressFromHex(addr string) (Address, error) {
	clean := strings.TrimPrefix(addr, "0x")
	if len(clean) != 40 {
		return Address{}, fmt.Errorf("%w: hex string must be 40 characters", ErrInvalidAddress)
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	return NewAddressFromBytes(addrBytes)
}

// String returns the hex string representation of the address.
func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

// Bytes returns the raw 20-byte address.
func (addr Address) Bytes() []byte {
	return addr[:]
}

// Common returns the go-ethereum representation of the address.
func (addr Address) Common() common.Address {
	return common.Address(addr)
}

// Equal compares two addresses for equality.
func (addr Address) Equal(other Address) bool {
	return addr == other
}

// IsZero reports whether the address is the zero address.
func (addr Address) IsZero() bool {
	return addr == Address{}
}

// TokenID uniquely identifies a token within one registry instance.
// IDs are assigned from a monotonically increasing counter starting at 1
// and are never reused, even conceptually.
type TokenID uint64

// NewTokenIDFromString parses a decimal token ID.
func NewTokenIDFromString(s string) (TokenID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id %q: %w", s, err)
	}
	return TokenID(id), nil
}

// String returns the decimal representation of the token ID.
func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Capability identifies an optional extension a registry instance may
// implement on top of the base token ledger. Callers are expected to check
// Supports before invoking extension-specific operations.
type Capability uint32

const (
	// CapMetadata covers Name, Symbol, TokenURI and document storage.
	CapMetadata Capability = 1 << iota

	// CapEnumerable covers EmittedCount, HoldersCount and index lookups.
	CapEnumerable

	// CapDelegation covers one-shot delegated minting grants.
	CapDelegation

	// CapConsensus covers voter-approved minting and revocation.
	CapConsensus

	// CapPull covers signature-authorized same-holder wallet migration.
	CapPull
)

var capabilityNames = map[Capability]string{
	CapMetadata:   "metadata",
	CapEnumerable: "enumerable",
	CapDelegation: "delegation",
	CapConsensus:  "consensus",
	CapPull:       "pull",
}

// String returns the capability name, or "unknown" for unrecognized bits.
func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// Names expands a capability set into its individual names.
func (c Capability) Names() []string {
	var names []string
	for _, cap := range []Capability{CapMetadata, CapEnumerable, CapDelegation, CapConsensus, CapPull} {
		if c&cap != 0 {
			names = append(names, cap.String())
		}
	}
	return names
}

// ParseCapability resolves a capability name.
func ParseCapability(name string) (Capability, error) {
	for cap, capName := range capabilityNames {
		if capName == name {
			return cap, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", name)
}
