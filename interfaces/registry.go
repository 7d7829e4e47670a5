package interfaces

import "context"

// TokenLedger is the base contract every registry instance implements: an
// append-only ledger of non-transferable tokens, one instance per issuing
// authority. Mutating operations take the caller address explicitly since
// there is no ambient transaction authentication in this model.
type TokenLedger interface {
	// Address returns the registry instance address. It is the handle
	// holders publish in the discovery store.
	Address() Address

	// Issuer returns the authority controlling this registry.
	Issuer() Address

	// Supports reports whether the instance implements an optional
	// capability. All bits of the argument must be present.
	Supports(c Capability) bool

	// Mint creates a new token for owner and returns its ID.
	// The caller must be the issuer or, under the delegation extension,
	// hold an unconsumed grant for owner. Registries created with the
	// consensus capability reject direct mints entirely.
	Mint(caller Address, owner Address) (TokenID, error)

	// Revoke marks a token invalid. The token's record is never erased.
	Revoke(caller Address, id TokenID) error

	// BalanceOf returns the number of tokens ever minted to owner,
	// regardless of validity. Unknown owners have balance zero.
	BalanceOf(owner Address) uint64

	// OwnerOf returns the address the token was minted to.
	OwnerOf(id TokenID) (Address, error)

	// IsValid reports whether the token has not been revoked.
	IsValid(id TokenID) (bool, error)

	// HasValid reports whether owner holds at least one valid token.
	HasValid(owner Address) bool
}

// Metadata is the optional naming and document-resolution extension.
type Metadata interface {
	// Name returns the descriptive name of the registry's tokens.
	Name() string

	// Symbol returns the short ticker-style identifier.
	Symbol() string

	// TokenURI returns the URI resolving to the token's off-chain
	// metadata document. Revoked tokens still resolve; revocation is
	// not erasure.
	TokenURI(id TokenID) (string, error)

	// StoreTokenDocument persists a metadata document for the token in
	// the registry's storage backend. Issuer-only.
	StoreTokenDocument(ctx context.Context, caller Address, id TokenID, doc []byte) (ContentID, error)

	// TokenDocument fetches the stored metadata document for the token.
	TokenDocument(ctx context.Context, id TokenID) ([]byte, error)
}

// Enumerable is the optional index-based lookup extension.
type Enumerable interface {
	// EmittedCount returns the total number of tokens ever minted.
	EmittedCount() uint64

	// HoldersCount returns the number of distinct addresses that have
	// received at least one token. Never decremented.
	HoldersCount() uint64

	// TokenOfOwnerByIndex returns owner's index-th token in mint order.
	TokenOfOwnerByIndex(owner Address, index uint64) (TokenID, error)

	// TokenByIndex returns the index-th token ever minted.
	TokenByIndex(index uint64) (TokenID, error)
}

// Delegable is the optional delegated-minting extension.
type Delegable interface {
	// Delegate grants operator a single-use right to mint one token for
	// owner. Issuer-only. A repeated grant for the same pair refreshes
	// the existing one; uses never stack.
	Delegate(caller Address, operator Address, owner Address) error

	// DelegateBatch applies Delegate pairwise, all-or-nothing.
	DelegateBatch(caller Address, operators []Address, owners []Address) error

	// IssuerOf returns the address that actually minted the token, which
	// under delegation is not necessarily the registry issuer.
	IssuerOf(id TokenID) (Address, error)
}

// Consensus is the optional voter-gated minting and revocation extension.
// The voter set is fixed at construction and the quorum is a documented
// construction parameter.
type Consensus interface {
	// Voters returns the fixed voter set.
	Voters() []Address

	// Quorum returns the number of approvals required to execute.
	Quorum() int

	// ApproveMint records the caller's vote for minting to owner. When
	// the vote reaches quorum the mint executes atomically, the round's
	// votes are cleared, and the new token ID is returned with
	// executed=true.
	ApproveMint(caller Address, owner Address) (id TokenID, executed bool, err error)

	// ApproveRevoke records the caller's vote for revoking the token,
	// executing the revocation once quorum is reached.
	ApproveRevoke(caller Address, id TokenID) (executed bool, err error)
}

// Pull is the optional same-holder wallet-migration extension. It moves a
// token record between two addresses of the same person, authorized by a
// signature from the current owner. It is not a transfer: all ledger
// invariants (ID uniqueness, validity state, revocation permanence) are
// preserved.
type Pull interface {
	// ChangeOwner reassigns the token to recipient given a 65-byte
	// secp256k1 signature by the current owner over the pull digest of
	// (registry, id, owner, recipient).
	ChangeOwner(id TokenID, recipient Address, signature []byte) error
}

// TokenRegistry aggregates the base ledger with every optional extension.
// Instances report their actual capability set through Supports; extension
// methods on unsupported instances fail with ErrUnsupported.
type TokenRegistry interface {
	TokenLedger
	Metadata
	Enumerable
	Delegable
	Consensus
	Pull
}

// RegistryResolver resolves registry instances by address. Implemented by
// the in-process registry manager and by remote clients.
type RegistryResolver interface {
	// RegistryFor returns the registry instance at the given address.
	RegistryFor(addr Address) (TokenRegistry, error)
}

// DiscoveryStore is the shared, issuer-agnostic reverse index mapping
// holder addresses to the registries they chose to publish. Entries are
// advisory pointers: nothing validates that a published address is a
// well-formed registry, and verifiers must check each one independently.
type DiscoveryStore interface {
	// Add appends registry to holder's published set. Re-adding an
	// existing entry is a no-op.
	Add(holder Address, registry Address) error

	// Remove deletes registry from holder's published set. Removing an
	// absent entry is a no-op, symmetric with Add's idempotence.
	Remove(holder Address, registry Address) error

	// Get returns holder's published registries in insertion order.
	// Unknown holders yield an empty slice.
	Get(holder Address) ([]Address, error)
}
