// Package registry implements the token registry: a per-issuer ledger of
// non-tradable tokens (NTTs) representing personal achievements and
// credentials.
//
// The package implements the interfaces.TokenRegistry interface. Each
// Registry instance is owned by a single issuing authority and records every
// token it ever minted; revocation marks a token invalid without erasing its
// record, so verifiers can distinguish a revoked credential from one that
// never existed.
//
// Key features include:
//
//   - Issuance of unique, never-reused token IDs bound to one holder
//   - Permanent records with one-way Valid -> Revoked transitions
//   - Owner-indexed and global enumeration in mint order
//   - One-shot delegated minting grants for third-party operators
//   - Voter-approved (quorum-gated) minting and revocation
//   - Metadata URIs and content-addressed token documents
//   - Signature-authorized wallet migration for a holder's own addresses
//
// Extensions are selected per instance through the Capability set at
// construction; operations of an absent extension fail with ErrUnsupported.
// The consensus quorum is a strict majority of the fixed voter set.
//
// Every state-mutating operation executes atomically behind the instance
// mutex and either fully applies or leaves no trace. Minted, Revoked, and
// OwnerChanged notifications are published to the configured event sink in
// ledger order, exactly once per transition.
//
// The Manager hosts multiple registry instances in one process, deriving
// each instance address from (issuer, nonce) with Ethereum's contract
// address scheme, and resolves instances by address for the API layer.
package registry
