// Package interfaces defines core interfaces and types for the NTT registry
// system, separating interface definitions from implementations.
//
// The package provides interfaces for the key components of the system:
//
// # Registry Interfaces
//
// TokenLedger: The base contract of every registry instance - an append-only
// ledger of non-transferable, revocable tokens owned by one issuing authority.
//
// Metadata, Enumerable, Delegable, Consensus, Pull: Optional extension
// interfaces layered over the base ledger. A registry instance declares which
// extensions it implements through its Capability set, and callers check
// Supports before invoking extension-specific operations.
//
// DiscoveryStore: The shared reverse index mapping holder addresses to the
// registry instances holding tokens for them. Entries are advisory - the
// store performs no validation of published addresses.
//
// # Storage Interfaces
//
// StorageBackend: Provides content-addressed storage for token metadata
// documents across multiple backend types (file, S3, IPFS).
//
// StorageBackendFactory: Creates storage backends from URI strings and
// manages multi-backend configurations for redundant storage.
//
// # Core Types
//
// - Address: 20-byte account address for holders, issuers, and registries
// - TokenID: per-registry unique, never-reused token identifier
// - Capability: bitmask describing a registry instance's extension set
// - ContentID: 32-byte SHA-256 hash for content addressing
// - Event/EventSink: Minted, Revoked, OwnerChanged, Added, Removed
//   notifications and the sinks that receive them
//
// # Error Taxonomy
//
// All operations fail synchronously with one of the sentinel errors defined
// here: ErrNotFound, ErrUnauthorized, ErrOutOfRange, ErrAlreadyRevoked,
// ErrAlreadyVoted, ErrInvalidSignature, ErrInvalidAddress, ErrUnsupported.
// There are no transient failure modes and no internal retries.
package interfaces
