// Package registry implements the token registry: a per-issuer, append-only
// ledger of non-transferable, revocable tokens with optional metadata,
// enumeration, delegation, consensus and pull extensions.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// ErrNoVoters is returned when a registry is created with the consensus
// capability but an empty voter set.
var ErrNoVoters = errors.New("consensus capability requires a non-empty voter set")

// token is the permanent record of a single minted token. Records are never
// deleted; revocation only flips the valid flag.
type token struct {
	owner    interfaces.Address
	issuer   interfaces.Address
	valid    bool
	mintedAt time.Time
	doc      interfaces.ContentID
	hasDoc   bool
}

// Config describes a new registry instance.
type Config struct {
	// Issuer is the authority controlling the registry. Required.
	Issuer interfaces.Address

	// Nonce disambiguates multiple registries deployed by one issuer.
	// The instance address is derived from (Issuer, Nonce) the same way
	// Ethereum derives contract addresses.
	Nonce uint64

	// Name and Symbol describe the registry's tokens (metadata extension).
	Name   string
	Symbol string

	// BaseURI is the prefix of every TokenURI (metadata extension).
	BaseURI string

	// Capabilities selects the optional extensions this instance serves.
	Capabilities interfaces.Capability

	// Voters is the fixed voter set for the consensus extension. Required
	// iff CapConsensus is set.
	Voters []interfaces.Address

	// Storage holds token metadata documents (metadata extension,
	// optional - TokenURI works without it).
	Storage interfaces.StorageBackend

	// Sink receives Minted/Revoked/OwnerChanged notifications. Optional.
	Sink interfaces.EventSink

	// Log is the structured logger. Optional.
	Log *slog.Logger
}

// Registry is the authoritative ledger of tokens for one issuing authority.
// All mutating operations are serialized behind a single mutex, so every
// state change is atomic and no partial application is observable.
type Registry struct {
	mu sync.RWMutex

	addr    interfaces.Address
	issuer  interfaces.Address
	name    string
	symbol  string
	baseURI string
	caps    interfaces.Capability

	tokens        map[interfaces.TokenID]*token
	tokensByOwner map[interfaces.Address][]interfaces.TokenID
	allTokens     []interfaces.TokenID
	holders       map[interfaces.Address]struct{}
	nextID        uint64

	mintApprovals map[approvalKey]struct{}

	voters      []interfaces.Address
	voterSet    map[interfaces.Address]struct{}
	quorum      int
	mintVotes   map[interfaces.Address]map[interfaces.Address]struct{}
	revokeVotes map[interfaces.TokenID]map[interfaces.Address]struct{}

	storage interfaces.StorageBackend
	sink    interfaces.EventSink
	log     *slog.Logger
}

// New creates a registry instance for the configured issuer. The instance
// address is derived from the issuer address and nonce using Ethereum's
// contract address derivation, so it is stable across restarts.
func New(cfg Config) (*Registry, error) {
	if cfg.Issuer.IsZero() {
		return nil, fmt.Errorf("%w: issuer must not be the zero address", interfaces.ErrInvalidAddress)
	}
	if cfg.Capabilities&interfaces.CapConsensus != 0 && len(cfg.Voters) == 0 {
		return nil, ErrNoVoters
	}
	if cfg.Capabilities&interfaces.CapConsensus == 0 && len(cfg.Voters) > 0 {
		return nil, errors.New("voters provided without the consensus capability")
	}

	addr := interfaces.Address(crypto.CreateAddress(cfg.Issuer.Common(), cfg.Nonce))

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("registry", addr.String()))

	r := &Registry{
		addr:          addr,
		issuer:        cfg.Issuer,
		name:          cfg.Name,
		symbol:        cfg.Symbol,
		baseURI:       cfg.BaseURI,
		caps:          cfg.Capabilities,
		tokens:        make(map[interfaces.TokenID]*token),
		tokensByOwner: make(map[interfaces.Address][]interfaces.TokenID),
		holders:       make(map[interfaces.Address]struct{}),
		nextID:        1,
		mintApprovals: make(map[approvalKey]struct{}),
		storage:       cfg.Storage,
		sink:          cfg.Sink,
		log:           log,
	}

	if cfg.Capabilities&interfaces.CapConsensus != 0 {
		r.voterSet = make(map[interfaces.Address]struct{}, len(cfg.Voters))
		for _, v := range cfg.Voters {
			if v.IsZero() {
				return nil, fmt.Errorf("%w: voter must not be the zero address", interfaces.ErrInvalidAddress)
			}
			if _, dup := r.voterSet[v]; dup {
				return nil, fmt.Errorf("duplicate voter %s", v)
			}
			r.voterSet[v] = struct{}{}
			r.voters = append(r.voters, v)
		}
		// Strict majority of the fixed voter set.
		r.quorum = len(r.voters)/2 + 1
		r.mintVotes = make(map[interfaces.Address]map[interfaces.Address]struct{})
		r.revokeVotes = make(map[interfaces.TokenID]map[interfaces.Address]struct{})
	}

	return r, nil
}

// Address returns the registry instance address.
func (r *Registry) Address() interfaces.Address {
	return r.addr
}

// Issuer returns the authority controlling this registry.
func (r *Registry) Issuer() interfaces.Address {
	return r.issuer
}

// Supports reports whether the instance serves all capabilities in c.
func (r *Registry) Supports(c interfaces.Capability) bool {
	return r.caps&c == c
}

// Capabilities returns the full capability set of the instance.
func (r *Registry) Capabilities() interfaces.Capability {
	return r.caps
}

// Mint creates a new token for owner. The caller must be the issuer or, on
// delegation-capable instances, an operator holding an unconsumed grant for
// owner. Consensus-capable instances reject direct mints; use ApproveMint.
func (r *Registry) Mint(caller interfaces.Address, owner interfaces.Address) (interfaces.TokenID, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("%w: owner must not be the zero address", interfaces.ErrInvalidAddress)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.caps&interfaces.CapConsensus != 0 {
		return 0, fmt.Errorf("%w: minting requires voter approval", interfaces.ErrUnauthorized)
	}

	switch {
	case caller.Equal(r.issuer):
		// Issuer mints directly.
	case r.caps&interfaces.CapDelegation != 0:
		key := approvalKey{operator: caller, owner: owner}
		if _, ok := r.mintApprovals[key]; !ok {
			return 0, fmt.Errorf("%w: no minting grant for operator %s and owner %s", interfaces.ErrUnauthorized, caller, owner)
		}
		// Consume the grant before minting so it cannot be replayed.
		delete(r.mintApprovals, key)
	default:
		return 0, fmt.Errorf("%w: only the issuer may mint", interfaces.ErrUnauthorized)
	}

	return r.mintLocked(caller, owner), nil
}

// mintLocked creates the token record. Caller must hold the write lock and
// have performed all authorization checks.
func (r *Registry) mintLocked(minter interfaces.Address, owner interfaces.Address) interfaces.TokenID {
	id := interfaces.TokenID(r.nextID)
	r.nextID++

	r.tokens[id] = &token{
		owner:    owner,
		issuer:   minter,
		valid:    true,
		mintedAt: time.Now().UTC(),
	}
	r.tokensByOwner[owner] = append(r.tokensByOwner[owner], id)
	r.allTokens = append(r.allTokens, id)
	r.holders[owner] = struct{}{}

	r.log.Info("Minted token",
		slog.String("token_id", id.String()),
		slog.String("owner", owner.String()),
		slog.String("minter", minter.String()))
	r.emitLocked(interfaces.EventMinted, owner, id, interfaces.Address{})

	return id
}

// Revoke marks a token invalid. Issuer-only on non-consensus instances.
// Revoking an already-revoked token fails with ErrAlreadyRevoked; the
// Revoked notification fires exactly once per token.
func (r *Registry) Revoke(caller interfaces.Address, id interfaces.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.caps&interfaces.CapConsensus != 0 {
		return fmt.Errorf("%w: revocation requires voter approval", interfaces.ErrUnauthorized)
	}
	if !caller.Equal(r.issuer) {
		return fmt.Errorf("%w: only the issuer may revoke", interfaces.ErrUnauthorized)
	}

	return r.revokeLocked(id)
}

// revokeLocked flips the token's valid flag. Caller must hold the write
// lock and have performed all authorization checks.
func (r *Registry) revokeLocked(id interfaces.TokenID) error {
	tok, ok := r.tokens[id]
	if !ok {
		return fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	if !tok.valid {
		return fmt.Errorf("%w: token %s", interfaces.ErrAlreadyRevoked, id)
	}

	tok.valid = false

	r.log.Info("Revoked token",
		slog.String("token_id", id.String()),
		slog.String("owner", tok.owner.String()))
	r.emitLocked(interfaces.EventRevoked, tok.owner, id, interfaces.Address{})

	return nil
}

// BalanceOf returns the number of tokens ever minted to owner, including
// revoked ones. Unknown owners have balance zero.
func (r *Registry) BalanceOf(owner interfaces.Address) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return uint64(len(r.tokensByOwner[owner]))
}

// OwnerOf returns the address holding the token.
func (r *Registry) OwnerOf(id interfaces.TokenID) (interfaces.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tok, ok := r.tokens[id]
	if !ok {
		return interfaces.Address{}, fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	return tok.owner, nil
}

// IsValid reports whether the token has not been revoked.
func (r *Registry) IsValid(id interfaces.TokenID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tok, ok := r.tokens[id]
	if !ok {
		return false, fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	return tok.valid, nil
}

// HasValid reports whether owner holds at least one valid token.
func (r *Registry) HasValid(owner interfaces.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.tokensByOwner[owner] {
		if r.tokens[id].valid {
			return true
		}
	}
	return false
}

// emitLocked publishes a notification to the configured sink. It runs
// inside the mutation's critical section so sinks observe events in the
// same order the ledger applied them.
func (r *Registry) emitLocked(kind interfaces.EventKind, owner interfaces.Address, id interfaces.TokenID, recipient interfaces.Address) {
	if r.sink == nil {
		return
	}

	r.sink.Publish(interfaces.Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Registry:  r.addr,
		Owner:     owner,
		TokenID:   id,
		Recipient: recipient,
		Timestamp: time.Now().UTC(),
	})
}

// requireCap returns ErrUnsupported unless the instance serves c.
func (r *Registry) requireCap(c interfaces.Capability) error {
	if r.caps&c != c {
		return fmt.Errorf("%w: %s", interfaces.ErrUnsupported, c)
	}
	return nil
}
