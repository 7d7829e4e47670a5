package registry

import (
	"fmt"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// EmittedCount returns the total number of tokens ever minted. The counter
// is monotonic; revocation never decrements it.
func (r *Registry) EmittedCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return uint64(len(r.allTokens))
}

// HoldersCount returns the number of distinct addresses that have ever
// received a token. Never decremented, even if every token of a holder is
// revoked.
func (r *Registry) HoldersCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return uint64(len(r.holders))
}

// TokenOfOwnerByIndex returns owner's index-th token in mint order.
func (r *Registry) TokenOfOwnerByIndex(owner interfaces.Address, index uint64) (interfaces.TokenID, error) {
	if err := r.requireCap(interfaces.CapEnumerable); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := r.tokensByOwner[owner]
	if index >= uint64(len(owned)) {
		return 0, fmt.Errorf("%w: index %d, owner %s has %d tokens", interfaces.ErrOutOfRange, index, owner, len(owned))
	}
	return owned[index], nil
}

// TokenByIndex returns the index-th token ever minted across all owners.
func (r *Registry) TokenByIndex(index uint64) (interfaces.TokenID, error) {
	if err := r.requireCap(interfaces.CapEnumerable); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= uint64(len(r.allTokens)) {
		return 0, fmt.Errorf("%w: index %d, registry emitted %d tokens", interfaces.ErrOutOfRange, index, len(r.allTokens))
	}
	return r.allTokens[index], nil
}
