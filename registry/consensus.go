package registry

import (
	"fmt"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// Voters returns the fixed voter set established at construction.
func (r *Registry) Voters() []interfaces.Address {
	out := make([]interfaces.Address, len(r.voters))
	copy(out, r.voters)
	return out
}

// Quorum returns the number of approvals required before a gated mint or
// revocation executes: a strict majority of the voter set.
func (r *Registry) Quorum() int {
	return r.quorum
}

// ApproveMint records the caller's vote for minting a token to owner. Once
// the pending round reaches quorum the mint executes atomically, the vote
// set for owner clears, and the new token ID is returned with
// executed=true. A later round for the same owner starts fresh.
func (r *Registry) ApproveMint(caller interfaces.Address, owner interfaces.Address) (interfaces.TokenID, bool, error) {
	if err := r.requireCap(interfaces.CapConsensus); err != nil {
		return 0, false, err
	}
	if owner.IsZero() {
		return 0, false, fmt.Errorf("%w: owner must not be the zero address", interfaces.ErrInvalidAddress)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.voterSet[caller]; !ok {
		return 0, false, fmt.Errorf("%w: %s is not a voter", interfaces.ErrUnauthorized, caller)
	}

	votes := r.mintVotes[owner]
	if votes == nil {
		votes = make(map[interfaces.Address]struct{})
		r.mintVotes[owner] = votes
	}
	if _, voted := votes[caller]; voted {
		return 0, false, fmt.Errorf("%w: %s already approved minting for %s", interfaces.ErrAlreadyVoted, caller, owner)
	}
	votes[caller] = struct{}{}

	if len(votes) < r.quorum {
		r.log.Debug("Recorded mint approval",
			"voter", caller.String(),
			"owner", owner.String(),
			"votes", len(votes),
			"quorum", r.quorum)
		return 0, false, nil
	}

	delete(r.mintVotes, owner)
	id := r.mintLocked(r.issuer, owner)
	return id, true, nil
}

// ApproveRevoke records the caller's vote for revoking a token, executing
// the revocation once the round reaches quorum. Rounds against unknown or
// already-revoked tokens are rejected up front.
func (r *Registry) ApproveRevoke(caller interfaces.Address, id interfaces.TokenID) (bool, error) {
	if err := r.requireCap(interfaces.CapConsensus); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.voterSet[caller]; !ok {
		return false, fmt.Errorf("%w: %s is not a voter", interfaces.ErrUnauthorized, caller)
	}

	tok, ok := r.tokens[id]
	if !ok {
		return false, fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	if !tok.valid {
		return false, fmt.Errorf("%w: token %s", interfaces.ErrAlreadyRevoked, id)
	}

	votes := r.revokeVotes[id]
	if votes == nil {
		votes = make(map[interfaces.Address]struct{})
		r.revokeVotes[id] = votes
	}
	if _, voted := votes[caller]; voted {
		return false, fmt.Errorf("%w: %s already approved revoking token %s", interfaces.ErrAlreadyVoted, caller, id)
	}
	votes[caller] = struct{}{}

	if len(votes) < r.quorum {
		r.log.Debug("Recorded revoke approval",
			"voter", caller.String(),
			"token_id", id.String(),
			"votes", len(votes),
			"quorum", r.quorum)
		return false, nil
	}

	delete(r.revokeVotes, id)
	if err := r.revokeLocked(id); err != nil {
		return false, err
	}
	return true, nil
}
