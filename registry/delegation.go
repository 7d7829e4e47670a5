package registry

import (
	"fmt"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// approvalKey identifies a one-shot minting grant.
type approvalKey struct {
	operator interfaces.Address
	owner    interfaces.Address
}

// Delegate grants operator a single-use right to mint exactly one token for
// owner. Issuer-only. Re-delegating the same pair refreshes the existing
// grant; uses never stack.
func (r *Registry) Delegate(caller interfaces.Address, operator interfaces.Address, owner interfaces.Address) error {
	if err := r.requireCap(interfaces.CapDelegation); err != nil {
		return err
	}
	if err := validateGrantPair(operator, owner); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !caller.Equal(r.issuer) {
		return fmt.Errorf("%w: only the issuer may delegate", interfaces.ErrUnauthorized)
	}

	r.mintApprovals[approvalKey{operator: operator, owner: owner}] = struct{}{}

	r.log.Debug("Delegated minting grant",
		"operator", operator.String(),
		"owner", owner.String())

	return nil
}

// DelegateBatch applies Delegate pairwise across operators[i]/owners[i].
// The batch is all-or-nothing: every pair is validated before any grant is
// recorded, and a single invalid pair rejects the entire call.
func (r *Registry) DelegateBatch(caller interfaces.Address, operators []interfaces.Address, owners []interfaces.Address) error {
	if err := r.requireCap(interfaces.CapDelegation); err != nil {
		return err
	}
	if len(operators) != len(owners) {
		return fmt.Errorf("mismatched batch lengths: %d operators, %d owners", len(operators), len(owners))
	}
	for i := range operators {
		if err := validateGrantPair(operators[i], owners[i]); err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !caller.Equal(r.issuer) {
		return fmt.Errorf("%w: only the issuer may delegate", interfaces.ErrUnauthorized)
	}

	for i := range operators {
		r.mintApprovals[approvalKey{operator: operators[i], owner: owners[i]}] = struct{}{}
	}

	r.log.Debug("Delegated minting grants", "count", len(operators))

	return nil
}

// IssuerOf returns the address that actually minted the token: the registry
// issuer, or the delegated operator that consumed a grant.
func (r *Registry) IssuerOf(id interfaces.TokenID) (interfaces.Address, error) {
	if err := r.requireCap(interfaces.CapDelegation); err != nil {
		return interfaces.Address{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	tok, ok := r.tokens[id]
	if !ok {
		return interfaces.Address{}, fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	return tok.issuer, nil
}

func validateGrantPair(operator, owner interfaces.Address) error {
	if operator.IsZero() {
		return fmt.Errorf("%w: operator must not be the zero address", interfaces.ErrInvalidAddress)
	}
	if owner.IsZero() {
		return fmt.Errorf("%w: owner must not be the zero address", interfaces.ErrInvalidAddress)
	}
	return nil
}
