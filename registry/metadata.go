package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// Name returns the descriptive name of the registry's tokens.
func (r *Registry) Name() string {
	return r.name
}

// Symbol returns the short ticker-style identifier.
func (r *Registry) Symbol() string {
	return r.symbol
}

// TokenURI returns the URI resolving to the token's metadata document,
// formed as baseURI/tokenID. Revoked tokens still resolve - revocation is
// not erasure.
func (r *Registry) TokenURI(id interfaces.TokenID) (string, error) {
	if err := r.requireCap(interfaces.CapMetadata); err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.tokens[id]; !ok {
		return "", fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}

	return strings.TrimSuffix(r.baseURI, "/") + "/" + id.String(), nil
}

// StoreTokenDocument persists a metadata document for the token in the
// registry's storage backend and records its content ID. Issuer-only.
func (r *Registry) StoreTokenDocument(ctx context.Context, caller interfaces.Address, id interfaces.TokenID, doc []byte) (interfaces.ContentID, error) {
	if err := r.requireCap(interfaces.CapMetadata); err != nil {
		return interfaces.ContentID{}, err
	}
	if r.storage == nil {
		return interfaces.ContentID{}, interfaces.ErrBackendUnavailable
	}
	if !caller.Equal(r.issuer) {
		return interfaces.ContentID{}, fmt.Errorf("%w: only the issuer may store token documents", interfaces.ErrUnauthorized)
	}

	r.mu.Lock()
	tok, ok := r.tokens[id]
	r.mu.Unlock()
	if !ok {
		return interfaces.ContentID{}, fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}

	// The storage write happens outside the registry lock; only the
	// content ID assignment below mutates ledger state.
	cid, err := r.storage.Store(ctx, doc)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("failed to store token document: %w", err)
	}

	r.mu.Lock()
	tok.doc = cid
	tok.hasDoc = true
	r.mu.Unlock()

	return cid, nil
}

// TokenDocument fetches the stored metadata document for the token.
// Returns ErrContentNotFound if no document was stored.
func (r *Registry) TokenDocument(ctx context.Context, id interfaces.TokenID) ([]byte, error) {
	if err := r.requireCap(interfaces.CapMetadata); err != nil {
		return nil, err
	}
	if r.storage == nil {
		return nil, interfaces.ErrBackendUnavailable
	}

	r.mu.RLock()
	tok, ok := r.tokens[id]
	if !ok {
		r.mu.RUnlock()
		return nil, fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	hasDoc, cid := tok.hasDoc, tok.doc
	r.mu.RUnlock()

	if !hasDoc {
		return nil, interfaces.ErrContentNotFound
	}

	return r.storage.Fetch(ctx, cid)
}
