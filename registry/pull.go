package registry

import (
	"fmt"
	"log/slog"

	"github.com/ruteri/ntt-registry-backend/cryptoutils"
	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// ChangeOwner moves a token record from its current owner to another wallet
// of the same holder, authorized by the owner's signature over the pull
// digest of (registry, id, owner, recipient). This is not a transfer: the
// token ID, validity flag and global enumeration order are unchanged, and
// the record keeps its full history.
func (r *Registry) ChangeOwner(id interfaces.TokenID, recipient interfaces.Address, signature []byte) error {
	if err := r.requireCap(interfaces.CapPull); err != nil {
		return err
	}
	if recipient.IsZero() {
		return fmt.Errorf("%w: recipient must not be the zero address", interfaces.ErrInvalidAddress)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tok, ok := r.tokens[id]
	if !ok {
		return fmt.Errorf("%w: token %s", interfaces.ErrNotFound, id)
	}
	owner := tok.owner
	if recipient.Equal(owner) {
		return fmt.Errorf("%w: recipient equals current owner", interfaces.ErrInvalidAddress)
	}

	digest := cryptoutils.PullDigest(r.addr.Common(), uint64(id), owner.Common(), recipient.Common())
	signer, err := cryptoutils.RecoverPullSigner(digest, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrInvalidSignature, err)
	}
	if signer != owner.Common() {
		return fmt.Errorf("%w: signature by %x, token owned by %s", interfaces.ErrUnauthorized, signer, owner)
	}

	// Reindex the owner-local enumeration; the global mint order stays.
	owned := r.tokensByOwner[owner]
	for i, ownedID := range owned {
		if ownedID == id {
			r.tokensByOwner[owner] = append(owned[:i:i], owned[i+1:]...)
			break
		}
	}
	r.tokensByOwner[recipient] = append(r.tokensByOwner[recipient], id)
	r.holders[recipient] = struct{}{}
	tok.owner = recipient

	r.log.Info("Changed token owner",
		slog.String("token_id", id.String()),
		slog.String("from", owner.String()),
		slog.String("to", recipient.String()))
	r.emitLocked(interfaces.EventOwnerChanged, owner, id, recipient)

	return nil
}
