package clients

import (
	"fmt"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// ClaimStatus is the verifier's view of one holder in one registry.
type ClaimStatus struct {
	// Registry is the instance that was checked.
	Registry interfaces.Address

	// HasValid reports whether the holder has at least one valid token
	// in the registry.
	HasValid bool

	// Issuer is the authority controlling the registry. The verifier
	// decides which issuers it trusts; discovery entries are advisory.
	Issuer interfaces.Address

	// Err records a registry that could not be checked. Its HasValid is
	// meaningless.
	Err error
}

// Verifier walks a holder's published registries and checks their claims.
// Each published registry is checked independently, since nothing
// validates that a discovery entry points at a well-formed registry.
type Verifier struct {
	client *Client
}

// NewVerifier creates a verifier over the given service client.
func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

// VerifyHolder resolves the holder's published registries and returns one
// ClaimStatus per entry, in the holder's publication order. Unresolvable
// registries are reported through the entry's Err field rather than
// failing the walk.
func (v *Verifier) VerifyHolder(holder interfaces.Address) ([]ClaimStatus, error) {
	registries, err := v.client.DiscoverRegistries(holder)
	if err != nil {
		return nil, fmt.Errorf("discovery lookup failed: %w", err)
	}

	statuses := make([]ClaimStatus, 0, len(registries))
	for _, registryAddr := range registries {
		status := ClaimStatus{Registry: registryAddr}

		info, err := v.client.RegistryInfo(registryAddr)
		if err != nil {
			status.Err = err
			statuses = append(statuses, status)
			continue
		}
		if issuer, err := interfaces.NewAddressFromHex(info.Issuer); err == nil {
			status.Issuer = issuer
		}

		holderInfo, err := v.client.Holder(registryAddr, holder)
		if err != nil {
			status.Err = err
			statuses = append(statuses, status)
			continue
		}
		status.HasValid = holderInfo.HasValid
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// HasValidToken reports whether any of the holder's published registries
// says the holder currently has a valid token. Registries that cannot be
// checked count as not valid.
func (v *Verifier) HasValidToken(holder interfaces.Address) (bool, error) {
	statuses, err := v.VerifyHolder(holder)
	if err != nil {
		return false, err
	}
	for _, status := range statuses {
		if status.Err == nil && status.HasValid {
			return true, nil
		}
	}
	return false, nil
}
