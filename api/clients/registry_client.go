package clients

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ruteri/ntt-registry-backend/httpserver"
	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// Client provides methods for interacting with the registry service API:
// deploying registries, operating on them, and maintaining discovery
// entries. It handles request encoding and response parsing.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the registry service at baseURL
// (e.g. "http://localhost:8080").
//
// Parameters:
//   - baseURL: The base URL of the registry service API
//   - timeout: Request timeout duration (optional, default 30 seconds)
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// TokenInfo is the decoded state of one token.
type TokenInfo struct {
	TokenID  interfaces.TokenID `json:"token_id"`
	Owner    string             `json:"owner"`
	Valid    bool               `json:"valid"`
	URI      string             `json:"uri,omitempty"`
	MintedBy string             `json:"minted_by,omitempty"`
}

// HolderInfo is the decoded per-registry state of one holder.
type HolderInfo struct {
	Holder   string               `json:"holder"`
	Balance  uint64               `json:"balance"`
	HasValid bool                 `json:"has_valid"`
	Tokens   []interfaces.TokenID `json:"tokens,omitempty"`
}

// CreateRegistry deploys a new registry instance and returns its info,
// including the derived instance address.
func (c *Client) CreateRegistry(req httpserver.CreateRegistryRequest) (httpserver.RegistryInfo, error) {
	var info httpserver.RegistryInfo
	err := c.post("/api/admin/registries", req, &info)
	return info, err
}

// ListRegistries returns the addresses of every registry instance.
func (c *Client) ListRegistries() ([]string, error) {
	var result struct {
		Registries []string `json:"registries"`
	}
	err := c.get("/api/admin/registries", &result)
	return result.Registries, err
}

// RegistryInfo returns metadata and counters for one registry instance.
func (c *Client) RegistryInfo(registry interfaces.Address) (httpserver.RegistryInfo, error) {
	var info httpserver.RegistryInfo
	err := c.get("/api/registry/"+registry.String(), &info)
	return info, err
}

// Mint creates a new token for owner and returns its ID.
func (c *Client) Mint(registry, caller, owner interfaces.Address) (interfaces.TokenID, error) {
	var result struct {
		TokenID interfaces.TokenID `json:"token_id"`
	}
	err := c.post("/api/registry/"+registry.String()+"/tokens", httpserver.MintRequest{
		Caller: caller.String(),
		Owner:  owner.String(),
	}, &result)
	return result.TokenID, err
}

// Revoke marks the token invalid.
func (c *Client) Revoke(registry, caller interfaces.Address, id interfaces.TokenID) error {
	return c.post(fmt.Sprintf("/api/registry/%s/tokens/%s/revoke", registry.String(), id.String()),
		map[string]string{"caller": caller.String()}, nil)
}

// Token returns the state of one token.
func (c *Client) Token(registry interfaces.Address, id interfaces.TokenID) (TokenInfo, error) {
	var info TokenInfo
	err := c.get(fmt.Sprintf("/api/registry/%s/tokens/%s", registry.String(), id.String()), &info)
	return info, err
}

// Holder returns the holder's balance, validity aggregate, and on
// enumerable instances their token IDs in mint order.
func (c *Client) Holder(registry, holder interfaces.Address) (HolderInfo, error) {
	var info HolderInfo
	err := c.get(fmt.Sprintf("/api/registry/%s/holders/%s", registry.String(), holder.String()), &info)
	return info, err
}

// TokenByIndex resolves a global mint-order index to a token ID.
func (c *Client) TokenByIndex(registry interfaces.Address, index uint64) (interfaces.TokenID, error) {
	var result struct {
		TokenID interfaces.TokenID `json:"token_id"`
	}
	err := c.get(fmt.Sprintf("/api/registry/%s/tokens/index/%d", registry.String(), index), &result)
	return result.TokenID, err
}

// Delegate grants operator a single-use right to mint one token for owner.
func (c *Client) Delegate(registry, caller, operator, owner interfaces.Address) error {
	return c.post("/api/registry/"+registry.String()+"/delegations", httpserver.DelegateRequest{
		Caller: caller.String(),
		Grants: []httpserver.DelegateGrant{{Operator: operator.String(), Owner: owner.String()}},
	}, nil)
}

// DelegateBatch applies one-shot grants pairwise, all-or-nothing.
func (c *Client) DelegateBatch(registry, caller interfaces.Address, operators, owners []interfaces.Address) error {
	if len(operators) != len(owners) {
		return fmt.Errorf("mismatched grant lists: %d operators, %d owners", len(operators), len(owners))
	}
	grants := make([]httpserver.DelegateGrant, 0, len(operators))
	for i := range operators {
		grants = append(grants, httpserver.DelegateGrant{
			Operator: operators[i].String(),
			Owner:    owners[i].String(),
		})
	}
	return c.post("/api/registry/"+registry.String()+"/delegations", httpserver.DelegateRequest{
		Caller: caller.String(),
		Grants: grants,
	}, nil)
}

// ApproveMint records the caller's vote for minting to owner. Returns the
// new token ID with executed=true once the vote reaches quorum.
func (c *Client) ApproveMint(registry, caller, owner interfaces.Address) (interfaces.TokenID, bool, error) {
	var result struct {
		Executed bool               `json:"executed"`
		TokenID  interfaces.TokenID `json:"token_id"`
	}
	err := c.post("/api/registry/"+registry.String()+"/consensus/mint", httpserver.ApproveMintRequest{
		Caller: caller.String(),
		Owner:  owner.String(),
	}, &result)
	return result.TokenID, result.Executed, err
}

// ApproveRevoke records the caller's vote for revoking the token.
func (c *Client) ApproveRevoke(registry, caller interfaces.Address, id interfaces.TokenID) (bool, error) {
	var result struct {
		Executed bool `json:"executed"`
	}
	err := c.post("/api/registry/"+registry.String()+"/consensus/revoke", httpserver.ApproveRevokeRequest{
		Caller:  caller.String(),
		TokenID: id,
	}, &result)
	return result.Executed, err
}

// ChangeOwner migrates the token to recipient, authorized by the current
// owner's 65-byte signature over the pull digest.
func (c *Client) ChangeOwner(registry interfaces.Address, id interfaces.TokenID, recipient interfaces.Address, signature []byte) error {
	return c.post(fmt.Sprintf("/api/registry/%s/tokens/%s/change-owner", registry.String(), id.String()),
		httpserver.ChangeOwnerRequest{
			Recipient: recipient.String(),
			Signature: hex.EncodeToString(signature),
		}, nil)
}

// StoreTokenDocument persists a metadata document for the token and
// returns its content ID. Issuer-only.
func (c *Client) StoreTokenDocument(registry, caller interfaces.Address, id interfaces.TokenID, doc json.RawMessage) (interfaces.ContentID, error) {
	var result struct {
		ContentID string `json:"content_id"`
	}
	err := c.post(fmt.Sprintf("/api/registry/%s/tokens/%s/document", registry.String(), id.String()),
		map[string]interface{}{"caller": caller.String(), "document": doc}, &result)
	if err != nil {
		return interfaces.ContentID{}, err
	}
	return interfaces.NewContentIDFromHex(result.ContentID)
}

// TokenDocument fetches the stored metadata document for the token.
func (c *Client) TokenDocument(registry interfaces.Address, id interfaces.TokenID) ([]byte, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/api/registry/%s/tokens/%s/document", c.baseURL, registry.String(), id.String()))
	if err != nil {
		return nil, fmt.Errorf("document request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("document request failed with code %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

// PublishRegistry appends registry to holder's discovery set.
func (c *Client) PublishRegistry(holder, registry interfaces.Address) error {
	return c.post("/api/discovery/"+holder.String()+"/registries",
		map[string]string{"registry": registry.String()}, nil)
}

// UnpublishRegistry deletes registry from holder's discovery set.
func (c *Client) UnpublishRegistry(holder, registry interfaces.Address) error {
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/discovery/%s/registries/%s", c.baseURL, holder.String(), registry.String()), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unpublish request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unpublish request failed with code %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// DiscoverRegistries returns holder's published registries in insertion
// order.
func (c *Client) DiscoverRegistries(holder interfaces.Address) ([]interfaces.Address, error) {
	var result struct {
		Registries []string `json:"registries"`
	}
	if err := c.get("/api/discovery/"+holder.String()+"/registries", &result); err != nil {
		return nil, err
	}

	registries := make([]interfaces.Address, 0, len(result.Registries))
	for _, raw := range result.Registries {
		addr, err := interfaces.NewAddressFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed registry address in discovery response: %w", err)
		}
		registries = append(registries, addr)
	}
	return registries, nil
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with code %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
