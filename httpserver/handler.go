package httpserver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ruteri/ntt-registry-backend/eventlog"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/ruteri/ntt-registry-backend/registry"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// RequestError provides structured error information for HTTP responses.
// It includes both an HTTP status code and the underlying error.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is matching.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// RegistryManager is the handler's view of the in-process registry
// manager: creating instances and resolving them by address.
type RegistryManager interface {
	Create(cfg registry.Config) (*registry.Registry, error)
	RegistryFor(addr interfaces.Address) (interfaces.TokenRegistry, error)
	Addresses() []interfaces.Address
}

// EventLister is the handler's view of the durable event log.
type EventLister interface {
	List(filter eventlog.Filter) ([]interfaces.Event, error)
}

// Handler processes HTTP requests for the token registry service. It
// fronts the registry manager, the shared discovery store, and the durable
// event log.
type Handler struct {
	manager   RegistryManager
	discovery interfaces.DiscoveryStore
	events    EventLister
	log       *slog.Logger
}

// NewHandler creates a new HTTP request handler with the specified
// dependencies. The events lister may be nil, in which case the events
// endpoint reports the feature as unavailable.
func NewHandler(manager RegistryManager, discovery interfaces.DiscoveryStore, events EventLister, log *slog.Logger) *Handler {
	return &Handler{
		manager:   manager,
		discovery: discovery,
		events:    events,
		log:       log,
	}
}

// CreateRegistryRequest is the body of POST /api/admin/registries.
type CreateRegistryRequest struct {
	Issuer       string   `json:"issuer"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	BaseURI      string   `json:"base_uri"`
	Capabilities []string `json:"capabilities"`
	Voters       []string `json:"voters,omitempty"`
}

// RegistryInfo describes one registry instance.
type RegistryInfo struct {
	Address      string   `json:"address"`
	Issuer       string   `json:"issuer"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Capabilities []string `json:"capabilities"`
	EmittedCount uint64   `json:"emitted_count"`
	HoldersCount uint64   `json:"holders_count"`
	Voters       []string `json:"voters,omitempty"`
	Quorum       int      `json:"quorum,omitempty"`
}

// HandleCreateRegistry deploys a new registry instance.
//
// URL format: POST /api/admin/registries
//
// Request body: JSON with issuer address, name, symbol, base URI, the list
// of capability names to enable, and the voter set when the consensus
// capability is requested.
//
// Response: JSON RegistryInfo for the new instance, including its derived
// address.
func (h *Handler) HandleCreateRegistry(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	issuer, err := interfaces.NewAddressFromHex(req.Issuer)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	var caps interfaces.Capability
	for _, name := range req.Capabilities {
		c, err := interfaces.ParseCapability(name)
		if err != nil {
			h.writeError(w, &RequestError{http.StatusBadRequest, err})
			return
		}
		caps |= c
	}

	voters := make([]interfaces.Address, 0, len(req.Voters))
	for _, v := range req.Voters {
		voter, err := interfaces.NewAddressFromHex(v)
		if err != nil {
			h.writeError(w, &RequestError{http.StatusBadRequest, err})
			return
		}
		voters = append(voters, voter)
	}

	instance, err := h.manager.Create(registry.Config{
		Issuer:       issuer,
		Name:         req.Name,
		Symbol:       req.Symbol,
		BaseURI:      req.BaseURI,
		Capabilities: caps,
		Voters:       voters,
	})
	if err != nil {
		h.log.Error("Failed to create registry", "err", err, slog.String("issuer", req.Issuer))
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	h.log.Info("Registry created",
		slog.String("address", instance.Address().String()),
		slog.String("issuer", issuer.String()))
	h.writeJSON(w, http.StatusCreated, registryInfo(instance))
}

// HandleListRegistries returns the addresses of every registry instance.
//
// URL format: GET /api/admin/registries
func (h *Handler) HandleListRegistries(w http.ResponseWriter, r *http.Request) {
	addrs := h.manager.Addresses()
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"registries": out})
}

// HandleRegistryInfo returns metadata, capability set and counters for one
// registry instance.
//
// URL format: GET /api/registry/{registry_address}
func (h *Handler) HandleRegistryInfo(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}
	h.writeJSON(w, http.StatusOK, registryInfo(instance))
}

// MintRequest is the body of POST /api/registry/{registry_address}/tokens.
// Caller must be the issuer or, under delegation, hold an unconsumed grant
// for the owner.
type MintRequest struct {
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
}

// HandleMint mints a new token.
//
// URL format: POST /api/registry/{registry_address}/tokens
//
// Response: JSON containing the new token_id.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req MintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	caller, owner, reqErr := parseAddressPair(req.Caller, req.Owner)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	id, err := instance.Mint(caller, owner)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"token_id": id})
}

// HandleRevoke marks a token invalid. The record is never erased.
//
// URL format: POST /api/registry/{registry_address}/tokens/{token_id}/revoke
//
// Request body: JSON with the caller address.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	instance, id, reqErr := h.registryTokenFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req struct {
		Caller string `json:"caller"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	caller, err := interfaces.NewAddressFromHex(req.Caller)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	if err := instance.Revoke(caller, id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"token_id": id, "valid": false})
}

// HandleTokenInfo returns the token's owner and validity, plus its URI and
// minting issuer where the instance supports the relevant capabilities.
//
// URL format: GET /api/registry/{registry_address}/tokens/{token_id}
func (h *Handler) HandleTokenInfo(w http.ResponseWriter, r *http.Request) {
	instance, id, reqErr := h.registryTokenFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	owner, err := instance.OwnerOf(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	valid, err := instance.IsValid(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := map[string]interface{}{
		"token_id": id,
		"owner":    owner.String(),
		"valid":    valid,
	}
	if instance.Supports(interfaces.CapMetadata) {
		if uri, err := instance.TokenURI(id); err == nil {
			response["uri"] = uri
		}
	}
	if instance.Supports(interfaces.CapDelegation) {
		if minter, err := instance.IssuerOf(id); err == nil {
			response["minted_by"] = minter.String()
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleHolder returns a holder's balance, validity aggregate and, on
// enumerable instances, the IDs of their tokens in mint order.
//
// URL format: GET /api/registry/{registry_address}/holders/{holder_address}
func (h *Handler) HandleHolder(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	holder, err := interfaces.NewAddressFromHex(r.PathValue("holder_address"))
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	balance := instance.BalanceOf(holder)
	response := map[string]interface{}{
		"holder":    holder.String(),
		"balance":   balance,
		"has_valid": instance.HasValid(holder),
	}

	if instance.Supports(interfaces.CapEnumerable) {
		tokens := make([]interfaces.TokenID, 0, balance)
		for i := uint64(0); i < balance; i++ {
			id, err := instance.TokenOfOwnerByIndex(holder, i)
			if err != nil {
				h.writeError(w, err)
				return
			}
			tokens = append(tokens, id)
		}
		response["tokens"] = tokens
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTokenByIndex resolves a global mint-order index to a token ID.
//
// URL format: GET /api/registry/{registry_address}/tokens/index/{index}
func (h *Handler) HandleTokenByIndex(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	index, err := strconv.ParseUint(r.PathValue("index"), 10, 64)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	id, err := instance.TokenByIndex(index)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"token_id": id})
}

// DelegateRequest is the body of POST
// /api/registry/{registry_address}/delegations. A single grant maps to
// Delegate; multiple grants apply all-or-nothing.
type DelegateRequest struct {
	Caller string          `json:"caller"`
	Grants []DelegateGrant `json:"grants"`
}

// DelegateGrant names one (operator, owner) pair of a delegation request.
type DelegateGrant struct {
	Operator string `json:"operator"`
	Owner    string `json:"owner"`
}

// HandleDelegate grants one-shot minting rights to operators.
//
// URL format: POST /api/registry/{registry_address}/delegations
func (h *Handler) HandleDelegate(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req DelegateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	caller, err := interfaces.NewAddressFromHex(req.Caller)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	if len(req.Grants) == 0 {
		h.writeError(w, &RequestError{http.StatusBadRequest, errors.New("no grants in request")})
		return
	}

	operators := make([]interfaces.Address, 0, len(req.Grants))
	owners := make([]interfaces.Address, 0, len(req.Grants))
	for _, g := range req.Grants {
		operator, owner, reqErr := parseAddressPair(g.Operator, g.Owner)
		if reqErr != nil {
			h.writeError(w, reqErr)
			return
		}
		operators = append(operators, operator)
		owners = append(owners, owner)
	}

	if len(operators) == 1 {
		err = instance.Delegate(caller, operators[0], owners[0])
	} else {
		err = instance.DelegateBatch(caller, operators, owners)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"granted": len(operators)})
}

// ApproveMintRequest is the body of POST
// /api/registry/{registry_address}/consensus/mint.
type ApproveMintRequest struct {
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
}

// HandleApproveMint records a voter's approval for minting to an owner,
// executing the mint once quorum is reached.
//
// URL format: POST /api/registry/{registry_address}/consensus/mint
//
// Response: JSON with executed flag and, when executed, the new token_id.
func (h *Handler) HandleApproveMint(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req ApproveMintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	caller, owner, reqErr := parseAddressPair(req.Caller, req.Owner)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	id, executed, err := instance.ApproveMint(caller, owner)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response := map[string]interface{}{"executed": executed}
	if executed {
		response["token_id"] = id
	}
	h.writeJSON(w, http.StatusOK, response)
}

// ApproveRevokeRequest is the body of POST
// /api/registry/{registry_address}/consensus/revoke.
type ApproveRevokeRequest struct {
	Caller  string             `json:"caller"`
	TokenID interfaces.TokenID `json:"token_id"`
}

// HandleApproveRevoke records a voter's approval for revoking a token,
// executing the revocation once quorum is reached.
//
// URL format: POST /api/registry/{registry_address}/consensus/revoke
func (h *Handler) HandleApproveRevoke(w http.ResponseWriter, r *http.Request) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req ApproveRevokeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	caller, err := interfaces.NewAddressFromHex(req.Caller)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	executed, err := instance.ApproveRevoke(caller, req.TokenID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"executed": executed})
}

// ChangeOwnerRequest is the body of POST
// /api/registry/{registry_address}/tokens/{token_id}/change-owner. The
// signature is the hex-encoded 65-byte secp256k1 signature by the current
// owner over the pull digest of (registry, id, owner, recipient).
type ChangeOwnerRequest struct {
	Recipient string `json:"recipient"`
	Signature string `json:"signature"`
}

// HandleChangeOwner migrates a token record to the holder's new wallet.
//
// URL format: POST /api/registry/{registry_address}/tokens/{token_id}/change-owner
func (h *Handler) HandleChangeOwner(w http.ResponseWriter, r *http.Request) {
	instance, id, reqErr := h.registryTokenFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req ChangeOwnerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	recipient, err := interfaces.NewAddressFromHex(req.Recipient)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	signature, err := hex.DecodeString(req.Signature)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	if err := instance.ChangeOwner(id, recipient, signature); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"token_id": id,
		"owner":    recipient.String(),
	})
}

// HandleStoreDocument persists a token metadata document in the registry's
// storage backend. Issuer-only.
//
// URL format: POST /api/registry/{registry_address}/tokens/{token_id}/document
//
// Request body: JSON with the caller address and the document itself.
//
// Response: JSON with the hex content_id of the stored document.
func (h *Handler) HandleStoreDocument(w http.ResponseWriter, r *http.Request) {
	instance, id, reqErr := h.registryTokenFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req struct {
		Caller   string          `json:"caller"`
		Document json.RawMessage `json:"document"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	caller, err := interfaces.NewAddressFromHex(req.Caller)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}
	if len(req.Document) == 0 {
		h.writeError(w, &RequestError{http.StatusBadRequest, errors.New("empty document")})
		return
	}

	contentID, err := instance.StoreTokenDocument(r.Context(), caller, id, req.Document)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token_id":   id,
		"content_id": contentID.String(),
	})
}

// HandleTokenDocument fetches the stored metadata document for a token.
//
// URL format: GET /api/registry/{registry_address}/tokens/{token_id}/document
//
// Response: the raw document bytes.
func (h *Handler) HandleTokenDocument(w http.ResponseWriter, r *http.Request) {
	instance, id, reqErr := h.registryTokenFromPath(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	doc, err := instance.TokenDocument(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.log.Error("Failed to write document response", "err", err)
	}
}

// HandleDiscoveryAdd publishes a registry in a holder's discovery set.
// Re-adding an existing entry is a no-op.
//
// URL format: POST /api/discovery/{holder_address}/registries
//
// Request body: JSON with the registry address.
func (h *Handler) HandleDiscoveryAdd(w http.ResponseWriter, r *http.Request) {
	holder, err := interfaces.NewAddressFromHex(r.PathValue("holder_address"))
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	var req struct {
		Registry string `json:"registry"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	registryAddr, err := interfaces.NewAddressFromHex(req.Registry)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	if err := h.discovery.Add(holder, registryAddr); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"holder":   holder.String(),
		"registry": registryAddr.String(),
	})
}

// HandleDiscoveryRemove unpublishes a registry from a holder's discovery
// set. Removing an absent entry is a no-op.
//
// URL format: DELETE /api/discovery/{holder_address}/registries/{registry_address}
func (h *Handler) HandleDiscoveryRemove(w http.ResponseWriter, r *http.Request) {
	holder, err := interfaces.NewAddressFromHex(r.PathValue("holder_address"))
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	registryAddr, err := interfaces.NewAddressFromHex(r.PathValue("registry_address"))
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	if err := h.discovery.Remove(holder, registryAddr); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDiscoveryGet returns a holder's published registries in insertion
// order. Unknown holders yield an empty list.
//
// URL format: GET /api/discovery/{holder_address}/registries
func (h *Handler) HandleDiscoveryGet(w http.ResponseWriter, r *http.Request) {
	holder, err := interfaces.NewAddressFromHex(r.PathValue("holder_address"))
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, err})
		return
	}

	registries, err := h.discovery.Get(holder)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]string, 0, len(registries))
	for _, addr := range registries {
		out = append(out, addr.String())
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"holder":     holder.String(),
		"registries": out,
	})
}

// HandleEvents returns entries from the durable event log in append order.
//
// URL format: GET /api/events?registry=<hex>&owner=<hex>&kind=<kind>&limit=<n>
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		h.writeError(w, &RequestError{http.StatusNotImplemented, errors.New("event log not configured")})
		return
	}

	var filter eventlog.Filter
	if v := r.URL.Query().Get("registry"); v != "" {
		addr, err := interfaces.NewAddressFromHex(v)
		if err != nil {
			h.writeError(w, &RequestError{http.StatusBadRequest, err})
			return
		}
		filter.Registry = addr
	}
	if v := r.URL.Query().Get("owner"); v != "" {
		addr, err := interfaces.NewAddressFromHex(v)
		if err != nil {
			h.writeError(w, &RequestError{http.StatusBadRequest, err})
			return
		}
		filter.Owner = addr
	}
	if v := r.URL.Query().Get("kind"); v != "" {
		filter.Kind = interfaces.EventKind(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, &RequestError{http.StatusBadRequest, err})
			return
		}
		filter.Limit = limit
	}

	events, err := h.events.List(filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// registryFromPath resolves the registry instance named in the request
// path.
func (h *Handler) registryFromPath(r *http.Request) (interfaces.TokenRegistry, *RequestError) {
	addr, err := interfaces.NewAddressFromHex(r.PathValue("registry_address"))
	if err != nil {
		return nil, &RequestError{http.StatusBadRequest, err}
	}

	instance, err := h.manager.RegistryFor(addr)
	if err != nil {
		return nil, &RequestError{http.StatusNotFound, err}
	}
	return instance, nil
}

// registryTokenFromPath resolves both the registry instance and the token
// ID named in the request path.
func (h *Handler) registryTokenFromPath(r *http.Request) (interfaces.TokenRegistry, interfaces.TokenID, *RequestError) {
	instance, reqErr := h.registryFromPath(r)
	if reqErr != nil {
		return nil, 0, reqErr
	}

	id, err := interfaces.NewTokenIDFromString(r.PathValue("token_id"))
	if err != nil {
		return nil, 0, &RequestError{http.StatusBadRequest, err}
	}
	return instance, id, nil
}

func parseAddressPair(first, second string) (interfaces.Address, interfaces.Address, *RequestError) {
	a, err := interfaces.NewAddressFromHex(first)
	if err != nil {
		return interfaces.Address{}, interfaces.Address{}, &RequestError{http.StatusBadRequest, err}
	}
	b, err := interfaces.NewAddressFromHex(second)
	if err != nil {
		return interfaces.Address{}, interfaces.Address{}, &RequestError{http.StatusBadRequest, err}
	}
	return a, b, nil
}

func registryInfo(instance interfaces.TokenRegistry) RegistryInfo {
	info := RegistryInfo{
		Address:      instance.Address().String(),
		Issuer:       instance.Issuer().String(),
		Name:         instance.Name(),
		Symbol:       instance.Symbol(),
		EmittedCount: instance.EmittedCount(),
		HoldersCount: instance.HoldersCount(),
	}
	for _, c := range []interfaces.Capability{
		interfaces.CapMetadata,
		interfaces.CapEnumerable,
		interfaces.CapDelegation,
		interfaces.CapConsensus,
		interfaces.CapPull,
	} {
		if instance.Supports(c) {
			info.Capabilities = append(info.Capabilities, c.String())
		}
	}
	if instance.Supports(interfaces.CapConsensus) {
		for _, v := range instance.Voters() {
			info.Voters = append(info.Voters, v.String())
		}
		info.Quorum = instance.Quorum()
	}
	return info
}

// writeJSON serializes response as the JSON reply.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

// writeError maps domain errors to HTTP status codes. RequestError takes
// precedence; otherwise the sentinel error chain decides.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		http.Error(w, reqErr.Error(), reqErr.StatusCode)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, interfaces.ErrNotFound), errors.Is(err, interfaces.ErrContentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interfaces.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, interfaces.ErrAlreadyRevoked), errors.Is(err, interfaces.ErrAlreadyVoted):
		status = http.StatusConflict
	case errors.Is(err, interfaces.ErrOutOfRange),
		errors.Is(err, interfaces.ErrInvalidAddress),
		errors.Is(err, interfaces.ErrInvalidSignature):
		status = http.StatusBadRequest
	case errors.Is(err, interfaces.ErrUnsupported):
		status = http.StatusNotImplemented
	case errors.Is(err, io.ErrUnexpectedEOF):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
