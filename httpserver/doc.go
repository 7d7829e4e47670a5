// Package httpserver implements the HTTP API of the token registry
// service.
//
// The server fronts three components: the registry manager (per-issuer
// token ledgers with their optional extensions), the shared discovery
// store (holder to registry reverse index), and the durable event log.
//
// # API Endpoints
//
// Administration:
//
//   - POST /api/admin/registries - Deploy a new registry instance
//   - GET /api/admin/registries - List registry instance addresses
//
// Registry operations (instance address in the path):
//
//   - GET /api/registry/{registry_address} - Instance info and counters
//   - POST /api/registry/{registry_address}/tokens - Mint a token
//   - GET /api/registry/{registry_address}/tokens/{token_id} - Token state
//   - POST /api/registry/{registry_address}/tokens/{token_id}/revoke - Revoke
//   - POST /api/registry/{registry_address}/tokens/{token_id}/change-owner - Wallet migration
//   - POST /api/registry/{registry_address}/tokens/{token_id}/document - Store metadata document
//   - GET /api/registry/{registry_address}/tokens/{token_id}/document - Fetch metadata document
//   - GET /api/registry/{registry_address}/tokens/index/{index} - Global enumeration
//   - GET /api/registry/{registry_address}/holders/{holder_address} - Holder state
//   - POST /api/registry/{registry_address}/delegations - Grant one-shot minting rights
//   - POST /api/registry/{registry_address}/consensus/mint - Vote to mint
//   - POST /api/registry/{registry_address}/consensus/revoke - Vote to revoke
//
// Discovery:
//
//   - POST /api/discovery/{holder_address}/registries - Publish a registry
//   - GET /api/discovery/{holder_address}/registries - List published registries
//   - DELETE /api/discovery/{holder_address}/registries/{registry_address} - Unpublish
//
// Event log:
//
//   - GET /api/events - Query the durable event log
//
// Health and diagnostics:
//
//   - GET /livez - Liveness check
//   - GET /readyz - Readiness check
//   - GET /drain - Mark the server as not ready
//   - GET /undrain - Mark the server as ready
//
// # Error Mapping
//
// Domain errors map onto HTTP status codes: unknown tokens and registries
// return 404, authorization failures 403, repeated revocations and votes
// 409, malformed input 400, and operations on instances lacking the
// required capability 501.
package httpserver
