package clients

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruteri/ntt-registry-backend/discovery"
	"github.com/ruteri/ntt-registry-backend/httpserver"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/ruteri/ntt-registry-backend/registry"
	"github.com/ruteri/ntt-registry-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, hexAddr string) interfaces.Address {
	t.Helper()
	addr, err := interfaces.NewAddressFromHex(hexAddr)
	require.NoError(t, err)
	return addr
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := storage.NewFileBackend(filepath.Join(t.TempDir(), "documents"), logger)
	require.NoError(t, err)

	manager := registry.NewManager(backend, nil, logger)
	store := discovery.NewStore(nil, logger)
	handler := httpserver.NewHandler(manager, store, nil, logger)

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      logger,
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
		ReadTimeout:              time.Second,
		WriteTimeout:             time.Second,
	}, handler, nil)
	require.NoError(t, err)

	httpSrv := httptest.NewServer(srv.Router())
	t.Cleanup(httpSrv.Close)
	return NewClient(httpSrv.URL)
}

func TestClientRegistryLifecycle(t *testing.T) {
	client := newTestClient(t)
	issuer := mustAddr(t, "1000000000000000000000000000000000000001")
	holder := mustAddr(t, "2000000000000000000000000000000000000002")

	info, err := client.CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer:       issuer.String(),
		Name:         "Club Memberships",
		Symbol:       "MEMB",
		BaseURI:      "https://club.example.org/tokens",
		Capabilities: []string{"metadata", "enumerable"},
	})
	require.NoError(t, err)
	registryAddr := mustAddr(t, info.Address)

	listed, err := client.ListRegistries()
	require.NoError(t, err)
	assert.Contains(t, listed, info.Address)

	id, err := client.Mint(registryAddr, issuer, holder)
	require.NoError(t, err)
	assert.Equal(t, interfaces.TokenID(1), id)

	token, err := client.Token(registryAddr, id)
	require.NoError(t, err)
	assert.Equal(t, holder.String(), token.Owner)
	assert.True(t, token.Valid)
	assert.Equal(t, "https://club.example.org/tokens/1", token.URI)

	holderInfo, err := client.Holder(registryAddr, holder)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), holderInfo.Balance)
	assert.True(t, holderInfo.HasValid)
	assert.Equal(t, []interfaces.TokenID{1}, holderInfo.Tokens)

	require.NoError(t, client.Revoke(registryAddr, issuer, id))

	token, err = client.Token(registryAddr, id)
	require.NoError(t, err)
	assert.False(t, token.Valid)

	// Revoked records are retained.
	holderInfo, err = client.Holder(registryAddr, holder)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), holderInfo.Balance)
	assert.False(t, holderInfo.HasValid)

	assert.Error(t, client.Revoke(registryAddr, issuer, id))
}

func TestClientDocumentRoundTrip(t *testing.T) {
	client := newTestClient(t)
	issuer := mustAddr(t, "1000000000000000000000000000000000000001")
	holder := mustAddr(t, "2000000000000000000000000000000000000002")

	info, err := client.CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer:       issuer.String(),
		Capabilities: []string{"metadata"},
	})
	require.NoError(t, err)
	registryAddr := mustAddr(t, info.Address)

	id, err := client.Mint(registryAddr, issuer, holder)
	require.NoError(t, err)

	doc := json.RawMessage(`{"credential":"diploma","year":2026}`)
	contentID, err := client.StoreTokenDocument(registryAddr, issuer, id, doc)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(doc), contentID)

	fetched, err := client.TokenDocument(registryAddr, id)
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(fetched))

	// Non-issuer uploads are rejected.
	_, err = client.StoreTokenDocument(registryAddr, holder, id, doc)
	assert.Error(t, err)
}

func TestClientConsensus(t *testing.T) {
	client := newTestClient(t)
	issuer := mustAddr(t, "1000000000000000000000000000000000000001")
	holder := mustAddr(t, "2000000000000000000000000000000000000002")
	voter1 := mustAddr(t, "4000000000000000000000000000000000000004")
	voter2 := mustAddr(t, "5000000000000000000000000000000000000005")
	voter3 := mustAddr(t, "6000000000000000000000000000000000000006")

	info, err := client.CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer:       issuer.String(),
		Capabilities: []string{"consensus"},
		Voters:       []string{voter1.String(), voter2.String(), voter3.String()},
	})
	require.NoError(t, err)
	require.Equal(t, 2, info.Quorum)
	registryAddr := mustAddr(t, info.Address)

	_, executed, err := client.ApproveMint(registryAddr, voter1, holder)
	require.NoError(t, err)
	assert.False(t, executed)

	id, executed, err := client.ApproveMint(registryAddr, voter2, holder)
	require.NoError(t, err)
	assert.True(t, executed)
	assert.Equal(t, interfaces.TokenID(1), id)

	executed, err = client.ApproveRevoke(registryAddr, voter3, id)
	require.NoError(t, err)
	assert.False(t, executed)

	executed, err = client.ApproveRevoke(registryAddr, voter1, id)
	require.NoError(t, err)
	assert.True(t, executed)
}

func TestVerifierWalk(t *testing.T) {
	client := newTestClient(t)
	verifier := NewVerifier(client)

	issuer := mustAddr(t, "1000000000000000000000000000000000000001")
	holder := mustAddr(t, "2000000000000000000000000000000000000002")

	// No published registries yet.
	valid, err := verifier.HasValidToken(holder)
	require.NoError(t, err)
	assert.False(t, valid)

	infoA, err := client.CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer: issuer.String(), Name: "A", Symbol: "A",
	})
	require.NoError(t, err)
	infoB, err := client.CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer: issuer.String(), Name: "B", Symbol: "B",
	})
	require.NoError(t, err)
	registryA := mustAddr(t, infoA.Address)
	registryB := mustAddr(t, infoB.Address)

	idA, err := client.Mint(registryA, issuer, holder)
	require.NoError(t, err)
	_, err = client.Mint(registryB, issuer, holder)
	require.NoError(t, err)

	require.NoError(t, client.PublishRegistry(holder, registryA))
	require.NoError(t, client.PublishRegistry(holder, registryB))

	statuses, err := verifier.VerifyHolder(holder)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, registryA, statuses[0].Registry)
	assert.Equal(t, issuer, statuses[0].Issuer)
	assert.True(t, statuses[0].HasValid)
	assert.True(t, statuses[1].HasValid)

	// Revoking in one registry flips only that registry's status.
	require.NoError(t, client.Revoke(registryA, issuer, idA))

	statuses, err = verifier.VerifyHolder(holder)
	require.NoError(t, err)
	assert.False(t, statuses[0].HasValid)
	assert.True(t, statuses[1].HasValid)

	valid, err = verifier.HasValidToken(holder)
	require.NoError(t, err)
	assert.True(t, valid)

	// A published entry pointing at nothing is reported, not fatal.
	bogus := mustAddr(t, "9000000000000000000000000000000000000009")
	require.NoError(t, client.PublishRegistry(holder, bogus))

	statuses, err = verifier.VerifyHolder(holder)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Error(t, statuses[2].Err)

	require.NoError(t, client.UnpublishRegistry(holder, registryB))
	statuses, err = verifier.VerifyHolder(holder)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
}
