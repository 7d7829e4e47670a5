/*
Package clients provides client libraries for the token registry service
API.

The package implements two client types:

 1. Client - Full-surface service client: registry deployment, token
    operations, delegation, consensus voting, wallet migration, metadata
    documents, and discovery store maintenance.
 2. Verifier - A claim-checking client built on top of Client that walks a
    holder's published registries and evaluates their validity
    independently.

# Client Usage

	client := clients.NewClient("http://localhost:8080")

	info, err := client.CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer:       issuer.String(),
		Name:         "Engineering Diplomas",
		Symbol:       "DIPL",
		Capabilities: []string{"metadata", "enumerable"},
	})
	if err != nil {
		log.Fatalf("Failed to create registry: %v", err)
	}

	registryAddr, _ := interfaces.NewAddressFromHex(info.Address)
	tokenID, err := client.Mint(registryAddr, issuer, holder)

# Verifier Usage

A verifier trusts issuers, not discovery entries. VerifyHolder returns one
status per published registry so callers can filter by the issuers they
accept:

	verifier := clients.NewVerifier(client)
	statuses, err := verifier.VerifyHolder(holder)
	for _, status := range statuses {
		if status.Err == nil && trustedIssuers[status.Issuer] && status.HasValid {
			// claim verified
		}
	}
*/
package clients
