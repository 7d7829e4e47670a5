package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/ntt-registry-backend/api/clients"
	"github.com/ruteri/ntt-registry-backend/cmd/flags"
	"github.com/ruteri/ntt-registry-backend/cryptoutils"
	"github.com/ruteri/ntt-registry-backend/httpserver"
	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/urfave/cli/v2"
)

var flagCaller = &cli.StringFlag{
	Name:  "caller",
	Usage: "Caller address for mutating operations. 40-char hex string with no 0x prefix",
}
var flagOwner = &cli.StringFlag{
	Name:  "owner",
	Usage: "Token owner address. 40-char hex string with no 0x prefix",
}
var flagTokenID = &cli.Uint64Flag{
	Name:  "token-id",
	Usage: "Token ID",
}
var flagName = &cli.StringFlag{
	Name:  "name",
	Usage: "Registry token name",
}
var flagSymbol = &cli.StringFlag{
	Name:  "symbol",
	Usage: "Registry token symbol",
}
var flagBaseURI = &cli.StringFlag{
	Name:  "base-uri",
	Usage: "Base URI for token metadata",
}
var flagCapabilities = &cli.StringSliceFlag{
	Name:  "capability",
	Usage: "Capability to enable (metadata, enumerable, delegation, consensus, pull); repeatable",
}
var flagVoters = &cli.StringSliceFlag{
	Name:  "voter",
	Usage: "Voter address for the consensus capability; repeatable",
}
var flagOperator = &cli.StringFlag{
	Name:  "operator",
	Usage: "Operator address receiving a one-shot minting grant",
}
var flagRecipient = &cli.StringFlag{
	Name:  "recipient",
	Usage: "Recipient wallet address for owner change",
}
var flagOwnerKey = &cli.StringFlag{
	Name:  "owner-key",
	Usage: "Hex-encoded secp256k1 private key of the current owner, used to sign the owner change",
}

func main() {
	app := &cli.App{
		Name:  "registry-client",
		Usage: "Operate on a non-tradable token registry service",
		Flags: []cli.Flag{
			flags.ServiceAddrFlag,
			flags.RegistryAddrFlag,
		},
		Commands: []*cli.Command{
			{
				Name:        "create",
				Usage:       "Deploy a new registry instance",
				Flags:       []cli.Flag{flagCaller, flagName, flagSymbol, flagBaseURI, flagCapabilities, flagVoters},
				Action:      runCreate,
				Description: "Deploys a registry for the issuer given as --caller and prints its address.",
			},
			{
				Name:   "mint",
				Usage:  "Mint a token",
				Flags:  []cli.Flag{flagCaller, flagOwner},
				Action: runMint,
			},
			{
				Name:   "revoke",
				Usage:  "Revoke a token",
				Flags:  []cli.Flag{flagCaller, flagTokenID},
				Action: runRevoke,
			},
			{
				Name:   "token",
				Usage:  "Show a token's state",
				Flags:  []cli.Flag{flagTokenID},
				Action: runToken,
			},
			{
				Name:   "holder",
				Usage:  "Show a holder's state in the registry",
				Flags:  []cli.Flag{flagOwner},
				Action: runHolder,
			},
			{
				Name:   "delegate",
				Usage:  "Grant a one-shot minting right",
				Flags:  []cli.Flag{flagCaller, flagOperator, flagOwner},
				Action: runDelegate,
			},
			{
				Name:   "approve-mint",
				Usage:  "Vote to mint a token",
				Flags:  []cli.Flag{flagCaller, flagOwner},
				Action: runApproveMint,
			},
			{
				Name:   "approve-revoke",
				Usage:  "Vote to revoke a token",
				Flags:  []cli.Flag{flagCaller, flagTokenID},
				Action: runApproveRevoke,
			},
			{
				Name:   "change-owner",
				Usage:  "Migrate a token to the holder's new wallet",
				Flags:  []cli.Flag{flagTokenID, flagRecipient, flagOwnerKey},
				Action: runChangeOwner,
			},
			{
				Name:   "publish",
				Usage:  "Publish the registry in a holder's discovery set",
				Flags:  []cli.Flag{flagOwner},
				Action: runPublish,
			},
			{
				Name:   "unpublish",
				Usage:  "Remove the registry from a holder's discovery set",
				Flags:  []cli.Flag{flagOwner},
				Action: runUnpublish,
			},
			{
				Name:   "verify",
				Usage:  "Walk a holder's published registries and check validity",
				Flags:  []cli.Flag{flagOwner},
				Action: runVerify,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serviceClient(cCtx *cli.Context) *clients.Client {
	return clients.NewClient(cCtx.String(flags.ServiceAddrFlag.Name))
}

func registryAddr(cCtx *cli.Context) (interfaces.Address, error) {
	return interfaces.NewAddressFromHex(cCtx.String(flags.RegistryAddrFlag.Name))
}

func addrFlag(cCtx *cli.Context, flag *cli.StringFlag) (interfaces.Address, error) {
	return interfaces.NewAddressFromHex(cCtx.String(flag.Name))
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runCreate(cCtx *cli.Context) error {
	issuer, err := addrFlag(cCtx, flagCaller)
	if err != nil {
		return err
	}

	info, err := serviceClient(cCtx).CreateRegistry(httpserver.CreateRegistryRequest{
		Issuer:       issuer.String(),
		Name:         cCtx.String(flagName.Name),
		Symbol:       cCtx.String(flagSymbol.Name),
		BaseURI:      cCtx.String(flagBaseURI.Name),
		Capabilities: cCtx.StringSlice(flagCapabilities.Name),
		Voters:       cCtx.StringSlice(flagVoters.Name),
	})
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runMint(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cCtx, flagCaller)
	if err != nil {
		return err
	}
	owner, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}

	id, err := serviceClient(cCtx).Mint(registry, caller, owner)
	if err != nil {
		return err
	}
	fmt.Printf("minted token %s\n", id)
	return nil
}

func runRevoke(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cCtx, flagCaller)
	if err != nil {
		return err
	}

	id := interfaces.TokenID(cCtx.Uint64(flagTokenID.Name))
	if err := serviceClient(cCtx).Revoke(registry, caller, id); err != nil {
		return err
	}
	fmt.Printf("revoked token %s\n", id)
	return nil
}

func runToken(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}

	info, err := serviceClient(cCtx).Token(registry, interfaces.TokenID(cCtx.Uint64(flagTokenID.Name)))
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runHolder(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	holder, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}

	info, err := serviceClient(cCtx).Holder(registry, holder)
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runDelegate(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cCtx, flagCaller)
	if err != nil {
		return err
	}
	operator, err := addrFlag(cCtx, flagOperator)
	if err != nil {
		return err
	}
	owner, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}

	if err := serviceClient(cCtx).Delegate(registry, caller, operator, owner); err != nil {
		return err
	}
	fmt.Println("grant recorded")
	return nil
}

func runApproveMint(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cCtx, flagCaller)
	if err != nil {
		return err
	}
	owner, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}

	id, executed, err := serviceClient(cCtx).ApproveMint(registry, caller, owner)
	if err != nil {
		return err
	}
	if executed {
		fmt.Printf("quorum reached, minted token %s\n", id)
	} else {
		fmt.Println("vote recorded")
	}
	return nil
}

func runApproveRevoke(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	caller, err := addrFlag(cCtx, flagCaller)
	if err != nil {
		return err
	}

	id := interfaces.TokenID(cCtx.Uint64(flagTokenID.Name))
	executed, err := serviceClient(cCtx).ApproveRevoke(registry, caller, id)
	if err != nil {
		return err
	}
	if executed {
		fmt.Printf("quorum reached, revoked token %s\n", id)
	} else {
		fmt.Println("vote recorded")
	}
	return nil
}

func runChangeOwner(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	recipient, err := addrFlag(cCtx, flagRecipient)
	if err != nil {
		return err
	}

	key, err := crypto.HexToECDSA(cCtx.String(flagOwnerKey.Name))
	if err != nil {
		return fmt.Errorf("invalid owner key: %w", err)
	}
	owner := crypto.PubkeyToAddress(key.PublicKey)

	client := serviceClient(cCtx)
	id := interfaces.TokenID(cCtx.Uint64(flagTokenID.Name))

	signature, err := cryptoutils.SignPull(key, registry.Common(), uint64(id), owner, recipient.Common())
	if err != nil {
		return err
	}

	if err := client.ChangeOwner(registry, id, recipient, signature); err != nil {
		return err
	}
	fmt.Printf("token %s migrated to %s\n", id, recipient.String())
	return nil
}

func runPublish(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	holder, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}
	if err := serviceClient(cCtx).PublishRegistry(holder, registry); err != nil {
		return err
	}
	fmt.Println("registry published")
	return nil
}

func runUnpublish(cCtx *cli.Context) error {
	registry, err := registryAddr(cCtx)
	if err != nil {
		return err
	}
	holder, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}
	if err := serviceClient(cCtx).UnpublishRegistry(holder, registry); err != nil {
		return err
	}
	fmt.Println("registry unpublished")
	return nil
}

func runVerify(cCtx *cli.Context) error {
	holder, err := addrFlag(cCtx, flagOwner)
	if err != nil {
		return err
	}

	verifier := clients.NewVerifier(serviceClient(cCtx))
	statuses, err := verifier.VerifyHolder(holder)
	if err != nil {
		return err
	}

	for _, status := range statuses {
		switch {
		case status.Err != nil:
			fmt.Printf("%s: unreachable (%v)\n", status.Registry.String(), status.Err)
		case status.HasValid:
			fmt.Printf("%s: valid token from issuer %s\n", status.Registry.String(), status.Issuer.String())
		default:
			fmt.Printf("%s: no valid token\n", status.Registry.String())
		}
	}
	return nil
}
