// escrow-fund derives the payer address from the configured key and requests
// devnet funds from the faucet.
//
// Usage:
//
//	escrow-fund [--amount octas] [--faucet url]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/aptos-labs/aptos-go-sdk"
	"golang.org/x/term"

	"github.com/Mahesh00234h/installment/config"
	"github.com/Mahesh00234h/installment/internal/faucet"
	"github.com/Mahesh00234h/installment/internal/keys"
)

func main() {
	amount := flag.Uint64("amount", 200_000_000, "amount in octas to request from the faucet")
	faucetURL := flag.String("faucet", "", "faucet base URL (defaults to FAUCET_URL)")
	flag.Parse()

	cfg := config.Load()
	if *faucetURL == "" {
		*faucetURL = cfg.FaucetURL
	}

	acct, err := payerAccount(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := acct.Address.String()
	fmt.Printf("Derived address: %s\n", addr)

	resp, err := faucet.New(*faucetURL).Mint(addr, *amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Faucet response: %s\n", resp)
	fmt.Println("Funding requested. If needed, run again to top up more.")
}

// payerAccount resolves the payer identity: configured hex key first, then a
// mnemonic, then an interactive prompt.
func payerAccount(cfg *config.Config) (*aptos.Account, error) {
	if cfg.PayerPrivateKeyHex != "" {
		return keys.Load(cfg.PayerPrivateKeyHex)
	}
	if cfg.PayerMnemonic != "" {
		return keys.FromMnemonic(cfg.PayerMnemonic)
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return nil, fmt.Errorf("PAYER_PRIVATE_KEY_HEX not set in environment or .env")
	}

	fmt.Print("Payer private key: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	return keys.Load(strings.TrimSpace(string(raw)))
}
