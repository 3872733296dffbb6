// Package keys loads the payer signing identity from its configured forms.
//
// Private keys arrive in several raw shapes depending on where they were
// exported from: bare hex, 0x-prefixed hex, or the "ed25519-priv-" export
// format. Normalize collapses all of them into a canonical 0x-prefixed hex
// string before the key is parsed.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
)

// Ed25519Prefix is the textual export prefix some tooling attaches to keys.
const Ed25519Prefix = "ed25519-priv-"

// ErrNoCredential is returned when no payer key is configured at all.
var ErrNoCredential = errors.New("payer private key not configured")

// Normalize canonicalizes a raw private-key string into 0x-prefixed hex.
//
// The textual export prefix is stripped first, then any hex prefix. A bare
// leading "x" is also stripped: it is the artifact left behind when an
// 0x-prefixed key had the export prefix removed one character short.
func Normalize(raw string) string {
	k := strings.TrimSpace(raw)
	k = strings.TrimPrefix(k, Ed25519Prefix)
	if strings.HasPrefix(k, "0x") {
		k = k[2:]
	} else if strings.HasPrefix(k, "x") {
		k = k[1:]
	}
	return "0x" + k
}

// Load parses a raw private-key string into a signing account.
// An empty string returns ErrNoCredential; a string that fails to parse after
// normalization returns a credential error.
func Load(raw string) (*aptos.Account, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoCredential
	}

	priv := &crypto.Ed25519PrivateKey{}
	if err := priv.FromHex(Normalize(raw)); err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	acct, err := aptos.NewAccountFromSigner(priv)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return acct, nil
}
