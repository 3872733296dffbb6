package keys

import (
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DerivationPath is the chain's standard BIP-44 path for the first account.
// All segments are hardened, as required for ed25519 derivation.
var DerivationPath = []uint32{44, 637, 0, 0, 0}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// FromMnemonic derives the payer account from a BIP-39 mnemonic at the
// standard derivation path.
func FromMnemonic(mnemonic string) (*aptos.Account, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}

	key := deriveEd25519(seed, DerivationPath)

	priv := &crypto.Ed25519PrivateKey{}
	if err := priv.FromBytes(key); err != nil {
		return nil, fmt.Errorf("parse derived key: %w", err)
	}
	acct, err := aptos.NewAccountFromSigner(priv)
	if err != nil {
		return nil, fmt.Errorf("load derived account: %w", err)
	}
	return acct, nil
}
