// Package config handles application configuration.
//
// All settings come from environment variables, optionally seeded from a .env
// file in the working directory. Credentials are deliberately not validated at
// load time: a missing payer key must fail the first transaction-submitting
// request, not process startup.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the escrow backend.
type Config struct {
	// NodeURL is the REST endpoint of the blockchain full node.
	NodeURL string

	// PayerPrivateKeyHex is the payer's private key. Accepted raw forms:
	// bare hex, 0x-prefixed hex, and the "ed25519-priv-" export format.
	PayerPrivateKeyHex string

	// PayerMnemonic is an optional BIP-39 mnemonic used to derive the payer
	// key when PayerPrivateKeyHex is empty.
	PayerMnemonic string

	// PayerAddress is the payer's account address.
	PayerAddress string

	// ModuleAddress is the account the escrow contract is published under.
	ModuleAddress string

	// FaucetURL is the devnet faucet endpoint (funding utility only).
	FaucetURL string

	// ListenAddr is the HTTP listen address of the API server.
	ListenAddr string

	// FrontendDir is the directory holding the static frontend assets.
	FrontendDir string

	// Logging
	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
	JSON  bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		NodeURL:            getenv("NODE_URL", DefaultNodeURL),
		PayerPrivateKeyHex: os.Getenv("PAYER_PRIVATE_KEY_HEX"),
		PayerMnemonic:      os.Getenv("PAYER_MNEMONIC"),
		PayerAddress:       os.Getenv("PAYER_ADDRESS"),
		ModuleAddress:      os.Getenv("MODULE_ADDRESS"),
		FaucetURL:          getenv("FAUCET_URL", DefaultFaucetURL),
		ListenAddr:         getenv("LISTEN_ADDR", DefaultListenAddr),
		FrontendDir:        getenv("FRONTEND_DIR", DefaultFrontendDir),
		Log: LogConfig{
			Level: getenv("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
			JSON:  os.Getenv("LOG_JSON") == "true",
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
