package config

// Defaults applied when the corresponding environment variable is unset.
const (
	// DefaultNodeURL targets the public devnet full node.
	DefaultNodeURL = "https://fullnode.devnet.aptoslabs.com/v1"

	// DefaultFaucetURL targets the public devnet faucet.
	DefaultFaucetURL = "https://faucet.devnet.aptoslabs.com"

	// DefaultListenAddr matches the original deployment (local only).
	DefaultListenAddr = "127.0.0.1:8000"

	// DefaultFrontendDir is where the static frontend lives relative to the
	// working directory.
	DefaultFrontendDir = "web"
)
