package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

// slip10Key is the HMAC key for the ed25519 curve per SLIP-0010.
const slip10Key = "ed25519 seed"

const hardenedOffset = 0x80000000

// deriveEd25519 derives a 32-byte ed25519 private key from a BIP-39 seed
// along the given path. SLIP-0010 defines only hardened derivation for
// ed25519, so every path segment is hardened.
func deriveEd25519(seed []byte, path []uint32) []byte {
	mac := hmac.New(sha512.New, []byte(slip10Key))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key, chainCode := sum[:32], sum[32:]

	for _, segment := range path {
		var index [4]byte
		binary.BigEndian.PutUint32(index[:], segment|hardenedOffset)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write([]byte{0x00})
		mac.Write(key)
		mac.Write(index[:])
		sum = mac.Sum(nil)

		key, chainCode = sum[:32], sum[32:]
	}

	return key
}
