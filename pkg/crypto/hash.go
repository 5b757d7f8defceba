package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is fixed by the address format.
)

// Sha256 returns SHA-256(data).
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 returns SHA-256(SHA-256(data)), the digest used for
// transaction ids and signature hashes.
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Hash160 returns RIPEMD-160(SHA-256(data)), the public key hash of
// pay-to-pubkey-hash scripts and addresses.
func Hash160(data []byte) [20]byte {
	s := sha256.Sum256(data)

	h := ripemd160.New()
	h.Write(s[:])

	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
