// Package crypto implements the hashing, secp256k1 key handling and legacy
// signature-hash rules used to sign pay-to-pubkey-hash inputs.
//
// Key formats:
//   - Private keys: WIF (Wallet Import Format) or raw 32 bytes
//   - Public keys: Compressed 33-byte format (0x02/0x03 prefix + x-coordinate)
//   - Signatures: DER-encoded, low-S, deterministic nonces (RFC 6979)
package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// PrivateKeySize is the length of a raw private key.
	PrivateKeySize = 32

	// CompressedPubKeySize is the length of a compressed public key.
	CompressedPubKeySize = 33

	// wifCompressedFlag follows the key in WIF strings for compressed keys.
	wifCompressedFlag = 0x01
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidWIF        = errors.New("invalid WIF")
)

// PrivateKey wraps secp256k1 private key
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps secp256k1 public key
type PublicKey struct {
	key *secp256k1.PublicKey
}

// PrivateKeyFromBytes creates a private key from raw bytes.
// The scalar must be in [1, n-1].
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != PrivateKeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(keyBytes))
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// ParsePrivateKeyWIF parses a WIF-encoded private key and returns it with
// its version byte and whether it asks for a compressed public key.
//
// WIF format: base58check(version || private_key (32 bytes) || [0x01])
func ParsePrivateKeyWIF(wif string) (*PrivateKey, byte, bool, error) {
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: %v", ErrInvalidWIF, err)
	}

	compressed := false
	switch {
	case len(payload) == PrivateKeySize+1 && payload[PrivateKeySize] == wifCompressedFlag:
		compressed = true
		payload = payload[:PrivateKeySize]
	case len(payload) == PrivateKeySize:
	default:
		return nil, 0, false, fmt.Errorf("%w: bad payload length %d", ErrInvalidWIF, len(payload))
	}

	key, err := PrivateKeyFromBytes(payload)
	if err != nil {
		return nil, 0, false, err
	}
	return key, version, compressed, nil
}

// EncodeWIF encodes the private key with the given version byte.
func (pk *PrivateKey) EncodeWIF(version byte, compressed bool) string {
	payload := pk.Bytes()
	if compressed {
		payload = append(payload, wifCompressedFlag)
	}
	return base58.CheckEncode(payload, version)
}

// Sign creates a deterministic low-S ECDSA signature over hash, DER encoded.
func (pk *PrivateKey) Sign(hash [32]byte) ([]byte, error) {
	sig := ecdsa.Sign(pk.key, hash[:])
	return sig.Serialize(), nil
}

// PublicKey derives the public key
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey()}
}

// Bytes returns the raw 32-byte private key
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// SerializeCompressed returns the 33-byte compressed public key
func (pub *PublicKey) SerializeCompressed() [CompressedPubKeySize]byte {
	var result [CompressedPubKeySize]byte
	copy(result[:], pub.key.SerializeCompressed())
	return result
}

// Bytes returns the compressed public key bytes
func (pub *PublicKey) Bytes() []byte {
	return pub.key.SerializeCompressed()
}

// Hash160 returns the pubkey hash of the compressed encoding.
func (pub *PublicKey) Hash160() [20]byte {
	return Hash160(pub.Bytes())
}

// ParsePublicKey parses a compressed public key
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	if len(pubKeyBytes) != CompressedPubKeySize {
		return nil, fmt.Errorf("%w: compressed key must be %d bytes, got %d",
			ErrInvalidPublicKey, CompressedPubKeySize, len(pubKeyBytes))
	}

	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	return &PublicKey{key: pubKey}, nil
}

// VerifySignature verifies a DER encoded ECDSA signature
func VerifySignature(pubkey *PublicKey, hash [32]byte, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}

	return sig.Verify(hash[:], pubkey.key)
}
