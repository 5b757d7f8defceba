// Package address converts between compressed public keys, their 20-byte
// hashes and the base58check text addresses of Bitcoin-derived chains.
//
//	address = base58check(chainID || RIPEMD160(SHA256(pubkey)))
package address

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/suffix-labs/p2pkh-wallet/pkg/crypto"
)

// HashSize is the length of a public key hash.
const HashSize = 20

var (
	ErrInvalidKeyFormat = errors.New("invalid public key format")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrUnknownChain     = errors.New("unknown chain")
)

// PublicKeyHash returns RIPEMD160(SHA256(pubKey)) for a 33-byte compressed
// public key.
func PublicKeyHash(pubKey []byte) ([HashSize]byte, error) {
	if len(pubKey) != crypto.CompressedPubKeySize {
		return [HashSize]byte{}, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidKeyFormat, crypto.CompressedPubKeySize, len(pubKey))
	}
	return crypto.Hash160(pubKey), nil
}

// FromPublicKeyHash encodes hash as an address of the given chain.
func FromPublicKeyHash(chainID byte, hash [HashSize]byte) string {
	return base58.CheckEncode(hash[:], chainID)
}

// FromPublicKey encodes the address of a compressed public key.
func FromPublicKey(chainID byte, pubKey []byte) (string, error) {
	hash, err := PublicKeyHash(pubKey)
	if err != nil {
		return "", err
	}
	return FromPublicKeyHash(chainID, hash), nil
}

// Decode returns the chain identifier and public key hash of addr.
func Decode(addr string) (byte, [HashSize]byte, error) {
	var hash [HashSize]byte

	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return 0, hash, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(payload) != HashSize {
		return 0, hash, fmt.Errorf("%w: payload is %d bytes, expected %d", ErrInvalidAddress, len(payload), HashSize)
	}

	copy(hash[:], payload)
	return version, hash, nil
}

// ToPublicKeyHash returns the public key hash of addr, ignoring its chain.
func ToPublicKeyHash(addr string) ([HashSize]byte, error) {
	_, hash, err := Decode(addr)
	return hash, err
}
