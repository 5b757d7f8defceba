// Package script builds and recognises the two scripts a P2PKH spend needs.
//
// Locking script (scriptPubKey), 25 bytes:
//
//	OP_DUP OP_HASH160 <20-byte pubkey hash> OP_EQUALVERIFY OP_CHECKSIG
//
// Unlocking script (scriptSig):
//
//	<DER signature || hash type> <33-byte compressed pubkey>
//
// Opcodes are written as single-byte compact sizes and data as
// compact-size length-prefixed blobs, which for the sizes involved here
// (all below 0x4c) coincide with the script interpreter's direct pushes.
package script

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/suffix-labs/p2pkh-wallet/pkg/wire"
)

// Script opcodes used by standard P2PKH scripts.
const (
	OpDup         = 0x76
	OpEqualVerify = 0x88
	OpHash160     = 0xa9
	OpCheckSig    = 0xac
)

const (
	// PubKeyHashSize is the length of a RIPEMD160(SHA256(pubkey)) digest.
	PubKeyHashSize = 20

	// StandardScriptSize is the length of a P2PKH locking script.
	StandardScriptSize = 3 + PubKeyHashSize + 2

	// maxPush is the largest push a single direct-push opcode can carry.
	maxPush = 0x4b
)

var (
	// ErrNonStandard is returned for scripts that are not P2PKH.
	ErrNonStandard = errors.New("not a standard pay-to-pubkey-hash script")

	// ErrMalformedUnlockingScript is returned when a scriptSig is not
	// exactly two pushes.
	ErrMalformedUnlockingScript = errors.New("malformed unlocking script")
)

// StandardScript returns the locking script paying to pubKeyHash.
func StandardScript(pubKeyHash [PubKeyHashSize]byte) []byte {
	return encodeScript(
		OpDup,
		OpHash160,
		pubKeyHash[:],
		OpEqualVerify,
		OpCheckSig,
	)
}

// UnlockingScript returns the scriptSig for a P2PKH input.
// signature must already carry its trailing hash type byte.
func UnlockingScript(signature, publicKey []byte) []byte {
	return encodeScript(signature, publicKey)
}

// encodeScript concatenates opcodes (ints) and data pushes ([]byte).
func encodeScript(items ...interface{}) []byte {
	var buf []byte
	for _, item := range items {
		switch v := item.(type) {
		case int:
			buf = wire.AppendCompactSize(buf, uint64(v))
		case []byte:
			buf = wire.AppendBytes(buf, v)
		default:
			panic(fmt.Sprintf("script: unsupported item %T", item))
		}
	}
	return buf
}

// IsStandard reports whether s is a P2PKH locking script.
func IsStandard(s []byte) bool {
	return len(s) == StandardScriptSize &&
		s[0] == OpDup &&
		s[1] == OpHash160 &&
		s[2] == PubKeyHashSize &&
		s[23] == OpEqualVerify &&
		s[24] == OpCheckSig
}

// ExtractPubKeyHash returns the pubkey hash a P2PKH locking script pays to.
func ExtractPubKeyHash(s []byte) ([PubKeyHashSize]byte, error) {
	var hash [PubKeyHashSize]byte
	if !IsStandard(s) {
		return hash, ErrNonStandard
	}
	copy(hash[:], s[3:3+PubKeyHashSize])
	return hash, nil
}

// ParseUnlockingScript splits a P2PKH scriptSig into its signature
// (hash type included) and public key pushes.
func ParseUnlockingScript(s []byte) (signature, publicKey []byte, err error) {
	r := bytes.NewReader(s)

	signature, err = wire.ReadBytes(r, maxPush)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: signature push: %v", ErrMalformedUnlockingScript, err)
	}
	publicKey, err = wire.ReadBytes(r, maxPush)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: pubkey push: %v", ErrMalformedUnlockingScript, err)
	}
	if r.Len() != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedUnlockingScript, r.Len())
	}
	if len(signature) == 0 {
		return nil, nil, fmt.Errorf("%w: empty signature", ErrMalformedUnlockingScript)
	}
	return signature, publicKey, nil
}
