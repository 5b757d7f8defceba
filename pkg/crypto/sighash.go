package crypto

import (
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
	"github.com/suffix-labs/p2pkh-wallet/pkg/wire"
)

// SighashAll commits to every input and output. It is the only hash type
// supported.
const SighashAll uint32 = 0x01

// SignableTransaction returns the copy of t that is serialized when signing
// input i: every other input's script is emptied, input i keeps its script
// (the locking script of the output it spends). t is not modified.
func SignableTransaction(t *tx.Transaction, i int) (*tx.Transaction, error) {
	if i < 0 || i >= len(t.Inputs) {
		return nil, &tx.SighashError{
			InputIndex: i,
			Message:    "input index out of bounds",
		}
	}

	c := t.Clone()
	for j := range c.Inputs {
		if j != i {
			c.Inputs[j].Script = nil
		}
	}
	return c, nil
}

// SignaturePreimage returns Encode(SignableTransaction(t, i)) || uint32le(hashType).
func SignaturePreimage(t *tx.Transaction, i int, hashType uint32) ([]byte, error) {
	if hashType != SighashAll {
		return nil, &tx.SighashError{
			InputIndex: i,
			Message:    "unsupported sighash type",
		}
	}

	signable, err := SignableTransaction(t, i)
	if err != nil {
		return nil, err
	}
	return wire.AppendUint32(tx.Encode(signable), hashType), nil
}

// GetSignatureHash computes the legacy signature hash for input i: the
// double SHA-256 of its preimage. Input i must already hold the locking
// script of the output it spends.
func GetSignatureHash(t *tx.Transaction, i int, hashType uint32) ([32]byte, error) {
	preimage, err := SignaturePreimage(t, i, hashType)
	if err != nil {
		return [32]byte{}, err
	}
	return DoubleSha256(preimage), nil
}

// SignatureHashForScript computes the signature hash for input i as if it
// held prevScript. Used for transactions whose inputs already carry
// unlocking scripts.
func SignatureHashForScript(t *tx.Transaction, i int, prevScript []byte, hashType uint32) ([32]byte, error) {
	if i < 0 || i >= len(t.Inputs) {
		return [32]byte{}, &tx.SighashError{InputIndex: i, Message: "input index out of bounds"}
	}

	c := t.Clone()
	c.Inputs[i].Script = prevScript
	return GetSignatureHash(c, i, hashType)
}
