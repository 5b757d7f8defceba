package crypto

import (
	"bytes"
	"errors"

	"github.com/suffix-labs/p2pkh-wallet/pkg/script"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

var (
	ErrPubKeyMismatch    = errors.New("public key does not match the spent output")
	ErrSignatureMismatch = errors.New("signature does not verify")
)

// VerifyInputSignature checks the unlocking script of input i of a signed
// transaction against prevScript, the P2PKH locking script it spends.
func VerifyInputSignature(t *tx.Transaction, i int, prevScript []byte) error {
	if i < 0 || i >= len(t.Inputs) {
		return &tx.SignatureError{InputIndex: i, Message: "input index out of bounds"}
	}

	wantHash, err := script.ExtractPubKeyHash(prevScript)
	if err != nil {
		return &tx.SignatureError{InputIndex: i, Message: "spent output", Cause: err}
	}

	sigWithType, pubBytes, err := script.ParseUnlockingScript(t.Inputs[i].Script)
	if err != nil {
		return &tx.SignatureError{InputIndex: i, Message: "unlocking script", Cause: err}
	}

	pub, err := ParsePublicKey(pubBytes)
	if err != nil {
		return &tx.SignatureError{InputIndex: i, Message: "public key", Cause: err}
	}
	gotHash := pub.Hash160()
	if !bytes.Equal(gotHash[:], wantHash[:]) {
		return &tx.SignatureError{InputIndex: i, Message: "public key", Cause: ErrPubKeyMismatch}
	}

	hashType := uint32(sigWithType[len(sigWithType)-1])
	der := sigWithType[:len(sigWithType)-1]

	sighash, err := SignatureHashForScript(t, i, prevScript, hashType)
	if err != nil {
		return &tx.SignatureError{InputIndex: i, Message: "sighash", Cause: err}
	}
	if !VerifySignature(pub, sighash, der) {
		return &tx.SignatureError{InputIndex: i, Message: "signature", Cause: ErrSignatureMismatch}
	}
	return nil
}
