package roles

import (
	"fmt"

	"github.com/suffix-labs/p2pkh-wallet/pkg/crypto"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// Verifier checks every input signature of a signed transaction against
// the locking scripts of the outputs it spends.
type Verifier struct {
	signed      *tx.Transaction
	prevScripts [][]byte
}

// NewVerifier creates a Verifier. prevScripts[i] is the locking script
// spent by input i.
func NewVerifier(signed *tx.Transaction, prevScripts [][]byte) *Verifier {
	return &Verifier{signed: signed, prevScripts: prevScripts}
}

// Verify returns the first input that fails verification as a
// *tx.SignatureError.
func (v *Verifier) Verify() error {
	if len(v.prevScripts) != len(v.signed.Inputs) {
		return fmt.Errorf("verifier: %d spent scripts for %d inputs", len(v.prevScripts), len(v.signed.Inputs))
	}

	for i := range v.signed.Inputs {
		if err := crypto.VerifyInputSignature(v.signed, i, v.prevScripts[i]); err != nil {
			return err
		}
	}
	return nil
}
