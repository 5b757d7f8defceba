package roles

import (
	"fmt"

	"github.com/suffix-labs/p2pkh-wallet/pkg/script"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// SpendFinalizer builds the scriptSig of every signed input.
//
// P2PKH scriptSig format: <signature || hash type> <compressed pubkey>
type SpendFinalizer struct {
	partial *tx.Partial
}

// NewSpendFinalizer creates a new Spend Finalizer.
func NewSpendFinalizer(p *tx.Partial) *SpendFinalizer {
	return &SpendFinalizer{partial: p}
}

// Finalize sets ScriptSig on every input. It fails on the first input
// without a signature, leaving the others untouched.
func (f *SpendFinalizer) Finalize() error {
	for i, in := range f.partial.Inputs {
		if len(in.Signature) == 0 || len(in.PublicKey) == 0 {
			return &tx.FinalizationError{
				Code:    tx.ErrCodeIncomplete,
				Message: fmt.Sprintf("input %d is not signed", i),
			}
		}
	}

	for i := range f.partial.Inputs {
		in := &f.partial.Inputs[i]
		in.ScriptSig = script.UnlockingScript(in.Signature, in.PublicKey)
	}
	return nil
}

// Finish returns the partial transaction, ready for the Transaction Extractor.
func (f *SpendFinalizer) Finish() *tx.Partial {
	return f.partial
}
