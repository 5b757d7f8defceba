package roles

import (
	"fmt"

	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// TxExtractor produces the final transaction from a finalized partial
// transaction.
//
// This is the last role. After extraction you have a complete, signed
// transaction ready for broadcast.
type TxExtractor struct {
	partial *tx.Partial
}

// NewTxExtractor creates a new Transaction Extractor.
func NewTxExtractor(p *tx.Partial) *TxExtractor {
	return &TxExtractor{partial: p}
}

// Transaction returns the signed transaction: every input carries its
// scriptSig, outputs are in construction order (payment, then change).
func (e *TxExtractor) Transaction() (*tx.Transaction, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	p := e.partial
	t := &tx.Transaction{
		Version:  p.Version,
		LockTime: p.LockTime,
		Inputs:   make([]tx.Input, len(p.Inputs)),
		Outputs:  make([]tx.Output, len(p.Outputs)),
	}
	for i, in := range p.Inputs {
		t.Inputs[i] = tx.NewInput(in.Prevout.PreviousHash, in.Prevout.Index, in.ScriptSig)
	}
	copy(t.Outputs, p.Outputs)
	return t, nil
}

// Extract returns the raw transaction bytes.
func (e *TxExtractor) Extract() ([]byte, error) {
	t, err := e.Transaction()
	if err != nil {
		return nil, err
	}
	return tx.Encode(t), nil
}

// validate checks that the partial transaction is fully finalized:
// modification flags cleared and every input has a scriptSig.
func (e *TxExtractor) validate() error {
	if e.partial.Modifiable != 0 {
		return &tx.FinalizationError{
			Code:    tx.ErrCodeInvalidState,
			Message: fmt.Sprintf("transaction still modifiable (flags: 0x%x)", e.partial.Modifiable),
		}
	}

	for i, in := range e.partial.Inputs {
		if len(in.ScriptSig) == 0 {
			return &tx.FinalizationError{
				Code:    tx.ErrCodeIncomplete,
				Message: fmt.Sprintf("input %d missing scriptSig (not finalized)", i),
			}
		}
	}
	return nil
}
