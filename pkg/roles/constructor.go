package roles

import (
	"errors"
	"fmt"

	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/script"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

var (
	ErrInputsLocked  = errors.New("inputs not modifiable")
	ErrOutputsLocked = errors.New("outputs not modifiable")
	ErrNotFinalized  = errors.New("inputs and outputs not finalized")
)

// Constructor adds inputs and outputs to a partial transaction.
//
// Inputs are kept in the order they are added; that order is the order of
// the inputs on the wire and the order they are signed in.
type Constructor struct {
	partial *tx.Partial
}

// NewConstructor creates a new Constructor from a Creator's partial transaction.
func NewConstructor(p *tx.Partial) *Constructor {
	return &Constructor{partial: p}
}

// AddInput adds an unspent output to spend. Its locking script is kept as
// the input script until the spend finalizer replaces it.
func (c *Constructor) AddInput(utxo tx.UnspentOutput) error {
	if c.partial.Modifiable&tx.FlagInputsModifiable == 0 {
		return ErrInputsLocked
	}
	if len(utxo.Script) == 0 {
		return &tx.ProposalError{
			Code:    tx.ErrCodeInvalidInput,
			Message: fmt.Sprintf("input %d has an empty locking script", len(c.partial.Inputs)),
		}
	}

	c.partial.Inputs = append(c.partial.Inputs, tx.PartialInput{Prevout: utxo})
	return nil
}

// AddOutput adds an output paying value to a raw locking script.
func (c *Constructor) AddOutput(value uint64, lockingScript []byte) error {
	if c.partial.Modifiable&tx.FlagOutputsModifiable == 0 {
		return ErrOutputsLocked
	}

	c.partial.Outputs = append(c.partial.Outputs, tx.Output{
		Value:  value,
		Script: append([]byte(nil), lockingScript...),
	})
	return nil
}

// AddPayment adds a P2PKH output paying value to addr.
//
// The address is only decoded for its pubkey hash; its chain byte is not
// checked against the chain being spent on.
func (c *Constructor) AddPayment(addr string, value uint64) error {
	hash, err := address.ToPublicKeyHash(addr)
	if err != nil {
		return &tx.ProposalError{
			Code:    tx.ErrCodeInvalidAddress,
			Message: "recipient address",
			Cause:   err,
		}
	}
	return c.AddOutput(value, script.StandardScript(hash))
}

// Finish returns the partial transaction, ready for the IO Finalizer.
func (c *Constructor) Finish() *tx.Partial {
	return c.partial
}
