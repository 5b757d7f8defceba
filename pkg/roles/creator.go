// Package roles implements transaction construction as a pipeline of roles.
//
// Each role takes the partial transaction left by the previous one:
//   - Creator: Initializes the empty transaction (version, lock time)
//   - Constructor: Adds the spent outputs and the payment outputs
//   - IO Finalizer: Computes the fee, adds change, locks inputs and outputs
//   - Signer: Signs every input (legacy SIGHASH_ALL)
//   - Spend Finalizer: Builds the scriptSig of every input
//   - Transaction Extractor: Produces the final transaction bytes
//   - Verifier: Checks the signatures of a finished transaction
//
// Roles can be run at different times or by different parties; the signer
// only needs the locked partial transaction and a key.
package roles

import (
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// Creator initializes a partial transaction with no inputs or outputs.
//
// The Creator sets the transaction-wide fields (version, lock time) that
// every signature commits to. Inputs and outputs are added by the
// Constructor.
type Creator struct {
	version  uint32
	lockTime uint32
}

// NewCreator creates a Creator for a version 1 transaction with no lock time.
func NewCreator() *Creator {
	return &Creator{
		version:  tx.DefaultVersion,
		lockTime: tx.DefaultLockTime,
	}
}

// WithLockTime sets nLockTime.
//
// It can be either a block height (< 500000000) or UNIX timestamp (>= 500000000).
// Lock times are only enforced for inputs with a non-final sequence, which
// this library never produces.
func (c *Creator) WithLockTime(lockTime uint32) *Creator {
	c.lockTime = lockTime
	return c
}

// Create returns the base partial transaction with inputs and outputs
// modifiable, ready for the Constructor.
func (c *Creator) Create() *tx.Partial {
	return &tx.Partial{
		Version:    c.version,
		LockTime:   c.lockTime,
		Inputs:     []tx.PartialInput{},
		Outputs:    []tx.Output{},
		Modifiable: tx.FlagInputsModifiable | tx.FlagOutputsModifiable,
	}
}
