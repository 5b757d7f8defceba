package roles

import (
	"fmt"
	"math"

	"github.com/suffix-labs/p2pkh-wallet/internal/log"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// FeeOptions controls how the IO Finalizer prices the transaction and
// handles change.
type FeeOptions struct {
	// Fee overrides the estimated fee when non-nil.
	Fee *uint64
	// Speed selects the fee tier used when Fee is nil.
	Speed tx.Speed
	// Dust is the change threshold; change <= Dust is left to the miner.
	// Nil means tx.DefaultDust.
	Dust *uint64
	// ChangeScript receives the change output.
	ChangeScript []byte
	// SkipFundsCheck builds the transaction even when the inputs do not
	// cover value + fee. No change output is added in that case.
	SkipFundsCheck bool
}

// IoFinalizer prices the transaction, adds change and locks the input and
// output set.
//
// The fee is estimated from the inputs and outputs present before change
// is considered, so adding a change output does not raise the fee.
// After Finalize the partial transaction can no longer be modified and is
// ready for the Signer.
type IoFinalizer struct {
	partial *tx.Partial
	opts    FeeOptions
}

// NewIoFinalizer creates a new IO Finalizer.
func NewIoFinalizer(p *tx.Partial, opts FeeOptions) *IoFinalizer {
	return &IoFinalizer{partial: p, opts: opts}
}

// Finalize computes fee and change and clears the modification flags.
//
// Returns a *tx.ProposalError wrapping tx.ErrInsufficientFunds when the
// inputs do not cover value + fee, unless SkipFundsCheck is set.
func (f *IoFinalizer) Finalize() error {
	p := f.partial
	if p.Modifiable == 0 {
		return &tx.ProposalError{Code: tx.ErrCodeInvalidState, Message: "already finalized"}
	}
	if len(p.Inputs) == 0 {
		return &tx.ProposalError{Code: tx.ErrCodeInvalidInput, Message: "no inputs", Cause: tx.ErrNoInputs}
	}
	if len(p.Outputs) == 0 {
		return &tx.ProposalError{Code: tx.ErrCodeInvalidInput, Message: "no outputs", Cause: tx.ErrNoOutputs}
	}
	if err := checkDuplicateInputs(p.Inputs); err != nil {
		return err
	}

	inputValue, err := p.InputValue()
	if err != nil {
		return &tx.ProposalError{Code: tx.ErrCodeOverflow, Message: "summing inputs", Cause: err}
	}
	outputValue, err := p.OutputValue()
	if err != nil {
		return &tx.ProposalError{Code: tx.ErrCodeOverflow, Message: "summing outputs", Cause: err}
	}

	fee, err := f.fee()
	if err != nil {
		return err
	}
	if outputValue > math.MaxUint64-fee {
		return &tx.ProposalError{Code: tx.ErrCodeOverflow, Message: "value + fee", Cause: tx.ErrAmountOverflow}
	}
	required := outputValue + fee

	dust := tx.DefaultDust
	if f.opts.Dust != nil {
		dust = *f.opts.Dust
	}

	switch {
	case inputValue < required && !f.opts.SkipFundsCheck:
		return &tx.ProposalError{
			Code:    tx.ErrCodeInsufficientFunds,
			Message: fmt.Sprintf("inputs %d < outputs %d + fee %d", inputValue, outputValue, fee),
			Cause:   tx.ErrInsufficientFunds,
		}

	case inputValue < required:
		log.Wallet.Warn().
			Uint64("input", inputValue).
			Uint64("required", required).
			Msg("funds check skipped, inputs do not cover value + fee")
		p.Fee = fee
		p.Change = 0

	case inputValue-required > dust:
		if len(f.opts.ChangeScript) == 0 {
			return &tx.ProposalError{Code: tx.ErrCodeInvalidInput, Message: "change output needs a change script"}
		}
		change := inputValue - required
		p.Outputs = append(p.Outputs, tx.Output{
			Value:  change,
			Script: append([]byte(nil), f.opts.ChangeScript...),
		})
		p.Fee = fee
		p.Change = change

	default:
		absorbed := inputValue - required
		if absorbed > 0 {
			log.Wallet.Debug().
				Uint64("change", absorbed).
				Uint64("dust", dust).
				Msg("change below dust threshold, added to fee")
		}
		p.Fee = fee + absorbed
		p.Change = 0
	}

	// No more changes to inputs or outputs; signatures commit to both.
	p.Modifiable = 0

	log.Wallet.Debug().
		Int("inputs", len(p.Inputs)).
		Int("outputs", len(p.Outputs)).
		Uint64("fee", p.Fee).
		Uint64("change", p.Change).
		Msg("inputs and outputs finalized")
	return nil
}

// fee returns the explicit fee or the estimate for the current input and
// output counts.
func (f *IoFinalizer) fee() (uint64, error) {
	if f.opts.Fee != nil {
		return *f.opts.Fee, nil
	}

	fee, err := tx.CalculateFee(len(f.partial.Inputs), len(f.partial.Outputs), f.opts.Speed)
	if err != nil {
		return 0, &tx.ProposalError{Code: tx.ErrCodeInvalidInput, Message: "estimating fee", Cause: err}
	}
	return fee, nil
}

func checkDuplicateInputs(inputs []tx.PartialInput) error {
	type outpoint struct {
		hash  [32]byte
		index uint32
	}

	seen := make(map[outpoint]int, len(inputs))
	for i, in := range inputs {
		op := outpoint{in.Prevout.PreviousHash, in.Prevout.Index}
		if first, ok := seen[op]; ok {
			return &tx.ProposalError{
				Code:    tx.ErrCodeInvalidInput,
				Message: fmt.Sprintf("inputs %d and %d spend %s:%d", first, i, tx.HashString(op.hash), op.index),
				Cause:   tx.ErrDuplicateInput,
			}
		}
		seen[op] = i
	}
	return nil
}

// Finish returns the finalized partial transaction, ready for the Signer.
func (f *IoFinalizer) Finish() *tx.Partial {
	return f.partial
}
