// Package tx defines the legacy transaction model, its canonical wire
// encoding, the static fee model and base-unit amount handling.
package tx

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
)

const (
	// DefaultVersion is the transaction version written by this library.
	DefaultVersion uint32 = 1

	// DefaultLockTime disables time locks.
	DefaultLockTime uint32 = 0

	// MaxSequence marks an input as final.
	MaxSequence uint32 = 0xffffffff
)

// Input spends a previous output.
//
// Before signing, Script holds the locking script of the output being spent.
// After finalization it holds the unlocking script (scriptSig).
type Input struct {
	PreviousHash [32]byte // Hash of the funding transaction, in wire order
	Index        uint32   // Output index within the funding transaction
	Script       []byte
	Sequence     uint32
}

// NewInput returns a final input spending hash:index with the given script.
func NewInput(previousHash [32]byte, index uint32, script []byte) Input {
	return Input{
		PreviousHash: previousHash,
		Index:        index,
		Script:       script,
		Sequence:     MaxSequence,
	}
}

// Output locks value base units to a script.
type Output struct {
	Value  uint64
	Script []byte
}

// UnspentOutput describes a spendable output supplied by the caller.
type UnspentOutput struct {
	PreviousHash [32]byte
	Index        uint32
	Value        uint64
	Script       []byte // Locking script of the output
}

// Input converts the unspent output into an unsigned input whose script is
// the output's locking script.
func (u UnspentOutput) Input() Input {
	return NewInput(u.PreviousHash, u.Index, cloneBytes(u.Script))
}

// Transaction is a legacy (non-segwit) transaction.
type Transaction struct {
	Version  uint32
	Inputs   []Input
	Outputs  []Output
	LockTime uint32
}

// New returns an empty transaction with the default version and lock time.
func New() *Transaction {
	return &Transaction{
		Version:  DefaultVersion,
		LockTime: DefaultLockTime,
	}
}

// Clone returns a deep copy of the transaction.
func (tx *Transaction) Clone() *Transaction {
	c := &Transaction{
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Inputs:   make([]Input, len(tx.Inputs)),
		Outputs:  make([]Output, len(tx.Outputs)),
	}
	for i, in := range tx.Inputs {
		in.Script = cloneBytes(in.Script)
		c.Inputs[i] = in
	}
	for i, out := range tx.Outputs {
		out.Script = cloneBytes(out.Script)
		c.Outputs[i] = out
	}
	return c
}

// TotalOutputValue returns the sum of all output values.
// Returns an error if the sum overflows uint64.
func (tx *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		if total > math.MaxUint64-out.Value {
			return 0, ErrAmountOverflow
		}
		total += out.Value
	}
	return total, nil
}

// SumUnspent returns the total value of utxos.
func SumUnspent(utxos []UnspentOutput) (uint64, error) {
	var total uint64
	for _, u := range utxos {
		if total > math.MaxUint64-u.Value {
			return 0, ErrAmountOverflow
		}
		total += u.Value
	}
	return total, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// inputJSON is the JSON representation of Input with hex-encoded byte fields.
type inputJSON struct {
	PreviousHash string `json:"prev_hash"`
	Index        uint32 `json:"index"`
	Script       string `json:"script"`
	Sequence     uint32 `json:"sequence"`
}

// MarshalJSON encodes the input with hex-encoded hash and script.
func (in Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(inputJSON{
		PreviousHash: hex.EncodeToString(in.PreviousHash[:]),
		Index:        in.Index,
		Script:       hex.EncodeToString(in.Script),
		Sequence:     in.Sequence,
	})
}

// UnmarshalJSON decodes an input produced by MarshalJSON.
func (in *Input) UnmarshalJSON(data []byte) error {
	var j inputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	hash, err := DecodeHash(j.PreviousHash)
	if err != nil {
		return err
	}
	script, err := hex.DecodeString(j.Script)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	*in = Input{PreviousHash: hash, Index: j.Index, Script: script, Sequence: j.Sequence}
	return nil
}

type outputJSON struct {
	Value  uint64 `json:"value"`
	Script string `json:"script"`
}

// MarshalJSON encodes the output with a hex-encoded script.
func (out Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(outputJSON{Value: out.Value, Script: hex.EncodeToString(out.Script)})
}

// UnmarshalJSON decodes an output produced by MarshalJSON.
func (out *Output) UnmarshalJSON(data []byte) error {
	var j outputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	script, err := hex.DecodeString(j.Script)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	*out = Output{Value: j.Value, Script: script}
	return nil
}

// HashString formats a wire-order hash the way block explorers display it.
func HashString(h [32]byte) string {
	var r [32]byte
	for i := range h {
		r[i] = h[31-i]
	}
	return hex.EncodeToString(r[:])
}

// DecodeHash decodes a hex 32-byte hash kept in wire order.
func DecodeHash(s string) ([32]byte, error) {
	var h [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("hash: %w", err)
	}
	if len(b) != 32 {
		return h, fmt.Errorf("hash must be 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}
