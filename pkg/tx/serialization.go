package tx

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/suffix-labs/p2pkh-wallet/pkg/wire"
)

const (
	// MaxScriptSize bounds scripts accepted by Parse.
	MaxScriptSize = 10000

	// Smallest possible encodings, used to reject absurd counts early.
	minInputSize  = 32 + 4 + 1 + 4
	minOutputSize = 8 + 1
)

// Encode serializes tx in the legacy wire format:
//
//	version(4) | input_count | [prev_hash(32) + index(4) + script + sequence(4)]... |
//	output_count | [value(8) + script]... | locktime(4)
//
// Counts and script lengths are compact sizes; integers are little-endian.
func Encode(tx *Transaction) []byte {
	buf := make([]byte, 0, encodedSize(tx))

	buf = wire.AppendUint32(buf, tx.Version)

	inputs := make([][]byte, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = EncodeInput(in)
	}
	buf = append(buf, wire.EncodeArray(inputs)...)

	outputs := make([][]byte, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputs[i] = EncodeOutput(out)
	}
	buf = append(buf, wire.EncodeArray(outputs)...)

	buf = wire.AppendUint32(buf, tx.LockTime)
	return buf
}

// EncodeInput serializes a single input.
func EncodeInput(in Input) []byte {
	return appendInput(nil, in)
}

// EncodeOutput serializes a single output.
func EncodeOutput(out Output) []byte {
	return appendOutput(nil, out)
}

func appendInput(buf []byte, in Input) []byte {
	buf = append(buf, in.PreviousHash[:]...)
	buf = wire.AppendUint32(buf, in.Index)
	buf = wire.AppendBytes(buf, in.Script)
	return wire.AppendUint32(buf, in.Sequence)
}

func appendOutput(buf []byte, out Output) []byte {
	buf = wire.AppendUint64(buf, out.Value)
	return wire.AppendBytes(buf, out.Script)
}

func encodedSize(tx *Transaction) int {
	size := 4 + wire.CompactSizeLen(uint64(len(tx.Inputs))) +
		wire.CompactSizeLen(uint64(len(tx.Outputs))) + 4
	for _, in := range tx.Inputs {
		size += 32 + 4 + wire.CompactSizeLen(uint64(len(in.Script))) + len(in.Script) + 4
	}
	for _, out := range tx.Outputs {
		size += 8 + wire.CompactSizeLen(uint64(len(out.Script))) + len(out.Script)
	}
	return size
}

// TxID returns the double SHA-256 of the encoded transaction, in wire order.
func (tx *Transaction) TxID() [32]byte {
	first := sha256.Sum256(Encode(tx))
	return sha256.Sum256(first[:])
}

// TxIDString returns the transaction id in display (byte-reversed) order.
func (tx *Transaction) TxIDString() string {
	return HashString(tx.TxID())
}

// Parse decodes a legacy transaction. Trailing bytes are rejected.
func Parse(raw []byte) (*Transaction, error) {
	r := bytes.NewReader(raw)
	tx := &Transaction{}

	var err error
	if tx.Version, err = wire.ReadUint32(r); err != nil {
		return nil, &ParseError{Message: "reading version", Cause: err}
	}

	inputCount, err := wire.ReadCompactSize(r)
	if err != nil {
		return nil, &ParseError{Message: "reading input count", Cause: err}
	}
	if inputCount > uint64(r.Len()/minInputSize) {
		return nil, &ParseError{Message: fmt.Sprintf("input count %d exceeds remaining data", inputCount)}
	}
	if inputCount == 0 {
		// A zero input count is the segwit marker.
		return nil, &ParseError{Message: "segwit or empty-input transactions are not supported"}
	}

	tx.Inputs = make([]Input, inputCount)
	for i := range tx.Inputs {
		in, err := readInput(r)
		if err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("reading input %d", i), Cause: err}
		}
		tx.Inputs[i] = in
	}

	outputCount, err := wire.ReadCompactSize(r)
	if err != nil {
		return nil, &ParseError{Message: "reading output count", Cause: err}
	}
	if outputCount > uint64(r.Len()/minOutputSize) {
		return nil, &ParseError{Message: fmt.Sprintf("output count %d exceeds remaining data", outputCount)}
	}

	tx.Outputs = make([]Output, outputCount)
	for i := range tx.Outputs {
		out, err := readOutput(r)
		if err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("reading output %d", i), Cause: err}
		}
		tx.Outputs[i] = out
	}

	if tx.LockTime, err = wire.ReadUint32(r); err != nil {
		return nil, &ParseError{Message: "reading lock time", Cause: err}
	}

	if r.Len() != 0 {
		return nil, &ParseError{Message: fmt.Sprintf("%d trailing bytes", r.Len())}
	}
	return tx, nil
}

func readInput(r *bytes.Reader) (Input, error) {
	var in Input
	if _, err := io.ReadFull(r, in.PreviousHash[:]); err != nil {
		return in, fmt.Errorf("previous hash: %w", err)
	}
	var err error
	if in.Index, err = wire.ReadUint32(r); err != nil {
		return in, fmt.Errorf("index: %w", err)
	}
	if in.Script, err = wire.ReadBytes(r, MaxScriptSize); err != nil {
		return in, fmt.Errorf("script: %w", err)
	}
	if in.Sequence, err = wire.ReadUint32(r); err != nil {
		return in, fmt.Errorf("sequence: %w", err)
	}
	return in, nil
}

func readOutput(r *bytes.Reader) (Output, error) {
	var out Output
	var err error
	if out.Value, err = wire.ReadUint64(r); err != nil {
		return out, fmt.Errorf("value: %w", err)
	}
	if out.Script, err = wire.ReadBytes(r, MaxScriptSize); err != nil {
		return out, fmt.Errorf("script: %w", err)
	}
	return out, nil
}
