package tx

// Modification flags for Partial.Modifiable.
const (
	FlagInputsModifiable  uint8 = 0x01
	FlagOutputsModifiable uint8 = 0x02
)

// Partial is a transaction under construction, handed from role to role:
// Creator, Constructor, IoFinalizer, Signer, SpendFinalizer, TxExtractor.
type Partial struct {
	Version  uint32
	LockTime uint32

	Inputs  []PartialInput
	Outputs []Output

	// Fee is the effective fee once the IO finalizer has run: inputs minus
	// outputs, including any change absorbed as dust. With the funds check
	// skipped it is the requested fee, which the inputs may not cover.
	Fee uint64
	// Change is the value of the change output, zero if none was added.
	Change uint64

	// Modifiable holds Flag* bits; cleared by the IO finalizer.
	Modifiable uint8
}

// PartialInput is an input together with its signing state.
type PartialInput struct {
	Prevout UnspentOutput

	Signature []byte // DER signature with the hash type byte appended
	PublicKey []byte // Compressed public key matching Signature
	ScriptSig []byte // Set by the spend finalizer
}

// Unsigned returns the transaction in its pre-signing form: every input
// carries the locking script of the output it spends.
func (p *Partial) Unsigned() *Transaction {
	t := &Transaction{
		Version:  p.Version,
		LockTime: p.LockTime,
		Inputs:   make([]Input, len(p.Inputs)),
		Outputs:  make([]Output, len(p.Outputs)),
	}
	for i, in := range p.Inputs {
		t.Inputs[i] = in.Prevout.Input()
	}
	for i, out := range p.Outputs {
		t.Outputs[i] = Output{Value: out.Value, Script: cloneBytes(out.Script)}
	}
	return t
}

// InputValue returns the sum of the spent outputs.
func (p *Partial) InputValue() (uint64, error) {
	utxos := make([]UnspentOutput, len(p.Inputs))
	for i, in := range p.Inputs {
		utxos[i] = in.Prevout
	}
	return SumUnspent(utxos)
}

// OutputValue returns the sum of the outputs.
func (p *Partial) OutputValue() (uint64, error) {
	return (&Transaction{Outputs: p.Outputs}).TotalOutputValue()
}
