package roles

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/suffix-labs/p2pkh-wallet/internal/log"
	"github.com/suffix-labs/p2pkh-wallet/pkg/crypto"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// KeySigner produces signatures for one key. *crypto.PrivateKey implements
// it; hardware or remote signers can too.
type KeySigner interface {
	// Sign returns a DER encoded ECDSA signature over hash.
	Sign(hash [32]byte) ([]byte, error)
	// PublicKey returns the key placed in the unlocking script.
	PublicKey() *crypto.PublicKey
}

// Signer adds signatures to the inputs of a finalized partial transaction.
//
// Every signature hash is computed from the same unsigned transaction (all
// inputs still holding their locking scripts), so inputs can be signed in
// any order or in parallel and the result is identical.
type Signer struct {
	partial  *tx.Partial
	unsigned *tx.Transaction
}

// NewSigner creates a new Signer.
func NewSigner(p *tx.Partial) *Signer {
	return &Signer{partial: p}
}

// SignInput signs input i with key.
//
// The stored signature is: DER signature || SIGHASH_ALL byte.
func (s *Signer) SignInput(i int, key KeySigner) error {
	if err := s.prepare(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.partial.Inputs) {
		return &tx.SignatureError{
			InputIndex: i,
			Message:    fmt.Sprintf("input index out of bounds (have %d inputs)", len(s.partial.Inputs)),
		}
	}

	sig, pub, err := s.sign(i, key)
	if err != nil {
		return err
	}
	s.partial.Inputs[i].Signature = sig
	s.partial.Inputs[i].PublicKey = pub
	return nil
}

// SignAll signs every input with key, in parallel.
//
// The first failure cancels the inputs not yet signed and is returned;
// on error no input is modified.
func (s *Signer) SignAll(ctx context.Context, key KeySigner) error {
	if err := s.prepare(); err != nil {
		return err
	}

	n := len(s.partial.Inputs)
	sigs := make([][]byte, n)
	pubs := make([][]byte, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sig, pub, err := s.sign(i, key)
			if err != nil {
				return err
			}
			sigs[i], pubs[i] = sig, pub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range s.partial.Inputs {
		s.partial.Inputs[i].Signature = sigs[i]
		s.partial.Inputs[i].PublicKey = pubs[i]
	}

	log.Signer.Debug().Int("inputs", n).Msg("all inputs signed")
	return nil
}

// prepare freezes the unsigned transaction the signature hashes are
// computed from.
func (s *Signer) prepare() error {
	if s.partial.Modifiable != 0 {
		return fmt.Errorf("signer: %w", ErrNotFinalized)
	}
	if s.unsigned == nil {
		s.unsigned = s.partial.Unsigned()
	}
	return nil
}

// sign reads only the frozen unsigned transaction, so concurrent calls are
// safe.
func (s *Signer) sign(i int, key KeySigner) (sig []byte, pub []byte, err error) {
	sighash, err := crypto.GetSignatureHash(s.unsigned, i, crypto.SighashAll)
	if err != nil {
		return nil, nil, err
	}

	der, err := key.Sign(sighash)
	if err != nil {
		return nil, nil, &tx.SignatureError{InputIndex: i, Message: "signing failed", Cause: err}
	}

	pubKey := key.PublicKey()
	if pubKey == nil {
		return nil, nil, &tx.SignatureError{InputIndex: i, Message: "signer has no public key"}
	}

	// Bitcoin-style signatures have format: DER_signature || sighash_type
	sig = append(der[:len(der):len(der)], byte(crypto.SighashAll))
	return sig, pubKey.Bytes(), nil
}

// Finish returns the signed partial transaction, ready for the Spend Finalizer.
func (s *Signer) Finish() *tx.Partial {
	return s.partial
}
