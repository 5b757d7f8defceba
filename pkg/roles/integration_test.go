package roles

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/p2pkh-wallet/pkg/crypto"
	"github.com/suffix-labs/p2pkh-wallet/pkg/script"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

const (
	testPrivateKey = "0ecd20654c2e2be708495853e8da35c664247040c00bd10b9b13e5e86e6a808d"
	recipient      = "14zWNsgUMmHhYx4suzc2tZD6HieGbkQi5s"

	// Signed spend of be66e1...5396:0 paying 118307 to recipient.
	expectedSignedHex = "0100000001be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396000000006a4730440220587ce0cf0252e2db3a7c3c91b355aa8f3385e128227cd8727c5f7777877ad7720220123af7483eb76e12ea54c73978fe627fffb91bbda6797e938147790e43ee57e50121032daa93315eebbe2cb9b5c3505df4c6fb6caca8b756786098567550d4820c09dbffffffff0123ce0100000000001976a9142bc89c2702e0e618db7d59eb5ce2f0f147b4075488ac00000000"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func testKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.PrivateKeyFromBytes(mustHex(t, testPrivateKey))
	require.NoError(t, err)
	return key
}

// ownScript is the P2PKH locking script of testKey.
func ownScript(t *testing.T) []byte {
	return script.StandardScript(testKey(t).PublicKey().Hash160())
}

func utxo(t *testing.T, hashHex string, index uint32, value uint64, lockingScript []byte) tx.UnspentOutput {
	t.Helper()
	hash, err := tx.DecodeHash(hashHex)
	require.NoError(t, err)
	return tx.UnspentOutput{PreviousHash: hash, Index: index, Value: value, Script: lockingScript}
}

// build runs Creator, Constructor and IO Finalizer.
func build(t *testing.T, utxos []tx.UnspentOutput, value uint64, opts FeeOptions) (*tx.Partial, error) {
	t.Helper()
	p := NewCreator().Create()

	constructor := NewConstructor(p)
	for _, u := range utxos {
		require.NoError(t, constructor.AddInput(u))
	}
	require.NoError(t, constructor.AddPayment(recipient, value))

	finalizer := NewIoFinalizer(constructor.Finish(), opts)
	if err := finalizer.Finalize(); err != nil {
		return nil, err
	}
	return finalizer.Finish(), nil
}

// signAndExtract runs Signer, Spend Finalizer and Transaction Extractor.
func signAndExtract(t *testing.T, p *tx.Partial, key KeySigner) *tx.Transaction {
	t.Helper()
	signer := NewSigner(p)
	require.NoError(t, signer.SignAll(context.Background(), key))

	spendFinalizer := NewSpendFinalizer(signer.Finish())
	require.NoError(t, spendFinalizer.Finalize())

	signed, err := NewTxExtractor(spendFinalizer.Finish()).Transaction()
	require.NoError(t, err)
	return signed
}

func TestSignReproducesKnownTransaction(t *testing.T) {
	utxos := []tx.UnspentOutput{
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, 1,
			mustHex(t, "76a914dd6cce9f255a8cc17bda8ba0373df8e861cb866e88ac")),
	}

	// The funding output's value is unknown, so the funds check is skipped.
	p, err := build(t, utxos, 118307, FeeOptions{SkipFundsCheck: true, ChangeScript: ownScript(t)})
	require.NoError(t, err)
	assert.Len(t, p.Outputs, 1, "no change output")

	signed := signAndExtract(t, p, testKey(t))
	assert.Equal(t, expectedSignedHex, hex.EncodeToString(tx.Encode(signed)))

	raw, err := NewTxExtractor(p).Extract()
	require.NoError(t, err)
	assert.Equal(t, expectedSignedHex, hex.EncodeToString(raw))
}

func TestSignWithChangeVerifies(t *testing.T) {
	own := ownScript(t)
	utxos := []tx.UnspentOutput{
		utxo(t, "5e13ca34cf527e7b443afc0d6958a67bf7950a11f6ec3e05f8e3f3e802fbdf99", 0, tx.BaseUnit, own),
		utxo(t, "ec367c260ead9e3c91583175f35382e22b66df6d59fd0aac175bb36519b664f7", 3, tx.BaseUnit, own),
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 1, tx.BaseUnit, own),
	}

	p, err := build(t, utxos, tx.BaseUnit/2, FeeOptions{Speed: tx.SpeedSlow, ChangeScript: own})
	require.NoError(t, err)

	fee, err := tx.CalculateFee(3, 1, tx.SpeedSlow)
	require.NoError(t, err)
	assert.Equal(t, fee, p.Fee)
	assert.Equal(t, 3*tx.BaseUnit-tx.BaseUnit/2-fee, p.Change)

	signed := signAndExtract(t, p, testKey(t))
	require.Len(t, signed.Outputs, 2)
	assert.Equal(t, own, signed.Outputs[1].Script, "change goes back to the signer")
	assert.Equal(t, p.Change, signed.Outputs[1].Value)

	for i, in := range signed.Inputs {
		assert.Equal(t, utxos[i].Index, in.Index, "input order preserved")
		assert.Equal(t, tx.MaxSequence, in.Sequence)
	}

	prevScripts := [][]byte{own, own, own}
	require.NoError(t, NewVerifier(signed, prevScripts).Verify())

	total, err := signed.TotalOutputValue()
	require.NoError(t, err)
	assert.Equal(t, 3*tx.BaseUnit-fee, total)
}

func TestParallelSigningMatchesSequential(t *testing.T) {
	own := ownScript(t)
	var utxos []tx.UnspentOutput
	for i := uint32(0); i < 8; i++ {
		utxos = append(utxos, utxo(t, "5e13ca34cf527e7b443afc0d6958a67bf7950a11f6ec3e05f8e3f3e802fbdf99", i, tx.BaseUnit, own))
	}

	parallel, err := build(t, utxos, tx.BaseUnit, FeeOptions{ChangeScript: own})
	require.NoError(t, err)
	require.NoError(t, NewSigner(parallel).SignAll(context.Background(), testKey(t)))

	sequential, err := build(t, utxos, tx.BaseUnit, FeeOptions{ChangeScript: own})
	require.NoError(t, err)
	signer := NewSigner(sequential)
	for i := len(utxos) - 1; i >= 0; i-- {
		require.NoError(t, signer.SignInput(i, testKey(t)))
	}

	for i := range utxos {
		assert.Equal(t, sequential.Inputs[i].Signature, parallel.Inputs[i].Signature, "input %d", i)
	}
}

func TestDustChangeIsAbsorbed(t *testing.T) {
	fee, err := tx.CalculateFee(1, 1, tx.SpeedFast)
	require.NoError(t, err)

	utxos := []tx.UnspentOutput{
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, 118307+fee+5000, ownScript(t)),
	}

	p, err := build(t, utxos, 118307, FeeOptions{ChangeScript: ownScript(t)})
	require.NoError(t, err)
	assert.Len(t, p.Outputs, 1)
	assert.Equal(t, fee+5000, p.Fee)
	assert.Zero(t, p.Change)

	// With a lower threshold the same remainder becomes change.
	dust := uint64(4999)
	p, err = build(t, utxos, 118307, FeeOptions{ChangeScript: ownScript(t), Dust: &dust})
	require.NoError(t, err)
	require.Len(t, p.Outputs, 2)
	assert.Equal(t, uint64(5000), p.Outputs[1].Value)
	assert.Equal(t, fee, p.Fee)

	// Change equal to the threshold is still dust.
	dust = 5000
	p, err = build(t, utxos, 118307, FeeOptions{ChangeScript: ownScript(t), Dust: &dust})
	require.NoError(t, err)
	assert.Len(t, p.Outputs, 1)
}

func TestExplicitFee(t *testing.T) {
	fee := uint64(1000)
	utxos := []tx.UnspentOutput{
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, tx.BaseUnit, ownScript(t)),
	}

	p, err := build(t, utxos, 118307, FeeOptions{Fee: &fee, ChangeScript: ownScript(t)})
	require.NoError(t, err)
	assert.Equal(t, fee, p.Fee)
	assert.Equal(t, tx.BaseUnit-118307-fee, p.Change)
}

func TestFinalizeErrors(t *testing.T) {
	own := ownScript(t)
	u := utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, 1000, own)

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := build(t, []tx.UnspentOutput{u}, 118307, FeeOptions{ChangeScript: own})
		assert.ErrorIs(t, err, tx.ErrInsufficientFunds)

		var perr *tx.ProposalError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, tx.ErrCodeInsufficientFunds, perr.Code)
	})

	t.Run("duplicate input", func(t *testing.T) {
		big := u
		big.Value = tx.BaseUnit
		_, err := build(t, []tx.UnspentOutput{big, big}, 1, FeeOptions{ChangeScript: own})
		assert.ErrorIs(t, err, tx.ErrDuplicateInput)
	})

	t.Run("no inputs", func(t *testing.T) {
		_, err := build(t, nil, 1, FeeOptions{ChangeScript: own})
		assert.ErrorIs(t, err, tx.ErrNoInputs)
	})

	t.Run("input overflow", func(t *testing.T) {
		a, b := u, u
		a.Value, b.Value, b.Index = ^uint64(0), 1, 1
		_, err := build(t, []tx.UnspentOutput{a, b}, 1, FeeOptions{ChangeScript: own})
		assert.ErrorIs(t, err, tx.ErrAmountOverflow)
	})

	t.Run("missing change script", func(t *testing.T) {
		big := u
		big.Value = tx.BaseUnit
		_, err := build(t, []tx.UnspentOutput{big}, 1, FeeOptions{})
		var perr *tx.ProposalError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("finalized twice", func(t *testing.T) {
		big := u
		big.Value = tx.BaseUnit
		p, err := build(t, []tx.UnspentOutput{big}, 1, FeeOptions{ChangeScript: own})
		require.NoError(t, err)
		assert.Error(t, NewIoFinalizer(p, FeeOptions{}).Finalize())
		assert.ErrorIs(t, NewConstructor(p).AddInput(big), ErrInputsLocked)
		assert.ErrorIs(t, NewConstructor(p).AddOutput(1, own), ErrOutputsLocked)
	})
}

func TestConstructorRejectsBadRecipient(t *testing.T) {
	c := NewConstructor(NewCreator().Create())
	err := c.AddPayment("14zWNsgUMmHhYx4suzc2tZD6HieGbkQi5t", 1)

	var perr *tx.ProposalError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, tx.ErrCodeInvalidAddress, perr.Code)
	assert.Empty(t, c.Finish().Outputs)
}

type failingSigner struct {
	*crypto.PrivateKey
	calls int
}

func (f *failingSigner) Sign([32]byte) ([]byte, error) {
	f.calls++
	return nil, errors.New("device unplugged")
}

func TestSignerFailurePropagates(t *testing.T) {
	own := ownScript(t)
	p, err := build(t, []tx.UnspentOutput{
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, tx.BaseUnit, own),
	}, 1, FeeOptions{ChangeScript: own})
	require.NoError(t, err)

	signer := &failingSigner{PrivateKey: testKey(t)}
	err = NewSigner(p).SignAll(context.Background(), signer)

	var sigErr *tx.SignatureError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, 0, sigErr.InputIndex)
	assert.Nil(t, p.Inputs[0].Signature, "no partial result written")

	assert.Error(t, NewSpendFinalizer(p).Finalize())
	_, err = NewTxExtractor(p).Extract()
	var finErr *tx.FinalizationError
	require.ErrorAs(t, err, &finErr)
	assert.Equal(t, tx.ErrCodeIncomplete, finErr.Code)
}

func TestSignerRequiresFinalizedInputs(t *testing.T) {
	p := NewCreator().Create()
	require.NoError(t, NewConstructor(p).AddInput(
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, 1, ownScript(t))))

	err := NewSigner(p).SignAll(context.Background(), testKey(t))
	assert.ErrorIs(t, err, ErrNotFinalized)

	_, err = NewTxExtractor(p).Extract()
	assert.Error(t, err)
}

func TestSignAllHonoursCancelledContext(t *testing.T) {
	own := ownScript(t)
	p, err := build(t, []tx.UnspentOutput{
		utxo(t, "be66e10da854e7aea9338c1f91cd489768d1d6d7189f586d7a3613f2a24d5396", 0, tx.BaseUnit, own),
	}, 1, FeeOptions{ChangeScript: own})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewSigner(p).SignAll(ctx, testKey(t)), context.Canceled)
}

func TestVerifierRejectsForeignKey(t *testing.T) {
	raw := mustHex(t, expectedSignedHex)
	signed, err := tx.Parse(raw)
	require.NoError(t, err)

	// The known transaction spends an output locked to a different key.
	err = NewVerifier(signed, [][]byte{mustHex(t, "76a914dd6cce9f255a8cc17bda8ba0373df8e861cb866e88ac")}).Verify()
	assert.ErrorIs(t, err, crypto.ErrPubKeyMismatch)

	// Under the signer's own script the key matches but the signature
	// commits to the original locking script.
	err = NewVerifier(signed, [][]byte{ownScript(t)}).Verify()
	assert.ErrorIs(t, err, crypto.ErrSignatureMismatch)

	assert.Error(t, NewVerifier(signed, nil).Verify())
}

func TestAddInputRejectsEmptyLockingScript(t *testing.T) {
	p := NewCreator().Create()
	err := NewConstructor(p).AddInput(tx.UnspentOutput{Index: 0, Value: tx.BaseUnit})

	var perr *tx.ProposalError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, tx.ErrCodeInvalidInput, perr.Code)
	assert.Empty(t, p.Inputs)
}
