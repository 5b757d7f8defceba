// Package api provides the high-level public API of the p2pkh-wallet library.
//
// This is the main entry point for applications. It runs the role pipeline
// in pkg/roles and exposes the inspection helpers around it:
//
//  1. CreateSignedTransaction - Builds, signs and serializes a payment
//  2. GetSighash - Computes the signature hash of an input
//  3. DecodeTransaction - Parses raw transaction bytes
//  4. VerifyTransaction - Checks every input signature
//  5. DeriveAddress - Address of a private key on a chain
//  6. ParsePaymentRequest - Parses a BIP 21 URI
package api

import (
	"context"
	"fmt"

	"github.com/suffix-labs/p2pkh-wallet/internal/log"
	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/bip21"
	"github.com/suffix-labs/p2pkh-wallet/pkg/crypto"
	"github.com/suffix-labs/p2pkh-wallet/pkg/roles"
	"github.com/suffix-labs/p2pkh-wallet/pkg/script"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

// SendRequest describes a payment from the owner of PrivateKey.
type SendRequest struct {
	ChainID          byte               // Pubkey-hash identifier, e.g. address.ChainDOGE
	UnspentOutputs   []tx.UnspentOutput // Spent in order; all are used
	RecipientAddress string
	PrivateKey       []byte // Raw 32-byte key; signs every input
	Value            uint64 // Amount paid to the recipient, in base units

	Fee         *uint64  // Explicit fee; nil estimates it from Speed
	Speed       tx.Speed // Fee tier, tx.SpeedFast by default
	MinimumDust *uint64  // Change threshold; nil means tx.DefaultDust

	// SkipFundsCheck signs even when the outputs do not cover value + fee,
	// e.g. when the spent values are not known. No change output is added.
	SkipFundsCheck bool
}

// SendResult is a signed payment with its accounting.
type SendResult struct {
	Transaction   *tx.Transaction
	Raw           []byte
	TxID          string // Display order
	Fee           uint64 // Effective fee, including absorbed dust
	Change        uint64 // Zero when no change output was added
	ChangeAddress string
}

// ============================================================================
// API Function 1: CreateSignedTransaction
// ============================================================================

// CreateSignedTransaction builds and signs a P2PKH payment and returns the
// serialized transaction.
//
// Outputs are the payment to RecipientAddress followed, if the remainder
// exceeds the dust threshold, by change to the address of PrivateKey on
// ChainID.
func CreateSignedTransaction(req *SendRequest) ([]byte, error) {
	res, err := Send(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return res.Raw, nil
}

// Send is CreateSignedTransaction with a context and the full result.
//
// This function:
//  1. Creates the transaction using the Creator role
//  2. Adds every unspent output and the payment using the Constructor role
//  3. Prices it and adds change using the IO Finalizer role
//  4. Signs every input using the Signer role
//  5. Builds the scriptSigs using the Spend Finalizer role
//  6. Extracts the final transaction using the Transaction Extractor role
func Send(ctx context.Context, req *SendRequest) (*SendResult, error) {
	key, err := crypto.PrivateKeyFromBytes(req.PrivateKey)
	if err != nil {
		return nil, &tx.ProposalError{Code: tx.ErrCodeInvalidKey, Message: "private key", Cause: err}
	}

	// Step 1: Creator - Initialize transaction
	p := roles.NewCreator().Create()

	// Step 2: Constructor - Add inputs and the payment
	constructor := roles.NewConstructor(p)
	for _, utxo := range req.UnspentOutputs {
		if err := constructor.AddInput(utxo); err != nil {
			return nil, fmt.Errorf("failed to add input: %w", err)
		}
	}
	if err := constructor.AddPayment(req.RecipientAddress, req.Value); err != nil {
		return nil, fmt.Errorf("failed to add payment: %w", err)
	}
	p = constructor.Finish()

	// Change returns to the signing key's own address.
	changeAddress, err := address.FromPublicKey(req.ChainID, key.PublicKey().Bytes())
	if err != nil {
		return nil, err
	}
	changeHash, err := address.ToPublicKeyHash(changeAddress)
	if err != nil {
		return nil, err
	}

	// Step 3: IO Finalizer - Fee, change, lock structure
	ioFinalizer := roles.NewIoFinalizer(p, roles.FeeOptions{
		Fee:            req.Fee,
		Speed:          req.Speed,
		Dust:           req.MinimumDust,
		ChangeScript:   script.StandardScript(changeHash),
		SkipFundsCheck: req.SkipFundsCheck,
	})
	if err := ioFinalizer.Finalize(); err != nil {
		return nil, err
	}
	p = ioFinalizer.Finish()

	// Step 4: Signer - Sign every input
	signer := roles.NewSigner(p)
	if err := signer.SignAll(ctx, key); err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	p = signer.Finish()

	// Step 5: Spend Finalizer - Build scriptSigs
	spendFinalizer := roles.NewSpendFinalizer(p)
	if err := spendFinalizer.Finalize(); err != nil {
		return nil, fmt.Errorf("spend finalization failed: %w", err)
	}
	p = spendFinalizer.Finish()

	// Step 6: Transaction Extractor
	signed, err := roles.NewTxExtractor(p).Transaction()
	if err != nil {
		return nil, fmt.Errorf("transaction extraction failed: %w", err)
	}

	res := &SendResult{
		Transaction:   signed,
		Raw:           tx.Encode(signed),
		TxID:          signed.TxIDString(),
		Fee:           p.Fee,
		Change:        p.Change,
		ChangeAddress: changeAddress,
	}

	log.Wallet.Debug().
		Str("txid", res.TxID).
		Int("inputs", len(signed.Inputs)).
		Int("outputs", len(signed.Outputs)).
		Uint64("fee", res.Fee).
		Uint64("change", res.Change).
		Int("size", len(res.Raw)).
		Msg("transaction signed")

	return res, nil
}

// ============================================================================
// API Function 2: GetSighash
// ============================================================================

// GetSighash computes the SIGHASH_ALL signature hash of input inputIndex
// of a raw transaction, as if the input held prevScript, the locking script
// of the output it spends.
//
// This is the 32-byte value an external signer must sign.
func GetSighash(raw []byte, inputIndex int, prevScript []byte) ([32]byte, error) {
	t, err := tx.Parse(raw)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid transaction: %w", err)
	}

	return crypto.SignatureHashForScript(t, inputIndex, prevScript, crypto.SighashAll)
}

// ============================================================================
// API Function 3: DecodeTransaction
// ============================================================================

// DecodeTransaction parses a raw legacy transaction.
func DecodeTransaction(raw []byte) (*tx.Transaction, error) {
	return tx.Parse(raw)
}

// ============================================================================
// API Function 4: VerifyTransaction
// ============================================================================

// VerifyTransaction checks the signature of every input of a raw signed
// transaction. prevScripts[i] is the locking script spent by input i.
func VerifyTransaction(raw []byte, prevScripts [][]byte) error {
	t, err := tx.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	return roles.NewVerifier(t, prevScripts).Verify()
}

// ============================================================================
// API Function 5: DeriveAddress
// ============================================================================

// DeriveAddress returns the address of a raw private key on a chain.
func DeriveAddress(chainID byte, privateKey []byte) (string, error) {
	key, err := crypto.PrivateKeyFromBytes(privateKey)
	if err != nil {
		return "", err
	}
	return address.FromPublicKey(chainID, key.PublicKey().Bytes())
}

// ============================================================================
// API Function 6: ParsePaymentRequest
// ============================================================================

// ParsePaymentRequest parses a BIP 21 payment request URI.
func ParsePaymentRequest(uri string) (*bip21.PaymentRequest, error) {
	return bip21.Parse(uri)
}
