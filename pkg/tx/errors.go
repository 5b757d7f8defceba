package tx

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAmountOverflow    = errors.New("amount overflows uint64")
	ErrUnknownSpeed      = errors.New("unknown fee speed")
	ErrDuplicateInput    = errors.New("duplicate input")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNoInputs          = errors.New("transaction has no inputs")
	ErrNoOutputs         = errors.New("transaction has no outputs")
)

// ProposalError is returned when building the unsigned transaction fails.
//
// This can occur during Creator, Constructor, or IO Finalizer execution.
// Common causes: invalid recipient address, insufficient funds, overflow.
type ProposalError struct {
	Code    string // Error code (e.g., ErrCodeInvalidInput, ErrCodeInsufficientFunds)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *ProposalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("proposal error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("proposal error [%s]: %s", e.Code, e.Message)
}

func (e *ProposalError) Unwrap() error { return e.Cause }

// SighashError is returned when the signature hash for an input cannot be
// computed.
type SighashError struct {
	InputIndex int    // Index of the input that caused the error
	Message    string // Human-readable error message
	Cause      error  // Underlying error (if any)
}

func (e *SighashError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sighash error at input %d: %s: %v", e.InputIndex, e.Message, e.Cause)
	}
	return fmt.Sprintf("sighash error at input %d: %s", e.InputIndex, e.Message)
}

func (e *SighashError) Unwrap() error { return e.Cause }

// SignatureError is returned when signing or verifying an input fails.
type SignatureError struct {
	InputIndex int    // Index of the input that caused the error
	Message    string // Human-readable error message
	Cause      error  // Underlying error (if any)
}

func (e *SignatureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signature error at input %d: %s: %v", e.InputIndex, e.Message, e.Cause)
	}
	return fmt.Sprintf("signature error at input %d: %s", e.InputIndex, e.Message)
}

func (e *SignatureError) Unwrap() error { return e.Cause }

// FinalizationError is returned when scriptSigs cannot be assembled or the
// final transaction cannot be extracted.
type FinalizationError struct {
	Code    string // Error code (e.g., ErrCodeIncomplete)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *FinalizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("finalization error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("finalization error [%s]: %s", e.Code, e.Message)
}

func (e *FinalizationError) Unwrap() error { return e.Cause }

// ParseError is returned when raw transaction bytes cannot be decoded.
type ParseError struct {
	Message string // Field being read when decoding failed
	Cause   error  // Underlying decode error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Error codes carried by ProposalError and FinalizationError.
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"      // Input data is invalid or malformed
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS" // Not enough funds to cover value + fee
	ErrCodeInvalidAddress    = "INVALID_ADDRESS"    // Recipient address cannot be decoded
	ErrCodeInvalidKey        = "INVALID_KEY"        // Private key is malformed
	ErrCodeOverflow          = "AMOUNT_OVERFLOW"    // Amount arithmetic overflowed
	ErrCodeIncomplete        = "INCOMPLETE"         // Inputs missing signatures or scriptSigs
	ErrCodeInvalidState      = "INVALID_STATE"      // Role invoked out of order
)
