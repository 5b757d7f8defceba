// Package bip21 implements the BIP 21 payment request URI format for the
// supported chains.
//
// URI Format:
//
//	<scheme>:<address>?amount=<amount>&label=<label>&message=<message>
//
// where scheme is "bitcoin", "dogecoin" or "litecoin" and amount is a
// decimal coin amount (not base units).
//
// Parameters prefixed with "req-" are required to be understood; a request
// carrying one this package does not know is rejected. Other unknown
// parameters are ignored.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0021.mediawiki
package bip21

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

var (
	ErrInvalidURI       = errors.New("invalid payment request URI")
	ErrRequiredParam    = errors.New("unsupported required parameter")
	ErrDuplicateParam   = errors.New("duplicate parameter")
	ErrMissingRecipient = errors.New("payment request has no address")
)

// PaymentRequest represents a parsed payment request.
type PaymentRequest struct {
	Scheme  string  // URI scheme, lower case (e.g., "dogecoin")
	Address string  // Recipient address
	Amount  *uint64 // Amount in base units (nil = user specifies)
	Label   string  // Optional label for the recipient
	Message string  // Optional message to display to the user
}

// Parse parses a payment request URI.
//
// Example:
//
//	req, err := bip21.Parse("dogecoin:DKwMZJ4jYfwAhJckKCMUFz2vrDqscXPMxB?amount=1.5&label=coffee")
func Parse(uri string) (*PaymentRequest, error) {
	scheme, rest, ok := strings.Cut(uri, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing scheme", ErrInvalidURI)
	}
	scheme = strings.ToLower(scheme)
	if _, err := address.ChainByURIScheme(scheme); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}

	addr, query, _ := strings.Cut(rest, "?")
	addr = strings.TrimPrefix(addr, "//")
	if addr == "" {
		return nil, ErrMissingRecipient
	}
	if _, _, err := address.Decode(addr); err != nil {
		return nil, err
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse query: %v", ErrInvalidURI, err)
	}

	req := &PaymentRequest{Scheme: scheme, Address: addr}
	for key, values := range params {
		if len(values) > 1 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParam, key)
		}
		value := values[0]

		switch strings.ToLower(key) {
		case "amount":
			amount, err := tx.ParseAmount(value)
			if err != nil {
				return nil, fmt.Errorf("%w: amount: %v", ErrInvalidURI, err)
			}
			req.Amount = &amount
		case "label":
			req.Label = value
		case "message":
			req.Message = value
		default:
			if strings.HasPrefix(strings.ToLower(key), "req-") {
				return nil, fmt.Errorf("%w: %q", ErrRequiredParam, key)
			}
		}
	}

	return req, nil
}

// ChainID returns the pubkey-hash identifier encoded in the address.
func (req *PaymentRequest) ChainID() (byte, error) {
	id, _, err := address.Decode(req.Address)
	return id, err
}

// Encode creates a URI from the request. This is the inverse of Parse().
func (req *PaymentRequest) Encode() string {
	uri := req.Scheme + ":" + req.Address

	params := url.Values{}
	if req.Amount != nil {
		params.Set("amount", tx.FormatAmount(*req.Amount))
	}
	if req.Label != "" {
		params.Set("label", req.Label)
	}
	if req.Message != "" {
		params.Set("message", req.Message)
	}

	if len(params) > 0 {
		// Literal '+' is already escaped as %2B, so any '+' left is a space.
		uri += "?" + strings.ReplaceAll(params.Encode(), "+", "%20")
	}
	return uri
}
