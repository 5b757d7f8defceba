package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suffix-labs/p2pkh-wallet/internal/log"
	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/crypto"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

var (
	errMissingKey  = errors.New("private key is required")
	errInvalidUTXO = errors.New("utxo must be HASH:INDEX:VALUE:SCRIPT")
)

// checkKey returns the raw private key given as 64 hex digits or as WIF.
func checkKey(s string, chain address.Chain) ([]byte, error) {
	s = strings.TrimSpace(s)
	if "" == s {
		return nil, errMissingKey
	}

	if len(s) == 2*crypto.PrivateKeySize {
		if raw, err := hex.DecodeString(s); nil == err {
			if _, err := crypto.PrivateKeyFromBytes(raw); nil != err {
				return nil, err
			}
			return raw, nil
		}
	}

	key, prefix, _, err := crypto.ParsePrivateKeyWIF(s)
	if nil != err {
		return nil, err
	}
	if prefix != chain.WIFPrefix {
		event := log.CLI.Warn().
			Str("chain", chain.Name).
			Uint8("wif_prefix", prefix)
		if keyChain, err := address.ChainByWIFPrefix(prefix); nil == err {
			event = event.Str("key_chain", keyChain.Name)
		}
		event.Msg("WIF prefix does not match the selected chain")
	}
	return key.Bytes(), nil
}

// checkUTXO parses HASH:INDEX:VALUE:SCRIPT. HASH is in wire order, VALUE in
// base units and SCRIPT is the hex locking script.
func checkUTXO(s string) (tx.UnspentOutput, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return tx.UnspentOutput{}, fmt.Errorf("%w: %q", errInvalidUTXO, s)
	}

	hash, err := tx.DecodeHash(parts[0])
	if nil != err {
		return tx.UnspentOutput{}, fmt.Errorf("%w: hash: %v", errInvalidUTXO, err)
	}
	index, err := strconv.ParseUint(parts[1], 10, 32)
	if nil != err {
		return tx.UnspentOutput{}, fmt.Errorf("%w: index: %v", errInvalidUTXO, err)
	}
	value, err := strconv.ParseUint(parts[2], 10, 64)
	if nil != err {
		return tx.UnspentOutput{}, fmt.Errorf("%w: value: %v", errInvalidUTXO, err)
	}
	script, err := hex.DecodeString(parts[3])
	if nil != err {
		return tx.UnspentOutput{}, fmt.Errorf("%w: script: %v", errInvalidUTXO, err)
	}

	return tx.UnspentOutput{
		PreviousHash: hash,
		Index:        uint32(index),
		Value:        value,
		Script:       script,
	}, nil
}

// checkOptionalUint parses a base-unit amount; empty means unset.
func checkOptionalUint(name string, s string) (*uint64, error) {
	if "" == s {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &v, nil
}

func checkHex(name string, s string) ([]byte, error) {
	if "" == s {
		return nil, fmt.Errorf("%s is required", name)
	}
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if nil != err {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}
