package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/suffix-labs/p2pkh-wallet/internal/log"
	"github.com/suffix-labs/p2pkh-wallet/pkg/api"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

var (
	errNoUTXO       = errors.New("at least one --utxo is required")
	errNoRecipient  = errors.New("recipient required: --to and --amount, or --uri")
	errURIAmbiguous = errors.New("--uri cannot be combined with --to or --amount")
	errNoAmount     = errors.New("payment request has no amount, add --amount")
)

type sendResult struct {
	TxID          string `json:"txid"`
	Fee           uint64 `json:"fee"`
	Change        uint64 `json:"change"`
	ChangeAddress string `json:"change_address"`
	Hex           string `json:"hex"`
}

func runSend(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	key, err := checkKey(c.String("key"), m.chain)
	if nil != err {
		return err
	}

	utxoArgs := c.StringSlice("utxo")
	if 0 == len(utxoArgs) {
		return errNoUTXO
	}
	utxos := make([]tx.UnspentOutput, 0, len(utxoArgs))
	for _, arg := range utxoArgs {
		utxo, err := checkUTXO(arg)
		if nil != err {
			return err
		}
		utxos = append(utxos, utxo)
	}

	to, value, err := checkPayment(c)
	if nil != err {
		return err
	}

	fee, err := checkOptionalUint("fee", c.String("fee"))
	if nil != err {
		return err
	}
	dust, err := checkOptionalUint("dust", c.String("dust"))
	if nil != err {
		return err
	}

	req := &api.SendRequest{
		ChainID:          m.chain.PubKeyHashID,
		UnspentOutputs:   utxos,
		RecipientAddress: to,
		PrivateKey:       key,
		Value:            value,
		Fee:              fee,
		Speed:            m.speed,
		MinimumDust:      dust,
		SkipFundsCheck:   c.Bool("skip-funds-check"),
	}

	res, err := api.Send(context.Background(), req)
	if nil != err {
		return err
	}

	log.CLI.Info().
		Str("txid", res.TxID).
		Str("fee", tx.FormatAmount(res.Fee)).
		Str("change", tx.FormatAmount(res.Change)).
		Msg("transaction created")

	if c.Bool("json") {
		return printJson(m.w, sendResult{
			TxID:          res.TxID,
			Fee:           res.Fee,
			Change:        res.Change,
			ChangeAddress: res.ChangeAddress,
			Hex:           hex.EncodeToString(res.Raw),
		})
	}
	fmt.Fprintf(m.w, "%x\n", res.Raw)
	return nil
}

// checkPayment returns the recipient and value from --to/--amount or from
// --uri, where --amount may fill in a request without one.
func checkPayment(c *cli.Context) (string, uint64, error) {
	to := c.String("to")
	amount := c.String("amount")
	uri := c.String("uri")

	if "" == uri {
		if "" == to || "" == amount {
			return "", 0, errNoRecipient
		}
		value, err := tx.ParseAmount(amount)
		if nil != err {
			return "", 0, fmt.Errorf("amount: %w", err)
		}
		return to, value, nil
	}

	if "" != to {
		return "", 0, errURIAmbiguous
	}
	pr, err := api.ParsePaymentRequest(uri)
	if nil != err {
		return "", 0, err
	}

	switch {
	case nil != pr.Amount && "" != amount:
		return "", 0, errURIAmbiguous
	case nil != pr.Amount:
		return pr.Address, *pr.Amount, nil
	case "" == amount:
		return "", 0, errNoAmount
	}
	value, err := tx.ParseAmount(amount)
	if nil != err {
		return "", 0, fmt.Errorf("amount: %w", err)
	}
	return pr.Address, value, nil
}
