package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/api"
	"github.com/suffix-labs/p2pkh-wallet/pkg/script"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

var errNoScripts = errors.New("one --script per input is required")

type decodedOutput struct {
	Value   uint64 `json:"value"`
	Script  string `json:"script"`
	Address string `json:"address,omitempty"`
}

type decodedTransaction struct {
	TxID     string          `json:"txid"`
	Size     int             `json:"size"`
	Version  uint32          `json:"version"`
	Inputs   []tx.Input      `json:"inputs"`
	Outputs  []decodedOutput `json:"outputs"`
	LockTime uint32          `json:"lock_time"`
}

func runDecode(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	raw, err := checkHex("transaction", c.Args().First())
	if nil != err {
		return err
	}
	t, err := api.DecodeTransaction(raw)
	if nil != err {
		return err
	}

	result := decodedTransaction{
		TxID:     t.TxIDString(),
		Size:     len(raw),
		Version:  t.Version,
		Inputs:   t.Inputs,
		LockTime: t.LockTime,
	}
	for _, out := range t.Outputs {
		d := decodedOutput{Value: out.Value, Script: hex.EncodeToString(out.Script)}
		if hash, err := script.ExtractPubKeyHash(out.Script); nil == err {
			d.Address = address.FromPublicKeyHash(m.chain.PubKeyHashID, hash)
		}
		result.Outputs = append(result.Outputs, d)
	}
	return printJson(m.w, result)
}

func runSighash(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	raw, err := checkHex("tx", c.String("tx"))
	if nil != err {
		return err
	}
	prevScript, err := checkHex("script", c.String("script"))
	if nil != err {
		return err
	}

	hash, err := api.GetSighash(raw, c.Int("input"), prevScript)
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%x\n", hash)
	return nil
}

func runVerify(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	raw, err := checkHex("tx", c.String("tx"))
	if nil != err {
		return err
	}

	scriptArgs := c.StringSlice("script")
	if 0 == len(scriptArgs) {
		return errNoScripts
	}
	prevScripts := make([][]byte, 0, len(scriptArgs))
	for _, arg := range scriptArgs {
		s, err := checkHex("script", arg)
		if nil != err {
			return err
		}
		prevScripts = append(prevScripts, s)
	}

	if err := api.VerifyTransaction(raw, prevScripts); nil != err {
		return err
	}
	fmt.Fprintf(m.w, "ok\n")
	return nil
}

type paymentRequestInfo struct {
	Scheme  string `json:"scheme"`
	Address string `json:"address"`
	Chain   string `json:"chain,omitempty"`
	Amount  string `json:"amount,omitempty"`
	Value   uint64 `json:"value,omitempty"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message,omitempty"`
}

func runParseURI(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	uri := c.Args().First()
	if "" == uri {
		return fmt.Errorf("URI is required")
	}
	req, err := api.ParsePaymentRequest(uri)
	if nil != err {
		return err
	}

	info := paymentRequestInfo{
		Scheme:  req.Scheme,
		Address: req.Address,
		Label:   req.Label,
		Message: req.Message,
	}
	if id, err := req.ChainID(); nil == err {
		if chain, err := address.ChainByID(id); nil == err {
			info.Chain = chain.Name
		}
	}
	if nil != req.Amount {
		info.Amount = tx.FormatAmount(*req.Amount)
		info.Value = *req.Amount
	}
	return printJson(m.w, info)
}
