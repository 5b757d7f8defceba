package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/api"
)

type addressInfo struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

func runAddress(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	key, err := checkKey(c.String("key"), m.chain)
	if nil != err {
		return err
	}

	if !c.Bool("all") {
		addr, err := api.DeriveAddress(m.chain.PubKeyHashID, key)
		if nil != err {
			return err
		}
		fmt.Fprintf(m.w, "%s\n", addr)
		return nil
	}

	var result []addressInfo
	for _, chain := range address.Chains() {
		addr, err := api.DeriveAddress(chain.PubKeyHashID, key)
		if nil != err {
			return err
		}
		result = append(result, addressInfo{Chain: chain.Name, Address: addr})
	}
	return printJson(m.w, result)
}
