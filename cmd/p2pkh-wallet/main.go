// p2pkh-wallet CLI - P2PKH transaction builder for BTC, DOGE and LTC
//
// Example usage:
//
//	# Address of a key on Dogecoin
//	p2pkh-wallet --chain doge address --key <hex|WIF>
//
//	# Build and sign a payment, printing the raw transaction hex
//	p2pkh-wallet --chain doge send --key <hex|WIF> \
//	    --utxo <hash>:<index>:<value>:<script> --to <address> --amount 1.5
//
//	# Inspect a raw transaction
//	p2pkh-wallet decode <hex>
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/suffix-labs/p2pkh-wallet/internal/log"
	"github.com/suffix-labs/p2pkh-wallet/pkg/address"
	"github.com/suffix-labs/p2pkh-wallet/pkg/tx"
)

type metadata struct {
	chain address.Chain
	speed tx.Speed
	e     io.Writer
	w     io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if nil != err {
		log.CLI.Error().Err(err).Msg("command failed")
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "p2pkh-wallet"
	app.Usage = "build and sign P2PKH transactions"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "chain, c",
			Value:  "btc",
			Usage:  " `CHAIN` [btc|doge|ltc|btc-testnet|doge-testnet]",
			EnvVar: "P2PKH_CHAIN",
		},
		cli.StringFlag{
			Name:   "speed, s",
			Value:  tx.DefaultSpeed.String(),
			Usage:  " fee `SPEED` [fast|medium|slow]",
			EnvVar: "P2PKH_SPEED",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  " `LEVEL` [trace|debug|info|warn|error|off]",
			EnvVar: "P2PKH_LOG_LEVEL",
		},
		cli.BoolFlag{
			Name:   "log-json",
			Usage:  " write logs as JSON",
			EnvVar: "P2PKH_LOG_JSON",
		},
		cli.StringFlag{
			Name:  "log-file",
			Value: "",
			Usage: " also append JSON logs to `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "address",
			Usage:     "display the address of a private key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*private key `KEY` as hex or WIF",
				},
				cli.BoolFlag{
					Name:  "all, a",
					Usage: " show the address on every chain",
				},
			},
			Action: runAddress,
		},
		{
			Name:      "send",
			Usage:     "build and sign a payment, print the raw transaction",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*private key `KEY` as hex or WIF",
				},
				cli.StringSliceFlag{
					Name:  "utxo, u",
					Usage: "*output to spend `HASH:INDEX:VALUE:SCRIPT`, repeatable",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "+recipient `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "amount, a",
					Value: "",
					Usage: "+amount in coins `DECIMAL`",
				},
				cli.StringFlag{
					Name:  "uri",
					Value: "",
					Usage: "+payment request `URI` giving recipient and amount",
				},
				cli.StringFlag{
					Name:  "fee, f",
					Value: "",
					Usage: " explicit fee in base units `N` (default: estimated from speed)",
				},
				cli.StringFlag{
					Name:  "dust, d",
					Value: "",
					Usage: " change threshold in base units `N`",
				},
				cli.BoolFlag{
					Name:  "skip-funds-check",
					Usage: " sign even if the outputs do not cover value and fee",
				},
				cli.BoolFlag{
					Name:  "json, j",
					Usage: " print txid, fee and change along with the hex",
				},
			},
			Action: runSend,
		},
		{
			Name:      "decode",
			Usage:     "decode a raw transaction as JSON",
			ArgsUsage: "HEX",
			Action:    runDecode,
		},
		{
			Name:      "sighash",
			Usage:     "compute the signature hash of an input",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "tx",
					Value: "",
					Usage: "*raw transaction `HEX`",
				},
				cli.IntFlag{
					Name:  "input, i",
					Value: 0,
					Usage: " input `INDEX`",
				},
				cli.StringFlag{
					Name:  "script",
					Value: "",
					Usage: "*locking script of the spent output `HEX`",
				},
			},
			Action: runSighash,
		},
		{
			Name:      "verify",
			Usage:     "verify every input signature of a raw transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "tx",
					Value: "",
					Usage: "*raw transaction `HEX`",
				},
				cli.StringSliceFlag{
					Name:  "script",
					Usage: "*locking script spent by each input, in order `HEX`",
				},
			},
			Action: runVerify,
		},
		{
			Name:      "parse-uri",
			Usage:     "parse a BIP 21 payment request",
			ArgsUsage: "URI",
			Action:    runParseURI,
		},
		{
			Name:  "version",
			Usage: "display p2pkh-wallet version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		err := log.Init(c.GlobalString("log-level"), c.GlobalBool("log-json"), c.GlobalString("log-file"))
		if nil != err {
			return err
		}

		chain, err := address.ChainByName(c.GlobalString("chain"))
		if nil != err {
			return err
		}
		speed, err := tx.ParseSpeed(c.GlobalString("speed"))
		if nil != err {
			return err
		}

		c.App.Metadata = map[string]interface{}{
			"config": &metadata{
				chain: chain,
				speed: speed,
				e:     c.App.ErrWriter,
				w:     c.App.Writer,
			},
		}

		log.CLI.Debug().
			Str("chain", chain.Name).
			Str("speed", speed.String()).
			Msg("configured")
		return nil
	}

	return app
}
