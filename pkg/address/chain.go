package address

import (
	"fmt"
	"strings"
)

// Chain describes the network parameters needed to encode addresses and
// keys for one Bitcoin-derived ledger.
type Chain struct {
	Name         string // Short name used by the CLI and config (e.g., "btc")
	DisplayName  string
	PubKeyHashID byte   // Address version byte
	WIFPrefix    byte   // Private key (WIF) version byte
	URIScheme    string // Payment request scheme, empty for test networks
}

// Pubkey-hash identifiers of the supported chains.
const (
	ChainBTC         byte = 0
	ChainDOGE        byte = 30
	ChainLTC         byte = 48
	ChainBTCTestnet  byte = 111
	ChainDOGETestnet byte = 113
)

var chains = []Chain{
	{Name: "btc", DisplayName: "Bitcoin", PubKeyHashID: ChainBTC, WIFPrefix: 0x80, URIScheme: "bitcoin"},
	{Name: "doge", DisplayName: "Dogecoin", PubKeyHashID: ChainDOGE, WIFPrefix: 0x9e, URIScheme: "dogecoin"},
	{Name: "ltc", DisplayName: "Litecoin", PubKeyHashID: ChainLTC, WIFPrefix: 0xb0, URIScheme: "litecoin"},
	{Name: "btc-testnet", DisplayName: "Bitcoin testnet", PubKeyHashID: ChainBTCTestnet, WIFPrefix: 0xef},
	{Name: "doge-testnet", DisplayName: "Dogecoin testnet", PubKeyHashID: ChainDOGETestnet, WIFPrefix: 0xf1},
}

// Chains returns a copy of the supported chain table.
func Chains() []Chain {
	return append([]Chain(nil), chains...)
}

// ChainByID looks up a chain by its pubkey-hash identifier.
func ChainByID(id byte) (Chain, error) {
	for _, c := range chains {
		if c.PubKeyHashID == id {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("%w: id %d", ErrUnknownChain, id)
}

// ChainByName looks up a chain by its short name (case insensitive).
func ChainByName(name string) (Chain, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range chains {
		if c.Name == n {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
}

// ChainByURIScheme looks up a chain by its payment request scheme.
func ChainByURIScheme(scheme string) (Chain, error) {
	s := strings.ToLower(scheme)
	for _, c := range chains {
		if c.URIScheme != "" && c.URIScheme == s {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("%w: scheme %q", ErrUnknownChain, scheme)
}

// ChainByWIFPrefix looks up a chain by its private key version byte.
func ChainByWIFPrefix(prefix byte) (Chain, error) {
	for _, c := range chains {
		if c.WIFPrefix == prefix {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("%w: WIF prefix 0x%02x", ErrUnknownChain, prefix)
}
