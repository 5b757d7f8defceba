package address

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPubKey = "02a5613bd857b7048924264d1e70e08fb2a7e6527d32b7ab1bb993ac59964ff397"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestFromPublicKeyChainDifferentiation(t *testing.T) {
	pub := mustHex(t, testPubKey)

	btc, err := FromPublicKey(ChainBTC, pub)
	require.NoError(t, err)
	assert.Equal(t, "1FoG2386FG2tAJS9acMuiDsKy67aGg9MKz", btc)

	doge, err := FromPublicKey(ChainDOGE, pub)
	require.NoError(t, err)
	assert.Equal(t, "DKwMZJ4jYfwAhJckKCMUFz2vrDqscXPMxB", doge)
}

func TestSignerAddresses(t *testing.T) {
	pub := mustHex(t, "032daa93315eebbe2cb9b5c3505df4c6fb6caca8b756786098567550d4820c09db")

	tests := map[byte]string{
		ChainBTC:         "1NEzph1L68eGBue3sNcGtUJnmqY4dBo3e4",
		ChainDOGE:        "DSP6MwwyPYYYiupebxbqSEUPeyGN3awfFf",
		ChainLTC:         "LgTx5uKAAntKSiLD3WbaAVNYz3uLpsVme1",
		ChainBTCTestnet:  "n2kx7k6JuA5Wy27fawaeiPX7dq8mbRDPAv",
		ChainDOGETestnet: "nqSA5xgtKX1GbtPqdnFHge4gtqeexvpDRW",
	}
	for id, want := range tests {
		got, err := FromPublicKey(id, pub)
		require.NoError(t, err)
		assert.Equal(t, want, got, "chain %d", id)
	}
}

func TestRoundTripAllChains(t *testing.T) {
	pub := mustHex(t, testPubKey)
	hash, err := PublicKeyHash(pub)
	require.NoError(t, err)
	assert.Equal(t, "a2516e770582864a6a56ed21a102044e388c62e3", hex.EncodeToString(hash[:]))

	for _, chain := range Chains() {
		t.Run(chain.Name, func(t *testing.T) {
			addr := FromPublicKeyHash(chain.PubKeyHashID, hash)

			back, err := ToPublicKeyHash(addr)
			require.NoError(t, err)
			assert.Equal(t, hash, back)

			id, decoded, err := Decode(addr)
			require.NoError(t, err)
			assert.Equal(t, chain.PubKeyHashID, id)
			assert.Equal(t, hash, decoded)
		})
	}
}

func TestToPublicKeyHashRecipient(t *testing.T) {
	hash, err := ToPublicKeyHash("14zWNsgUMmHhYx4suzc2tZD6HieGbkQi5s")
	require.NoError(t, err)
	assert.Equal(t, "2bc89c2702e0e618db7d59eb5ce2f0f147b40754", hex.EncodeToString(hash[:]))
}

func TestToPublicKeyHashRejects(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"bad checksum": "14zWNsgUMmHhYx4suzc2tZD6HieGbkQi5t",
		"bad alphabet": "14zWNsgUMmHhYx4suzc2tZD6HieGbkQi50",
		"short":        "1111",
		// base58check of a 32-byte payload (a WIF key without compression flag)
		"wrong length": "5HvofFG7K1e2aeWESm5pbCzRHtCSiZNbfLYXBvxyA57DhKHV4U3",
	}

	for name, addr := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ToPublicKeyHash(addr)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestPublicKeyHashRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 32, 65} {
		_, err := PublicKeyHash(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, "length %d", n)

		_, err = FromPublicKey(ChainBTC, make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, "length %d", n)
	}
}

func TestChainLookup(t *testing.T) {
	doge, err := ChainByName("DOGE")
	require.NoError(t, err)
	assert.Equal(t, ChainDOGE, doge.PubKeyHashID)
	assert.Equal(t, byte(0x9e), doge.WIFPrefix)

	btc, err := ChainByID(ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", btc.URIScheme)

	ltc, err := ChainByURIScheme("litecoin")
	require.NoError(t, err)
	assert.Equal(t, ChainLTC, ltc.PubKeyHashID)

	testnet, err := ChainByWIFPrefix(0xef)
	require.NoError(t, err)
	assert.Equal(t, ChainBTCTestnet, testnet.PubKeyHashID)

	_, err = ChainByID(5)
	assert.ErrorIs(t, err, ErrUnknownChain)
	_, err = ChainByName("eth")
	assert.ErrorIs(t, err, ErrUnknownChain)
	_, err = ChainByURIScheme("")
	assert.ErrorIs(t, err, ErrUnknownChain)

	table := Chains()
	table[0].Name = "mutated"
	again, _ := ChainByID(ChainBTC)
	assert.Equal(t, "btc", again.Name)
}
