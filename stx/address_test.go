// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		addr    string
		version byte
		hash    string
	}{
		{"SP000000000000000000002Q6VF78", MainnetSingleSig, "0000000000000000000000000000000000000000"},
		{"ST000000000000000000002AMW42H", TestnetSingleSig, "0000000000000000000000000000000000000000"},
		{"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7", MainnetSingleSig, "a46ff88886c2ef9762d970b4d2c63678835bd39d"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			addr, err := ParseAddress(tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.version, addr.Version)
			assert.Equal(t, tt.hash, hex.EncodeToString(addr.Hash[:]))
			assert.Equal(t, tt.addr, addr.String())
		})
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"SP",
		"XP000000000000000000002Q6VF78",
		"SP000000000000000000002Q6VF79",
		"SP00000000000000000000!Q6VF78",
		"0x0000000000000000000000000000000000000000",
	} {
		_, err := ParseAddress(s)
		assert.ErrorIs(t, err, ErrInvalidAddress, s)
		assert.False(t, IsValidAddress(s))
	}
}

func TestAddressRoundTrip(t *testing.T) {
	for _, version := range []byte{MainnetSingleSig, MainnetMultiSig, TestnetSingleSig, TestnetMultiSig} {
		addr := AddressFromPublicKey(version, []byte{0x02, 0x03, 0x04})
		parsed, err := ParseAddress(addr.String())
		require.NoError(t, err)
		assert.Equal(t, addr, parsed)
	}
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("ST000000000000000000002AMW42H")
	data, err := json.Marshal(struct{ A Address }{addr})
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":"ST000000000000000000002AMW42H"}`, string(data))

	var out struct{ A Address }
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, addr, out.A)
}

func TestC32LeadingZeros(t *testing.T) {
	encoded := c32Encode([]byte{0x00, 0x00, 0x01})
	assert.Equal(t, "001", encoded)

	decoded, err := c32Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x01}, decoded)

	decoded, err = c32Decode("oOl")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x01}, decoded)
}

func TestParseContractID(t *testing.T) {
	id, err := ParseContractID("ST000000000000000000002AMW42H.pox-2")
	require.NoError(t, err)
	assert.Equal(t, Pox2ContractName, id.Name)
	assert.False(t, id.IsLegacy())
	assert.Equal(t, "ST000000000000000000002AMW42H.pox-2", id.String())

	legacy := MustParseContractID("SP000000000000000000002Q6VF78.pox")
	assert.True(t, legacy.IsLegacy())

	for _, s := range []string{
		"ST000000000000000000002AMW42H",
		"ST000000000000000000002AMW42H.pox.extra",
		"ST000000000000000000002AMW42H.bns",
		"not-an-address.pox",
		".pox",
	} {
		_, err := ParseContractID(s)
		assert.ErrorIs(t, err, ErrMalformedContractID, s)
	}
}

func TestNetworkByName(t *testing.T) {
	n, err := NetworkByName("mainnet", "")
	require.NoError(t, err)
	assert.True(t, n.Mainnet)
	assert.Equal(t, MainnetAPIURL, n.APIURL)

	n, err = NetworkByName("regtest", "http://127.0.0.1:20443/")
	require.NoError(t, err)
	assert.False(t, n.Mainnet)
	assert.Equal(t, "http://127.0.0.1:20443", n.APIURL)
	assert.Equal(t, TestnetSingleSig, n.SingleSigVersion)

	_, err = NetworkByName("moon", "")
	assert.Error(t, err)
}

func TestParsePrivateKey(t *testing.T) {
	const raw = "cb3df38053d132895220b9ce471f6b676db5b9bf0b4adefb55f2118ece2478df"

	key, err := ParsePrivateKey(raw + "01")
	require.NoError(t, err)
	assert.True(t, key.Compressed)
	assert.Len(t, key.PublicKey(), 33)

	key, err = ParsePrivateKey(raw)
	require.NoError(t, err)
	assert.False(t, key.Compressed)
	assert.Len(t, key.PublicKey(), 65)

	addr := key.Address(Testnet(""))
	assert.Equal(t, TestnetSingleSig, addr.Version)
	assert.Equal(t, Hash160(key.PublicKey()), addr.Hash)

	_, err = ParsePrivateKey(raw + "02")
	assert.Error(t, err)
	_, err = ParsePrivateKey("zz")
	assert.Error(t, err)
}
