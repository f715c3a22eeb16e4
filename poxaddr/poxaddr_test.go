// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poxaddr

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/stx"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		addr    string
		params  Params
		version Version
		hash    string
	}{
		{"1Xik14zRm29UsyS6DjhYg4iZeZqsDa8D3", MainNet, P2PKH, "05cf52a44bf3e6829b4f8c221cc675355bf83b7d"},
		{"1797Pp1o8A7a8X8Qs7ejXtYyw8gbecFK2b", MainNet, P2PKH, "43596b5386f466863e25658ddf94bd0fadab0048"},
		{"mnTdnFyjxRomWaSLp4fNGSa9Gyg9XJo4j4", TestNet, P2PKH, "4c282d9a6a5d95bc09eb05a30eace9bf3c905fb7"},
		{"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", MainNet, P2WPKH, "751e76e8199196d454941c45d1b3a323f1433bd6"},
		{"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", TestNet, P2WPKH, "751e76e8199196d454941c45d1b3a323f1433bd6"},
		{"bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3qccfmv3", MainNet, P2WSH, "1863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262"},
		{"bc1p5d7rjq7g6rdk2yhzks9smlaqtedr4dekq08ge8ztwac72sfr9rusxg3297", MainNet, P2TR, "a37c3903c8d0db6512e2b40b0dffa05e5a3ab73603ce8c9c4b7771e5412328f9"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			addr, err := Decode(tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.version, addr.Version)
			assert.Equal(t, tt.hash, hex.EncodeToString(addr.HashBytes))

			encoded, err := Encode(addr, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, encoded)
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	for _, s := range []string{
		"",
		"not-an-address",
		"1Xik14zRm29UsyS6DjhYg4iZeZqsDa8D4",
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5",
	} {
		_, err := Decode(s)
		assert.ErrorIs(t, err, stx.ErrUnsupportedAddressFormat, s)
	}
}

func TestRoundTrip(t *testing.T) {
	hash20 := make([]byte, 20)
	hash32 := make([]byte, 32)
	for i := range hash32 {
		hash32[i] = byte(i * 7)
	}
	copy(hash20, hash32)

	for _, params := range []Params{MainNet, TestNet, Regtest} {
		for _, a := range []Address{
			{P2PKH, hash20},
			{P2SH, hash20},
			{P2WPKH, hash20},
			{P2WSH, hash32},
			{P2TR, hash32},
		} {
			s, err := Encode(a, params)
			require.NoError(t, err)
			back, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, a, back, "%s on %s", a.Version, params.Name)
		}

		// wrapped segwit shares the p2sh encoding and comes back as p2sh
		for _, version := range []Version{P2SHP2WPKH, P2SHP2WSH} {
			s, err := Encode(Address{version, hash20}, params)
			require.NoError(t, err)
			p2sh, err := Encode(Address{P2SH, hash20}, params)
			require.NoError(t, err)
			assert.Equal(t, p2sh, s)

			back, err := Decode(s)
			require.NoError(t, err)
			assert.Equal(t, Address{P2SH, hash20}, back, "%s on %s", version, params.Name)
		}
	}

	_, err := Encode(Address{P2TR, hash20}, MainNet)
	assert.ErrorIs(t, err, stx.ErrUnsupportedAddressFormat)
}

func TestSupportedBy(t *testing.T) {
	legacy := Address{Version: P2SHP2WSH}
	segwit := Address{Version: P2WPKH}
	assert.True(t, legacy.SupportedBy(stx.PoxContractName))
	assert.True(t, legacy.SupportedBy(stx.Pox2ContractName))
	assert.False(t, segwit.SupportedBy(stx.PoxContractName))
	assert.True(t, segwit.SupportedBy(stx.Pox2ContractName))
	assert.False(t, Address{Version: 0x07}.SupportedBy(stx.Pox2ContractName))
}

func TestTuple(t *testing.T) {
	addr, err := Decode("1Xik14zRm29UsyS6DjhYg4iZeZqsDa8D3")
	require.NoError(t, err)

	enc, err := clarity.EncodeHex(addr.Tuple())
	require.NoError(t, err)
	assert.Equal(t, "0x0c0000000209686173686279746573020000001405cf52a44bf3e6829b4f8c221cc675355bf83b7d0776657273696f6e020000000100", enc)

	decoded, err := clarity.DecodeHex(enc)
	require.NoError(t, err)
	back, err := FromTuple("pox-addr", decoded)
	require.NoError(t, err)
	assert.Equal(t, addr, back)

	_, err = FromTuple("pox-addr", clarity.Tuple{"version": clarity.Buffer{0, 1}, "hashbytes": clarity.Buffer{}})
	assert.ErrorIs(t, err, stx.ErrDecode)
}

func TestParamsForNetwork(t *testing.T) {
	assert.Equal(t, MainNet, ParamsForNetwork(stx.Mainnet("")))
	assert.Equal(t, TestNet, ParamsForNetwork(stx.Testnet("")))
	assert.Equal(t, Regtest, ParamsForNetwork(stx.Mocknet("")))
}
