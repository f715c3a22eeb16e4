// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clarity

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxkit/stacker/stx"
)

const zeroHash = "0000000000000000000000000000000000000000"

func TestEncodeHex(t *testing.T) {
	addr := stx.MustParseAddress("ST000000000000000000002AMW42H")
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"uint", NewUInt(1000), "0x01000000000000000000000000000003e8"},
		{"int negative", NewInt(-1), "0x00ffffffffffffffffffffffffffffffff"},
		{"true", Bool(true), "0x03"},
		{"false", Bool(false), "0x04"},
		{"none", None{}, "0x09"},
		{"some uint", Some{NewUInt(0)}, "0x0a0100000000000000000000000000000000"},
		{"buffer", Buffer{0xde, 0xad}, "0x0200000002dead"},
		{"ok true", ResponseOk{Bool(true)}, "0x0703"},
		{"err uint", ResponseErr{NewUInt(3)}, "0x080100000000000000000000000000000003"},
		{"standard principal", StandardPrincipal{addr}, "0x051a" + zeroHash},
		{"contract principal", ContractPrincipal{addr, "pox"}, "0x061a" + zeroHash + "03706f78"},
		{"ascii", StringASCII("hi"), "0x0d000000026869"},
		{"list", List{Bool(true), Bool(false)}, "0x0b000000020304"},
		{"tuple sorted", Tuple{"b": Bool(true), "a": Bool(false)}, "0x0c00000002016104016203"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeHex(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := DecodeHex(got)
			require.NoError(t, err)
			assert.Equal(t, tt.value.String(), back.String())
		})
	}
}

func TestUIntRange(t *testing.T) {
	_, err := UIntFromBig(big.NewInt(-1))
	assert.ErrorIs(t, err, stx.ErrInvalidAmount)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err = UIntFromBig(tooBig)
	assert.ErrorIs(t, err, stx.ErrInvalidAmount)

	v, err := UIntFromBig(new(big.Int).Sub(tooBig, big.NewInt(1)))
	require.NoError(t, err)
	enc, err := EncodeHex(v)
	require.NoError(t, err)
	assert.Equal(t, "0x01ffffffffffffffffffffffffffffffff", enc)
}

func TestIntRoundTrip(t *testing.T) {
	minInt := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	v, err := IntFromBig(minInt)
	require.NoError(t, err)

	b, err := Serialize(v)
	require.NoError(t, err)
	back, err := Deserialize(b)
	require.NoError(t, err)
	assert.Equal(t, 0, minInt.Cmp(back.(Int).V))

	_, err = IntFromBig(new(big.Int).Lsh(big.NewInt(1), 127))
	assert.ErrorIs(t, err, stx.ErrInvalidAmount)
}

func TestDeserializeErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":           "0x",
		"unknown prefix":  "0x42",
		"trailing":        "0x0303",
		"short uint":      "0x0100",
		"buffer overrun":  "0x02000000ff00",
		"bad ascii":       "0x0d00000001ff",
		"duplicate key":   "0x0c00000002016103016103",
		"truncated tuple": "0x0c000000020161",
		"not hex":         "zz",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeHex(input)
			assert.ErrorIs(t, err, stx.ErrDecode)
		})
	}
}

func TestDeserializeDepthLimit(t *testing.T) {
	b := make([]byte, 0, maxDepth+3)
	for i := 0; i < maxDepth+2; i++ {
		b = append(b, byte(TypeOptionalSome))
	}
	b = append(b, byte(TypeBoolTrue))
	_, err := Deserialize(b)
	assert.ErrorIs(t, err, stx.ErrDecode)
}

func TestDeserializeNeverPanics(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 64)
	for i := 0; i < 2000; i++ {
		var data []byte
		f.Fuzz(&data)
		assert.NotPanics(t, func() {
			_, _ = Deserialize(data)
		})
	}
}

func TestStringWithMissingInnerValue(t *testing.T) {
	for _, tt := range []struct {
		value Value
		want  string
	}{
		{ResponseOk{}, "(ok <nil>)"},
		{ResponseErr{}, "(err <nil>)"},
		{Some{}, "(some <nil>)"},
		{List{NewUInt(1), nil}, "(list u1 <nil>)"},
		{Tuple{"a": nil}, "(tuple (a <nil>))"},
	} {
		assert.NotPanics(t, func() {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}

	_, err := Serialize(Some{})
	assert.Error(t, err)
}

func TestFieldAccess(t *testing.T) {
	addr := stx.MustParseAddress("SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7")
	tuple := Tuple{
		"amount":    NewUInt(42),
		"delegated": StandardPrincipal{addr},
		"until":     None{},
		"pox-addr":  Some{Tuple{"version": Buffer{0x01}}},
	}

	amount, err := Uint64Field(tuple, "amount")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), amount)

	p, err := Field[StandardPrincipal](tuple, "delegated")
	require.NoError(t, err)
	assert.Equal(t, addr, p.Address)

	until, err := OptionalField(tuple, "until")
	require.NoError(t, err)
	assert.Nil(t, until)

	poxAddr, err := OptionalField(tuple, "pox-addr")
	require.NoError(t, err)
	assert.IsType(t, Tuple{}, poxAddr)

	_, err = Field[UInt](tuple, "missing")
	var decodeErr *stx.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "missing", decodeErr.Field)

	_, err = Field[Buffer](tuple, "amount")
	assert.ErrorIs(t, err, stx.ErrDecode)
}
