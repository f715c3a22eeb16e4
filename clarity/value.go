// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clarity implements the typed values exchanged with contracts: their
// binary wire format, hex transport encoding and accessors used by decoders.
package clarity

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/stxkit/stacker/stx"
)

// Type is the wire prefix of a value.
type Type byte

const (
	TypeInt               Type = 0x00
	TypeUInt              Type = 0x01
	TypeBuffer            Type = 0x02
	TypeBoolTrue          Type = 0x03
	TypeBoolFalse         Type = 0x04
	TypePrincipalStandard Type = 0x05
	TypePrincipalContract Type = 0x06
	TypeResponseOk        Type = 0x07
	TypeResponseErr       Type = 0x08
	TypeOptionalNone      Type = 0x09
	TypeOptionalSome      Type = 0x0a
	TypeList              Type = 0x0b
	TypeTuple             Type = 0x0c
	TypeStringASCII       Type = 0x0d
	TypeStringUTF8        Type = 0x0e
)

var typeNames = map[Type]string{
	TypeInt:               "int",
	TypeUInt:              "uint",
	TypeBuffer:            "buffer",
	TypeBoolTrue:          "true",
	TypeBoolFalse:         "false",
	TypePrincipalStandard: "standard-principal",
	TypePrincipalContract: "contract-principal",
	TypeResponseOk:        "ok",
	TypeResponseErr:       "err",
	TypeOptionalNone:      "none",
	TypeOptionalSome:      "some",
	TypeList:              "list",
	TypeTuple:             "tuple",
	TypeStringASCII:       "string-ascii",
	TypeStringUTF8:        "string-utf8",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(0x%02x)", byte(t))
}

// Value is any typed contract value.
type Value interface {
	Type() Type
	String() string
}

var (
	maxUInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Int is a signed 128-bit integer.
type Int struct{ V *big.Int }

func NewInt(v int64) Int { return Int{V: big.NewInt(v)} }

// IntFromBig checks v fits 128 signed bits.
func IntFromBig(v *big.Int) (Int, error) {
	if v == nil || v.Cmp(minInt128) < 0 || v.Cmp(maxInt128) > 0 {
		return Int{}, fmt.Errorf("%w: %v does not fit int128", stx.ErrInvalidAmount, v)
	}
	return Int{V: new(big.Int).Set(v)}, nil
}

func (Int) Type() Type       { return TypeInt }
func (v Int) String() string { return v.V.String() }

// UInt is an unsigned 128-bit integer.
type UInt struct{ V *uint256.Int }

func NewUInt(v uint64) UInt { return UInt{V: uint256.NewInt(v)} }

// UIntFromBig checks v is non-negative and fits 128 bits.
func UIntFromBig(v *big.Int) (UInt, error) {
	if v == nil || v.Sign() < 0 || v.Cmp(maxUInt128) > 0 {
		return UInt{}, fmt.Errorf("%w: %v does not fit uint128", stx.ErrInvalidAmount, v)
	}
	u, _ := uint256.FromBig(v)
	return UInt{V: u}, nil
}

func (UInt) Type() Type       { return TypeUInt }
func (v UInt) String() string { return "u" + v.V.Dec() }

// Big returns the value as a big.Int.
func (v UInt) Big() *big.Int { return v.V.ToBig() }

// Buffer is an opaque byte string.
type Buffer []byte

func (Buffer) Type() Type       { return TypeBuffer }
func (v Buffer) String() string { return hexutil.Encode(v) }

// Bool is true or false.
type Bool bool

func (v Bool) Type() Type {
	if v {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

// StandardPrincipal is an account principal.
type StandardPrincipal struct{ Address stx.Address }

func NewStandardPrincipal(addr string) (StandardPrincipal, error) {
	a, err := stx.ParseAddress(addr)
	if err != nil {
		return StandardPrincipal{}, err
	}
	return StandardPrincipal{Address: a}, nil
}

func (StandardPrincipal) Type() Type       { return TypePrincipalStandard }
func (v StandardPrincipal) String() string { return v.Address.String() }

// ContractPrincipal is a contract principal.
type ContractPrincipal struct {
	Address stx.Address
	Name    string
}

func (ContractPrincipal) Type() Type       { return TypePrincipalContract }
func (v ContractPrincipal) String() string { return v.Address.String() + "." + v.Name }

// ResponseOk wraps the success branch of a response.
type ResponseOk struct{ Value Value }

func (ResponseOk) Type() Type       { return TypeResponseOk }
func (v ResponseOk) String() string { return "(ok " + str(v.Value) + ")" }

// ResponseErr wraps the error branch of a response.
type ResponseErr struct{ Value Value }

func (ResponseErr) Type() Type       { return TypeResponseErr }
func (v ResponseErr) String() string { return "(err " + str(v.Value) + ")" }

// None is the empty optional.
type None struct{}

func (None) Type() Type     { return TypeOptionalNone }
func (None) String() string { return "none" }

// Some is a present optional.
type Some struct{ Value Value }

func (Some) Type() Type       { return TypeOptionalSome }
func (v Some) String() string { return "(some " + str(v.Value) + ")" }

// str renders v, tolerating a missing inner value.
func str(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Optional returns Some(v), or None when v is nil.
func Optional(v Value) Value {
	if v == nil {
		return None{}
	}
	return Some{Value: v}
}

// List is an ordered sequence of values.
type List []Value

func (List) Type() Type { return TypeList }
func (v List) String() string {
	parts := make([]string, 0, len(v)+1)
	parts = append(parts, "(list")
	for _, item := range v {
		parts = append(parts, str(item))
	}
	return strings.Join(parts, " ") + ")"
}

// Tuple is a set of named values.
type Tuple map[string]Value

func (Tuple) Type() Type { return TypeTuple }
func (v Tuple) String() string {
	var b strings.Builder
	b.WriteString("(tuple")
	for _, k := range v.Keys() {
		b.WriteString(" (" + k + " " + str(v[k]) + ")")
	}
	b.WriteString(")")
	return b.String()
}

// Keys returns the tuple keys in wire order.
func (v Tuple) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringASCII is an ascii string.
type StringASCII string

func (StringASCII) Type() Type       { return TypeStringASCII }
func (v StringASCII) String() string { return strconv.Quote(string(v)) }

// StringUTF8 is a utf8 string.
type StringUTF8 string

func (StringUTF8) Type() Type       { return TypeStringUTF8 }
func (v StringUTF8) String() string { return "u" + strconv.Quote(string(v)) }
