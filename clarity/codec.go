// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clarity

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/stxkit/stacker/stx"
)

const (
	intSize    = 16
	intBits    = 128
	maxNameLen = 128
	maxDepth   = 32
)

var two128 = new(big.Int).Lsh(big.NewInt(1), intBits)

// Serialize encodes v in the consensus wire format.
func Serialize(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeHex serializes v and returns it 0x prefixed, the form node endpoints accept.
func EncodeHex(v Value) (string, error) {
	b, err := Serialize(v)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(b), nil
}

// MustEncodeHex panics if v cannot be serialized.
func MustEncodeHex(v Value) string {
	s, err := EncodeHex(v)
	if err != nil {
		panic(err)
	}
	return s
}

func write(buf *bytes.Buffer, v Value) error {
	if v == nil {
		return fmt.Errorf("cannot serialize nil value")
	}
	buf.WriteByte(byte(v.Type()))
	switch val := v.(type) {
	case Int:
		if val.V == nil {
			return fmt.Errorf("cannot serialize nil int")
		}
		if val.V.Cmp(minInt128) < 0 || val.V.Cmp(maxInt128) > 0 {
			return fmt.Errorf("%w: %v does not fit int128", stx.ErrInvalidAmount, val.V)
		}
		n := new(big.Int).Set(val.V)
		if n.Sign() < 0 {
			n.Add(n, two128)
		}
		var out [intSize]byte
		n.FillBytes(out[:])
		buf.Write(out[:])
	case UInt:
		if val.V == nil {
			return fmt.Errorf("cannot serialize nil uint")
		}
		if val.V.BitLen() > intBits {
			return fmt.Errorf("%w: %v does not fit uint128", stx.ErrInvalidAmount, val.V.Dec())
		}
		b32 := val.V.Bytes32()
		buf.Write(b32[32-intSize:])
	case Buffer:
		writeLen(buf, len(val))
		buf.Write(val)
	case Bool:
	case StandardPrincipal:
		buf.WriteByte(val.Address.Version)
		buf.Write(val.Address.Hash[:])
	case ContractPrincipal:
		if err := checkName(val.Name); err != nil {
			return err
		}
		buf.WriteByte(val.Address.Version)
		buf.Write(val.Address.Hash[:])
		buf.WriteByte(byte(len(val.Name)))
		buf.WriteString(val.Name)
	case ResponseOk:
		return write(buf, val.Value)
	case ResponseErr:
		return write(buf, val.Value)
	case None:
	case Some:
		return write(buf, val.Value)
	case List:
		writeLen(buf, len(val))
		for _, item := range val {
			if err := write(buf, item); err != nil {
				return err
			}
		}
	case Tuple:
		keys := val.Keys()
		writeLen(buf, len(keys))
		for _, k := range keys {
			if err := checkName(k); err != nil {
				return err
			}
			buf.WriteByte(byte(len(k)))
			buf.WriteString(k)
			if err := write(buf, val[k]); err != nil {
				return err
			}
		}
	case StringASCII:
		writeLen(buf, len(val))
		buf.WriteString(string(val))
	case StringUTF8:
		writeLen(buf, len(val))
		buf.WriteString(string(val))
	default:
		return fmt.Errorf("cannot serialize %T", v)
	}
	return nil
}

func writeLen(buf *bytes.Buffer, n int) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(n))
	buf.Write(l[:])
}

func checkName(name string) error {
	if len(name) == 0 || len(name) > maxNameLen {
		return fmt.Errorf("invalid name length %d", len(name))
	}
	return nil
}

// Deserialize decodes exactly one value from b. Trailing bytes are an error.
func Deserialize(b []byte) (Value, error) {
	r := &reader{data: b}
	v, err := r.value(0)
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.data) {
		return nil, stx.NewDecodeError("", "%d trailing bytes", len(r.data)-r.pos)
	}
	return v, nil
}

// DecodeHex decodes a 0x prefixed serialized value.
func DecodeHex(s string) (Value, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, stx.NewDecodeError("", "invalid hex: %v", err)
	}
	return Deserialize(b)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, stx.NewDecodeError("", "unexpected end of input at offset %d", r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) length() (int, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(b)
	if int64(n) > int64(r.remaining()) {
		return 0, stx.NewDecodeError("", "length %d exceeds remaining input", n)
	}
	return int(n), nil
}

func (r *reader) address() (stx.Address, error) {
	version, err := r.byte()
	if err != nil {
		return stx.Address{}, err
	}
	hash, err := r.take(stx.HashLength)
	if err != nil {
		return stx.Address{}, err
	}
	addr := stx.Address{Version: version}
	copy(addr.Hash[:], hash)
	return addr, nil
}

func (r *reader) name() (string, error) {
	n, err := r.byte()
	if err != nil {
		return "", err
	}
	if n == 0 || int(n) > maxNameLen {
		return "", stx.NewDecodeError("", "invalid name length %d", n)
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) value(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, stx.NewDecodeError("", "nesting deeper than %d", maxDepth)
	}
	prefix, err := r.byte()
	if err != nil {
		return nil, err
	}
	switch Type(prefix) {
	case TypeInt:
		b, err := r.take(intSize)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(b)
		if b[0]&0x80 != 0 {
			n.Sub(n, two128)
		}
		return Int{V: n}, nil
	case TypeUInt:
		b, err := r.take(intSize)
		if err != nil {
			return nil, err
		}
		return UInt{V: new(uint256.Int).SetBytes(b)}, nil
	case TypeBuffer:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		return Buffer(append([]byte{}, b...)), nil
	case TypeBoolTrue:
		return Bool(true), nil
	case TypeBoolFalse:
		return Bool(false), nil
	case TypePrincipalStandard:
		addr, err := r.address()
		if err != nil {
			return nil, err
		}
		return StandardPrincipal{Address: addr}, nil
	case TypePrincipalContract:
		addr, err := r.address()
		if err != nil {
			return nil, err
		}
		name, err := r.name()
		if err != nil {
			return nil, err
		}
		return ContractPrincipal{Address: addr, Name: name}, nil
	case TypeResponseOk, TypeResponseErr, TypeOptionalSome:
		inner, err := r.value(depth + 1)
		if err != nil {
			return nil, err
		}
		switch Type(prefix) {
		case TypeResponseOk:
			return ResponseOk{Value: inner}, nil
		case TypeResponseErr:
			return ResponseErr{Value: inner}, nil
		}
		return Some{Value: inner}, nil
	case TypeOptionalNone:
		return None{}, nil
	case TypeList:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		list := make(List, 0, n)
		for i := 0; i < n; i++ {
			item, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	case TypeTuple:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		tuple := make(Tuple, n)
		for i := 0; i < n; i++ {
			key, err := r.name()
			if err != nil {
				return nil, err
			}
			if _, dup := tuple[key]; dup {
				return nil, stx.NewDecodeError(key, "duplicate tuple key")
			}
			item, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			tuple[key] = item
		}
		return tuple, nil
	case TypeStringASCII:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		for _, c := range b {
			if c > 0x7f {
				return nil, stx.NewDecodeError("", "non ascii byte 0x%02x in string-ascii", c)
			}
		}
		return StringASCII(b), nil
	case TypeStringUTF8:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, stx.NewDecodeError("", "invalid utf8 in string-utf8")
		}
		return StringUTF8(b), nil
	}
	return nil, stx.NewDecodeError("", "unknown type prefix 0x%02x", prefix)
}
