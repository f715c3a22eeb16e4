// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clarity

import (
	"math/big"

	"github.com/stxkit/stacker/stx"
)

// As asserts v has the concrete type T, naming field in the error.
func As[T Value](field string, v Value) (T, error) {
	out, ok := v.(T)
	if !ok {
		var zero T
		if v == nil {
			return zero, stx.NewDecodeError(field, "missing value")
		}
		return zero, stx.NewDecodeError(field, "expected %T, got %s", zero, v.Type())
	}
	return out, nil
}

// Field returns the tuple entry key as a T. A missing key is a decode error.
func Field[T Value](t Tuple, key string) (T, error) {
	v, ok := t[key]
	if !ok {
		var zero T
		return zero, stx.NewDecodeError(key, "missing tuple key")
	}
	return As[T](key, v)
}

// Uint64Field reads an unsigned tuple entry that must fit 64 bits.
func Uint64Field(t Tuple, key string) (uint64, error) {
	u, err := Field[UInt](t, key)
	if err != nil {
		return 0, err
	}
	if !u.V.IsUint64() {
		return 0, stx.NewDecodeError(key, "value %s overflows uint64", u.V.Dec())
	}
	return u.V.Uint64(), nil
}

// BigField reads an unsigned tuple entry as a big.Int.
func BigField(t Tuple, key string) (*big.Int, error) {
	u, err := Field[UInt](t, key)
	if err != nil {
		return nil, err
	}
	return u.Big(), nil
}

// OptionalField reads an optional tuple entry, returning nil for none.
func OptionalField(t Tuple, key string) (Value, error) {
	v, ok := t[key]
	if !ok {
		return nil, stx.NewDecodeError(key, "missing tuple key")
	}
	switch opt := v.(type) {
	case None:
		return nil, nil
	case Some:
		return opt.Value, nil
	}
	return nil, stx.NewDecodeError(key, "expected optional, got %s", v.Type())
}

// Unwrap strips an optional. It returns nil and false for none.
func Unwrap(field string, v Value) (Value, bool, error) {
	switch opt := v.(type) {
	case None:
		return nil, false, nil
	case Some:
		return opt.Value, true, nil
	}
	if v == nil {
		return nil, false, stx.NewDecodeError(field, "missing value")
	}
	return nil, false, stx.NewDecodeError(field, "expected optional, got %s", v.Type())
}

// PrincipalString renders a standard or contract principal.
func PrincipalString(field string, v Value) (string, error) {
	switch p := v.(type) {
	case StandardPrincipal:
		return p.String(), nil
	case ContractPrincipal:
		return p.String(), nil
	}
	if v == nil {
		return "", stx.NewDecodeError(field, "missing value")
	}
	return "", stx.NewDecodeError(field, "expected principal, got %s", v.Type())
}
