// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// HashLength length of the hash160 carried by an address.
const HashLength = 20

// Address versions.
const (
	MainnetSingleSig byte = 22
	MainnetMultiSig  byte = 20
	TestnetSingleSig byte = 26
	TestnetMultiSig  byte = 21
)

// Address is a c32check encoded account address.
type Address struct {
	Version byte
	Hash    [HashLength]byte
}

// ParseAddress decodes a c32check address such as SP000000000000000000002Q6VF78.
func ParseAddress(s string) (Address, error) {
	if len(s) <= 5 || s[0] != 'S' {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	version, data, err := c32CheckDecode(s[1:])
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	if len(data) != HashLength {
		return Address{}, fmt.Errorf("%w: %q: hash length %d", ErrInvalidAddress, s, len(data))
	}
	addr := Address{Version: version}
	copy(addr.Hash[:], data)
	return addr, nil
}

// MustParseAddress panics if s is not a valid address.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// IsValidAddress reports whether s is a well formed address.
func IsValidAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// String implements the stringer interface.
func (a Address) String() string {
	s, err := c32CheckEncode(a.Version, a.Hash[:])
	if err != nil {
		return ""
	}
	return "S" + s
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Hash160 is ripemd160(sha256(b)).
func Hash160(b []byte) [HashLength]byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	var out [HashLength]byte
	copy(out[:], h.Sum(nil))
	return out
}

// AddressFromPublicKey derives the single-sig address of a serialized public key.
func AddressFromPublicKey(version byte, pubKey []byte) Address {
	return Address{Version: version, Hash: Hash160(pubKey)}
}
