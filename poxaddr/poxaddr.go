// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package poxaddr converts bitcoin reward addresses to and from the
// {version, hashbytes} pair the stacking contracts store.
package poxaddr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stxkit/stacker/clarity"
	"github.com/stxkit/stacker/stx"
)

// Version is the reward address kind as understood by the contracts.
type Version byte

const (
	P2PKH      Version = 0x00
	P2SH       Version = 0x01
	P2SHP2WPKH Version = 0x02
	P2SHP2WSH  Version = 0x03
	P2WPKH     Version = 0x04
	P2WSH      Version = 0x05
	P2TR       Version = 0x06
)

var versionNames = [...]string{"p2pkh", "p2sh", "p2sh-p2wpkh", "p2sh-p2wsh", "p2wpkh", "p2wsh", "p2tr"}

func (v Version) String() string {
	if int(v) < len(versionNames) {
		return versionNames[v]
	}
	return fmt.Sprintf("version(0x%02x)", byte(v))
}

// hashLength returns the expected hashbytes length of v, or 0 for unknown versions.
func (v Version) hashLength() int {
	switch v {
	case P2PKH, P2SH, P2SHP2WPKH, P2SHP2WSH, P2WPKH:
		return 20
	case P2WSH, P2TR:
		return 32
	}
	return 0
}

// Params are the bitcoin network prefixes used to render an address.
type Params struct {
	Name  string
	HRP   string
	P2PKH byte
	P2SH  byte
}

var (
	MainNet = Params{Name: "mainnet", HRP: "bc", P2PKH: 0x00, P2SH: 0x05}
	TestNet = Params{Name: "testnet", HRP: "tb", P2PKH: 0x6f, P2SH: 0xc4}
	Regtest = Params{Name: "regtest", HRP: "bcrt", P2PKH: 0x6f, P2SH: 0xc4}
)

// ParamsForNetwork picks the bitcoin params matching a stacks network.
func ParamsForNetwork(n stx.Network) Params {
	switch n.BitcoinHRP {
	case MainNet.HRP:
		return MainNet
	case Regtest.HRP:
		return Regtest
	}
	return TestNet
}

// Address is a decoded reward address.
type Address struct {
	Version   Version       `json:"version"`
	HashBytes hexutil.Bytes `json:"hashbytes"`
}

// Decode parses a base58check or segwit bitcoin address. Formats the contracts
// cannot represent fail with stx.ErrUnsupportedAddressFormat.
func Decode(s string) (Address, error) {
	if isSegwit(strings.ToLower(s)) {
		return decodeSegwit(s)
	}
	return decodeBase58(s)
}

func isSegwit(lower string) bool {
	for _, p := range []Params{MainNet, TestNet, Regtest} {
		if strings.HasPrefix(lower, p.HRP+"1") {
			return true
		}
	}
	return false
}

func decodeBase58(s string) (Address, error) {
	hash, netVersion, err := base58.CheckDecode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", stx.ErrUnsupportedAddressFormat, s, err)
	}
	if len(hash) != 20 {
		return Address{}, fmt.Errorf("%w: %q: hash length %d", stx.ErrUnsupportedAddressFormat, s, len(hash))
	}
	var version Version
	switch netVersion {
	case MainNet.P2PKH, TestNet.P2PKH:
		version = P2PKH
	case MainNet.P2SH, TestNet.P2SH:
		version = P2SH
	default:
		return Address{}, fmt.Errorf("%w: %q: base58 version 0x%02x", stx.ErrUnsupportedAddressFormat, s, netVersion)
	}
	return Address{Version: version, HashBytes: hash}, nil
}

func decodeSegwit(s string) (Address, error) {
	_, data, encoding, err := bech32.DecodeGeneric(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", stx.ErrUnsupportedAddressFormat, s, err)
	}
	if len(data) < 1 {
		return Address{}, fmt.Errorf("%w: %q: empty witness program", stx.ErrUnsupportedAddressFormat, s)
	}
	witnessVersion := data[0]
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", stx.ErrUnsupportedAddressFormat, s, err)
	}

	switch {
	case witnessVersion == 0 && encoding == bech32.Version0 && len(program) == 20:
		return Address{Version: P2WPKH, HashBytes: program}, nil
	case witnessVersion == 0 && encoding == bech32.Version0 && len(program) == 32:
		return Address{Version: P2WSH, HashBytes: program}, nil
	case witnessVersion == 1 && encoding == bech32.VersionM && len(program) == 32:
		return Address{Version: P2TR, HashBytes: program}, nil
	}
	return Address{}, fmt.Errorf("%w: %q: witness v%d program of %d bytes", stx.ErrUnsupportedAddressFormat, s, witnessVersion, len(program))
}

// Encode renders a on the given bitcoin network.
func Encode(a Address, p Params) (string, error) {
	if l := a.Version.hashLength(); l == 0 || l != len(a.HashBytes) {
		return "", fmt.Errorf("%w: %s with %d hash bytes", stx.ErrUnsupportedAddressFormat, a.Version, len(a.HashBytes))
	}
	switch a.Version {
	case P2PKH:
		return base58.CheckEncode(a.HashBytes, p.P2PKH), nil
	case P2SH, P2SHP2WPKH, P2SHP2WSH:
		return base58.CheckEncode(a.HashBytes, p.P2SH), nil
	}

	conv, err := bech32.ConvertBits(a.HashBytes, 8, 5, true)
	if err != nil {
		return "", err
	}
	if a.Version == P2TR {
		return bech32.EncodeM(p.HRP, append([]byte{1}, conv...))
	}
	return bech32.Encode(p.HRP, append([]byte{0}, conv...))
}

// SupportedBy reports whether the named contract can store a. The pox
// contract only knows the base58 kinds.
func (a Address) SupportedBy(contractName string) bool {
	if contractName == stx.PoxContractName {
		return a.Version <= P2SHP2WSH
	}
	return a.Version <= P2TR
}

// Tuple is the contract representation of a.
func (a Address) Tuple() clarity.Tuple {
	return clarity.Tuple{
		"version":   clarity.Buffer{byte(a.Version)},
		"hashbytes": clarity.Buffer(append([]byte{}, a.HashBytes...)),
	}
}

// FromTuple reads a reward address out of its contract representation.
func FromTuple(field string, v clarity.Value) (Address, error) {
	t, err := clarity.As[clarity.Tuple](field, v)
	if err != nil {
		return Address{}, err
	}
	version, err := clarity.Field[clarity.Buffer](t, "version")
	if err != nil {
		return Address{}, err
	}
	if len(version) != 1 {
		return Address{}, stx.NewDecodeError(field+".version", "expected 1 byte, got %d", len(version))
	}
	hash, err := clarity.Field[clarity.Buffer](t, "hashbytes")
	if err != nil {
		return Address{}, err
	}
	return Address{Version: Version(version[0]), HashBytes: []byte(hash)}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%s:%s", a.Version, hex.EncodeToString(a.HashBytes))
}
