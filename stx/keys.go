// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PrivateKey is a secp256k1 key together with the public key encoding it signs for.
type PrivateKey struct {
	Key        *secp256k1.PrivateKey
	Compressed bool
}

// ParsePrivateKey decodes a hex private key. A 33 byte key ending in 0x01 marks
// a compressed public key; a bare 32 byte key is uncompressed.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.New("private key is not hex encoded")
	}
	compressed := false
	switch {
	case len(b) == 33 && b[32] == 0x01:
		compressed = true
		b = b[:32]
	case len(b) == 32:
	default:
		return nil, errors.New("private key must be 32 bytes, or 33 bytes with a compression flag")
	}
	return &PrivateKey{Key: secp256k1.PrivKeyFromBytes(b), Compressed: compressed}, nil
}

// PublicKey returns the serialized public key.
func (k *PrivateKey) PublicKey() []byte {
	if k.Compressed {
		return k.Key.PubKey().SerializeCompressed()
	}
	return k.Key.PubKey().SerializeUncompressed()
}

// Address returns the single-sig address owned by k on the given network.
func (k *PrivateKey) Address(network Network) Address {
	return AddressFromPublicKey(network.SingleSigVersion, k.PublicKey())
}
