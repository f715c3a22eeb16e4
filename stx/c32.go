// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"math/big"
	"strings"
)

// c32 is the Crockford base32 alphabet used by stacks addresses.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var c32Base = big.NewInt(32)

// c32Encode treats data as a big-endian integer and emits its base32 digits,
// preserving each leading zero byte as one '0' digit.
func c32Encode(data []byte) string {
	var (
		n      = new(big.Int).SetBytes(data)
		mod    = new(big.Int)
		digits []byte
	)
	for n.Sign() > 0 {
		n.DivMod(n, c32Base, mod)
		digits = append(digits, c32Alphabet[mod.Int64()])
	}
	for _, b := range data {
		if b != 0 {
			break
		}
		digits = append(digits, c32Alphabet[0])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

func c32Normalize(s string) string {
	return strings.NewReplacer("O", "0", "L", "1", "I", "1").Replace(strings.ToUpper(s))
}

func c32Decode(s string) ([]byte, error) {
	s = c32Normalize(s)
	n := new(big.Int)
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(c32Alphabet, s[i])
		if idx < 0 {
			return nil, errors.New("invalid c32 character")
		}
		n.Lsh(n, 5)
		n.Or(n, big.NewInt(int64(idx)))
	}
	zeros := 0
	for zeros < len(s) && s[zeros] == c32Alphabet[0] {
		zeros++
	}
	return append(make([]byte, zeros), n.Bytes()...), nil
}

func c32Checksum(version byte, data []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, data...))
	second := sha256.Sum256(first[:])
	return second[:4]
}

func c32CheckEncode(version byte, data []byte) (string, error) {
	if int(version) >= len(c32Alphabet) {
		return "", errors.New("invalid c32 version")
	}
	payload := append(append([]byte{}, data...), c32Checksum(version, data)...)
	return string(c32Alphabet[version]) + c32Encode(payload), nil
}

func c32CheckDecode(s string) (byte, []byte, error) {
	if len(s) < 2 {
		return 0, nil, errors.New("c32check string too short")
	}
	s = c32Normalize(s)
	version := strings.IndexByte(c32Alphabet, s[0])
	if version < 0 {
		return 0, nil, errors.New("invalid c32 version character")
	}
	payload, err := c32Decode(s[1:])
	if err != nil {
		return 0, nil, err
	}
	if len(payload) < 4 {
		return 0, nil, errors.New("c32check payload too short")
	}
	data, sum := payload[:len(payload)-4], payload[len(payload)-4:]
	if !bytes.Equal(sum, c32Checksum(byte(version), data)) {
		return 0, nil, errors.New("c32check checksum mismatch")
	}
	return byte(version), data, nil
}
