// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"fmt"
	"strings"
)

// Known PoX contract names, in deployment order.
const (
	PoxContractName  = "pox"
	Pox2ContractName = "pox-2"
)

var knownContractNames = map[string]bool{
	PoxContractName:  true,
	Pox2ContractName: true,
}

// IsKnownContractName reports whether name is a PoX contract this client can target.
func IsKnownContractName(name string) bool {
	return knownContractNames[name]
}

// ContractID identifies a deployed PoX contract as address.name.
type ContractID struct {
	Address Address
	Name    string
}

// ParseContractID splits and validates a PoX contract identifier.
// The address part must be a valid c32check address and the name one of the
// known PoX contract names.
func ParseContractID(s string) (ContractID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return ContractID{}, fmt.Errorf("%w: %q", ErrMalformedContractID, s)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return ContractID{}, fmt.Errorf("%w: %q: %v", ErrMalformedContractID, s, err)
	}
	if !IsKnownContractName(parts[1]) {
		return ContractID{}, fmt.Errorf("%w: %q: unknown contract name", ErrMalformedContractID, s)
	}
	return ContractID{Address: addr, Name: parts[1]}, nil
}

// MustParseContractID panics if s is not a valid PoX contract identifier.
func MustParseContractID(s string) ContractID {
	id, err := ParseContractID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (c ContractID) String() string {
	return c.Address.String() + "." + c.Name
}

// IsLegacy reports whether c is the first PoX contract.
func (c ContractID) IsLegacy() bool {
	return c.Name == PoxContractName
}
