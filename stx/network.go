// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stx

import (
	"fmt"
	"strings"
)

// Network describes the node endpoint and the chain parameters a client works against.
type Network struct {
	Name             string
	APIURL           string
	Mainnet          bool
	SingleSigVersion byte
	MultiSigVersion  byte
	// BitcoinHRP is the segwit prefix of reward addresses on the settlement chain.
	BitcoinHRP string
}

const (
	MainnetAPIURL = "https://stacks-node-api.mainnet.stacks.co"
	TestnetAPIURL = "https://stacks-node-api.testnet.stacks.co"
	MocknetAPIURL = "http://localhost:3999"
)

// Mainnet returns the mainnet parameters, served by url or the default endpoint when url is empty.
func Mainnet(url string) Network {
	return Network{
		Name:             "mainnet",
		APIURL:           orDefault(url, MainnetAPIURL),
		Mainnet:          true,
		SingleSigVersion: MainnetSingleSig,
		MultiSigVersion:  MainnetMultiSig,
		BitcoinHRP:       "bc",
	}
}

// Testnet returns the testnet parameters.
func Testnet(url string) Network {
	return Network{
		Name:             "testnet",
		APIURL:           orDefault(url, TestnetAPIURL),
		SingleSigVersion: TestnetSingleSig,
		MultiSigVersion:  TestnetMultiSig,
		BitcoinHRP:       "tb",
	}
}

// Mocknet returns parameters for a local regtest node; it uses testnet versions.
func Mocknet(url string) Network {
	n := Testnet(orDefault(url, MocknetAPIURL))
	n.Name = "mocknet"
	n.BitcoinHRP = "bcrt"
	return n
}

// NetworkByName resolves one of mainnet, testnet or mocknet.
func NetworkByName(name, url string) (Network, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return Mainnet(url), nil
	case "testnet":
		return Testnet(url), nil
	case "mocknet", "regtest", "devnet":
		return Mocknet(url), nil
	}
	return Network{}, fmt.Errorf("unknown network %q", name)
}

func (n Network) String() string {
	return fmt.Sprintf("%s (%s)", n.Name, n.APIURL)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return strings.TrimRight(v, "/")
}
