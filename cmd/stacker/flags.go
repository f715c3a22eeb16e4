// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

// global flags, each also settable as STACKER_<NAME> in the environment or the config file
var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML config file",
	}
	envFileFlag = cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "dotenv file loaded into the environment when present",
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "the network to use (mainnet|testnet|mocknet)",
	}
	nodeURLFlag = cli.StringFlag{
		Name:  "node-url",
		Usage: "node API url, defaults to the network's public endpoint",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "stacker address, derived from the private key when omitted",
	}
	privateKeyFlag = cli.StringFlag{
		Name:  "private-key",
		Usage: "hex private key handed to the signer",
	}
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "external command that signs contract calls read as JSON from stdin",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: defaultVerbosity,
		Usage: "log verbosity (0-9)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: defaultMetricsAddr,
		Usage: "metrics service listening address",
	}
)

// command flags
var (
	poxAddressFlag = cli.StringFlag{
		Name:  "pox-address",
		Usage: "bitcoin address receiving the rewards",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "amount in micro-STX",
	}
	increaseByFlag = cli.StringFlag{
		Name:  "increase-by",
		Usage: "amount in micro-STX added to the lock",
	}
	feeFlag = cli.StringFlag{
		Name:  "fee",
		Usage: "micro-STX kept back from the locked amount to pay the transaction fee",
	}
	cyclesFlag = cli.Uint64Flag{
		Name:  "cycles",
		Value: 1,
		Usage: "number of reward cycles",
	}
	burnHeightFlag = cli.Uint64Flag{
		Name:  "burn-height",
		Usage: "burn block height the lock starts after, defaults to the current height",
	}
	stackerFlag = cli.StringFlag{
		Name:  "stacker",
		Usage: "address of the delegating stacker",
	}
	delegateToFlag = cli.StringFlag{
		Name:  "delegate-to",
		Usage: "principal allowed to stack on behalf of the account",
	}
	untilBurnHeightFlag = cli.Uint64Flag{
		Name:  "until-burn-height",
		Usage: "burn block height the delegation expires at",
	}
	rewardCycleFlag = cli.Uint64Flag{
		Name:  "reward-cycle",
		Usage: "reward cycle id",
	}
	rewardIndexFlag = cli.Uint64Flag{
		Name:  "reward-index",
		Usage: "index of the reward set entry",
	}
	indexedFlag = cli.BoolFlag{
		Name:  "indexed",
		Usage: "use the commit variant returning the reward set index",
	}
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "explicit transaction nonce",
	}
	dryRunFlag = cli.BoolFlag{
		Name:  "dry-run",
		Usage: "print the contract call instead of signing it",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "contract id, defaults to the active stacking contract",
	}
	btcAddressFlag = cli.StringFlag{
		Name:  "btc-address",
		Usage: "bitcoin reward address",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 20,
		Usage: "page size",
	}
	offsetFlag = cli.Uint64Flag{
		Name:  "offset",
		Usage: "page offset",
	}
	extendedFlag = cli.BoolFlag{
		Name:  "extended",
		Usage: "include the indexer's balance breakdown",
	}
	dataFlag = cli.StringFlag{
		Name:  "data",
		Usage: "JSON body to POST instead of sending a GET",
	}
	intervalFlag = cli.DurationFlag{
		Name:  "interval",
		Value: defaultWatchInterval,
		Usage: "polling interval",
	}
)
