// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stacker reads the stacking state of a Stacks account and submits stacking
// contract calls.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stxkit/stacker/log"
	"github.com/stxkit/stacker/metrics"
	"github.com/stxkit/stacker/stacking"
	"github.com/stxkit/stacker/stx"
	"github.com/stxkit/stacker/stxclient"
)

var (
	version   string
	gitCommit string
	gitTag    string

	globalFlags = []cli.Flag{
		configFlag,
		envFileFlag,
		networkFlag,
		nodeURLFlag,
		addressFlag,
		privateKeyFlag,
		signerFlag,
		verbosityFlag,
		enableMetricsFlag,
		metricsAddrFlag,
	}
)

func newApp() *cli.App {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
	app.Name = "stacker"
	app.Usage = "Stacks proof-of-transfer stacking client"
	app.Flags = globalFlags
	app.Commands = append(readCommands(), append(writeCommands(), watchCommand())...)
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the per invocation state shared by the commands.
type session struct {
	cfg     *Config
	network stx.Network
	node    *stxclient.Client
	client  *stacking.Client
}

func newSession(ctx *cli.Context) (*session, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, cfg.verbosity(), useColor)

	if cfg.metricsEnabled() {
		metrics.InitializePrometheusMetrics()
	}

	network, err := cfg.StxNetwork()
	if err != nil {
		return nil, errors.Wrap(err, "-network")
	}

	var address stx.Address
	switch {
	case cfg.Address != "":
		if address, err = stx.ParseAddress(cfg.Address); err != nil {
			return nil, errors.Wrap(err, "-address")
		}
	case cfg.PrivateKey != "":
		key, err := stx.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, errors.Wrap(err, "-private-key")
		}
		address = key.Address(network)
	}

	var opts []stacking.Option
	if cfg.Signer != "" {
		signer, err := newExecSigner(cfg.Signer, network)
		if err != nil {
			return nil, errors.Wrap(err, "-signer")
		}
		opts = append(opts, stacking.WithSigner(signer))
	}

	node := stxclient.NewForNetwork(network)
	log.Debug("session ready", "network", network, "address", address)
	return &session{
		cfg:     cfg,
		network: network,
		node:    node,
		client:  stacking.New(address, network, node, opts...),
	}, nil
}

// requireAddress fails when neither an address nor a private key is configured.
func (s *session) requireAddress() error {
	if s.client.Address().IsZero() {
		return errors.New("an account is required, set --address or --private-key")
	}
	return nil
}

// action adapts f into a command action running under an interruptible context.
func action(f func(ctx context.Context, c *cli.Context, s *session) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return f(ctx, c, s)
	}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
