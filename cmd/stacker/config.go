// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/stxkit/stacker/stx"
)

const (
	envPrefix = "STACKER_"

	defaultNetwork       = "mainnet"
	defaultVerbosity     = 3
	defaultMetricsAddr   = "localhost:2112"
	defaultWatchInterval = time.Minute
)

// Config is the resolved global configuration. Layers are applied in the
// order network defaults, config file, environment, flags.
type Config struct {
	Network       string `yaml:"network"`
	NodeURL       string `yaml:"node-url"`
	Address       string `yaml:"address"`
	PrivateKey    string `yaml:"private-key"`
	Signer        string `yaml:"signer"`
	Verbosity     *int   `yaml:"verbosity"`
	EnableMetrics *bool  `yaml:"enable-metrics"`
	MetricsAddr   string `yaml:"metrics-addr"`
}

func defaultConfig() Config {
	verbosity := defaultVerbosity
	enabled := false
	return Config{
		Network:       defaultNetwork,
		Verbosity:     &verbosity,
		EnableMetrics: &enabled,
		MetricsAddr:   defaultMetricsAddr,
	}
}

// merge overrides c with every field set in o.
func (c *Config) merge(o Config) {
	if o.Network != "" {
		c.Network = o.Network
	}
	if o.NodeURL != "" {
		c.NodeURL = o.NodeURL
	}
	if o.Address != "" {
		c.Address = o.Address
	}
	if o.PrivateKey != "" {
		c.PrivateKey = o.PrivateKey
	}
	if o.Signer != "" {
		c.Signer = o.Signer
	}
	if o.Verbosity != nil {
		c.Verbosity = o.Verbosity
	}
	if o.EnableMetrics != nil {
		c.EnableMetrics = o.EnableMetrics
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
}

// StxNetwork returns the network parameters with the configured node url.
func (c *Config) StxNetwork() (stx.Network, error) {
	return stx.NetworkByName(c.Network, c.NodeURL)
}

func (c *Config) verbosity() int {
	if c.Verbosity == nil {
		return defaultVerbosity
	}
	return *c.Verbosity
}

func (c *Config) metricsEnabled() bool {
	return c.EnableMetrics != nil && *c.EnableMetrics
}

// fileConfig reads a YAML config. Unknown keys are rejected.
func fileConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config file")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrapf(err, "decode config file %s", path)
	}
	return cfg, nil
}

// envConfig reads the STACKER_ variables through lookup.
func envConfig(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	get := func(name string) string {
		v, _ := lookup(envPrefix + name)
		return v
	}
	cfg.Network = get("NETWORK")
	cfg.NodeURL = get("NODE_URL")
	cfg.Address = get("ADDRESS")
	cfg.PrivateKey = get("PRIVATE_KEY")
	cfg.Signer = get("SIGNER")
	cfg.MetricsAddr = get("METRICS_ADDR")

	if v := get("VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, envPrefix+"VERBOSITY")
		}
		cfg.Verbosity = &n
	}
	if v := get("ENABLE_METRICS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrap(err, envPrefix+"ENABLE_METRICS")
		}
		cfg.EnableMetrics = &b
	}
	return cfg, nil
}

// flagConfig picks the global flags given on the command line.
func flagConfig(ctx *cli.Context) Config {
	var cfg Config
	str := func(f cli.StringFlag) string {
		if ctx.GlobalIsSet(f.Name) {
			return ctx.GlobalString(f.Name)
		}
		return ""
	}
	cfg.Network = str(networkFlag)
	cfg.NodeURL = str(nodeURLFlag)
	cfg.Address = str(addressFlag)
	cfg.PrivateKey = str(privateKeyFlag)
	cfg.Signer = str(signerFlag)
	cfg.MetricsAddr = str(metricsAddrFlag)

	if ctx.GlobalIsSet(verbosityFlag.Name) {
		v := ctx.GlobalInt(verbosityFlag.Name)
		cfg.Verbosity = &v
	}
	if ctx.GlobalIsSet(enableMetricsFlag.Name) {
		b := ctx.GlobalBool(enableMetricsFlag.Name)
		cfg.EnableMetrics = &b
	}
	return cfg
}

// loadConfig resolves the configuration of one invocation.
func loadConfig(ctx *cli.Context) (*Config, error) {
	// a missing default .env is fine, a missing explicit one is not
	if envFile := ctx.GlobalString(envFileFlag.Name); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !(os.IsNotExist(err) && !ctx.GlobalIsSet(envFileFlag.Name)) {
			return nil, errors.Wrapf(err, "load env file %s", envFile)
		}
	}

	path := ctx.GlobalString(configFlag.Name)
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	file, err := fileConfig(path)
	if err != nil {
		return nil, err
	}
	env, err := envConfig(os.LookupEnv)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	cfg.merge(file)
	cfg.merge(env)
	cfg.merge(flagConfig(ctx))
	return &cfg, nil
}
