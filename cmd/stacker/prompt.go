// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
)

func readPasswordFromNewTTY(prompt string) (string, error) {
	t, err := tty.Open()
	if err != nil {
		return "", err
	}
	defer t.Close()
	fmt.Fprint(t.Output(), prompt)
	pass, err := t.ReadPasswordNoEcho()
	if err != nil {
		return "", err
	}
	return pass, err
}

// requirePrivateKey returns the configured key, asking on the terminal when
// none is configured and stdin is interactive.
func requirePrivateKey(cfg *Config) (string, error) {
	if cfg.PrivateKey != "" {
		return cfg.PrivateKey, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", errors.New("a private key is required, set --private-key or " + envPrefix + "PRIVATE_KEY")
	}
	key, err := readPasswordFromNewTTY("Enter private key: ")
	if err != nil {
		return "", errors.Wrap(err, "read private key")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("empty private key")
	}
	cfg.PrivateKey = key
	return key, nil
}
