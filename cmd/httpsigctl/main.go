// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/sage-x-project/httpsig/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "httpsigctl",
	Short: "httpsigctl - RFC 9421 HTTP Message Signatures CLI",
	Long: `httpsigctl signs and verifies captured HTTP exchanges against the
core/httpsig library, for manual testing and scripting around the
library without writing Go.

This tool supports:
- Building a signature base over an arbitrary method/target-uri/headers
- Signing it with ed25519, secp256k1, RSA, ECDSA, or HMAC key material
- Verifying a Signature-Input/Signature field pair
- Printing a single covered component's resolved base-line value

--component/--alg/--keyid on sign and --alg on verify fall back to the
named --profile's entry in config/<environment>.yaml when left unset.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.LoaderOptions{ConfigDir: configDir})
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg
		return nil
	},
}

// configDir is where config.Load looks for "<environment>.yaml",
// "default.yaml", and "config.yaml"; appConfig holds the result,
// populated by rootCmd's PersistentPreRunE before any subcommand runs.
var (
	configDir string
	appConfig *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "Directory holding signing-profile config files")

	// Commands are registered in their respective files:
	// - sign.go: signCmd
	// - verify.go: verifyCmd
	// - component.go: componentValueCmd
}
