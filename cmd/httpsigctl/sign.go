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
	"time"

	"github.com/sage-x-project/httpsig/core/httpsig"
	"github.com/sage-x-project/httpsig/internal/logger"
	"github.com/sage-x-project/httpsig/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	signMethod     string
	signTargetURI  string
	signStatus     string
	signHeaders    []string
	signComponents []string
	signAlg        string
	signKeyFile    string
	signKeyID      string
	signLabel      string
	signExpiresIn  time.Duration
	signProfile    string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a captured HTTP exchange",
	Long: `Sign builds a MessageContext from --method/--target-uri/--header
flags, computes the signature base over the components named by
--component, and signs it with the key material at --key.

Prints the Signature-Input and Signature field values to stdout.`,
	Example: `  # Sign a GET request, covering @method and @target-uri, with Ed25519
  httpsigctl sign --method GET --target-uri https://example.com/foo \
    --component '@method' --component '@target-uri' \
    --alg ed25519 --key mykey.hex

  # Cover a request header and set an explicit keyid
  httpsigctl sign --method POST --target-uri https://example.com/items \
    --header 'Content-Digest: sha-256=:X48E9qOokqqrvdts8nOJRJN3OWDUoyWxBf7kbu9DBPE=:' \
    --component '@method' --component 'content-digest' \
    --alg rsa-v1_5-sha256 --key mykey.pem --keyid my-rsa-key`,
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVar(&signMethod, "method", "GET", "Request method")
	signCmd.Flags().StringVar(&signTargetURI, "target-uri", "", "Request target URI (required)")
	signCmd.Flags().StringVar(&signStatus, "status", "", "Response status code, for signing a response context")
	signCmd.Flags().StringArrayVar(&signHeaders, "header", nil, "Field value as \"Name: value\", repeatable; prefix with \"target.\" for a response/target field")
	signCmd.Flags().StringArrayVar(&signComponents, "component", nil, "Covered component identifier, repeatable (defaults to --profile's components)")
	signCmd.Flags().StringVar(&signAlg, "alg", "", "Signing algorithm: ed25519, es256k, rsa-v1_5-sha256, rsa-pss-sha256, ecdsa-p256-sha256, hmac-sha256 (defaults to --profile's algorithm)")
	signCmd.Flags().StringVar(&signKeyFile, "key", "", "Private key file (required)")
	signCmd.Flags().StringVar(&signKeyID, "keyid", "", "\"keyid\" signature parameter (defaults to --profile's keyid)")
	signCmd.Flags().StringVar(&signLabel, "label", "sig1", "Signature label")
	signCmd.Flags().DurationVar(&signExpiresIn, "expires-in", 0, "If set, signature expires this long after \"created\" (defaults to --profile's expires)")
	signCmd.Flags().StringVar(&signProfile, "profile", "", "Named signing profile to default --component/--alg/--keyid/--expires-in from (falls back to the \"default\" profile)")

	signCmd.MarkFlagRequired("target-uri")
	signCmd.MarkFlagRequired("key")
}

func runSign(cmd *cobra.Command, args []string) error {
	log := logger.NewDefaultLogger()

	status, err := parseStatus(signStatus)
	if err != nil {
		return err
	}

	ctx, err := buildMessageContext(signMethod, signTargetURI, signHeaders, status)
	if err != nil {
		return err
	}

	if len(signComponents) == 0 {
		p, err := appConfig.Profile(signProfile)
		if err != nil {
			return fmt.Errorf("--component not given and no signing profile available: %w", err)
		}
		signComponents = p.Components
	}
	if signAlg == "" {
		p, err := appConfig.Profile(signProfile)
		if err != nil {
			return fmt.Errorf("--alg not given and no signing profile available: %w", err)
		}
		signAlg = p.Algorithm
	}
	if signKeyID == "" {
		if p, err := appConfig.Profile(signProfile); err == nil {
			signKeyID = p.KeyID
		}
	}
	if signExpiresIn == 0 {
		if p, err := appConfig.Profile(signProfile); err == nil {
			signExpiresIn = p.Expires
		}
	}

	components, err := parseComponents(signComponents)
	if err != nil {
		return err
	}

	meta := httpsig.NewSignatureMetadata()
	for _, id := range components {
		if err := meta.Append(id); err != nil {
			return fmt.Errorf("appending component: %w", err)
		}
	}
	if signKeyID != "" {
		meta.SetKeyID(signKeyID)
	}
	now := time.Now()
	meta.SetCreated(now)
	if signExpiresIn > 0 {
		meta.SetExpires(now.Add(signExpiresIn))
	}

	signer, err := loadSigner(signAlg, signKeyFile)
	if err != nil {
		return fmt.Errorf("loading signer: %w", err)
	}

	buildStart := time.Now()
	si, sf, err := httpsig.Sign(ctx, signLabel, meta, signer)
	metrics.BuildDuration.Observe(time.Since(buildStart).Seconds())
	if err != nil {
		metrics.VerifyFailures.WithLabelValues("sign-error").Inc()
		log.Error("signing failed", logger.Error(err), logger.String("algorithm", signAlg))
		return fmt.Errorf("signing: %w", err)
	}
	metrics.SignOperations.WithLabelValues(signAlg).Inc()

	siValue, err := si.Serialize()
	if err != nil {
		return fmt.Errorf("serializing Signature-Input: %w", err)
	}
	sfValue, err := sf.Serialize()
	if err != nil {
		return fmt.Errorf("serializing Signature: %w", err)
	}

	fmt.Printf("Signature-Input: %s\n", siValue)
	fmt.Printf("Signature: %s\n", sfValue)
	log.Info("signed request", logger.String("label", signLabel), logger.String("algorithm", signAlg))
	return nil
}
