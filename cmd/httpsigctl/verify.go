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
	verifyMethod        string
	verifyTargetURI     string
	verifyStatus        string
	verifyHeaders       []string
	verifyAlg           string
	verifyKeyFile       string
	verifyLabel         string
	verifySignatureInput string
	verifySignature      string
	verifyMaxSkew         time.Duration
	verifyProfile         string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signature against a captured HTTP exchange",
	Long: `Verify rebuilds the signature base from --method/--target-uri/
--header flags and the covered components recorded in
--signature-input, then checks --signature against it using the public
key material at --key.`,
	Example: `  # Verify a GET request signed with Ed25519
  httpsigctl verify --method GET --target-uri https://example.com/foo \
    --signature-input 'sig1=("@method" "@target-uri");created=1704067200;keyid="my-key"' \
    --signature 'sig1=:MEUCIQ...==:' \
    --alg ed25519 --key mykey.pub.hex`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyMethod, "method", "GET", "Request method")
	verifyCmd.Flags().StringVar(&verifyTargetURI, "target-uri", "", "Request target URI (required)")
	verifyCmd.Flags().StringVar(&verifyStatus, "status", "", "Response status code, for verifying a response context")
	verifyCmd.Flags().StringArrayVar(&verifyHeaders, "header", nil, "Field value as \"Name: value\", repeatable; prefix with \"target.\" for a response/target field")
	verifyCmd.Flags().StringVar(&verifySignatureInput, "signature-input", "", "Signature-Input field value (required)")
	verifyCmd.Flags().StringVar(&verifySignature, "signature", "", "Signature field value (required)")
	verifyCmd.Flags().StringVar(&verifyAlg, "alg", "", "Verification algorithm (defaults to --profile's algorithm)")
	verifyCmd.Flags().StringVar(&verifyKeyFile, "key", "", "Public key file (required)")
	verifyCmd.Flags().StringVar(&verifyLabel, "label", "sig1", "Signature label")
	verifyCmd.Flags().DurationVar(&verifyMaxSkew, "max-skew", 0, "Allowed clock skew when checking created/expires freshness")
	verifyCmd.Flags().StringVar(&verifyProfile, "profile", "", "Named signing profile to default --alg from (falls back to the \"default\" profile)")

	verifyCmd.MarkFlagRequired("target-uri")
	verifyCmd.MarkFlagRequired("signature-input")
	verifyCmd.MarkFlagRequired("signature")
	verifyCmd.MarkFlagRequired("key")
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := logger.NewDefaultLogger()

	status, err := parseStatus(verifyStatus)
	if err != nil {
		return err
	}

	ctx, err := buildMessageContext(verifyMethod, verifyTargetURI, verifyHeaders, status)
	if err != nil {
		return err
	}

	si, err := httpsig.ParseSignatureInput(verifySignatureInput)
	if err != nil {
		return fmt.Errorf("parsing Signature-Input: %w", err)
	}
	sf, err := httpsig.ParseSignature(verifySignature)
	if err != nil {
		return fmt.Errorf("parsing Signature: %w", err)
	}

	if verifyAlg == "" {
		p, err := appConfig.Profile(verifyProfile)
		if err != nil {
			return fmt.Errorf("--alg not given and no signing profile available: %w", err)
		}
		verifyAlg = p.Algorithm
	}

	verifier, err := loadVerifier(verifyAlg, verifyKeyFile)
	if err != nil {
		return fmt.Errorf("loading verifier: %w", err)
	}

	buildStart := time.Now()
	err = httpsig.Verify(ctx, verifyLabel, si, sf, verifier)
	metrics.BuildDuration.Observe(time.Since(buildStart).Seconds())
	if err != nil {
		metrics.VerifyOperations.WithLabelValues(verifyAlg, "failure").Inc()
		metrics.VerifyFailures.WithLabelValues("verification-failed").Inc()
		log.Error("verification failed", logger.Error(err), logger.String("algorithm", verifyAlg))
		fmt.Println("FAIL")
		return fmt.Errorf("verification failed: %w", err)
	}
	metrics.VerifyOperations.WithLabelValues(verifyAlg, "success").Inc()

	if meta, ok := si.Get(verifyLabel); ok {
		if err := checkFreshness(meta, time.Now(), verifyMaxSkew); err != nil {
			metrics.VerifyFailures.WithLabelValues("stale").Inc()
			fmt.Println("FAIL")
			return fmt.Errorf("freshness check: %w", err)
		}
	}

	fmt.Println("PASS")
	log.Info("verified signature", logger.String("label", verifyLabel), logger.String("algorithm", verifyAlg))
	return nil
}
