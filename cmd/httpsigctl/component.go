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
	"strings"

	"github.com/sage-x-project/httpsig/core/httpsig"
	"github.com/spf13/cobra"
)

var (
	componentMethod    string
	componentTargetURI string
	componentStatus    string
	componentHeaders   []string
)

var componentValueCmd = &cobra.Command{
	Use:   "component-value <component-identifier>",
	Short: "Print one covered component's resolved signature-base line",
	Long: `component-value resolves a single component identifier (derived or
normal, with any of its modifiers) against a MessageContext built from
--method/--target-uri/--header, and prints the line that would appear
in the signature base for it. Useful for debugging @query-param
normalization or a field's sf/bs/key modifier output without
constructing a full signature.`,
	Example: `  httpsigctl component-value '"@query-param";name="q"' \
    --target-uri 'https://example.com/search?q=a+b'`,
	Args: cobra.ExactArgs(1),
	RunE: runComponentValue,
}

func init() {
	rootCmd.AddCommand(componentValueCmd)

	componentValueCmd.Flags().StringVar(&componentMethod, "method", "GET", "Request method")
	componentValueCmd.Flags().StringVar(&componentTargetURI, "target-uri", "", "Request target URI (required)")
	componentValueCmd.Flags().StringVar(&componentStatus, "status", "", "Response status code, for a response context")
	componentValueCmd.Flags().StringArrayVar(&componentHeaders, "header", nil, "Field value as \"Name: value\", repeatable; prefix with \"target.\" for a response/target field")

	componentValueCmd.MarkFlagRequired("target-uri")
}

func runComponentValue(cmd *cobra.Command, args []string) error {
	status, err := parseStatus(componentStatus)
	if err != nil {
		return err
	}

	ctx, err := buildMessageContext(componentMethod, componentTargetURI, componentHeaders, status)
	if err != nil {
		return err
	}

	id, err := httpsig.ParseComponentIdentifier(args[0])
	if err != nil {
		return fmt.Errorf("parsing component identifier: %w", err)
	}

	meta := httpsig.NewSignatureMetadata()
	if err := meta.Append(id); err != nil {
		return fmt.Errorf("appending component: %w", err)
	}

	base, err := httpsig.BuildSignatureBase(ctx, meta)
	if err != nil {
		return fmt.Errorf("resolving component: %w", err)
	}

	line, _, _ := strings.Cut(base, "\n")
	_, value, ok := strings.Cut(line, ": ")
	if !ok {
		return fmt.Errorf("unexpected signature base line: %q", line)
	}
	fmt.Println(value)
	return nil
}
