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
	"strconv"
	"strings"

	"github.com/sage-x-project/httpsig/core/httpsig"
)

// buildMessageContext assembles a MessageContext from the --header flag
// repetitions ("Name: value"), splitting between request and target
// field pools at "target." prefix, e.g. "target.content-type: text/html".
func buildMessageContext(method, targetURI string, headers []string, status int) (*httpsig.MessageContext, error) {
	ctx, err := httpsig.NewMessageContext(method, targetURI)
	if err != nil {
		return nil, fmt.Errorf("building message context: %w", err)
	}
	if status != 0 {
		ctx, err = ctx.WithStatus(status)
		if err != nil {
			return nil, fmt.Errorf("setting status: %w", err)
		}
	}

	for _, raw := range headers {
		name, value, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("malformed --header %q, expected \"Name: value\"", raw)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		pool := ctx.RequestHeaders
		if target, isTarget := strings.CutPrefix(name, "target."); isTarget {
			name = target
			pool = ctx.TargetHeaders
		}
		pool.Add(name, value)
	}

	return ctx, nil
}

// parseComponents parses the --component flag repetitions into
// ComponentIdentifier values via ParseComponentIdentifier. A component
// name given bare (e.g. @method or content-digest;sf) is quoted first.
func parseComponents(raw []string) ([]httpsig.ComponentIdentifier, error) {
	ids := make([]httpsig.ComponentIdentifier, 0, len(raw))
	for _, r := range raw {
		if !strings.HasPrefix(r, `"`) {
			name, params, hasParams := strings.Cut(r, ";")
			quoted := strconv.Quote(name)
			if hasParams {
				quoted += ";" + params
			}
			r = quoted
		}
		id, err := httpsig.ParseComponentIdentifier(r)
		if err != nil {
			return nil, fmt.Errorf("parsing component %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseStatus(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	status, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --status %q: %w", s, err)
	}
	return status, nil
}
