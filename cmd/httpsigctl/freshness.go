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
)

// checkFreshness validates meta's "created"/"expires" parameters against
// now, allowing up to skew of clock drift on either side. A signature
// with neither parameter set always passes. Accepting a signature's
// timestamps is caller policy, not something core/httpsig enforces —
// this lives in the CLI, the only thing in this repo that applies it.
func checkFreshness(meta *httpsig.SignatureMetadata, now time.Time, skew time.Duration) error {
	if created, ok := meta.Created(); ok && created.After(now.Add(skew)) {
		return fmt.Errorf("signature created in the future")
	}
	if expires, ok := meta.Expires(); ok && expires.Before(now.Add(-skew)) {
		return fmt.Errorf("signature has expired")
	}
	return nil
}
