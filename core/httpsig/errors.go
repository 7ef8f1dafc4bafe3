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

package httpsig

import "fmt"

// ArgumentError reports malformed or disallowed input supplied directly by
// the caller — a bad URI, an out-of-range status, a parameter value of a
// disallowed type. Raised at construction or setter time.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("httpsig: argument error: %s: %s", e.Field, e.Reason)
}

// ValidationError reports a wire value that fails RFC 9421's structural
// rules — an unregistered derived component, an uppercase field name, an
// incompatible parameter combination, a duplicate covered identifier.
// Raised while parsing Signature-Input or constructing identifiers from it.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("httpsig: validation error: %s", e.Detail)
}

// BaseConstructionError reports a failure encountered while the builder
// resolves a covered component's value: an unavailable derived value, a
// missing `key` member, or an `sf` field whose structured type is unknown
// or fails to parse.
type BaseConstructionError struct {
	Component string
	Reason    string
}

func (e *BaseConstructionError) Error() string {
	return fmt.Sprintf("httpsig: cannot resolve component %s: %s", e.Component, e.Reason)
}

// CryptoError wraps a failure surfaced by the Signer/Verifier boundary:
// an algorithm mismatch, an invalid key, or a rejected signature.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("httpsig: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}
