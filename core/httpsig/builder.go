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

import "strings"

// BuildSignatureBase renders the signature base for ctx and metadata: one
// "<component-identifier>: <value>" line per covered component, in order,
// LF-joined, followed by the "@signature-params" trailer line with no
// trailing newline (spec.md §4.7, RFC 9421 §2.5).
func BuildSignatureBase(ctx *MessageContext, meta *SignatureMetadata) (string, error) {
	if meta.Len() == 0 {
		return "", &ValidationError{Detail: "signature metadata has no covered components"}
	}
	var lines []string
	for _, id := range meta.Components() {
		idLine, err := id.Serialize()
		if err != nil {
			return "", err
		}
		value, ok, err := resolveComponent(ctx, id)
		if err != nil {
			return "", &BaseConstructionError{Component: id.Name, Reason: err.Error()}
		}
		if !ok {
			return "", &BaseConstructionError{Component: id.Name, Reason: "not present in message"}
		}
		lines = append(lines, idLine+": "+value)
	}
	paramsLine, err := meta.Serialize()
	if err != nil {
		return "", err
	}
	lines = append(lines, `"`+SignatureParamsName+`": `+paramsLine)
	return strings.Join(lines, "\n"), nil
}

// resolveComponent dispatches to the derived or normal component
// resolver depending on the identifier's name.
func resolveComponent(ctx *MessageContext, id ComponentIdentifier) (string, bool, error) {
	if id.IsDerived() {
		return resolveDerivedComponent(ctx, id)
	}
	return resolveNormalComponent(ctx, id)
}
