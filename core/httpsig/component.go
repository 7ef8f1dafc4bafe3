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

import (
	"sort"
	"strings"

	"github.com/sage-x-project/httpsig/core/sfv"
)

// registeredDerivedNames is the closed set of derived component names RFC
// 9421 §2.2 defines. "@signature-params" is deliberately excluded: it
// names the params line itself and may never appear as a covered component.
var registeredDerivedNames = map[string]bool{
	"@method":      true,
	"@target-uri":  true,
	"@authority":   true,
	"@scheme":      true,
	"@request-target": true,
	"@path":        true,
	"@query":       true,
	"@query-param": true,
	"@status":      true,
}

// SignatureParamsName is the literal component name used for the
// params line; it must never appear in a covered-components list.
const SignatureParamsName = "@signature-params"

// ComponentIdentifier is a component name paired with an ordered
// parameter set. Two identifiers are equal iff their names match and
// their parameter sets are equal as unordered multisets (RFC 9421 §2).
type ComponentIdentifier struct {
	Name   string
	Params *sfv.Params
}

// NewComponentIdentifier constructs an identifier from already-vetted
// typed values; no validation is performed (spec.md §4.2).
func NewComponentIdentifier(name string, params *sfv.Params) ComponentIdentifier {
	if params == nil {
		params = sfv.NewParams()
	}
	return ComponentIdentifier{Name: name, Params: params}
}

// ParseComponentIdentifier parses one component identifier as it appears
// inside a Signature-Input inner list — a quoted sf-string component
// name plus its `;key[=value]` parameters — and validates it per RFC
// 9421 §2's rules.
func ParseComponentIdentifier(raw string) (ComponentIdentifier, error) {
	item, err := sfv.ParseItem(raw)
	if err != nil {
		return ComponentIdentifier{}, &ValidationError{Detail: "malformed component identifier: " + err.Error()}
	}
	nameVal, ok := item.Value.(sfv.String)
	if !ok {
		return ComponentIdentifier{}, &ValidationError{Detail: "component name must be an sf-string"}
	}
	id := ComponentIdentifier{Name: string(nameVal), Params: item.Params}
	if err := id.Validate(); err != nil {
		return ComponentIdentifier{}, err
	}
	return id, nil
}

// IsDerived reports whether the identifier names a derived component
// (its name begins with "@").
func (c ComponentIdentifier) IsDerived() bool {
	return strings.HasPrefix(c.Name, "@")
}

// Validate checks the invariants of spec.md §3(i)-(iv) and §3's prohibition
// on "@signature-params" as a covered component.
func (c ComponentIdentifier) Validate() error {
	if c.Name == SignatureParamsName {
		return &ValidationError{Detail: `"@signature-params" must never appear as a covered component`}
	}
	if c.IsDerived() {
		if !registeredDerivedNames[c.Name] {
			return &ValidationError{Detail: "unregistered derived component: " + c.Name}
		}
		if c.Name == "@query-param" {
			if _, ok := c.Params.Get("name"); !ok {
				return &ValidationError{Detail: `"@query-param" requires a "name" parameter`}
			}
		}
		return nil
	}
	for _, r := range c.Name {
		if r >= 'A' && r <= 'Z' {
			return &ValidationError{Detail: "component name contains uppercase: " + c.Name}
		}
	}
	_, hasBS := c.Params.Get("bs")
	_, hasSF := c.Params.Get("sf")
	_, hasKey := c.Params.Get("key")
	if hasBS && (hasSF || hasKey) {
		return &ValidationError{Detail: `"bs" is incompatible with "sf" or "key"`}
	}
	return nil
}

// Serialize renders the identifier as it appears in a Signature-Input
// inner list: the quoted name followed by its parameters.
func (c ComponentIdentifier) Serialize() (string, error) {
	return sfv.SerializeItem(sfv.Item{Value: sfv.String(c.Name), Params: c.Params})
}

// Equal implements the RFC 9421 §2 equality rule: same name, same
// unordered multiset of parameters. Serialization order is irrelevant.
func (c ComponentIdentifier) Equal(other ComponentIdentifier) bool {
	if c.Name != other.Name {
		return false
	}
	return c.canonicalParamKey() == other.canonicalParamKey()
}

// canonicalParamKey renders the parameter set sorted by key, so that two
// identifiers differing only in parameter order produce the same key —
// used both for Equal and as a Go map key, satisfying "equal identifiers
// hash equally" (spec.md §4.2).
func (c ComponentIdentifier) canonicalParamKey() string {
	keys := append([]string(nil), c.Params.Keys()...)
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		v, _ := c.Params.Get(k)
		b.WriteByte(';')
		b.WriteString(k)
		b.WriteByte('=')
		s, _ := sfv.SerializeItem(sfv.Item{Value: v, Params: sfv.NewParams()})
		b.WriteString(s)
	}
	return b.String()
}

// CanonicalKey returns a string suitable as a map key so that equal
// identifiers (per Equal) collide identically regardless of parameter order.
func (c ComponentIdentifier) CanonicalKey() string {
	return c.Name + c.canonicalParamKey()
}
