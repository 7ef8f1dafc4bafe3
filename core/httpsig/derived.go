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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sage-x-project/httpsig/core/sfv"
)

// defaultPorts maps a lowercase URI scheme to the port @authority omits
// when the URI carries it explicitly (spec.md §4.5).
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// resolveDerivedComponent computes the value of a derived component
// identifier against ctx, per spec.md §4.5. ok is false when the
// component is legitimately absent (e.g. @status on a request context).
func resolveDerivedComponent(ctx *MessageContext, id ComponentIdentifier) (value string, ok bool, err error) {
	switch id.Name {
	case "@method":
		if ctx.Method == "" {
			return "", false, nil
		}
		return strings.ToUpper(ctx.Method), true, nil

	case "@target-uri":
		return ctx.rawTargetURI, true, nil

	case "@authority":
		return derivedAuthority(ctx.targetURI), true, nil

	case "@scheme":
		return strings.ToLower(ctx.targetURI.Scheme), true, nil

	case "@path":
		p := ctx.targetURI.EscapedPath()
		if p == "" {
			p = "/"
		}
		return p, true, nil

	case "@query":
		return "?" + ctx.targetURI.RawQuery, true, nil

	case "@query-param":
		name, hasName := id.Params.Get("name")
		if !hasName {
			return "", false, &ValidationError{Detail: "@query-param requires a name parameter"}
		}
		nameVal, ok := name.(sfv.String)
		if !ok {
			return "", false, &ValidationError{Detail: "@query-param's name parameter must be an sf-string"}
		}
		v, found, err := resolveQueryParam(ctx.targetURI.RawQuery, string(nameVal))
		if err != nil {
			return "", false, &ValidationError{Detail: "invalid @query-param value: " + err.Error()}
		}
		if !found {
			return "", false, nil
		}
		return v, true, nil

	case "@request-target":
		if ctx.RequestTarget == "" {
			return "", false, nil
		}
		return ctx.RequestTarget, true, nil

	case "@status":
		if !ctx.hasStatus {
			return "", false, nil
		}
		return fmt.Sprintf("%03d", ctx.status), true, nil

	default:
		return "", false, &ValidationError{Detail: "unknown derived component: " + id.Name}
	}
}

// derivedAuthority renders "[userinfo@]lowercase-host[:port]", omitting
// the port when it equals the scheme's default (spec.md §4.5).
func derivedAuthority(u *url.URL) string {
	var b strings.Builder
	if u.User != nil {
		b.WriteString(u.User.Username())
		if pw, ok := u.User.Password(); ok {
			b.WriteByte(':')
			b.WriteString(pw)
		}
		b.WriteByte('@')
	}
	b.WriteString(strings.ToLower(u.Hostname()))
	port := u.Port()
	if port != "" && port != defaultPorts[strings.ToLower(u.Scheme)] {
		b.WriteByte(':')
		b.WriteString(port)
	}
	return b.String()
}

// resolveQueryParam extracts @query-param's value for name out of a raw
// query string: split on '&', split each pair on the first '=', keep the
// last occurrence matching name verbatim (no decoding of the name),
// percent-decode the value, fold literal '+' to space, then
// re-percent-encode using %20 for space (never '+') (spec.md §4.5).
func resolveQueryParam(rawQuery, name string) (string, bool, error) {
	if rawQuery == "" {
		return "", false, nil
	}
	var raw string
	var found bool
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k == name {
			raw = v
			found = true
		}
	}
	if !found {
		return "", false, nil
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", false, err
	}
	decoded = strings.ReplaceAll(decoded, "+", " ")
	return encodeQueryParamValue(decoded), true, nil
}

// encodeQueryParamValue percent-encodes everything outside the unreserved
// set (RFC 3986 §2.3), using uppercase hex and %20 for space.
func encodeQueryParamValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		hex := strings.ToUpper(strconv.FormatInt(int64(c), 16))
		if len(hex) == 1 {
			b.WriteByte('0')
		}
		b.WriteString(hex)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}
