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
	"net/url"
	"strings"
)

// StructuredType classifies an HTTP field's RFC 8941 top-level shape,
// for the `sf` modifier (spec.md §4.6).
type StructuredType int

const (
	StructuredTypeItem StructuredType = iota
	StructuredTypeList
	StructuredTypeDictionary
)

// builtinStructuredFieldTypes is the built-in table of IANA-registered
// structured fields consulted when a field isn't in the caller-provided
// FieldTypes map (spec.md §4.6 step 6).
var builtinStructuredFieldTypes = map[string]StructuredType{
	"accept-ch":                     StructuredTypeList,
	"cache-status":                  StructuredTypeList,
	"cdn-cache-control":             StructuredTypeDictionary,
	"client-cert":                   StructuredTypeItem,
	"client-cert-chain":             StructuredTypeList,
	"content-digest":                StructuredTypeDictionary,
	"cross-origin-embedder-policy":  StructuredTypeItem,
	"cross-origin-opener-policy":    StructuredTypeItem,
	"cross-origin-resource-policy":  StructuredTypeItem,
	"origin-agent-cluster":          StructuredTypeItem,
	"priority":                      StructuredTypeDictionary,
	"proxy-status":                  StructuredTypeList,
	"repr-digest":                   StructuredTypeDictionary,
	"signature":                     StructuredTypeDictionary,
	"signature-input":               StructuredTypeDictionary,
	"want-content-digest":           StructuredTypeDictionary,
	"want-repr-digest":              StructuredTypeDictionary,
}

// FieldPool is an insertion-ordered, case-insensitively keyed multi-map of
// HTTP field name to its raw values, matching spec.md §9's guidance to
// store both the original and a normalized key.
type FieldPool struct {
	order    []string
	original map[string]string
	values   map[string][]string
}

// NewFieldPool returns an empty field pool.
func NewFieldPool() *FieldPool {
	return &FieldPool{
		original: make(map[string]string),
		values:   make(map[string][]string),
	}
}

// Add appends one raw value under name, preserving multi-value order.
func (f *FieldPool) Add(name, value string) *FieldPool {
	key := strings.ToLower(name)
	if _, ok := f.values[key]; !ok {
		f.order = append(f.order, key)
		f.original[key] = name
	}
	f.values[key] = append(f.values[key], value)
	return f
}

// Get returns name's raw values (case-insensitive) and whether any exist.
func (f *FieldPool) Get(name string) ([]string, bool) {
	if f == nil {
		return nil, false
	}
	vals, ok := f.values[strings.ToLower(name)]
	return vals, ok
}

// MessageContext is the value bundle the signature-base builder and the
// component providers consult to resolve covered-component values
// (spec.md §3).
type MessageContext struct {
	Method        string
	RequestTarget string

	hasStatus bool
	status    int

	rawTargetURI string
	targetURI    *url.URL

	TargetHeaders   *FieldPool
	TargetTrailers  *FieldPool
	RequestHeaders  *FieldPool
	RequestTrailers *FieldPool

	FieldTypes map[string]StructuredType
}

// NewMessageContext constructs a context for a request with the given
// method and target URI (RFC 3986 syntax, spec.md §4.5).
func NewMessageContext(method, targetURI string) (*MessageContext, error) {
	u, err := url.Parse(targetURI)
	if err != nil {
		return nil, &ArgumentError{Field: "target-uri", Reason: err.Error()}
	}
	return &MessageContext{
		Method:          method,
		rawTargetURI:    targetURI,
		targetURI:       u,
		TargetHeaders:   NewFieldPool(),
		TargetTrailers:  NewFieldPool(),
		RequestHeaders:  NewFieldPool(),
		RequestTrailers: NewFieldPool(),
		FieldTypes:      make(map[string]StructuredType),
	}, nil
}

// WithRequestTarget sets the caller-supplied @request-target override.
func (c *MessageContext) WithRequestTarget(rt string) *MessageContext {
	c.RequestTarget = rt
	return c
}

// WithStatus sets the response status for @status. Status must be in
// [100, 999] (spec.md §4.5).
func (c *MessageContext) WithStatus(status int) (*MessageContext, error) {
	if status < 100 || status > 999 {
		return nil, &ArgumentError{Field: "status", Reason: "status must be in [100, 999]"}
	}
	c.status = status
	c.hasStatus = true
	return c, nil
}

// RegisterFieldType records a caller-supplied RFC 8941 structured-type
// classification for a field name, consulted before the built-in table.
func (c *MessageContext) RegisterFieldType(name string, t StructuredType) {
	c.FieldTypes[strings.ToLower(name)] = t
}

func (c *MessageContext) structuredTypeOf(name string) (StructuredType, bool) {
	key := strings.ToLower(name)
	if t, ok := c.FieldTypes[key]; ok {
		return t, true
	}
	t, ok := builtinStructuredFieldTypes[key]
	return t, ok
}
