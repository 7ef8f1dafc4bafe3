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
	"time"

	"github.com/google/uuid"
	"github.com/sage-x-project/httpsig/core/sfv"
)

// recognizedMetadataParams is the closed set of signature-metadata
// parameter keys RFC 9421 §2.3 defines.
var recognizedMetadataParams = map[string]bool{
	"alg": true, "created": true, "expires": true,
	"keyid": true, "nonce": true, "tag": true,
}

// SignatureMetadata is an ordered covered-components list together with
// its parameter tail (spec.md §3).
type SignatureMetadata struct {
	components []ComponentIdentifier
	seen       map[string]bool
	Params     *sfv.Params
}

// NewSignatureMetadata returns an empty signature metadata value.
func NewSignatureMetadata() *SignatureMetadata {
	return &SignatureMetadata{
		seen:   make(map[string]bool),
		Params: sfv.NewParams(),
	}
}

// Append adds an identifier to the covered-components list. It fails if
// an equal identifier (per ComponentIdentifier.Equal) is already present.
func (m *SignatureMetadata) Append(id ComponentIdentifier) error {
	key := id.CanonicalKey()
	if m.seen[key] {
		return &ValidationError{Detail: "duplicate covered component: " + id.Name}
	}
	m.seen[key] = true
	m.components = append(m.components, id)
	return nil
}

// Components returns the covered-components list in order.
func (m *SignatureMetadata) Components() []ComponentIdentifier {
	return m.components
}

// Len returns the number of covered components.
func (m *SignatureMetadata) Len() int {
	return len(m.components)
}

func (m *SignatureMetadata) getString(key string) (string, bool) {
	v, ok := m.Params.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(sfv.String)
	return string(s), ok
}

func (m *SignatureMetadata) setString(key, value string) {
	m.Params.Set(key, sfv.String(value))
}

func (m *SignatureMetadata) getInt(key string) (int64, bool) {
	v, ok := m.Params.Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(sfv.Integer)
	return int64(i), ok
}

func (m *SignatureMetadata) setInt(key string, value int64) {
	m.Params.Set(key, sfv.Integer(value))
}

// Algorithm returns the "alg" parameter, if set.
func (m *SignatureMetadata) Algorithm() (string, bool) { return m.getString("alg") }

// SetAlgorithm sets the "alg" parameter.
func (m *SignatureMetadata) SetAlgorithm(alg string) { m.setString("alg", alg) }

// KeyID returns the "keyid" parameter, if set.
func (m *SignatureMetadata) KeyID() (string, bool) { return m.getString("keyid") }

// SetKeyID sets the "keyid" parameter.
func (m *SignatureMetadata) SetKeyID(keyID string) { m.setString("keyid", keyID) }

// Nonce returns the "nonce" parameter, if set.
func (m *SignatureMetadata) Nonce() (string, bool) { return m.getString("nonce") }

// SetNonce sets the "nonce" parameter.
func (m *SignatureMetadata) SetNonce(nonce string) { m.setString("nonce", nonce) }

// NewNonce generates and sets a fresh RFC 4122 nonce, for callers that
// don't want to manage nonce generation themselves.
func (m *SignatureMetadata) NewNonce() string {
	n := uuid.NewString()
	m.SetNonce(n)
	return n
}

// Tag returns the "tag" parameter, if set.
func (m *SignatureMetadata) Tag() (string, bool) { return m.getString("tag") }

// SetTag sets the "tag" parameter.
func (m *SignatureMetadata) SetTag(tag string) { m.setString("tag", tag) }

// Created returns the "created" parameter as a time.Time, if set.
func (m *SignatureMetadata) Created() (time.Time, bool) {
	sec, ok := m.getInt("created")
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

// SetCreated sets the "created" parameter from a time.Time, stored as Unix seconds.
func (m *SignatureMetadata) SetCreated(t time.Time) { m.setInt("created", t.Unix()) }

// Expires returns the "expires" parameter as a time.Time, if set.
func (m *SignatureMetadata) Expires() (time.Time, bool) {
	sec, ok := m.getInt("expires")
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

// SetExpires sets the "expires" parameter from a time.Time, stored as Unix seconds.
func (m *SignatureMetadata) SetExpires(t time.Time) { m.setInt("expires", t.Unix()) }

// innerList renders the covered-components list plus parameter tail as
// an sfv.InnerList, the shape used both on the wire and in the
// "@signature-params" base line.
func (m *SignatureMetadata) innerList() (sfv.InnerList, error) {
	items := make([]sfv.Item, len(m.components))
	for i, id := range m.components {
		items[i] = sfv.Item{Value: sfv.String(id.Name), Params: id.Params}
	}
	return sfv.InnerList{Items: items, Params: m.Params}, nil
}

// Serialize renders "(<id1> <id2> ...);<params>", the value used both as
// a Signature-Input dictionary member and as the @signature-params line.
func (m *SignatureMetadata) Serialize() (string, error) {
	il, err := m.innerList()
	if err != nil {
		return "", err
	}
	return sfv.SerializeMember(il)
}

// signatureMetadataFromInnerList validates and wraps a parsed InnerList as
// SignatureMetadata, rejecting duplicate or invalid covered components.
func signatureMetadataFromInnerList(il sfv.InnerList) (*SignatureMetadata, error) {
	m := NewSignatureMetadata()
	if il.Params != nil {
		for _, k := range il.Params.Keys() {
			if !recognizedMetadataParams[k] {
				continue // unrecognized params are preserved but not exposed via typed accessors
			}
		}
		m.Params = il.Params
	}
	for _, item := range il.Items {
		name, ok := item.Value.(sfv.String)
		if !ok {
			return nil, &ValidationError{Detail: "covered component name must be an sf-string"}
		}
		id := NewComponentIdentifier(string(name), item.Params)
		if err := id.Validate(); err != nil {
			return nil, err
		}
		if err := m.Append(id); err != nil {
			return nil, err
		}
	}
	return m, nil
}
