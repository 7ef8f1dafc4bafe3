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
	"github.com/sage-x-project/httpsig/core/sfv"
)

// SignatureInput is the insertion-ordered label → SignatureMetadata
// mapping carried by the "Signature-Input" HTTP field.
type SignatureInput struct {
	labels  []string
	byLabel map[string]*SignatureMetadata
}

// NewSignatureInput returns an empty Signature-Input field value.
func NewSignatureInput() *SignatureInput {
	return &SignatureInput{byLabel: make(map[string]*SignatureMetadata)}
}

// Set inserts or overwrites label's metadata, preserving original position on overwrite.
func (s *SignatureInput) Set(label string, m *SignatureMetadata) {
	if _, ok := s.byLabel[label]; !ok {
		s.labels = append(s.labels, label)
	}
	s.byLabel[label] = m
}

// Get returns label's metadata and whether it was present.
func (s *SignatureInput) Get(label string) (*SignatureMetadata, bool) {
	m, ok := s.byLabel[label]
	return m, ok
}

// Labels returns labels in insertion order.
func (s *SignatureInput) Labels() []string {
	return s.labels
}

// Serialize renders the Signature-Input field value: a dictionary of
// labels to inner lists, members separated by ", ".
func (s *SignatureInput) Serialize() (string, error) {
	dict := sfv.NewDictionary()
	for _, label := range s.labels {
		il, err := s.byLabel[label].innerList()
		if err != nil {
			return "", err
		}
		dict.Set(label, il)
	}
	return sfv.SerializeDictionary(dict)
}

// ParseSignatureInput parses a "Signature-Input" field value: a
// dictionary whose member values must be inner lists, each element of
// which must parse as a valid ComponentIdentifier. A label with a
// duplicate covered identifier is a validation error.
func ParseSignatureInput(raw string) (*SignatureInput, error) {
	dict, err := sfv.ParseDictionary(raw)
	if err != nil {
		return nil, &ValidationError{Detail: "malformed Signature-Input: " + err.Error()}
	}
	result := NewSignatureInput()
	for _, label := range dict.Keys() {
		member, _ := dict.Get(label)
		il, ok := member.(sfv.InnerList)
		if !ok {
			return nil, &ValidationError{Detail: "Signature-Input member " + label + " must be an inner list"}
		}
		meta, err := signatureMetadataFromInnerList(il)
		if err != nil {
			return nil, err
		}
		result.Set(label, meta)
	}
	return result, nil
}

// Signature is the insertion-ordered label → raw signature bytes
// mapping carried by the "Signature" HTTP field.
type Signature struct {
	labels  []string
	byLabel map[string][]byte
}

// NewSignature returns an empty Signature field value.
func NewSignature() *Signature {
	return &Signature{byLabel: make(map[string][]byte)}
}

// Set inserts or overwrites label's signature bytes.
func (s *Signature) Set(label string, sig []byte) {
	if _, ok := s.byLabel[label]; !ok {
		s.labels = append(s.labels, label)
	}
	s.byLabel[label] = sig
}

// Get returns label's signature bytes and whether it was present.
func (s *Signature) Get(label string) ([]byte, bool) {
	b, ok := s.byLabel[label]
	return b, ok
}

// Labels returns labels in insertion order.
func (s *Signature) Labels() []string {
	return s.labels
}

// Serialize renders the Signature field value: a dictionary of labels to
// byte-sequence items, separated by ", ".
func (s *Signature) Serialize() (string, error) {
	dict := sfv.NewDictionary()
	for _, label := range s.labels {
		dict.Set(label, sfv.Item{Value: sfv.ByteSequence(s.byLabel[label]), Params: sfv.NewParams()})
	}
	return sfv.SerializeDictionary(dict)
}

// ParseSignature parses a "Signature" field value: a dictionary whose
// every member value must be a byte-sequence item.
func ParseSignature(raw string) (*Signature, error) {
	dict, err := sfv.ParseDictionary(raw)
	if err != nil {
		return nil, &ValidationError{Detail: "malformed Signature: " + err.Error()}
	}
	result := NewSignature()
	for _, label := range dict.Keys() {
		member, _ := dict.Get(label)
		item, ok := member.(sfv.Item)
		if !ok {
			return nil, &ValidationError{Detail: "Signature member " + label + " must be a byte sequence"}
		}
		bs, ok := item.Value.(sfv.ByteSequence)
		if !ok {
			return nil, &ValidationError{Detail: "Signature member " + label + " must be a byte sequence"}
		}
		result.Set(label, []byte(bs))
	}
	return result, nil
}
