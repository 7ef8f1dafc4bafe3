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
	"strings"

	"github.com/sage-x-project/httpsig/core/sfv"
)

// fieldPoolsFor returns the header/trailer pools a normal component
// identifier consults, selecting the request pools when the "req"
// modifier is present and the target pools otherwise (spec.md §4.6).
func fieldPoolsFor(ctx *MessageContext, id ComponentIdentifier) (headers, trailers *FieldPool) {
	if _, req := id.Params.Get("req"); req {
		return ctx.RequestHeaders, ctx.RequestTrailers
	}
	return ctx.TargetHeaders, ctx.TargetTrailers
}

// resolveNormalComponent computes the value of a normal (field) component
// identifier against ctx, per spec.md §4.6. A field absent from the
// selected pool resolves to the empty string with ok true, unless "key"
// is set, which makes the absence an error; ok is false when a "key"
// member is missing from a present field.
func resolveNormalComponent(ctx *MessageContext, id ComponentIdentifier) (value string, ok bool, err error) {
	headers, trailers := fieldPoolsFor(ctx, id)
	_, wantTrailer := id.Params.Get("tr")

	pool := headers
	if wantTrailer {
		pool = trailers
	}
	values, found := pool.Get(id.Name)
	if !found || len(values) == 0 {
		if _, hasKey := id.Params.Get("key"); hasKey {
			return "", false, fmt.Errorf("field absent; \"key\" lookup requires a present field")
		}
		return "", true, nil
	}
	values = canonicalizeFieldValues(values)

	if bsName, hasBS := id.Params.Get("bs"); hasBS {
		_ = bsName
		return serializeByteSequenceList(values), true, nil
	}

	if keyVal, hasKey := id.Params.Get("key"); hasKey {
		return resolveDictionaryKey(ctx, id, values, keyVal)
	}

	if _, hasSF := id.Params.Get("sf"); hasSF {
		return resolveStructuredField(ctx, id, values)
	}

	return joinFieldValues(values), true, nil
}

// canonicalizeFieldValues applies spec.md §4.6 step 3 to every raw field
// value before any modifier (bs/sf/key) or the plain-join fallback runs:
// unfold obsolete line-folding, then trim leading/trailing optional
// whitespace.
func canonicalizeFieldValues(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(unfoldObsLine(v))
	}
	return out
}

// joinFieldValues implements the default combination rule of RFC 9421
// §2.1: join the already-canonicalized values with ", ".
func joinFieldValues(values []string) string {
	return strings.Join(values, ", ")
}

// unfoldObsLine replaces HTTP/1.1 obsolete line folding (CRLF followed by
// whitespace) with a single space, per RFC 9421 §2.1.
func unfoldObsLine(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	var b strings.Builder
	lines := strings.Split(v, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimLeft(line, " \t"))
	}
	return b.String()
}

// serializeByteSequenceList implements the "bs" modifier: combine raw
// field values with ", " after wrapping each as an sf-binary
// (base64-encoded, colon-delimited) item (RFC 9421 §2.1).
func serializeByteSequenceList(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		s, _ := sfv.SerializeItem(sfv.Item{Value: sfv.ByteSequence(v), Params: sfv.NewParams()})
		out[i] = s
	}
	return strings.Join(out, ", ")
}

// resolveStructuredField implements the "sf" modifier: parse the
// combined field value per its structured type and re-serialize in
// strict form, per RFC 9421 §2.1.
func resolveStructuredField(ctx *MessageContext, id ComponentIdentifier, values []string) (string, bool, error) {
	combined := strings.Join(values, ", ")
	structType, known := ctx.structuredTypeOf(id.Name)
	if !known {
		return "", false, &ValidationError{Detail: "field " + id.Name + " has no known structured type for \"sf\""}
	}
	switch structType {
	case StructuredTypeList:
		list, err := sfv.ParseList(combined)
		if err != nil {
			return "", false, &ValidationError{Detail: "field " + id.Name + " is not a valid structured list: " + err.Error()}
		}
		s, err := sfv.SerializeList(list)
		return s, true, err
	case StructuredTypeDictionary:
		dict, err := sfv.ParseDictionary(combined)
		if err != nil {
			return "", false, &ValidationError{Detail: "field " + id.Name + " is not a valid structured dictionary: " + err.Error()}
		}
		s, err := sfv.SerializeDictionary(dict)
		return s, true, err
	default:
		item, err := sfv.ParseItem(combined)
		if err != nil {
			return "", false, &ValidationError{Detail: "field " + id.Name + " is not a valid structured item: " + err.Error()}
		}
		s, err := sfv.SerializeItem(item)
		return s, true, err
	}
}

// resolveDictionaryKey implements the "key" modifier: parse the combined
// field value as an sf-dictionary and return the serialized form of the
// single named member (RFC 9421 §2.1). Absence of the key is "not found",
// not an error.
func resolveDictionaryKey(ctx *MessageContext, id ComponentIdentifier, values []string, keyVal sfv.BareItem) (string, bool, error) {
	keyStr, ok := keyVal.(sfv.String)
	if !ok {
		return "", false, &ValidationError{Detail: `"key" parameter must be an sf-string`}
	}
	combined := strings.Join(values, ", ")
	dict, err := sfv.ParseDictionary(combined)
	if err != nil {
		return "", false, &ValidationError{Detail: "field " + id.Name + " is not a valid structured dictionary: " + err.Error()}
	}
	member, found := dict.Get(string(keyStr))
	if !found {
		return "", false, nil
	}
	s, err := sfv.SerializeMember(member)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
