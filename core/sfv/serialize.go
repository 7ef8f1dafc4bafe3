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

package sfv

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SerializeItem renders an Item in strict RFC 8941 form.
func SerializeItem(item Item) (string, error) {
	var b strings.Builder
	if err := writeBareItem(&b, item.Value); err != nil {
		return "", err
	}
	if err := writeParameters(&b, item.Params); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SerializeList renders a List in strict RFC 8941 form.
func SerializeList(list List) (string, error) {
	var b strings.Builder
	for i, m := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writeMember(&b, m); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// SerializeDictionary renders a Dictionary in strict RFC 8941 form.
func SerializeDictionary(d *Dictionary) (string, error) {
	var b strings.Builder
	for i, key := range d.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(key)
		member, _ := d.Get(key)
		if item, ok := member.(Item); ok {
			if bo, ok := item.Value.(Boolean); ok && bool(bo) {
				if err := writeParameters(&b, item.Params); err != nil {
					return "", err
				}
				continue
			}
		}
		b.WriteByte('=')
		if err := writeMember(&b, member); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// SerializeMember renders a single Member (Item or InnerList) in strict form.
func SerializeMember(m Member) (string, error) {
	var b strings.Builder
	if err := writeMember(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeMember(b *strings.Builder, m Member) error {
	switch v := m.(type) {
	case Item:
		if err := writeBareItem(b, v.Value); err != nil {
			return err
		}
		return writeParameters(b, v.Params)
	case InnerList:
		return writeInnerList(b, v)
	default:
		return fmt.Errorf("sfv: unknown member type %T", m)
	}
}

func writeInnerList(b *strings.Builder, il InnerList) error {
	b.WriteByte('(')
	for i, it := range il.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		if err := writeBareItem(b, it.Value); err != nil {
			return err
		}
		if err := writeParameters(b, it.Params); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return writeParameters(b, il.Params)
}

func writeParameters(b *strings.Builder, p *Params) error {
	for _, key := range p.Keys() {
		b.WriteByte(';')
		b.WriteString(key)
		v, _ := p.Get(key)
		if bo, ok := v.(Boolean); ok && bool(bo) {
			continue
		}
		b.WriteByte('=')
		if err := writeBareItem(b, v); err != nil {
			return err
		}
	}
	return nil
}

func writeBareItem(b *strings.Builder, v BareItem) error {
	switch t := v.(type) {
	case Integer:
		n := int64(t)
		if n > 999999999999999 || n < -999999999999999 {
			return fmt.Errorf("sfv: integer %d out of range", n)
		}
		b.WriteString(strconv.FormatInt(n, 10))
	case Decimal:
		return writeDecimal(b, float64(t))
	case String:
		return writeString(b, string(t))
	case Token:
		if len(t) == 0 {
			return fmt.Errorf("sfv: empty token")
		}
		b.WriteString(string(t))
	case ByteSequence:
		b.WriteByte(':')
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(t)))
		b.WriteByte(':')
	case Boolean:
		if t {
			b.WriteString("?1")
		} else {
			b.WriteString("?0")
		}
	default:
		return fmt.Errorf("sfv: unknown bare item type %T", v)
	}
	return nil
}

func writeString(b *strings.Builder, s string) error {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || c > 0x7e {
			return fmt.Errorf("sfv: string contains non sf-string character %q", c)
		}
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return nil
}

// writeDecimal renders a decimal rounded to at most 3 fractional digits,
// with at least one fractional digit, per RFC 8941 §4.1.5.
func writeDecimal(b *strings.Builder, f float64) error {
	rounded := math.Round(f*1000) / 1000
	intPart := math.Trunc(rounded)
	if math.Abs(intPart) >= 1e12 {
		return fmt.Errorf("sfv: decimal integer component too large")
	}
	s := strconv.FormatFloat(rounded, 'f', 3, 64)
	// Trim trailing zeros in the fractional part, but keep at least one digit.
	dot := strings.IndexByte(s, '.')
	end := len(s)
	for end > dot+2 && s[end-1] == '0' {
		end--
	}
	b.WriteString(s[:end])
	return nil
}
