// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package compiler

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseLiteral parses an integer literal. Accepted forms are a single
// quoted character ('A'), hexadecimal with a 0x prefix, and decimal.
func ParseLiteral(text string) (int64, error) {
	if r, ok := charLiteral(text); ok {
		return int64(r), nil
	}
	if hex, ok := strings.CutPrefix(text, "0x"); ok {
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return 0, errInvalidLiteral(text)
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, errInvalidLiteral(text)
	}
	return v, nil
}

func charLiteral(text string) (rune, bool) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(text[1:])
	if r == utf8.RuneError || 1+size != len(text)-1 {
		return 0, false
	}
	return r, true
}

// evalEnumExpr evaluates the Value of an EnumID: a literal, a bare EnumID
// name, or several of these joined with '|' and OR-ed together.
func (si *ServiceInterface) evalEnumExpr(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if v, err := ParseLiteral(text); err == nil {
		return v, nil
	}
	if !strings.Contains(text, "|") {
		return si.evalEnumTerm(text)
	}
	var out int64
	for _, part := range strings.Split(text, "|") {
		v, err := si.evalEnumTerm(strings.TrimSpace(part))
		if err != nil {
			return 0, err
		}
		out |= v
	}
	return out, nil
}

func (si *ServiceInterface) evalEnumTerm(text string) (int64, error) {
	v, err := ParseLiteral(text)
	if err == nil {
		return v, nil
	}
	if !isIdentifier(text) {
		return 0, err
	}
	id := si.LookupEnumID(text)
	if id == nil {
		return 0, errUnknownEnumID(text)
	}
	return id.Value()
}

func isIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for i, c := range text {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
