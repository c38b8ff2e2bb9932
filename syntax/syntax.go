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

package syntax

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"aqwari.net/xml/xmltree"
)

const maxSrcLen = 0x7FFFFFFF // (2**31)-1

// Parse reads a schema document and returns its root element.
func Parse(src []byte) (*Element, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, errEmptyDocument()
	}
	root, err := xmltree.Parse(src)
	if err != nil {
		return nil, errMalformedDocument(err)
	}
	return convertElement(root)
}

func convertElement(el *xmltree.Element) (*Element, error) {
	out := &Element{
		name: el.Name.Local,
		tag:  LookupTag(el.Name.Local),
	}
	if len(el.Children) == 0 {
		text, err := decodeCharData(el.Content)
		if err != nil {
			return nil, errMalformedContent(out.name, err)
		}
		out.text = text
		return out, nil
	}
	out.children = make([]*Element, 0, len(el.Children))
	for ii := range el.Children {
		child, err := convertElement(&el.Children[ii])
		if err != nil {
			return nil, err
		}
		out.children = append(out.children, child)
	}
	return out, nil
}

// xmltree keeps element content as raw bytes, so entity references and
// CDATA sections are still encoded.
func decodeCharData(content []byte) (string, error) {
	if bytes.IndexAny(content, "&<") == -1 {
		return string(content), nil
	}
	dec := xml.NewDecoder(bytes.NewReader(content))
	var buf strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return buf.String(), nil
		}
		if err != nil {
			return "", err
		}
		if data, ok := tok.(xml.CharData); ok {
			buf.Write(data)
		}
	}
}
