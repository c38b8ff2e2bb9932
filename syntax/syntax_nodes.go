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
	"iter"
	"strings"
)

// An Element is one node of a schema document. Leaf elements carry text,
// container elements carry child elements. Both may be present for
// mixed content, in which case Text() returns the concatenated character
// data of the element and all its descendants.
type Element struct {
	name     string
	tag      Tag
	text     string
	children []*Element
}

// NewElement builds an element in memory, mostly for tests and for
// callers that assemble schemas without going through XML.
func NewElement(name string, children ...*Element) *Element {
	return &Element{
		name:     name,
		tag:      LookupTag(name),
		children: children,
	}
}

// NewLeaf builds an element holding only text.
func NewLeaf(name, text string) *Element {
	return &Element{
		name: name,
		tag:  LookupTag(name),
		text: text,
	}
}

func (el *Element) Name() string {
	return el.name
}

func (el *Element) Tag() Tag {
	return el.tag
}

func (el *Element) Text() string {
	if len(el.children) == 0 {
		return el.text
	}
	var buf strings.Builder
	buf.WriteString(el.text)
	for _, child := range el.children {
		buf.WriteString(child.Text())
	}
	return buf.String()
}

// TrimmedText returns Text() with surrounding whitespace removed.
func (el *Element) TrimmedText() string {
	return strings.TrimSpace(el.Text())
}

func (el *Element) Children() []*Element {
	return el.children
}

func (el *Element) ChildElements() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for _, child := range el.children {
			if !yield(child) {
				return
			}
		}
	}
}

// Child returns the first child with the given tag.
func (el *Element) Child(tag Tag) *Element {
	for _, child := range el.children {
		if child.tag == tag {
			return child
		}
	}
	return nil
}

// Flag reports whether the first child with the given tag holds the text
// "true" (case-insensitive). A missing child is false.
func (el *Element) Flag(tag Tag) bool {
	child := el.Child(tag)
	if child == nil {
		return false
	}
	return strings.EqualFold(child.TrimmedText(), "true")
}
