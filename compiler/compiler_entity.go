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
	"cmp"
	"maps"
	"strconv"
	"unicode"
	"unicode/utf8"

	"go.dsigen.org/dsigen/syntax"
)

const descriptionMissing = "DESCRIPTION MISSING"

// Entity holds the attributes shared by every named schema declaration.
type Entity struct {
	name           string
	id             int
	description    string
	hint           string
	nameSet        bool
	idSet          bool
	descriptionSet bool
	deprecated     bool
}

func newEntity(name string) Entity {
	return Entity{name: name, id: -1}
}

func (e *Entity) Name() string {
	return e.name
}

// ID is the declared numeric ID, or -1 if none was declared.
func (e *Entity) ID() int {
	return e.id
}

// Description returns the declared description with the deprecation hint
// appended.
func (e *Entity) Description() string {
	desc := e.description
	if !e.descriptionSet || desc == "" {
		desc = descriptionMissing
	}
	if e.deprecated {
		desc += "\r\rDEPRECATED: " + e.hint
	}
	return desc
}

func (e *Entity) HasDescription() bool {
	return e.descriptionSet && e.description != ""
}

func (e *Entity) Deprecated() bool {
	return e.deprecated
}

func (e *Entity) Hint() string {
	return e.hint
}

// CapitalName is the name with its first letter in upper case.
func (e *Entity) CapitalName() string {
	return capitalize(e.name)
}

func compareByID(a, b *Entity) int {
	return cmp.Compare(a.id, b.id)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

type elementHandlers map[syntax.Tag]func(el *syntax.Element) error

func ignoreElement(*syntax.Element) error { return nil }

// reader populates one ServiceInterface from one schema document. Merging
// a base interface uses a second reader on the same ServiceInterface.
type reader struct {
	si       *ServiceInterface
	file     string
	fromBase bool
}

// readChildren dispatches each child of parent to the handler for its tag.
// Children without a handler produce a warning.
func (r *reader) readChildren(parent *syntax.Element, handlers elementHandlers) error {
	for _, child := range parent.Children() {
		handler, ok := handlers[child.Tag()]
		if !ok {
			r.si.session.warn(warnUnknownElement(parent.Name(), child.Name(), r.file))
			continue
		}
		if err := handler(child); err != nil {
			return err
		}
	}
	return nil
}

// readEntity is readChildren with the common entity tags handled first.
func (r *reader) readEntity(parent *syntax.Element, ent *Entity, handlers elementHandlers) error {
	all := maps.Clone(handlers)
	if all == nil {
		all = make(elementHandlers)
	}
	all[syntax.TAG_NAME] = func(el *syntax.Element) error {
		if !ent.nameSet {
			ent.name = el.TrimmedText()
			ent.nameSet = true
		}
		return nil
	}
	all[syntax.TAG_ID] = func(el *syntax.Element) error {
		if ent.idSet {
			return nil
		}
		id, err := r.parseInt(parent, el)
		if err != nil {
			return err
		}
		ent.id = id
		ent.idSet = true
		return nil
	}
	all[syntax.TAG_DESCRIPTION] = func(el *syntax.Element) error {
		if !ent.descriptionSet {
			ent.description = el.Text()
			ent.descriptionSet = true
		}
		return nil
	}
	all[syntax.TAG_DEPRECATED] = func(*syntax.Element) error {
		ent.deprecated = true
		return nil
	}
	all[syntax.TAG_HINT] = func(el *syntax.Element) error {
		ent.hint = el.Text()
		return nil
	}
	return r.readChildren(parent, all)
}

func (r *reader) parseInt(parent, el *syntax.Element) (int, error) {
	v, err := strconv.Atoi(el.TrimmedText())
	if err != nil {
		return 0, errInvalidInteger(parent, el, r.file)
	}
	return v, nil
}
