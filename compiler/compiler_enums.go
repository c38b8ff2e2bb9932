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
	"slices"

	"go.dsigen.org/dsigen/syntax"
)

// An EnumType is an enumeration: a data type with an ordered list of IDs.
type EnumType struct {
	dataType *DataType
	ids      []*EnumID
}

func (et *EnumType) DataType() *DataType {
	return et.dataType
}

func (et *EnumType) Name() string {
	return et.dataType.name
}

func (et *EnumType) IDs() []*EnumID {
	return et.ids
}

// Lookup returns the ID named name, or nil.
func (et *EnumType) Lookup(name string) *EnumID {
	for _, id := range et.ids {
		if id.name == name {
			return id
		}
	}
	return nil
}

// An EnumID is one named value of an enumeration.
type EnumID struct {
	Entity
	iface   *ServiceInterface
	owner   *EnumType
	literal string
	prev    *EnumID

	state resolveState
	value int64
	err   error
}

func (id *EnumID) Enum() *EnumType {
	return id.owner
}

// Literal is the declared Value text, or "" if the value is implicit.
func (id *EnumID) Literal() string {
	return id.literal
}

func (id *EnumID) HasLiteral() bool {
	return id.literal != ""
}

// Value returns the integer value of the ID. Without a literal the value
// is one more than the previous ID in the same Enum declaration, or zero
// for the first. The result, or the failure, is computed once.
func (id *EnumID) Value() (int64, error) {
	switch id.state {
	case stateResolved:
		return id.value, id.err
	case stateResolving:
		return 0, errCyclicEnumValue(id.name)
	}
	id.state = stateResolving
	id.value, id.err = id.computeValue()
	id.state = stateResolved
	return id.value, id.err
}

func (id *EnumID) computeValue() (int64, error) {
	if id.literal != "" {
		return id.iface.evalEnumExpr(id.literal)
	}
	if id.prev == nil {
		return 0, nil
	}
	prev, err := id.prev.Value()
	if err != nil {
		return 0, errEnumPredecessor(id.name, id.prev.name)
	}
	return prev + 1, nil
}

func (r *reader) readEnums(el *syntax.Element) error {
	return r.readChildren(el, elementHandlers{
		syntax.TAG_ENUM: func(el *syntax.Element) error {
			et, err := r.readEnum(el)
			if err != nil {
				return err
			}
			r.si.addEnum(et, r.fromBase)
			return nil
		},
	})
}

func (r *reader) readEnum(el *syntax.Element) (*EnumType, error) {
	dt := &DataType{
		Entity:  newEntity(""),
		iface:   r.si,
		file:    r.file,
		variant: VARIANT_ENUM,
	}
	et := &EnumType{dataType: dt}
	dt.enum = et

	handlers := r.dataTypeHandlers(dt)
	handlers[syntax.TAG_ENUM_IDS] = func(el *syntax.Element) error {
		var prev *EnumID
		return r.readChildren(el, elementHandlers{
			syntax.TAG_ENUM_ID: func(el *syntax.Element) error {
				id, err := r.readEnumID(el)
				if err != nil {
					return err
				}
				id.owner = et
				id.prev = prev
				prev = id
				et.ids = append(et.ids, id)
				return nil
			},
		})
	}
	if err := r.readEntity(el, &dt.Entity, handlers); err != nil {
		return nil, err
	}
	dt.typeName = dt.name
	return et, nil
}

func (r *reader) readEnumID(el *syntax.Element) (*EnumID, error) {
	id := &EnumID{
		Entity: newEntity(""),
		iface:  r.si,
	}
	err := r.readEntity(el, &id.Entity, elementHandlers{
		syntax.TAG_VALUE: func(el *syntax.Element) error {
			id.literal = el.TrimmedText()
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// addEnum adds an enumeration to the interface. An enumeration of the same
// name is extended instead: IDs from a base interface go first, IDs from
// the interface itself go last.
func (si *ServiceInterface) addEnum(et *EnumType, fromBase bool) {
	existing := si.LookupEnum(et.Name())
	if existing == nil {
		si.enums = append(si.enums, et)
		si.dataTypes = append(si.dataTypes, et.dataType)
		return
	}
	for _, id := range et.ids {
		id.owner = existing
	}
	if fromBase {
		existing.ids = append(slices.Clone(et.ids), existing.ids...)
	} else {
		existing.ids = append(existing.ids, et.ids...)
	}
}

func (si *ServiceInterface) LookupEnum(name string) *EnumType {
	for _, et := range si.enums {
		if et.Name() == name {
			return et
		}
	}
	return nil
}

// LookupEnumID returns the first ID named name in any enumeration of the
// interface, or nil.
func (si *ServiceInterface) LookupEnumID(name string) *EnumID {
	for _, et := range si.enums {
		if id := et.Lookup(name); id != nil {
			return id
		}
	}
	return nil
}
