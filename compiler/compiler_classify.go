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
	"fmt"
)

type TypeClass uint8

const (
	CLASS_UNKNOWN TypeClass = iota
	CLASS_INTEGER
	CLASS_FLOAT
	CLASS_STRING
	CLASS_BUFFER
	CLASS_VECTOR
	CLASS_VARIANT
	CLASS_MAP
	CLASS_BOOL
)

var classNames = [...]string{
	CLASS_UNKNOWN: "unknown",
	CLASS_INTEGER: "integer",
	CLASS_FLOAT:   "float",
	CLASS_STRING:  "string",
	CLASS_BUFFER:  "buffer",
	CLASS_VECTOR:  "vector",
	CLASS_VARIANT: "variant",
	CLASS_MAP:     "map",
	CLASS_BOOL:    "bool",
}

func (c TypeClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("TypeClass(%d)", c)
}

// bulkCopyMinLeaves is the number of scalar leaves a structure must exceed
// before copying it as one block is worthwhile.
const bulkCopyMinLeaves = 4

// forward follows simple typedefs to the first type that is not one.
func (dt *DataType) forward() *DataType {
	for dt.variant == VARIANT_TYPEDEF && dt.baseType != nil {
		dt = dt.baseType
	}
	return dt
}

func (dt *DataType) Class() TypeClass {
	dt = dt.forward()
	switch dt.variant {
	case VARIANT_BUILTIN:
		return dt.class
	case VARIANT_VECTOR:
		return CLASS_VECTOR
	case VARIANT_VARIANT:
		return CLASS_VARIANT
	case VARIANT_MAP:
		return CLASS_MAP
	}
	return CLASS_UNKNOWN
}

// IsComplex is true for types whose values are not plain scalars.
func (dt *DataType) IsComplex() bool {
	dt = dt.forward()
	switch dt.variant {
	case VARIANT_STRUCTURE, VARIANT_VECTOR, VARIANT_VARIANT, VARIANT_MAP:
		return true
	case VARIANT_BUILTIN:
		return dt.class == CLASS_STRING || dt.class == CLASS_BUFFER
	}
	return false
}

// HasOwnedHeapData is true if values of the type need cleanup: the type is
// a complex non-aggregate, or an aggregate with such a field somewhere
// below it.
func (dt *DataType) HasOwnedHeapData() bool {
	return dt.hasOwnedHeapData(make(map[*DataType]bool))
}

func (dt *DataType) hasOwnedHeapData(visited map[*DataType]bool) bool {
	dt = dt.forward()
	switch dt.variant {
	case VARIANT_STRUCTURE, VARIANT_VARIANT:
		if visited[dt] {
			return false
		}
		visited[dt] = true
		for _, field := range dt.fields {
			if field.dataType != nil && field.dataType.hasOwnedHeapData(visited) {
				return true
			}
		}
		return false
	}
	return dt.IsComplex()
}

// EligibleForBulkCopy is true for a structure made only of booleans,
// floats and integers narrower than 64 bits, with more than
// bulkCopyMinLeaves scalars in total.
func (dt *DataType) EligibleForBulkCopy() bool {
	dt = dt.forward()
	if dt.variant != VARIANT_STRUCTURE {
		return false
	}
	leaves := 0
	if !dt.bulkCopyLeaves(&leaves, make(map[*DataType]bool)) {
		return false
	}
	return leaves > bulkCopyMinLeaves
}

func (dt *DataType) bulkCopyLeaves(leaves *int, visiting map[*DataType]bool) bool {
	dt = dt.forward()
	if dt.variant == VARIANT_STRUCTURE {
		if visiting[dt] {
			return false
		}
		visiting[dt] = true
		defer delete(visiting, dt)
		for _, field := range dt.fields {
			if field.dataType == nil || !field.dataType.bulkCopyLeaves(leaves, visiting) {
				return false
			}
		}
		return true
	}

	*leaves++
	switch dt.Class() {
	case CLASS_BOOL, CLASS_FLOAT:
		return true
	case CLASS_INTEGER:
		return dt.builtin.Bits < 64
	}
	return false
}

// StructurallyEquivalent reports whether a and b describe the same value
// shape. Simple typedefs compare as their base type; vectors compare their
// element types; variants and maps compare their fields pairwise; all other
// types compare by declared name.
func StructurallyEquivalent(a, b *DataType) bool {
	return structurallyEquivalent(a, b, make(map[[2]*DataType]bool))
}

func structurallyEquivalent(a, b *DataType, seen map[[2]*DataType]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.variant == VARIANT_TYPEDEF && a.baseType != nil {
		return structurallyEquivalent(a.baseType, b, seen)
	}
	if b.variant == VARIANT_TYPEDEF && b.baseType != nil {
		return structurallyEquivalent(a, b.baseType, seen)
	}

	class := a.Class()
	if class != b.Class() {
		return false
	}

	pair := [2]*DataType{a, b}
	if seen[pair] {
		return true
	}
	seen[pair] = true

	switch class {
	case CLASS_VECTOR:
		return structurallyEquivalent(a.baseType, b.baseType, seen)
	case CLASS_VARIANT, CLASS_MAP:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for ii, field := range a.fields {
			if !structurallyEquivalent(field.dataType, b.fields[ii].dataType, seen) {
				return false
			}
		}
		return true
	}
	return a.name == b.name
}

// ScriptClass is the script-binding class of the type: Number, Boolean,
// String or Object.
func (dt *DataType) ScriptClass() string {
	fwd := dt.forward()
	if fwd.builtin != nil {
		return fwd.builtin.Script
	}
	if fwd.variant == VARIANT_ENUM {
		return "Number"
	}
	return "Object"
}

// IsMapKey is true if the type is the key of a map declared in the same
// interface.
func (dt *DataType) IsMapKey() bool {
	if dt.iface == nil {
		return false
	}
	for _, other := range dt.iface.dataTypes {
		if other.variant == VARIANT_MAP && len(other.fields) > 0 && other.fields[0].dataType == dt {
			return true
		}
	}
	return false
}

// IsPartialUpdate is true for a vector type used by an attribute with
// Partial notification.
func (dt *DataType) IsPartialUpdate() (bool, error) {
	if dt.iface == nil || dt.Class() != CLASS_VECTOR {
		return false, nil
	}
	for _, attr := range dt.iface.attributes {
		if attr.dataType != dt {
			continue
		}
		policy, err := attr.Notify()
		if err != nil {
			return false, err
		}
		if policy == NOTIFY_PARTIAL {
			return true, nil
		}
	}
	return false, nil
}
