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

// BuiltinInfo describes how a builtin scalar is represented by emitters.
type BuiltinInfo struct {
	// Target is the type used in generated C++ code.
	Target string

	// Codec is the suffix of the serialization routine for the type.
	Codec string

	// Script is the script-binding class: Number, Boolean, String or Object.
	Script string

	// Bits is the width of numeric types, zero otherwise.
	Bits int
}

var builtinTypes = []*DataType{
	newBuiltin("Int64", CLASS_INTEGER, BuiltinInfo{"int64_t", "64", "Number", 64}),
	newBuiltin("UInt64", CLASS_INTEGER, BuiltinInfo{"uint64_t", "64", "Number", 64}),
	newBuiltin("Int32", CLASS_INTEGER, BuiltinInfo{"int32_t", "32", "Number", 32}),
	newBuiltin("UInt32", CLASS_INTEGER, BuiltinInfo{"uint32_t", "32", "Number", 32}),
	newBuiltin("Int16", CLASS_INTEGER, BuiltinInfo{"int16_t", "16", "Number", 16}),
	newBuiltin("UInt16", CLASS_INTEGER, BuiltinInfo{"uint16_t", "16", "Number", 16}),
	newBuiltin("Int8", CLASS_INTEGER, BuiltinInfo{"int8_t", "8", "Number", 8}),
	newBuiltin("UInt8", CLASS_INTEGER, BuiltinInfo{"uint8_t", "8", "Number", 8}),
	newBuiltin("Boolean", CLASS_BOOL, BuiltinInfo{"bool", "Boolean", "Boolean", 8}),
	newBuiltin("Float", CLASS_FLOAT, BuiltinInfo{"float", "Float", "Number", 32}),
	newBuiltin("Double", CLASS_FLOAT, BuiltinInfo{"double", "Double", "Number", 64}),
	newBuiltin("String", CLASS_STRING, BuiltinInfo{"char*", "String", "String", 0}),
	newBuiltin("Buffer", CLASS_BUFFER, BuiltinInfo{"DSIBuffer", "Buffer", "Object", 0}),
}

func newBuiltin(name string, class TypeClass, info BuiltinInfo) *DataType {
	return &DataType{
		Entity:   newEntity(name),
		variant:  VARIANT_BUILTIN,
		typeName: name,
		class:    class,
		builtin:  &info,
		state:    stateResolved,
	}
}

func lookupBuiltin(name string) *DataType {
	if name == "ByteStream" {
		name = "Buffer"
	}
	for _, dt := range builtinTypes {
		if dt.name == name {
			return dt
		}
	}
	return nil
}

// Builtins returns the builtin scalar types in table order.
func Builtins() []*DataType {
	return builtinTypes
}
