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

package compiler_test

import (
	"testing"

	"go.dsigen.org/dsigen/compiler"
	"go.dsigen.org/dsigen/internal/testutil"
)

func structure(name string, fields ...string) string {
	out := "<DataType><Name>" + name + "</Name><Kind>Structure</Kind><Fields>"
	for ii := 0; ii+1 < len(fields); ii += 2 {
		out += "<Field><Name>" + fields[ii] + "</Name><Type>" + fields[ii+1] + "</Type></Field>"
	}
	return out + "</Fields></DataType>"
}

func container(name, kind string, fieldsOrBase ...string) string {
	out := "<DataType><Name>" + name + "</Name><Kind>Typedef</Kind><Container>" + kind + "</Container>"
	if kind == "Vector" {
		return out + "<BaseType>" + fieldsOrBase[0] + "</BaseType></DataType>"
	}
	out += "<Fields>"
	for ii := 0; ii+1 < len(fieldsOrBase); ii += 2 {
		out += "<Field><Name>" + fieldsOrBase[ii] + "</Name><Type>" + fieldsOrBase[ii+1] + "</Type></Field>"
	}
	return out + "</Fields></DataType>"
}

func typedef(name, base string) string {
	return "<DataType><Name>" + name + "</Name><Kind>Typedef</Kind><BaseType>" + base + "</BaseType></DataType>"
}

func TestClass(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(
			typedef("Count", "UInt16") +
				typedef("CountAlias", "Count") +
				typedef("Blob", "ByteStream") +
				container("Counts", "Vector", "Count") +
				container("Any", "Variant", "i", "Int32", "s", "String") +
				container("Index", "Map", "key", "Count", "value", "Int64") +
				structure("Pair", "a", "Int8", "b", "Int8"),
		),
	})
	tests := []struct {
		name  string
		class compiler.TypeClass
	}{
		{"Count", compiler.CLASS_INTEGER},
		{"CountAlias", compiler.CLASS_INTEGER},
		{"Blob", compiler.CLASS_BUFFER},
		{"Counts", compiler.CLASS_VECTOR},
		{"Any", compiler.CLASS_VARIANT},
		{"Index", compiler.CLASS_MAP},
		{"Pair", compiler.CLASS_UNKNOWN},
	}
	for _, test := range tests {
		testutil.ExpectEq(t, test.class, findType(t, si, test.name).Class())
	}

	alias := findType(t, si, "CountAlias")
	testutil.ExpectEq(t, "UInt16", alias.BaseTypeR().Name())
	testutil.ExpectEq(t, "c_CountAlias", alias.QualifiedName())
	testutil.ExpectEq(t, "Buffer", findType(t, si, "Blob").BaseType().Name())
	testutil.ExpectTrue(t, findType(t, si, "Count").IsMapKey())
	testutil.ExpectFalse(t, findType(t, si, "CountAlias").IsMapKey())

	builtins := map[string]compiler.TypeClass{
		"Int64":   compiler.CLASS_INTEGER,
		"UInt8":   compiler.CLASS_INTEGER,
		"Boolean": compiler.CLASS_BOOL,
		"Float":   compiler.CLASS_FLOAT,
		"Double":  compiler.CLASS_FLOAT,
		"String":  compiler.CLASS_STRING,
		"Buffer":  compiler.CLASS_BUFFER,
	}
	for name, class := range builtins {
		dt, err := si.ResolveDataType(name)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, class, dt.Class())
		testutil.ExpectTrue(t, dt.IsBuiltin())
	}
	testutil.ExpectEq(t, 13, len(compiler.Builtins()))
}

func TestIsComplex(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(
			typedef("Name", "String") +
				typedef("Id", "Int32") +
				container("Ids", "Vector", "Id") +
				structure("Empty"),
		),
	})
	testutil.ExpectTrue(t, findType(t, si, "Name").IsComplex())
	testutil.ExpectFalse(t, findType(t, si, "Id").IsComplex())
	testutil.ExpectTrue(t, findType(t, si, "Ids").IsComplex())
	testutil.ExpectTrue(t, findType(t, si, "Empty").IsComplex())
}

func TestHasOwnedHeapData(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(
			structure("Plain", "a", "Int32", "b", "Boolean") +
				structure("Named", "id", "Int32", "name", "String") +
				container("Plains", "Vector", "Plain") +
				structure("Outer", "inner", "Inner") +
				structure("Inner", "list", "Plains") +
				container("Scalar", "Variant", "i", "Int32", "f", "Float") +
				container("Textual", "Variant", "i", "Int32", "s", "String") +
				typedef("PlainAlias", "Plain") +
				structure("Node", "next", "Node", "value", "Int32"),
		),
	})
	testutil.ExpectFalse(t, findType(t, si, "Plain").HasOwnedHeapData())
	testutil.ExpectTrue(t, findType(t, si, "Named").HasOwnedHeapData())
	testutil.ExpectTrue(t, findType(t, si, "Plains").HasOwnedHeapData())
	testutil.ExpectTrue(t, findType(t, si, "Outer").HasOwnedHeapData())
	testutil.ExpectFalse(t, findType(t, si, "Scalar").HasOwnedHeapData())
	testutil.ExpectTrue(t, findType(t, si, "Textual").HasOwnedHeapData())
	testutil.ExpectFalse(t, findType(t, si, "PlainAlias").HasOwnedHeapData())
	testutil.ExpectFalse(t, findType(t, si, "Node").HasOwnedHeapData())
}

func TestEligibleForBulkCopy(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(
			structure("Four", "a", "Int32", "b", "Int32", "c", "Int32", "d", "Int32") +
				structure("Five", "a", "Int32", "b", "Int32", "c", "Int32", "d", "Int32", "e", "Int32") +
				structure("Mixed", "a", "Int8", "b", "UInt16", "c", "Float", "d", "Double", "e", "Boolean") +
				structure("WithString", "a", "Int32", "b", "Int32", "c", "Int32", "d", "Int32", "e", "String") +
				structure("WithInt64", "a", "Int32", "b", "Int32", "c", "Int32", "d", "Int32", "e", "Int64") +
				structure("Nested", "x", "Int8", "four", "Four") +
				structure("Deep64", "a", "Int8", "b", "Int8", "c", "Int8", "d", "Int8", "inner", "Has64") +
				structure("Has64", "v", "UInt64") +
				typedef("Small", "Int16") +
				structure("Aliased", "a", "Small", "b", "Small", "c", "Small", "d", "Small", "e", "Small") +
				typedef("FiveAlias", "Five") +
				container("Ints", "Vector", "Int32") +
				structure("WithVector", "a", "Int32", "b", "Int32", "c", "Int32", "d", "Int32", "e", "Ints"),
		),
	})
	tests := []struct {
		name string
		want bool
	}{
		{"Four", false},
		{"Five", true},
		{"Mixed", true},
		{"WithString", false},
		{"WithInt64", false},
		{"Nested", true},
		{"Deep64", false},
		{"Has64", false},
		{"Small", false},
		{"Aliased", true},
		{"FiveAlias", true},
		{"Ints", false},
		{"WithVector", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			testutil.ExpectEq(t, test.want, findType(t, si, test.name).EligibleForBulkCopy())
		})
	}
}

func TestStructurallyEquivalent(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(
			typedef("Id", "Int32") +
				container("Ints", "Vector", "Int32") +
				container("Ids", "Vector", "Id") +
				container("Names", "Vector", "String") +
				container("ByName", "Map", "key", "String", "value", "Int32") +
				container("ByName2", "Map", "k", "String", "v", "Id") +
				container("ById", "Map", "key", "Int32", "value", "String") +
				container("Either", "Variant", "i", "Int32", "s", "String") +
				container("Either3", "Variant", "i", "Int32", "s", "String", "b", "Boolean") +
				structure("Point", "x", "Int32", "y", "Int32") +
				structure("Vec2", "x", "Int32", "y", "Int32") +
				container("Tree", "Variant", "leaf", "Int32", "node", "Tree") +
				container("Tree2", "Variant", "leaf", "Int32", "node", "Tree2"),
		),
	})
	eq := func(a, b string) bool {
		return compiler.StructurallyEquivalent(findType(t, si, a), findType(t, si, b))
	}

	for _, dt := range si.DataTypes() {
		testutil.ExpectTrue(t, compiler.StructurallyEquivalent(dt, dt))
	}
	for _, dt := range compiler.Builtins() {
		testutil.ExpectTrue(t, compiler.StructurallyEquivalent(dt, dt))
	}

	testutil.ExpectTrue(t, eq("Ints", "Ids"))
	testutil.ExpectFalse(t, eq("Ints", "Names"))
	testutil.ExpectTrue(t, eq("ByName", "ByName2"))
	testutil.ExpectFalse(t, eq("ByName", "ById"))
	testutil.ExpectFalse(t, eq("Either", "Either3"))
	testutil.ExpectFalse(t, eq("Point", "Vec2"))
	testutil.ExpectFalse(t, eq("Ints", "Either"))
	testutil.ExpectTrue(t, eq("Tree", "Tree2"))

	int32Type, err := si.ResolveDataType("Int32")
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, compiler.StructurallyEquivalent(findType(t, si, "Id"), int32Type))
}

func TestDistinctDataTypes(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(
			container("Ints", "Vector", "Int32") +
				typedef("Id", "Int32") +
				container("Ids", "Vector", "Id") +
				container("Names", "Vector", "String") +
				container("Ints2", "Vector", "Int32"),
		),
	})
	var names []string
	for _, dt := range si.DistinctDataTypes() {
		names = append(names, dt.Name())
	}
	testutil.ExpectSliceEq(t, []string{"Ints", "Id", "Names"}, names)
	testutil.ExpectTrue(t, si.HasVector())
	testutil.ExpectFalse(t, si.HasMap())
	testutil.ExpectFalse(t, si.HasVariant())
}

func TestScriptClass(t *testing.T) {
	si := mustCompile(t, "c.hbtd", map[string]string{
		"c.hbtd": typeDefs(typedef("Flag", "Boolean") + structure("S", "a", "Int8")),
	})
	testutil.ExpectEq(t, "Boolean", findType(t, si, "Flag").ScriptClass())
	testutil.ExpectEq(t, "Object", findType(t, si, "S").ScriptClass())
	str, err := si.ResolveDataType("String")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "String", str.ScriptClass())
	info, ok := str.Builtin()
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "char*", info.Target)
}
