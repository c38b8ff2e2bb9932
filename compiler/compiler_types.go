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
	"strings"

	"go.dsigen.org/dsigen/syntax"
)

type Variant uint8

const (
	VARIANT_BUILTIN Variant = iota
	VARIANT_STRUCTURE
	VARIANT_TYPEDEF
	VARIANT_VECTOR
	VARIANT_VARIANT
	VARIANT_MAP
	VARIANT_ENUM
)

var variantNames = [...]string{
	VARIANT_BUILTIN:   "builtin",
	VARIANT_STRUCTURE: "structure",
	VARIANT_TYPEDEF:   "typedef",
	VARIANT_VECTOR:    "vector",
	VARIANT_VARIANT:   "variant",
	VARIANT_MAP:       "map",
	VARIANT_ENUM:      "enum",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", v)
}

type resolveState uint8

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

// A DataType is a node of the type graph: a builtin scalar or a declared
// structure, typedef, container or enumeration.
type DataType struct {
	Entity
	iface *ServiceInterface
	file  string

	variant      Variant
	kind         string
	typeName     string
	container    string
	baseTypeName string
	baseType     *DataType
	fields       []*Value
	enum         *EnumType

	// Builtins only.
	class   TypeClass
	builtin *BuiltinInfo

	state resolveState
}

// Interface is the schema that declares the type, or nil for builtins.
func (dt *DataType) Interface() *ServiceInterface {
	return dt.iface
}

func (dt *DataType) Variant() Variant {
	return dt.variant
}

// Kind is the declared Kind element, such as "Structure" or "Typedef".
func (dt *DataType) Kind() string {
	return dt.kind
}

// TypeName is the declared Type element, defaulting to the type's name.
func (dt *DataType) TypeName() string {
	return dt.typeName
}

// QualifiedName prefixes structures and typedefs with the name of their
// interface.
func (dt *DataType) QualifiedName() string {
	if dt.iface != nil && (dt.IsStructure() || dt.IsTypedef()) {
		return dt.iface.Name() + "_" + dt.name
	}
	return dt.name
}

// Container is the raw container tag: "Vector", "Variant", "Map" or "".
func (dt *DataType) Container() string {
	return dt.container
}

func (dt *DataType) BaseTypeName() string {
	return dt.baseTypeName
}

func (dt *DataType) BaseType() *DataType {
	return dt.baseType
}

// BaseTypeR follows the base type chain to its end. A container that is
// its own element type ends the chain.
func (dt *DataType) BaseTypeR() *DataType {
	seen := map[*DataType]bool{dt: true}
	for dt.baseType != nil && !seen[dt.baseType] {
		dt = dt.baseType
		seen[dt] = true
	}
	return dt
}

func (dt *DataType) Fields() []*Value {
	return dt.fields
}

// Enum returns the enumeration of an enum type, or nil.
func (dt *DataType) Enum() *EnumType {
	return dt.enum
}

func (dt *DataType) Builtin() (BuiltinInfo, bool) {
	if dt.builtin == nil {
		return BuiltinInfo{}, false
	}
	return *dt.builtin, true
}

func (dt *DataType) IsBuiltin() bool {
	return dt.variant == VARIANT_BUILTIN
}

func (dt *DataType) IsStructure() bool {
	return dt.variant == VARIANT_STRUCTURE
}

// IsTypedef is true for every type declared with Kind "Typedef",
// containers included.
func (dt *DataType) IsTypedef() bool {
	switch dt.variant {
	case VARIANT_TYPEDEF, VARIANT_VECTOR, VARIANT_VARIANT, VARIANT_MAP:
		return true
	}
	return false
}

// IsSimpleTypedef is true for a typedef without a container tag.
func (dt *DataType) IsSimpleTypedef() bool {
	return dt.variant == VARIANT_TYPEDEF
}

func (dt *DataType) IsEnum() bool {
	return dt.variant == VARIANT_ENUM
}

// BindingName is the name of the type in generated C++ code, qualified
// with its interface namespace when used outside of scope.
func (dt *DataType) BindingName(scope *ServiceInterface) string {
	switch dt.Class() {
	case CLASS_STRING:
		return "std::wstring"
	case CLASS_BUFFER:
		return "std::string"
	case CLASS_BOOL:
		return "bool"
	}
	if dt.builtin != nil {
		return dt.builtin.Target
	}
	if dt.iface != nil && dt.iface != scope {
		return dt.iface.Name() + "::" + dt.typeName
	}
	return dt.typeName
}

func (r *reader) readDataType(el *syntax.Element) (*DataType, error) {
	dt := &DataType{
		Entity: newEntity(""),
		iface:  r.si,
		file:   r.file,
	}
	handlers := r.dataTypeHandlers(dt)
	if err := r.readEntity(el, &dt.Entity, handlers); err != nil {
		return nil, err
	}
	if dt.typeName == "" {
		dt.typeName = dt.name
	}
	variant, err := dataTypeVariant(dt)
	if err != nil {
		return nil, err
	}
	dt.variant = variant
	if dt.variant == VARIANT_MAP && len(dt.fields) != 2 {
		return nil, errMapFieldCount(dt.name, len(dt.fields), r.file)
	}
	return dt, nil
}

func (r *reader) dataTypeHandlers(dt *DataType) elementHandlers {
	return elementHandlers{
		syntax.TAG_INCLUDE: func(*syntax.Element) error {
			return errIncludeInDataType(r.file)
		},
		syntax.TAG_NAMESPACE: ignoreElement,
		syntax.TAG_KIND: func(el *syntax.Element) error {
			dt.kind = el.TrimmedText()
			return nil
		},
		syntax.TAG_TYPE: func(el *syntax.Element) error {
			dt.typeName = el.TrimmedText()
			if dt.typeName == "ByteStream" {
				dt.typeName = "Buffer"
			}
			return nil
		},
		syntax.TAG_CONTAINER: func(el *syntax.Element) error {
			dt.container = el.TrimmedText()
			return nil
		},
		syntax.TAG_BASE_TYPE: func(el *syntax.Element) error {
			dt.baseTypeName = el.TrimmedText()
			return nil
		},
		syntax.TAG_FIELDS: func(el *syntax.Element) error {
			return r.readChildren(el, elementHandlers{
				syntax.TAG_FIELD: func(el *syntax.Element) error {
					v, err := r.readValue(el)
					if err != nil {
						return err
					}
					dt.fields = append(dt.fields, v)
					return nil
				},
			})
		},
	}
}

func dataTypeVariant(dt *DataType) (Variant, error) {
	kind := dt.kind
	if kind == "" && dt.container != "" {
		kind = "Typedef"
	}
	switch {
	case strings.EqualFold(kind, "Structure"):
		return VARIANT_STRUCTURE, nil
	case strings.EqualFold(kind, "Typedef"):
	default:
		return 0, errUnknownKind(dt.name, dt.kind, dt.file)
	}
	switch dt.container {
	case "":
		return VARIANT_TYPEDEF, nil
	case "Vector":
		return VARIANT_VECTOR, nil
	case "Variant":
		return VARIANT_VARIANT, nil
	case "Map":
		return VARIANT_MAP, nil
	}
	return 0, errUnknownContainer(dt.name, dt.container, dt.file)
}

// resolve binds the base type and field types. A simple typedef also
// resolves its base first, so chains end at a non-typedef type.
func (dt *DataType) resolve() error {
	switch dt.state {
	case stateResolved:
		return nil
	case stateResolving:
		return errCyclicTypedef(dt.name, dt.file)
	}
	dt.state = stateResolving

	switch {
	case dt.baseTypeName != "":
		base, err := dt.iface.ResolveDataType(dt.baseTypeName)
		if err != nil {
			return err
		}
		if dt.variant == VARIANT_TYPEDEF {
			if err := base.resolve(); err != nil {
				if e, ok := err.(*Error); ok && e.code == codeCyclicTypedef {
					return errCyclicTypedef(dt.name, dt.file)
				}
				return err
			}
		}
		dt.baseType = base
	case dt.variant == VARIANT_TYPEDEF, dt.variant == VARIANT_VECTOR:
		return errMissingBaseType(dt.name, dt.file)
	}

	for _, field := range dt.fields {
		if err := field.resolve(); err != nil {
			return err
		}
	}
	dt.state = stateResolved
	return nil
}
