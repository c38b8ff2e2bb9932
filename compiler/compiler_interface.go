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
	"strings"

	"go.dsigen.org/dsigen/syntax"
)

// A ServiceInterface is the symbol table of one schema file, including
// everything merged in from its base interfaces.
type ServiceInterface struct {
	Entity
	session     *Session
	file        string
	includeName string
	version     Version
	loading     bool

	constants      []*Constant
	dataTypes      []*DataType
	enums          []*EnumType
	requests       []*Method
	responses      []*Method
	attributes     []*Value
	includes       []*Include
	baseInterfaces []*BaseInterface
}

func newServiceInterface(s *Session, name, schemaPath, file string) *ServiceInterface {
	si := &ServiceInterface{
		Entity:      newEntity(name),
		session:     s,
		file:        file,
		includeName: includeName(schemaPath),
	}
	si.nameSet = true
	return si
}

func (si *ServiceInterface) Session() *Session {
	return si.session
}

// File is the resolved path the schema was read from.
func (si *ServiceInterface) File() string {
	return si.file
}

// IncludeName is the schema path as requested, without its extension.
func (si *ServiceInterface) IncludeName() string {
	return si.includeName
}

func (si *ServiceInterface) Version() Version {
	return si.version
}

func (si *ServiceInterface) Constants() []*Constant {
	return si.constants
}

// DataTypes returns the declared types in declaration order, enumerations
// first.
func (si *ServiceInterface) DataTypes() []*DataType {
	return si.dataTypes
}

func (si *ServiceInterface) Enums() []*EnumType {
	return si.enums
}

// RequestMethods returns the request side methods sorted by ID.
func (si *ServiceInterface) RequestMethods() []*Method {
	return si.requests
}

// ResponseMethods returns the response side methods sorted by ID.
func (si *ServiceInterface) ResponseMethods() []*Method {
	return si.responses
}

// Methods returns the request methods followed by the response methods.
func (si *ServiceInterface) Methods() []*Method {
	return slices.Concat(si.requests, si.responses)
}

// Attributes returns the attributes sorted by ID.
func (si *ServiceInterface) Attributes() []*Value {
	return si.attributes
}

func (si *ServiceInterface) Includes() []*Include {
	return si.includes
}

func (si *ServiceInterface) BaseInterfaces() []*BaseInterface {
	return si.baseInterfaces
}

// ResolveDataType finds a type by name. A Namespace::Name reference is
// looked up in the loaded schema called Namespace; a plain name is looked
// up among the interface's own types, then among the builtins.
func (si *ServiceInterface) ResolveDataType(name string) (*DataType, error) {
	name = strings.TrimSpace(name)
	if name == "ByteStream" {
		name = "Buffer"
	}
	if namespace, local, ok := strings.Cut(name, "::"); ok {
		other, ok := si.session.Lookup(namespace)
		if !ok {
			return nil, errUnknownDataType(name, si.file)
		}
		dt, err := other.ResolveDataType(local)
		if err != nil {
			return nil, errUnknownDataType(name, si.file)
		}
		return dt, nil
	}
	for _, dt := range si.dataTypes {
		if dt.name == name {
			return dt, nil
		}
	}
	if dt := lookupBuiltin(name); dt != nil {
		return dt, nil
	}
	return nil, errUnknownDataType(name, si.file)
}

// DistinctDataTypes returns the first type of each set of structurally
// equivalent types, in declaration order.
func (si *ServiceInterface) DistinctDataTypes() []*DataType {
	var out []*DataType
	for _, dt := range si.dataTypes {
		if !slices.ContainsFunc(out, func(other *DataType) bool {
			return StructurallyEquivalent(other, dt)
		}) {
			out = append(out, dt)
		}
	}
	return out
}

// ResponseMethod finds a response method by name, ignoring case.
func (si *ServiceInterface) ResponseMethod(name string) (*Method, error) {
	for _, m := range si.responses {
		if strings.EqualFold(m.name, name) {
			return m, nil
		}
	}
	return nil, errResponseNotFound(name, si.file)
}

func (si *ServiceInterface) HasRequestWithResponse() bool {
	return slices.ContainsFunc(si.requests, (*Method).HasResponse)
}

func (si *ServiceInterface) HasErrorEnum() bool {
	return si.LookupEnum("Error") != nil
}

func (si *ServiceInterface) HasVector() bool {
	return si.hasClass(CLASS_VECTOR)
}

func (si *ServiceInterface) HasMap() bool {
	return si.hasClass(CLASS_MAP)
}

func (si *ServiceInterface) HasVariant() bool {
	return si.hasClass(CLASS_VARIANT)
}

func (si *ServiceInterface) hasClass(class TypeClass) bool {
	for _, dt := range si.dataTypes {
		if dt.Class() == class {
			return true
		}
	}
	return false
}

func (si *ServiceInterface) HasPartialUpdateAttribute() (bool, error) {
	for _, attr := range si.attributes {
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

func (r *reader) readInterface(root *syntax.Element, allowAbstract bool) error {
	if isServiceInterfaceFile(r.file) && !root.Flag(syntax.TAG_EXTERN) {
		return errNoInterface(r.file)
	}
	if !allowAbstract && root.Flag(syntax.TAG_ABSTRACT) {
		return errAbstractNotAllowed(r.file)
	}
	return r.readRoot(root)
}

// readRoot reads the Enums blocks of a schema document first, then every
// other top-level block in document order.
func (r *reader) readRoot(root *syntax.Element) error {
	for _, child := range root.Children() {
		if child.Tag() == syntax.TAG_ENUMS {
			if err := r.readEnums(child); err != nil {
				return err
			}
		}
	}
	return r.readEntity(root, &r.si.Entity, r.interfaceHandlers())
}

func (r *reader) interfaceHandlers() elementHandlers {
	si := r.si
	return elementHandlers{
		syntax.TAG_EXTERN:   ignoreElement,
		syntax.TAG_ABSTRACT: ignoreElement,
		syntax.TAG_ENUMS:    ignoreElement,
		syntax.TAG_VERSION: func(el *syntax.Element) error {
			v, err := r.readVersion(el)
			if err != nil {
				return err
			}
			si.version = v
			return nil
		},
		syntax.TAG_DATA_TYPES: func(el *syntax.Element) error {
			return r.readChildren(el, elementHandlers{
				syntax.TAG_DATA_TYPE: func(el *syntax.Element) error {
					dt, err := r.readDataType(el)
					if err != nil {
						return err
					}
					si.dataTypes = append(si.dataTypes, dt)
					return nil
				},
			})
		},
		syntax.TAG_CONSTANTS: func(el *syntax.Element) error {
			return r.readChildren(el, elementHandlers{
				syntax.TAG_CONSTANT: func(el *syntax.Element) error {
					c, err := r.readConstant(el)
					if err != nil {
						return err
					}
					si.constants = append(si.constants, c)
					return nil
				},
			})
		},
		syntax.TAG_METHODS: func(el *syntax.Element) error {
			return r.readChildren(el, elementHandlers{
				syntax.TAG_METHOD: func(el *syntax.Element) error {
					m, err := r.readMethod(el)
					if err != nil {
						return err
					}
					return r.addMethod(m)
				},
			})
		},
		syntax.TAG_ATTRIBUTES: func(el *syntax.Element) error {
			return r.readChildren(el, elementHandlers{
				syntax.TAG_ATTRIBUTE: func(el *syntax.Element) error {
					v, err := r.readValue(el)
					if err != nil {
						return err
					}
					if slices.ContainsFunc(si.attributes, func(other *Value) bool {
						return other.id == v.id
					}) {
						return errDuplicateID("Attribute", v.id, r.file)
					}
					si.attributes = append(si.attributes, v)
					return nil
				},
			})
		},
		syntax.TAG_INCLUDES:       r.readIncludes,
		syntax.TAG_BASE_INTERFACE: r.readBaseInterface,
	}
}

func (r *reader) addMethod(m *Method) error {
	list, side := &r.si.responses, "Response"
	if m.IsRequest() {
		list, side = &r.si.requests, "Request"
	}
	if slices.ContainsFunc(*list, func(other *Method) bool {
		return other.id == m.id
	}) {
		return errDuplicateID(side, m.id, r.file)
	}
	*list = append(*list, m)
	return nil
}

// resolve binds every name reference of the interface to a data type and
// sorts methods and attributes by ID. Enumeration values that cannot be
// computed are reported as warnings.
func (si *ServiceInterface) resolve() error {
	for _, dt := range si.dataTypes {
		if err := dt.resolve(); err != nil {
			return err
		}
	}
	for _, c := range si.constants {
		if err := c.resolve(); err != nil {
			return err
		}
	}
	for _, m := range si.Methods() {
		if err := m.params.resolve(); err != nil {
			return err
		}
	}
	for _, attr := range si.attributes {
		if err := attr.resolve(); err != nil {
			return err
		}
	}
	for _, et := range si.enums {
		for _, id := range et.ids {
			if _, err := id.Value(); err != nil {
				si.session.warn(warnEnumValue(et.Name(), id.name, err, et.dataType.file))
			}
		}
	}

	byID := func(a, b *Method) int { return compareByID(&a.Entity, &b.Entity) }
	slices.SortStableFunc(si.requests, byID)
	slices.SortStableFunc(si.responses, byID)
	slices.SortStableFunc(si.attributes, func(a, b *Value) int {
		return compareByID(&a.Entity, &b.Entity)
	})
	return nil
}
