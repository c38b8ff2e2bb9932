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
	"strings"

	"go.dsigen.org/dsigen/syntax"
)

// A Method is a request or response of a service interface. Its parameter
// list is a structure.
type Method struct {
	Entity
	iface    *ServiceInterface
	kind     string
	response string
	params   *DataType
}

// Kind is the lower-cased Type element of the method, such as "request",
// "register" or "response".
func (m *Method) Kind() string {
	return m.kind
}

func (m *Method) Interface() *ServiceInterface {
	return m.iface
}

// IsRequest is true for methods sent from client to server.
func (m *Method) IsRequest() bool {
	switch m.kind {
	case "request", "register", "unregister":
		return true
	}
	return false
}

func (m *Method) IsRegister() bool {
	return m.kind == "register"
}

func (m *Method) IsUnregister() bool {
	return m.kind == "unregister"
}

func (m *Method) IsInformation() bool {
	return m.kind == "information"
}

// Response is the name of the linked response method, if any.
func (m *Method) Response() string {
	return m.response
}

func (m *Method) HasResponse() bool {
	return m.response != ""
}

// ResponseMethod resolves the linked response method.
func (m *Method) ResponseMethod() (*Method, error) {
	return m.iface.ResponseMethod(m.response)
}

// Params is the parameter list as a structure data type.
func (m *Method) Params() *DataType {
	return m.params
}

func (m *Method) Parameters() []*Value {
	return m.params.fields
}

func (m *Method) HasParameters() bool {
	return len(m.params.fields) > 0
}

func (m *Method) HasVectorOrBuffer() bool {
	for _, param := range m.params.fields {
		switch param.dataType.Class() {
		case CLASS_VECTOR, CLASS_BUFFER:
			return true
		}
	}
	return false
}

// ParameterStructName is the name of the generated parameter structure.
func (m *Method) ParameterStructName() string {
	return m.iface.Name() + "_" + capitalize(m.kind) + m.name + "ArgList"
}

// An ImplicitParameter is passed by register and unregister methods
// without being declared in the schema.
type ImplicitParameter struct {
	Name     string
	DataType *DataType
	List     bool
}

// ImplicitParameters returns the parameters emitters must add in front of
// the declared ones: the subscription ID list for register methods, and
// also the session ID for unregister methods.
func (m *Method) ImplicitParameters() []ImplicitParameter {
	int32Type := lookupBuiltin("Int32")
	switch m.kind {
	case "register":
		return []ImplicitParameter{
			{Name: "updateIds", DataType: int32Type, List: true},
		}
	case "unregister":
		return []ImplicitParameter{
			{Name: "updateIds", DataType: int32Type, List: true},
			{Name: "sessionId", DataType: int32Type},
		}
	}
	return nil
}

func (r *reader) readMethod(el *syntax.Element) (*Method, error) {
	params := &DataType{
		Entity:  newEntity(""),
		iface:   r.si,
		file:    r.file,
		variant: VARIANT_STRUCTURE,
	}
	m := &Method{iface: r.si, params: params}

	handlers := r.dataTypeHandlers(params)
	handlers[syntax.TAG_RESPONSE] = func(el *syntax.Element) error {
		m.response = el.TrimmedText()
		return nil
	}
	handlers[syntax.TAG_PARAMETERS] = func(el *syntax.Element) error {
		return r.readChildren(el, elementHandlers{
			syntax.TAG_PARAMETER: func(el *syntax.Element) error {
				v, err := r.readValue(el)
				if err != nil {
					return err
				}
				v.first = len(params.fields) == 0
				params.fields = append(params.fields, v)
				return nil
			},
		})
	}
	if err := r.readEntity(el, &params.Entity, handlers); err != nil {
		return nil, err
	}

	if params.typeName == "" {
		params.typeName = params.name
	}
	m.kind = strings.ToLower(params.typeName)
	params.name = capitalize(params.name)
	m.Entity = params.Entity
	return m, nil
}
