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

package dsijson

import (
	"go.dsigen.org/dsigen/compiler"
)

// NewRequest builds a plugin request for the main interface of a session.
// Every other loaded interface is passed as a dependency.
func NewRequest(s *compiler.Session, options map[string]string) *Request {
	main := s.Main()
	req := &Request{
		Interface:     FromInterface(main),
		PluginOptions: options,
	}
	for _, si := range s.Interfaces() {
		if si == main {
			continue
		}
		req.Dependencies = append(req.Dependencies, FromInterface(si))
	}
	return req
}

func FromInterface(si *compiler.ServiceInterface) *Interface {
	c := converter{scope: si}
	out := &Interface{
		Name:        si.Name(),
		IncludeName: si.IncludeName(),
		Version:     si.Version().String(),
	}
	if si.HasDescription() {
		out.Description = si.Description()
	}
	for _, inc := range si.Includes() {
		out.Includes = append(out.Includes, Dependency{
			Name:    inc.Interface.Name(),
			Version: inc.Expected.String(),
		})
	}
	for _, bi := range si.BaseInterfaces() {
		out.BaseInterfaces = append(out.BaseInterfaces, Dependency{
			Name:    bi.Name,
			Version: bi.Version.String(),
		})
	}
	for _, constant := range si.Constants() {
		out.Constants = append(out.Constants, c.constant(constant))
	}
	for _, dt := range si.DataTypes() {
		out.DataTypes = append(out.DataTypes, c.dataType(dt))
	}
	for _, m := range si.Methods() {
		out.Methods = append(out.Methods, c.method(m))
	}
	for _, attr := range si.Attributes() {
		out.Attributes = append(out.Attributes, c.attribute(attr))
	}
	return out
}

type converter struct {
	scope *compiler.ServiceInterface
}

func (c *converter) typeRef(dt *compiler.DataType) TypeRef {
	if dt == nil {
		return TypeRef{Name: "?"}
	}
	if si := dt.Interface(); si != nil && si != c.scope {
		return TypeRef{Namespace: si.Name(), Name: dt.Name()}
	}
	return TypeRef{Name: dt.Name()}
}

func description(e *compiler.Entity) string {
	if !e.HasDescription() && !e.Deprecated() {
		return ""
	}
	return e.Description()
}

func (c *converter) constant(constant *compiler.Constant) Constant {
	out := Constant{
		Name:        constant.Name(),
		Value:       constant.Value(),
		Description: description(&constant.Entity),
	}
	if dt := constant.DataType(); dt != nil {
		ref := c.typeRef(dt)
		out.Type = &ref
	}
	return out
}

func (c *converter) dataType(dt *compiler.DataType) DataType {
	out := DataType{
		ID:            dt.ID(),
		Name:          dt.Name(),
		QualifiedName: dt.QualifiedName(),
		Variant:       dt.Variant().String(),
		Class:         dt.Class().String(),
		ScriptClass:   dt.ScriptClass(),
		Description:   description(&dt.Entity),
		Deprecated:    dt.Deprecated(),
		Complex:       dt.IsComplex(),
		HeapData:      dt.HasOwnedHeapData(),
		BulkCopy:      dt.EligibleForBulkCopy(),
	}
	if base := dt.BaseType(); base != nil {
		ref := c.typeRef(base)
		out.Base = &ref
	}
	for _, field := range dt.Fields() {
		out.Fields = append(out.Fields, c.field(field))
	}
	if et := dt.Enum(); et != nil {
		for _, id := range et.IDs() {
			item := EnumID{Name: id.Name()}
			if value, err := id.Value(); err != nil {
				item.Error = err.Error()
			} else {
				item.Value = &value
			}
			out.EnumIDs = append(out.EnumIDs, item)
		}
	}
	return out
}

func (c *converter) field(v *compiler.Value) Field {
	out := Field{
		Name:        v.Name(),
		Type:        c.typeRef(v.DataType()),
		Description: description(&v.Entity),
	}
	if v.HasDefaultValue() {
		value := v.DefaultValue()
		out.Default = &value
	}
	return out
}

func (c *converter) method(m *compiler.Method) Method {
	out := Method{
		ID:          m.ID(),
		Name:        m.Name(),
		Kind:        m.Kind(),
		Description: description(&m.Entity),
	}
	if m.HasResponse() {
		out.Response = m.Response()
	}
	for _, param := range m.ImplicitParameters() {
		out.ImplicitParameters = append(out.ImplicitParameters, ImplicitParameter{
			Name: param.Name,
			Type: c.typeRef(param.DataType),
			List: param.List,
		})
	}
	for _, param := range m.Parameters() {
		out.Parameters = append(out.Parameters, c.field(param))
	}
	return out
}

func (c *converter) attribute(attr *compiler.Value) Attribute {
	out := Attribute{
		ID:          attr.ID(),
		Name:        attr.Name(),
		Type:        c.typeRef(attr.DataType()),
		Description: description(&attr.Entity),
	}
	if policy, err := attr.Notify(); err != nil {
		out.Error = err.Error()
	} else {
		out.Notify = policy.String()
	}
	return out
}
