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

// Package dsitext writes a deterministic text dump of a resolved service
// interface, for diffing and inspection.
package dsitext

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.dsigen.org/dsigen/compiler"
	"go.dsigen.org/dsigen/encoding/dsijson"
)

func Encode(si *compiler.ServiceInterface) string {
	var buf strings.Builder
	EncodeTo(si, &buf)
	return buf.String()
}

func EncodeTo(si *compiler.ServiceInterface, w io.Writer) error {
	return EncodeModelTo(dsijson.FromInterface(si), w)
}

// EncodeModel writes the dump of an interface received as a plugin
// request. The output is identical to Encode of the interface it was
// built from.
func EncodeModel(iface *dsijson.Interface) string {
	var buf strings.Builder
	EncodeModelTo(iface, &buf)
	return buf.String()
}

func EncodeModelTo(iface *dsijson.Interface, w io.Writer) error {
	e := encoder{w: w}
	e.visitInterface(iface)
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) block(header string, body func()) {
	e.line(header + " {")
	e.indent += 1
	body()
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitInterface(iface *dsijson.Interface) {
	e.linef("interface %s version %s", quote(iface.Name), iface.Version)
	for _, inc := range iface.Includes {
		e.linef("include %s version %s", quote(inc.Name), inc.Version)
	}
	for _, bi := range iface.BaseInterfaces {
		e.linef("base_interface %s version %s", quote(bi.Name), bi.Version)
	}
	for _, c := range iface.Constants {
		e.visitConstant(c)
	}
	for _, dt := range iface.DataTypes {
		e.visitDataType(dt)
	}
	for _, m := range iface.Methods {
		e.visitMethod(m)
	}
	for _, attr := range iface.Attributes {
		e.visitAttribute(attr)
	}
}

func (e *encoder) visitConstant(c dsijson.Constant) {
	if c.Type != nil {
		e.linef("constant %s : %s = %s", quote(c.Name), c.Type, quote(c.Value))
		return
	}
	e.linef("constant %s = %s", quote(c.Name), quote(c.Value))
}

func (e *encoder) visitDataType(dt dsijson.DataType) {
	header := fmt.Sprintf("%s %s", dt.Variant, quote(dt.Name))
	if dt.Base != nil {
		header += " : " + dt.Base.String()
	}
	if flags := typeFlags(dt); len(flags) > 0 {
		header += " [" + strings.Join(flags, " ") + "]"
	}

	if dt.Variant == compiler.VARIANT_ENUM.String() {
		e.block(header, func() {
			for _, id := range dt.EnumIDs {
				if id.Value == nil {
					e.linef("%s = error", quote(id.Name))
					continue
				}
				e.linef("%s = %s", quote(id.Name), strconv.FormatInt(*id.Value, 10))
			}
		})
		return
	}
	if len(dt.Fields) == 0 {
		e.line(header)
		return
	}
	e.block(header, func() {
		for _, field := range dt.Fields {
			e.visitField("field", field)
		}
	})
}

func typeFlags(dt dsijson.DataType) []string {
	var flags []string
	if dt.Complex {
		flags = append(flags, "complex")
	}
	if dt.HeapData {
		flags = append(flags, "heap")
	}
	if dt.BulkCopy {
		flags = append(flags, "bulk_copy")
	}
	if dt.Deprecated {
		flags = append(flags, "deprecated")
	}
	return flags
}

func (e *encoder) visitField(keyword string, f dsijson.Field) {
	s := fmt.Sprintf("%s %s : %s", keyword, quote(f.Name), f.Type)
	if f.Default != nil {
		s += " = " + quote(*f.Default)
	}
	e.line(s)
}

func (e *encoder) visitMethod(m dsijson.Method) {
	header := fmt.Sprintf("%s %d %s", m.Kind, m.ID, quote(m.Name))
	if m.Response != "" {
		header += " -> " + quote(m.Response)
	}
	if len(m.ImplicitParameters) == 0 && len(m.Parameters) == 0 {
		e.line(header)
		return
	}
	e.block(header, func() {
		for _, param := range m.ImplicitParameters {
			ref := param.Type.String()
			if param.List {
				ref = "[]" + ref
			}
			e.linef("implicit %s : %s", quote(param.Name), ref)
		}
		for _, param := range m.Parameters {
			e.visitField("param", param)
		}
	})
}

func (e *encoder) visitAttribute(attr dsijson.Attribute) {
	notify := "error"
	if attr.Error == "" {
		notify = attr.Notify
	}
	e.linef(
		"attribute %d %s : %s notify %s",
		attr.ID, quote(attr.Name), attr.Type, notify,
	)
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
			buf.WriteRune(c)
			continue
		}
		if c == '\t' {
			buf.WriteString("\\t")
			continue
		}
		if c == '\n' {
			buf.WriteString("\\n")
			continue
		}
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&buf, "\\x%02X", c)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}
