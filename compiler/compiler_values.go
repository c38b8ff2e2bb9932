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

type NotifyPolicy uint8

const (
	NOTIFY_NONE NotifyPolicy = iota
	NOTIFY_ON_CHANGE
	NOTIFY_ALWAYS
	NOTIFY_PARTIAL
)

var notifyNames = [...]string{
	NOTIFY_NONE:      "",
	NOTIFY_ON_CHANGE: "OnChange",
	NOTIFY_ALWAYS:    "Always",
	NOTIFY_PARTIAL:   "Partial",
}

func (p NotifyPolicy) String() string {
	if int(p) < len(notifyNames) {
		return notifyNames[p]
	}
	return fmt.Sprintf("NotifyPolicy(%d)", p)
}

// A Value is a typed, named slot: a structure field, a method parameter or
// an attribute.
type Value struct {
	Entity
	iface        *ServiceInterface
	file         string
	typeName     string
	dataType     *DataType
	defaultValue string
	notify       string
	hasNotify    bool
	first        bool

	notifyChecked bool
	policy        NotifyPolicy
	notifyErr     error
}

func (v *Value) TypeName() string {
	return v.typeName
}

func (v *Value) DataType() *DataType {
	return v.dataType
}

// DefaultValue is the declared default, or "" when blank.
func (v *Value) DefaultValue() string {
	return v.defaultValue
}

func (v *Value) HasDefaultValue() bool {
	return v.defaultValue != ""
}

// IsFirst is true for the first parameter of a method.
func (v *Value) IsFirst() bool {
	return v.first
}

// Notify returns the notification policy of an attribute. The declared
// policy is checked on first use; Partial requires a vector type.
func (v *Value) Notify() (NotifyPolicy, error) {
	if !v.notifyChecked {
		v.policy, v.notifyErr = v.checkNotify()
		v.notifyChecked = true
	}
	return v.policy, v.notifyErr
}

func (v *Value) checkNotify() (NotifyPolicy, error) {
	if !v.hasNotify {
		return NOTIFY_NONE, errNotifyUnset(v.name, v.file)
	}
	switch v.notify {
	case "OnChange":
		return NOTIFY_ON_CHANGE, nil
	case "Always":
		return NOTIFY_ALWAYS, nil
	case "Partial":
		if v.dataType == nil || v.dataType.Class() != CLASS_VECTOR {
			return NOTIFY_NONE, errNotifyPartial(v.name, v.file)
		}
		return NOTIFY_PARTIAL, nil
	}
	return NOTIFY_NONE, errNotifyInvalid(v.name, v.notify, v.file)
}

func (r *reader) readValue(el *syntax.Element) (*Value, error) {
	v := &Value{
		Entity: newEntity(""),
		iface:  r.si,
		file:   r.file,
	}
	err := r.readEntity(el, &v.Entity, elementHandlers{
		syntax.TAG_IS_DEFAULT: ignoreElement,
		syntax.TAG_TYPE: func(el *syntax.Element) error {
			v.typeName = el.TrimmedText()
			return nil
		},
		syntax.TAG_DEFAULT_VALUE: func(el *syntax.Element) error {
			v.defaultValue = el.TrimmedText()
			return nil
		},
		syntax.TAG_NOTIFY: func(el *syntax.Element) error {
			v.notify = el.TrimmedText()
			v.hasNotify = true
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Value) resolve() error {
	dt, err := v.iface.ResolveDataType(v.typeName)
	if err != nil {
		return err
	}
	v.dataType = dt
	return nil
}

// A Constant is a named literal with a declared type.
type Constant struct {
	Entity
	iface    *ServiceInterface
	value    string
	typeName string
	dataType *DataType
}

// Value is the literal text of the constant.
func (c *Constant) Value() string {
	return c.value
}

func (c *Constant) HasValue() bool {
	return c.value != ""
}

// IntegerValue parses the constant's literal as an integer.
func (c *Constant) IntegerValue() (int64, error) {
	return ParseLiteral(c.value)
}

func (c *Constant) TypeName() string {
	return c.typeName
}

func (c *Constant) DataType() *DataType {
	return c.dataType
}

func (r *reader) readConstant(el *syntax.Element) (*Constant, error) {
	c := &Constant{
		Entity: newEntity(""),
		iface:  r.si,
	}
	err := r.readEntity(el, &c.Entity, elementHandlers{
		syntax.TAG_VALUE: func(el *syntax.Element) error {
			c.value = el.TrimmedText()
			return nil
		},
		syntax.TAG_TYPE: func(el *syntax.Element) error {
			c.typeName = el.TrimmedText()
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Constant) resolve() error {
	if strings.TrimSpace(c.typeName) == "" {
		return nil
	}
	dt, err := c.iface.ResolveDataType(c.typeName)
	if err != nil {
		return err
	}
	c.dataType = dt
	return nil
}
