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
	"errors"
	"fmt"

	"go.dsigen.org/dsigen/syntax"
)

type Error struct {
	code    uint32
	message string
	file    string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	if err.file != "" {
		return fmt.Sprintf("E%d: %s: %s", err.code, err.file, err.message)
	}
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// File is the schema file the error was found in, if known.
func (err *Error) File() string {
	return err.file
}

const (
	codeNoInterface          = 3000
	codeIncludeInDataType    = 3001
	codeSchemaNotFound       = 3002
	codeSchemaSyntax         = 3003
	codeAbstractNotAllowed   = 3004
	codeBaseNotAbstract      = 3005
	codeIncludeVersion       = 3006
	codeBaseInterfaceVersion = 3007
	codeIncludeCycle         = 3008
	codeInvalidInteger       = 3010
	codeInvalidLiteral       = 3011
	codeUnknownEnumID        = 3012
	codeCyclicEnumValue      = 3013
	codeEnumPredecessor      = 3014
	codeDuplicateID          = 3020
	codeUnknownDataType      = 3100
	codeCyclicTypedef        = 3101
	codeMissingBaseType      = 3102
	codeUnknownKind          = 3103
	codeUnknownContainer     = 3104
	codeMapFieldCount        = 3105
	codeNotifyUnset          = 3110
	codeNotifyInvalid        = 3111
	codeNotifyPartial        = 3112
	codeResponseNotFound     = 3120
)

// IsNoInterface reports whether err signals that the root schema is not a
// DSI interface. Drivers may treat this as a soft condition.
func IsNoInterface(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.code == codeNoInterface || e.code == codeIncludeInDataType
}

func errNoInterface(file string) error {
	return &Error{
		code:    codeNoInterface,
		message: "DSI interface must be extern",
		file:    file,
	}
}

func errIncludeInDataType(file string) error {
	return &Error{
		code:    codeIncludeInDataType,
		message: "Including external header files is not allowed in DSI",
		file:    file,
	}
}

func errSchemaNotFound(name string, cause error) error {
	return &Error{
		code:    codeSchemaNotFound,
		message: fmt.Sprintf("Schema %q not found: %v", name, cause),
	}
}

func errSchemaSyntax(file string, cause error) error {
	return &Error{
		code:    codeSchemaSyntax,
		message: cause.Error(),
		file:    file,
	}
}

func errAbstractNotAllowed(file string) error {
	return &Error{
		code:    codeAbstractNotAllowed,
		message: "Cannot generate abstract interface or type definition",
		file:    file,
	}
}

func errBaseNotAbstract(file string) error {
	return &Error{
		code:    codeBaseNotAbstract,
		message: "Base interface must be abstract",
		file:    file,
	}
}

func errIncludeVersion(name string, got, want Version, file string) error {
	return &Error{
		code: codeIncludeVersion,
		message: fmt.Sprintf(
			"Bad version %s of included schema '%s', expected %s",
			got, name, want,
		),
		file: file,
	}
}

func errBaseInterfaceVersion(got, want Version, file string) error {
	return &Error{
		code: codeBaseInterfaceVersion,
		message: fmt.Sprintf(
			"Bad base interface version %s, expected %s",
			got, want,
		),
		file: file,
	}
}

func errIncludeCycle(name, file string) error {
	return &Error{
		code:    codeIncludeCycle,
		message: fmt.Sprintf("Schema '%s' includes itself", name),
		file:    file,
	}
}

func errInvalidInteger(parent, child *syntax.Element, file string) error {
	return &Error{
		code: codeInvalidInteger,
		message: fmt.Sprintf(
			"Invalid integer %q in element %s / %s",
			child.TrimmedText(), parent.Name(), child.Name(),
		),
		file: file,
	}
}

func errInvalidLiteral(text string) error {
	return &Error{
		code:    codeInvalidLiteral,
		message: fmt.Sprintf("Invalid integer literal %q", text),
	}
}

func errUnknownEnumID(name string) error {
	return &Error{
		code:    codeUnknownEnumID,
		message: fmt.Sprintf("Enumeration value '%s' not found", name),
	}
}

func errCyclicEnumValue(name string) error {
	return &Error{
		code:    codeCyclicEnumValue,
		message: fmt.Sprintf("Value of enumeration ID '%s' depends on itself", name),
	}
}

func errEnumPredecessor(name, prev string) error {
	return &Error{
		code: codeEnumPredecessor,
		message: fmt.Sprintf(
			"Enumeration ID '%s' follows '%s', which has no valid value",
			name, prev,
		),
	}
}

func errDuplicateID(kind string, id int, file string) error {
	return &Error{
		code:    codeDuplicateID,
		message: fmt.Sprintf("Duplicate %s ID %d", kind, id),
		file:    file,
	}
}

func errUnknownDataType(name, file string) error {
	return &Error{
		code:    codeUnknownDataType,
		message: fmt.Sprintf("Unknown data type '%s'", name),
		file:    file,
	}
}

func errCyclicTypedef(name, file string) error {
	return &Error{
		code:    codeCyclicTypedef,
		message: fmt.Sprintf("Cyclic typedef '%s'", name),
		file:    file,
	}
}

func errMissingBaseType(name, file string) error {
	return &Error{
		code:    codeMissingBaseType,
		message: fmt.Sprintf("Data type '%s' has no base type", name),
		file:    file,
	}
}

func errUnknownKind(name, kind, file string) error {
	return &Error{
		code:    codeUnknownKind,
		message: fmt.Sprintf("Data type '%s' has unknown kind %q", name, kind),
		file:    file,
	}
}

func errUnknownContainer(name, container, file string) error {
	return &Error{
		code: codeUnknownContainer,
		message: fmt.Sprintf(
			"Data type '%s' has unknown container %q (allowed: Vector|Variant|Map)",
			name, container,
		),
		file: file,
	}
}

func errMapFieldCount(name string, count int, file string) error {
	return &Error{
		code: codeMapFieldCount,
		message: fmt.Sprintf(
			"Map '%s' must declare a key and a value field, found %d fields",
			name, count,
		),
		file: file,
	}
}

func errNotifyUnset(name, file string) error {
	return &Error{
		code:    codeNotifyUnset,
		message: fmt.Sprintf("%s: notification type not set", name),
		file:    file,
	}
}

func errNotifyInvalid(name, notify, file string) error {
	return &Error{
		code: codeNotifyInvalid,
		message: fmt.Sprintf(
			"%s: bad notification type %q. allowed values: OnChange|Always|Partial",
			name, notify,
		),
		file: file,
	}
}

func errNotifyPartial(name, file string) error {
	return &Error{
		code:    codeNotifyPartial,
		message: fmt.Sprintf("%s: Partial notification only allowed for vector attributes", name),
		file:    file,
	}
}

func errResponseNotFound(name, file string) error {
	return &Error{
		code:    codeResponseNotFound,
		message: fmt.Sprintf("Response method '%s' not found", name),
		file:    file,
	}
}
