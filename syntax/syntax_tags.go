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

package syntax

import (
	"fmt"
)

type Tag uint8

const (
	TAG_UNKNOWN Tag = iota

	TAG_DSI
	TAG_NAME
	TAG_ID
	TAG_EXTERN
	TAG_ABSTRACT
	TAG_NAMESPACE
	TAG_DESCRIPTION
	TAG_DEPRECATED
	TAG_HINT

	TAG_VERSION
	TAG_MAJOR
	TAG_MINOR

	TAG_INCLUDES
	TAG_INCLUDE
	TAG_BASE_INTERFACE
	TAG_PATH

	TAG_DATA_TYPES
	TAG_DATA_TYPE
	TAG_KIND
	TAG_CONTAINER
	TAG_FIELDS
	TAG_FIELD
	TAG_BASE_TYPE
	TAG_DEFAULT_VALUE
	TAG_TYPE

	TAG_ENUMS
	TAG_ENUM
	TAG_ENUM_IDS
	TAG_ENUM_ID
	TAG_VALUE

	TAG_CONSTANTS
	TAG_CONSTANT

	TAG_METHODS
	TAG_METHOD
	TAG_REQUEST
	TAG_RESPONSE
	TAG_PARAMETERS
	TAG_PARAMETER

	TAG_ATTRIBUTES
	TAG_ATTRIBUTE
	TAG_NOTIFY
	TAG_IS_DEFAULT
	TAG_ALWAYS
	TAG_ON_CHANGE
)

var tagsByName = map[string]Tag{
	"DSI":           TAG_DSI,
	"Name":          TAG_NAME,
	"ID":            TAG_ID,
	"Extern":        TAG_EXTERN,
	"Abstract":      TAG_ABSTRACT,
	"Namespace":     TAG_NAMESPACE,
	"Description":   TAG_DESCRIPTION,
	"Deprecated":    TAG_DEPRECATED,
	"Hint":          TAG_HINT,
	"Version":       TAG_VERSION,
	"Major":         TAG_MAJOR,
	"Minor":         TAG_MINOR,
	"Includes":      TAG_INCLUDES,
	"Include":       TAG_INCLUDE,
	"BaseInterface": TAG_BASE_INTERFACE,
	"Path":          TAG_PATH,
	"DataTypes":     TAG_DATA_TYPES,
	"DataType":      TAG_DATA_TYPE,
	"Kind":          TAG_KIND,
	"Container":     TAG_CONTAINER,
	"Fields":        TAG_FIELDS,
	"Field":         TAG_FIELD,
	"BaseType":      TAG_BASE_TYPE,
	"DefaultValue":  TAG_DEFAULT_VALUE,
	"Type":          TAG_TYPE,
	"Enums":         TAG_ENUMS,
	"Enum":          TAG_ENUM,
	"EnumIDs":       TAG_ENUM_IDS,
	"EnumID":        TAG_ENUM_ID,
	"Value":         TAG_VALUE,
	"Constants":     TAG_CONSTANTS,
	"Constant":      TAG_CONSTANT,
	"Methods":       TAG_METHODS,
	"Method":        TAG_METHOD,
	"Request":       TAG_REQUEST,
	"Response":      TAG_RESPONSE,
	"Parameters":    TAG_PARAMETERS,
	"Parameter":     TAG_PARAMETER,
	"Attributes":    TAG_ATTRIBUTES,
	"Attribute":     TAG_ATTRIBUTE,
	"Notify":        TAG_NOTIFY,
	"IsDefault":     TAG_IS_DEFAULT,
	"Always":        TAG_ALWAYS,
	"OnChange":      TAG_ON_CHANGE,
}

var namesByTag = func() map[Tag]string {
	names := make(map[Tag]string, len(tagsByName))
	for name, tag := range tagsByName {
		names[tag] = name
	}
	return names
}()

// LookupTag returns the tag for an element name, or TAG_UNKNOWN if the name
// is not part of the schema vocabulary.
func LookupTag(name string) Tag {
	if tag, ok := tagsByName[name]; ok {
		return tag
	}
	return TAG_UNKNOWN
}

func (t Tag) String() string {
	if name, ok := namesByTag[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}
