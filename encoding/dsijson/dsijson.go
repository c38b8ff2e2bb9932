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

// Package dsijson defines the JSON model of a resolved service interface
// that is handed to code generator plugins.
package dsijson

import (
	"encoding/json"
)

// A Request is sent from the compiler to a code generator plugin.
type Request struct {
	Interface     *Interface        `json:"interface"`
	Dependencies  []*Interface      `json:"dependencies,omitempty"`
	PluginOptions map[string]string `json:"plugin_options,omitempty"`
}

// A Response is returned by a code generator plugin. A non-empty Error
// means generation failed.
type Response struct {
	OutputFiles []OutputFile `json:"output_files,omitempty"`
	Error       string       `json:"error,omitempty"`
}

type OutputFile struct {
	Path    []string `json:"path"`
	Content string   `json:"content"`
}

type Interface struct {
	Name           string       `json:"name"`
	IncludeName    string       `json:"include_name"`
	Version        string       `json:"version"`
	Description    string       `json:"description,omitempty"`
	Includes       []Dependency `json:"includes,omitempty"`
	BaseInterfaces []Dependency `json:"base_interfaces,omitempty"`
	Constants      []Constant   `json:"constants,omitempty"`
	DataTypes      []DataType   `json:"data_types,omitempty"`
	Methods        []Method     `json:"methods,omitempty"`
	Attributes     []Attribute  `json:"attributes,omitempty"`
}

// A Dependency is an included schema or a merged base interface.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// A TypeRef names a data type. Namespace is empty for builtins and for
// types declared by the referencing interface.
type TypeRef struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

func (ref TypeRef) String() string {
	if ref.Namespace != "" {
		return ref.Namespace + "::" + ref.Name
	}
	return ref.Name
}

type Constant struct {
	Name        string   `json:"name"`
	Type        *TypeRef `json:"type,omitempty"`
	Value       string   `json:"value"`
	Description string   `json:"description,omitempty"`
}

type DataType struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	QualifiedName string   `json:"qualified_name"`
	Variant       string   `json:"variant"`
	Class         string   `json:"class"`
	ScriptClass   string   `json:"script_class"`
	Description   string   `json:"description,omitempty"`
	Deprecated    bool     `json:"deprecated,omitempty"`
	Complex       bool     `json:"complex,omitempty"`
	HeapData      bool     `json:"heap_data,omitempty"`
	BulkCopy      bool     `json:"bulk_copy,omitempty"`
	Base          *TypeRef `json:"base,omitempty"`
	Fields        []Field  `json:"fields,omitempty"`
	EnumIDs       []EnumID `json:"enum_ids,omitempty"`
}

type Field struct {
	Name        string  `json:"name"`
	Type        TypeRef `json:"type"`
	Default     *string `json:"default,omitempty"`
	Description string  `json:"description,omitempty"`
}

// An EnumID carries either its computed value or the reason it has none.
type EnumID struct {
	Name  string `json:"name"`
	Value *int64 `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

type Method struct {
	ID                 int                 `json:"id"`
	Name               string              `json:"name"`
	Kind               string              `json:"kind"`
	Response           string              `json:"response,omitempty"`
	ImplicitParameters []ImplicitParameter `json:"implicit_parameters,omitempty"`
	Parameters         []Field             `json:"parameters,omitempty"`
	Description        string              `json:"description,omitempty"`
}

type ImplicitParameter struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
	List bool    `json:"list,omitempty"`
}

type Attribute struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Type        TypeRef `json:"type"`
	Notify      string  `json:"notify,omitempty"`
	Error       string  `json:"error,omitempty"`
	Description string  `json:"description,omitempty"`
}

func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func DecodeAs[T any](buf []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
