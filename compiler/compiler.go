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
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"go.dsigen.org/dsigen/syntax"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	locator       Locator
	logger        zerolog.Logger
	allowAbstract bool
}

// WithLocator sets how schema names are turned into schema sources.
func WithLocator(locator Locator) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.locator = locator
	})
}

// WithSearchPath locates schemas in fsys, searching the given directories
// in order for relative names.
func WithSearchPath(fsys fs.FS, dirs ...string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.locator = NewSearchPath(fsys, dirs...)
	})
}

func WithLogger(logger zerolog.Logger) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.logger = logger
	})
}

// WithAllowAbstract permits the root schema to be marked Abstract.
func WithAllowAbstract(allow bool) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.allowAbstract = allow
	})
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	if compileOptions.locator == nil {
		compileOptions.locator = defaultSearchPath()
	}
	return compileOptions
}

type CompileResult struct {
	Interface *ServiceInterface
	Session   *Session

	Errors   []*Error
	Warnings []*Warning
}

// Compile loads the schema at path and everything it depends on into a
// fresh session.
func Compile(path string, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(path)
}

func (opts *CompileOptions) Compile(path string) CompileResult {
	s := opts.NewSession()
	si, err := s.Load(path)
	if err != nil {
		return CompileResult{
			Session:  s,
			Errors:   []*Error{asError(err)},
			Warnings: s.warnings,
		}
	}
	return CompileResult{
		Interface: si,
		Session:   s,
		Warnings:  s.warnings,
	}
}

// A Session owns the registry of every schema loaded while compiling one
// root schema. The first schema loaded is the main one.
//
// A Session is not safe for concurrent use.
type Session struct {
	opts     *CompileOptions
	log      zerolog.Logger
	registry map[string]*ServiceInterface
	order    []*ServiceInterface
	files    []string
	warnings []*Warning
}

func NewSession(opts ...CompileOption) *Session {
	return NewCompileOptions(opts...).NewSession()
}

func (opts *CompileOptions) NewSession() *Session {
	return &Session{
		opts:     opts,
		log:      opts.logger,
		registry: make(map[string]*ServiceInterface),
	}
}

// Load loads the schema at path, or returns the already loaded schema of
// the same name.
func (s *Session) Load(path string) (*ServiceInterface, error) {
	return s.load(path, s.opts.allowAbstract)
}

func (s *Session) load(schemaPath string, allowAbstract bool) (*ServiceInterface, error) {
	schemaPath = strings.ReplaceAll(strings.TrimSpace(schemaPath), `\`, "/")
	name := schemaName(schemaPath)
	if si, ok := s.registry[name]; ok {
		if si.loading {
			return nil, errIncludeCycle(name, si.file)
		}
		return si, nil
	}

	file, root, err := s.readSchema(schemaPath)
	if err != nil {
		return nil, err
	}

	si := newServiceInterface(s, name, schemaPath, file)
	s.registry[name] = si
	s.order = append(s.order, si)
	s.log.Debug().
		Str("schema", name).
		Str("file", file).
		Msg("loading schema")

	si.loading = true
	r := &reader{si: si, file: file}
	if err := r.readInterface(root, allowAbstract); err != nil {
		return nil, err
	}
	if err := si.resolve(); err != nil {
		return nil, err
	}
	si.loading = false

	s.log.Debug().
		Str("schema", name).
		Stringer("version", si.version).
		Int("data_types", len(si.dataTypes)).
		Int("methods", len(si.requests)+len(si.responses)).
		Int("attributes", len(si.attributes)).
		Msg("schema loaded")
	return si, nil
}

func (s *Session) readSchema(schemaPath string) (string, *syntax.Element, error) {
	file, src, err := s.opts.locator.Locate(schemaPath)
	if err != nil {
		return "", nil, errSchemaNotFound(schemaPath, err)
	}
	s.files = append(s.files, file)
	root, err := syntax.Parse(src)
	if err != nil {
		return "", nil, errSchemaSyntax(file, err)
	}
	return file, root, nil
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{code: codeSchemaSyntax, message: err.Error()}
}

func (s *Session) warn(w *Warning) {
	s.log.Debug().Str("warning", w.String()).Msg("schema warning")
	s.warnings = append(s.warnings, w)
}

// Lookup returns the loaded schema registered under name.
func (s *Session) Lookup(name string) (*ServiceInterface, bool) {
	si, ok := s.registry[name]
	return si, ok
}

// Main returns the first schema loaded in the session.
func (s *Session) Main() *ServiceInterface {
	if len(s.order) == 0 {
		return nil
	}
	return s.order[0]
}

// Interfaces returns every loaded schema in load order.
func (s *Session) Interfaces() []*ServiceInterface {
	return s.order
}

// Includes returns the include names of every loaded schema except the
// main one, in load order.
func (s *Session) Includes() []string {
	var out []string
	for _, si := range s.order[min(1, len(s.order)):] {
		out = append(out, si.includeName)
	}
	return out
}

// AllDataTypes returns the data types of every loaded schema.
func (s *Session) AllDataTypes() []*DataType {
	var out []*DataType
	for _, si := range s.order {
		out = append(out, si.dataTypes...)
	}
	return out
}

// DSIIncludes returns the generated header name of every include.
func (s *Session) DSIIncludes() []string {
	var out []string
	for _, inc := range s.Includes() {
		dir, base := path.Split(inc)
		out = append(out, dir+"DSI"+base+".hpp")
	}
	return out
}

// Files returns every file read by the session, base interfaces included.
func (s *Session) Files() []string {
	return s.files
}

func (s *Session) Warnings() []*Warning {
	return s.warnings
}

// schemaName is the file's base name without its extension.
func schemaName(schemaPath string) string {
	base := path.Base(schemaPath)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// includeName is the schema path without its extension.
func includeName(schemaPath string) string {
	if ext := path.Ext(schemaPath); ext != "" && !strings.Contains(ext, "/") {
		return strings.TrimSuffix(schemaPath, ext)
	}
	return schemaPath
}

func defaultSearchPath() *SearchPath {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return NewOSSearchPath(wd)
}
