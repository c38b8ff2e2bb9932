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
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// A Locator maps a schema name, as written in an Include or BaseInterface
// element, to the schema's resolved path and content.
type Locator interface {
	Locate(name string) (file string, src []byte, err error)
}

// SearchPath locates schemas in a file system. Absolute names are read
// directly; relative names are tried against each search directory in
// order, or against the file system root when no directory is set.
type SearchPath struct {
	fsys fs.FS
	dirs []string
}

var _ Locator = (*SearchPath)(nil)

func NewSearchPath(fsys fs.FS, dirs ...string) *SearchPath {
	sp := &SearchPath{fsys: fsys}
	sp.Add(dirs...)
	return sp
}

// NewOSSearchPath searches the host file system. Relative directories are
// made absolute against the working directory.
func NewOSSearchPath(dirs ...string) *SearchPath {
	sp := &SearchPath{fsys: os.DirFS("/")}
	for _, dir := range splitDirs(dirs) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		sp.Add(filepath.ToSlash(dir))
	}
	return sp
}

// Add appends directories to the search path. Each argument may hold
// several directories separated by ';'. Duplicates are ignored.
func (sp *SearchPath) Add(dirs ...string) {
	for _, dir := range splitDirs(dirs) {
		dir = path.Clean(strings.ReplaceAll(dir, `\`, "/"))
		if !slices.Contains(sp.dirs, dir) {
			sp.dirs = append(sp.dirs, dir)
		}
	}
}

func (sp *SearchPath) Dirs() []string {
	return sp.dirs
}

func (sp *SearchPath) Locate(name string) (string, []byte, error) {
	name = path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if path.IsAbs(name) {
		src, err := sp.read(name)
		return name, src, err
	}
	dirs := sp.dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		file := path.Join(dir, name)
		src, err := sp.read(file)
		if err == nil {
			return file, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return file, nil, err
		}
	}
	return "", nil, fmt.Errorf("%w in search path %q", fs.ErrNotExist, dirs)
}

func (sp *SearchPath) read(file string) ([]byte, error) {
	fsPath := strings.TrimPrefix(file, "/")
	if fsPath == "" {
		fsPath = "."
	}
	if !fs.ValidPath(fsPath) {
		return nil, &fs.PathError{Op: "open", Path: file, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(sp.fsys, fsPath)
}

func splitDirs(dirs []string) []string {
	var out []string
	for _, arg := range dirs {
		for _, dir := range strings.Split(arg, ";") {
			if dir = strings.TrimSpace(dir); dir != "" {
				out = append(out, dir)
			}
		}
	}
	return out
}
