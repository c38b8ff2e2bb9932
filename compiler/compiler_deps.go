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
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"

	"go.dsigen.org/dsigen/syntax"
)

// Version is the major.minor version of a schema.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Satisfies reports whether a schema of version v can be used where
// version want was requested: the major versions must match and v must be
// at least as recent.
func (v Version) Satisfies(want Version) bool {
	constraint, err := semver.NewConstraint(fmt.Sprintf(
		">= %d.%d.0, < %d.0.0",
		want.Major, want.Minor, want.Major+1,
	))
	if err != nil {
		return false
	}
	got, err := semver.NewVersion(fmt.Sprintf("%d.%d.0", v.Major, v.Minor))
	if err != nil {
		return false
	}
	return constraint.Check(got)
}

// An Include records a dependency on another schema whose declarations
// are referenced as Namespace::Name.
type Include struct {
	Name      string
	Expected  Version
	Interface *ServiceInterface
}

// A BaseInterface records an abstract schema merged into its derived
// schema.
type BaseInterface struct {
	Name    string
	Path    string
	File    string
	Version Version
}

func (r *reader) readVersion(el *syntax.Element) (Version, error) {
	var version Version
	err := r.readChildren(el, elementHandlers{
		syntax.TAG_MAJOR: func(child *syntax.Element) error {
			v, err := r.parseInt(el, child)
			version.Major = v
			return err
		},
		syntax.TAG_MINOR: func(child *syntax.Element) error {
			v, err := r.parseInt(el, child)
			version.Minor = v
			return err
		},
	})
	return version, err
}

func (r *reader) readIncludes(el *syntax.Element) error {
	return r.readChildren(el, elementHandlers{
		syntax.TAG_INCLUDE: r.readInclude,
	})
}

func (r *reader) readInclude(el *syntax.Element) error {
	inc := &Include{}
	err := r.readChildren(el, elementHandlers{
		syntax.TAG_NAME: func(child *syntax.Element) error {
			inc.Name = child.TrimmedText()
			si, err := r.si.session.load(inc.Name, true)
			inc.Interface = si
			return err
		},
		syntax.TAG_MAJOR: func(child *syntax.Element) error {
			v, err := r.parseInt(el, child)
			inc.Expected.Major = v
			return err
		},
		syntax.TAG_MINOR: func(child *syntax.Element) error {
			v, err := r.parseInt(el, child)
			inc.Expected.Minor = v
			return err
		},
	})
	if err != nil {
		return err
	}
	if inc.Interface == nil {
		return nil
	}
	got := inc.Interface.version
	if !got.Satisfies(inc.Expected) {
		return errIncludeVersion(inc.Interface.Name(), got, inc.Expected, r.file)
	}
	r.si.session.log.Debug().
		Str("schema", r.si.Name()).
		Str("include", inc.Interface.Name()).
		Stringer("version", got).
		Msg("include version checked")
	r.si.includes = append(r.si.includes, inc)
	return nil
}

func (r *reader) readBaseInterface(el *syntax.Element) error {
	var (
		merged   *BaseInterface
		expected *Version
	)
	err := r.readChildren(el, elementHandlers{
		syntax.TAG_PATH: func(child *syntax.Element) error {
			bi, err := r.mergeBaseInterface(child.TrimmedText())
			merged = bi
			return err
		},
		syntax.TAG_VERSION: func(child *syntax.Element) error {
			v, err := r.readVersion(child)
			expected = &v
			return err
		},
		syntax.TAG_MINOR: ignoreElement,
	})
	if err != nil {
		return err
	}
	if merged != nil && expected != nil && !merged.Version.Satisfies(*expected) {
		return errBaseInterfaceVersion(merged.Version, *expected, r.file)
	}
	return nil
}

// mergeBaseInterface reads the abstract schema at basePath into the
// current interface. The interface keeps its own version; the version
// declared by the base is returned in the record.
func (r *reader) mergeBaseInterface(basePath string) (*BaseInterface, error) {
	si := r.si
	basePath = strings.ReplaceAll(basePath, `\`, "/")
	ownVersion := si.version

	file, root, err := si.session.readSchema(basePath)
	if err != nil {
		return nil, err
	}
	bi := &BaseInterface{
		Name: schemaName(basePath),
		Path: path.Dir(basePath),
		File: file,
	}
	si.baseInterfaces = append(si.baseInterfaces, bi)

	if isServiceInterfaceFile(file) && !root.Flag(syntax.TAG_EXTERN) {
		return nil, errNoInterface(file)
	}
	if !root.Flag(syntax.TAG_ABSTRACT) {
		return nil, errBaseNotAbstract(file)
	}

	base := &reader{si: si, file: file, fromBase: true}
	if err := base.readRoot(root); err != nil {
		return nil, err
	}

	bi.Version = si.version
	si.version = ownVersion
	si.session.log.Debug().
		Str("schema", si.Name()).
		Str("base", bi.Name).
		Stringer("version", bi.Version).
		Msg("base interface merged")
	return bi, nil
}

func isServiceInterfaceFile(file string) bool {
	return strings.HasSuffix(strings.ToLower(file), "hbsi")
}
