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

package testutil

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"regexp"
	"testing"
	"testing/fstest"
)

// TestdataFS returns the testdata directory of the package under test.
func TestdataFS() (fs.FS, error) {
	if _, err := os.Stat("testdata"); err != nil {
		return nil, err
	}
	return os.DirFS("testdata"), nil
}

// SchemaFS builds an in-memory file system from path → content pairs.
func SchemaFS(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(files))
	for path, content := range files {
		fsys[path] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

type ExpectedDiagnostic struct {
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

type rawDiagnostic struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
	Pattern string `json:"message_pattern"`
}

func (raw rawDiagnostic) compile(t *testing.T) *ExpectedDiagnostic {
	t.Helper()
	if raw.Code == 0 {
		t.Fatalf("expected diagnostic has no code")
	}
	out := &ExpectedDiagnostic{
		Code:    raw.Code,
		Message: raw.Message,
	}
	if raw.Pattern != "" {
		pattern, err := regexp.Compile(raw.Pattern)
		if err != nil {
			t.Fatal(err)
		}
		out.Pattern = pattern
	}
	return out
}

func LoadExpectedError(
	t *testing.T,
	testdata fs.FS,
	jsonPath string,
) *ExpectedDiagnostic {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	var raw rawDiagnostic
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		t.Fatal(err)
	}
	return raw.compile(t)
}

func LoadExpectedWarnings(
	t *testing.T,
	testdata fs.FS,
	jsonPath string,
) []*ExpectedDiagnostic {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	var raw struct {
		Warnings []rawDiagnostic `json:"warnings"`
	}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		t.Fatal(err)
	}

	out := make([]*ExpectedDiagnostic, 0, len(raw.Warnings))
	for _, w := range raw.Warnings {
		out = append(out, w.compile(t))
	}
	return out
}

// Check compares a diagnostic's code and message against the expectation.
func (want *ExpectedDiagnostic) Check(t *testing.T, code uint32, message string) {
	t.Helper()
	ExpectEq(t, want.Code, code)
	if want.Pattern != nil {
		ExpectMatch(t, want.Pattern, message)
	} else if want.Message != "" {
		ExpectEq(t, want.Message, message)
	}
}
