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

package compiler_test

import (
	"fmt"
	"io/fs"
	"iter"
	"testing"

	"go.dsigen.org/dsigen/compiler"
	"go.dsigen.org/dsigen/encoding/dsitext"
	"go.dsigen.org/dsigen/internal/testutil"
)

var testdata fs.FS

func init() {
	var err error
	testdata, err = testutil.TestdataFS()
	if err != nil {
		panic(err)
	}
}

func schemaTest(t *testing.T, testName string) {
	t.Parallel()

	expectOK := fmt.Sprintf("schema/%s/expect_ok.txt", testName)
	expectErr := fmt.Sprintf("schema/%s/expect_err.json", testName)

	if _, err := fs.Stat(testdata, expectErr); err == nil {
		testExpectErr(t, testName, expectErr)
	} else {
		testExpectOK(t, testName, expectOK)
	}
}

func testExpectOK(t *testing.T, testName string, expectOK string) {
	expectText, err := fs.ReadFile(testdata, expectOK)
	testutil.AssertNoError(t, err)

	var expectWarnings []*testutil.ExpectedDiagnostic
	expectWarnPath := fmt.Sprintf("schema/%s/expect_warn.json", testName)
	if _, err := fs.Stat(testdata, expectWarnPath); err == nil {
		expectWarnings = testutil.LoadExpectedWarnings(t, testdata, expectWarnPath)
	}

	result := compileTestInputs(t, testName)
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			testutil.ExpectNoError(t, err)
		}
		t.FailNow()
	}

	for warn, expectWarn := range zip(result.Warnings, expectWarnings) {
		if warn == nil {
			t.Errorf("expected schema warning (code %d)", expectWarn.Code)
			continue
		}
		if expectWarn == nil {
			t.Errorf(
				"unexpected schema warning %q (code %d)",
				warn.Message(),
				warn.Code(),
			)
			continue
		}
		expectWarn.Check(t, warn.Code(), warn.Message())
	}

	gotText := dsitext.Encode(result.Interface)
	testutil.ExpectNoDiff(t, string(expectText), gotText)
}

func testExpectErr(t *testing.T, testName string, expectErrPath string) {
	expectErr := testutil.LoadExpectedError(t, testdata, expectErrPath)

	result := compileTestInputs(t, testName)
	if len(result.Errors) == 0 {
		t.Fatalf("expected schema error (code %d)", expectErr.Code)
	}
	if result.Interface != nil {
		t.Errorf("result.Interface = %q, want nil", result.Interface.Name())
	}
	err := result.Errors[0]
	expectErr.Check(t, err.Code(), err.Message())
}

func compileTestInputs(t *testing.T, testName string) compiler.CompileResult {
	dir := fmt.Sprintf("schema/%s", testName)
	root := testName + ".hbsi"
	if _, err := fs.Stat(testdata, dir+"/"+root); err != nil {
		root = testName + ".hbtd"
	}
	return compiler.Compile(root, compiler.WithSearchPath(testdata, dir))
}

func TestSchema(t *testing.T) {
	t.Parallel()

	testDirs, err := fs.ReadDir(testdata, "schema")
	testutil.AssertNoError(t, err)

	for _, testDir := range testDirs {
		if testDir.IsDir() {
			testName := testDir.Name()
			t.Run(testName, func(t *testing.T) {
				schemaTest(t, testName)
			})
		}
	}
}

func zip[X any, Y any](xs []*X, ys []*Y) iter.Seq2[*X, *Y] {
	maxLen := max(len(xs), len(ys))
	return func(yield func(x *X, y *Y) bool) {
		for ii := 0; ii < maxLen; ii++ {
			var ok bool
			if ii >= len(xs) {
				ok = yield(nil, ys[ii])
			} else if ii >= len(ys) {
				ok = yield(xs[ii], nil)
			} else {
				ok = yield(xs[ii], ys[ii])
			}
			if !ok {
				return
			}
		}
	}
}

// compileFiles compiles root from an in-memory set of schema files.
func compileFiles(t *testing.T, root string, files map[string]string) compiler.CompileResult {
	t.Helper()
	return compiler.Compile(root, compiler.WithSearchPath(testutil.SchemaFS(files)))
}

func mustCompile(t *testing.T, root string, files map[string]string) *compiler.ServiceInterface {
	t.Helper()
	result := compileFiles(t, root, files)
	for _, err := range result.Errors {
		t.Error(err)
	}
	if t.Failed() {
		t.FailNow()
	}
	return result.Interface
}

func expectCompileError(t *testing.T, code uint32, root string, files map[string]string) *compiler.Error {
	t.Helper()
	result := compileFiles(t, root, files)
	if len(result.Errors) == 0 {
		t.Fatalf("expected error E%d, compiled without errors", code)
	}
	testutil.ExpectEq(t, code, result.Errors[0].Code())
	return result.Errors[0]
}

// typeDefs wraps DataType declarations in a type definition document.
func typeDefs(dataTypes string) string {
	return "<DSI><DataTypes>" + dataTypes + "</DataTypes></DSI>"
}

func findType(t *testing.T, si *compiler.ServiceInterface, name string) *compiler.DataType {
	t.Helper()
	for _, dt := range si.DataTypes() {
		if dt.Name() == name {
			return dt
		}
	}
	t.Fatalf("data type %q not found in %q", name, si.Name())
	return nil
}
