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

package main

import (
	"testing"

	"go.dsigen.org/dsigen/encoding/dsijson"
	"go.dsigen.org/dsigen/internal/testutil"
)

func testRequest(options map[string]string) *dsijson.Request {
	return &dsijson.Request{
		Interface: &dsijson.Interface{
			Name:    "Nav",
			Version: "1.0",
			Includes: []dsijson.Dependency{
				{Name: "Geo", Version: "1.0"},
			},
			Attributes: []dsijson.Attribute{{
				ID:     1,
				Name:   "Target",
				Type:   dsijson.TypeRef{Namespace: "Geo", Name: "Position"},
				Notify: "OnChange",
			}},
		},
		Dependencies: []*dsijson.Interface{{
			Name:    "Geo",
			Version: "1.1",
			DataTypes: []dsijson.DataType{{
				Name:    "Position",
				Variant: "structure",
				Complex: true,
				Fields: []dsijson.Field{
					{Name: "lat", Type: dsijson.TypeRef{Name: "Double"}},
				},
			}},
		}},
		PluginOptions: options,
	}
}

func TestGenerate(t *testing.T) {
	response, err := generate(testRequest(nil))
	testutil.AssertNoError(t, err)
	testutil.AssertEq(t, 1, len(response.OutputFiles))
	testutil.ExpectSliceEq(t, []string{"Nav.dsitext"}, response.OutputFiles[0].Path)
	testutil.ExpectNoDiff(t, ``+
		`interface "Nav" version 1.0`+"\n"+
		`include "Geo" version 1.0`+"\n"+
		`attribute 1 "Target" : Geo::Position notify OnChange`+"\n",
		response.OutputFiles[0].Content)
}

func TestGenerateDependencies(t *testing.T) {
	response, err := generate(testRequest(map[string]string{"dependencies": "true"}))
	testutil.AssertNoError(t, err)
	testutil.AssertEq(t, 2, len(response.OutputFiles))
	testutil.ExpectSliceEq(t, []string{"Geo.dsitext"}, response.OutputFiles[1].Path)
	testutil.ExpectNoDiff(t, ``+
		`interface "Geo" version 1.1`+"\n"+
		`structure "Position" [complex] {`+"\n"+
		"\t"+`field "lat" : Double`+"\n"+
		`}`+"\n",
		response.OutputFiles[1].Content)
}

func TestGenerateErrors(t *testing.T) {
	_, err := generate(testRequest(map[string]string{"dependencies": "maybe"}))
	testutil.AssertError(t, err)

	_, err = generate(&dsijson.Request{})
	testutil.AssertError(t, err)
}
