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

package syntax_test

import (
	"testing"

	"go.dsigen.org/dsigen/internal/testutil"
	"go.dsigen.org/dsigen/syntax"
)

func TestParse(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<DSI>
  <Extern>true</Extern>
  <Name>Tuner</Name>
  <Version><Major>2</Major><Minor>3</Minor></Version>
  <Description>Stations &amp; presets</Description>
  <Frobnicate/>
</DSI>
`)
	root, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)

	testutil.ExpectEq(t, "DSI", root.Name())
	testutil.ExpectEq(t, syntax.TAG_DSI, root.Tag())
	testutil.ExpectEq(t, 5, len(root.Children()))
	testutil.ExpectTrue(t, root.Flag(syntax.TAG_EXTERN))
	testutil.ExpectFalse(t, root.Flag(syntax.TAG_ABSTRACT))

	name := root.Child(syntax.TAG_NAME)
	testutil.ExpectEq(t, "Tuner", name.Text())

	version := root.Child(syntax.TAG_VERSION)
	testutil.ExpectEq(t, "2", version.Child(syntax.TAG_MAJOR).Text())
	testutil.ExpectEq(t, "3", version.Child(syntax.TAG_MINOR).Text())
	testutil.ExpectEq(t, "23", version.Text())

	desc := root.Child(syntax.TAG_DESCRIPTION)
	testutil.ExpectEq(t, "Stations & presets", desc.Text())

	unknown := root.Children()[4]
	testutil.ExpectEq(t, "Frobnicate", unknown.Name())
	testutil.ExpectEq(t, syntax.TAG_UNKNOWN, unknown.Tag())
}

func TestParseCharData(t *testing.T) {
	src := []byte(`<Enum><Value><![CDATA[A|B]]></Value><Name>  Padded  </Name></Enum>`)
	root, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)

	testutil.ExpectEq(t, "A|B", root.Child(syntax.TAG_VALUE).Text())
	testutil.ExpectEq(t, "  Padded  ", root.Child(syntax.TAG_NAME).Text())
	testutil.ExpectEq(t, "Padded", root.Child(syntax.TAG_NAME).TrimmedText())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code uint32
	}{
		{"empty", "", 1001},
		{"whitespace", " \n\t", 1001},
		{"unclosed", "<DSI><Name>Tuner</DSI>", 1002},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := syntax.Parse([]byte(test.src))
			testutil.ExpectErrorCode(t, test.code, err)
		})
	}
}

func TestLookupTag(t *testing.T) {
	testutil.ExpectEq(t, syntax.TAG_BASE_INTERFACE, syntax.LookupTag("BaseInterface"))
	testutil.ExpectEq(t, syntax.TAG_ENUM_IDS, syntax.LookupTag("EnumIDs"))
	testutil.ExpectEq(t, syntax.TAG_UNKNOWN, syntax.LookupTag("enumids"))
	testutil.ExpectEq(t, "DefaultValue", syntax.TAG_DEFAULT_VALUE.String())
}

func TestFlag(t *testing.T) {
	root := syntax.NewElement("DSI",
		syntax.NewLeaf("Extern", " TRUE "),
		syntax.NewLeaf("Abstract", "1"),
	)
	testutil.ExpectTrue(t, root.Flag(syntax.TAG_EXTERN))
	testutil.ExpectFalse(t, root.Flag(syntax.TAG_ABSTRACT))
}
