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
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"go.dsigen.org/dsigen/compiler"
	"go.dsigen.org/dsigen/encoding/dsitext"
)

type cmdCompile struct {
	*globals
	outPath string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile SCHEMA",
		summary: "Check a schema and print its resolved interface",
		minArgs: 1,
		maxArgs: 1,
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "write the interface dump to this file instead of stdout")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	cfg, log, err := cmd.setup(os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

	output, ok := compileText(log, compileOptions(cfg, log), argv[0])
	if !ok {
		return 1
	}
	if cmd.outPath == "" {
		if _, err := io.WriteString(os.Stdout, output); err != nil {
			log.Error().Err(err).Msg("failed to write output")
			return 1
		}
		return 0
	}
	if err := writeFile(cmd.outPath, []byte(output)); err != nil {
		log.Error().Err(err).Str("file", cmd.outPath).Msg("failed to write output")
		return 1
	}
	return 0
}

// compileText compiles the schema at schemaPath and returns its text dump.
// A schema that is not a DSI interface yields the placeholder content.
func compileText(
	log zerolog.Logger,
	opts *compiler.CompileOptions,
	schemaPath string,
) (string, bool) {
	result := opts.Compile(schemaPath)
	if noInterface(result) {
		reportWarnings(log, result.Warnings)
		log.Info().
			Str("schema", schemaPath).
			Msg("not a DSI interface, writing placeholder")
		return placeholderContent, true
	}
	if !report(log, result) {
		return "", false
	}
	return dsitext.Encode(result.Interface), true
}
