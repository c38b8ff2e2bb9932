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
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"go.dsigen.org/dsigen/compiler"
)

// globals holds the options shared by every command.
type globals struct {
	configPath  string
	searchPaths []string
	verbose     bool
	noColor     bool
}

func (g *globals) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&g.configPath, "config", "c", "", "configuration file (default: ./dsigen.yaml if present)")
	flags.StringArrayVarP(&g.searchPaths, "search-path", "I", nil, "directory searched for included schemas, may be repeated or ';'-separated")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "log progress at debug level")
	flags.BoolVar(&g.noColor, "no-color", false, "disable colored log output")
}

// setup loads the configuration file and builds the logger. Command line
// flags take precedence over the file.
func (g *globals) setup(stderr io.Writer) (*Config, zerolog.Logger, error) {
	cfg, err := LoadConfig(g.configPath)
	if err != nil {
		return nil, newLogger(stderr, false, g.noColor), err
	}
	if len(g.searchPaths) > 0 {
		cfg.SearchPaths = g.searchPaths
	}
	verbose := g.verbose || cfg.Verbose
	return cfg, newLogger(stderr, verbose, g.noColor), nil
}

func newLogger(w io.Writer, verbose, noColor bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// compileOptions builds the compiler options for the configured search
// path. The working directory is always searched last so that relative
// schema paths given on the command line can be found.
func compileOptions(cfg *Config, log zerolog.Logger) *compiler.CompileOptions {
	dirs := append(slices.Clone(cfg.SearchPaths), ".")
	return compiler.NewCompileOptions(
		compiler.WithLocator(compiler.NewOSSearchPath(dirs...)),
		compiler.WithLogger(log),
	)
}

// report logs the diagnostics of a compilation. It returns false if the
// compilation failed.
func report(log zerolog.Logger, result compiler.CompileResult) bool {
	reportWarnings(log, result.Warnings)
	for _, err := range result.Errors {
		event := log.Error().Uint32("code", err.Code())
		if file := err.File(); file != "" {
			event = event.Str("file", file)
		}
		event.Msg(err.Message())
	}
	return len(result.Errors) == 0
}

func reportWarnings(log zerolog.Logger, warnings []*compiler.Warning) {
	for _, warn := range warnings {
		event := log.Warn().Uint32("code", warn.Code())
		if file := warn.File(); file != "" {
			event = event.Str("file", file)
		}
		event.Msg(warn.Message())
	}
}

// noInterface reports whether a compilation failed only because the root
// schema does not describe a DSI interface.
func noInterface(result compiler.CompileResult) bool {
	return len(result.Errors) == 1 && compiler.IsNoInterface(result.Errors[0])
}

const placeholderContent = "\n// dummy file to satisfy compiler.\n\n"

// placeholderName is the file written in place of generated code when the
// root schema is not a DSI interface.
func placeholderName(schemaPath string) string {
	return fmt.Sprintf("DSI%sStream.cpp", baseName(schemaPath))
}

func writeFile(path string, content []byte) error {
	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		return err
	}
	_, writeErr := fp.Write(content)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
