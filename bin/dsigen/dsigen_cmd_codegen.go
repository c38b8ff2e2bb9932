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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"go.dsigen.org/dsigen/encoding/dsijson"
)

type cmdCodegen struct {
	*globals
	outDir     string
	pluginPath string
	language   string
	options    []string
	force      bool
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen SCHEMA",
		summary: "Generate code for a schema with a WebAssembly plugin",
		minArgs: 1,
		maxArgs: 1,
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "output directory")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "directories searched for dsigen-codegen-LANGUAGE.wasm")
	flags.StringVarP(&cmd.language, "language", "l", "", "target language of the plugin")
	flags.StringArrayVar(&cmd.options, "plugin-option", nil, "KEY=VALUE option passed to the plugin, may be repeated")
	flags.BoolVarP(&cmd.force, "force", "f", false, "rewrite output files even if their content is unchanged")
}

func (cmd *cmdCodegen) run(ctx context.Context, argv []string) int {
	cfg, log, err := cmd.setup(os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}
	if cmd.outDir != "" {
		cfg.OutputDir = cmd.outDir
	}
	if cmd.pluginPath != "" {
		cfg.PluginPath = cmd.pluginPath
	}
	if cmd.language != "" {
		cfg.Language = cmd.language
	}
	options, err := parsePluginOptions(cfg.PluginOptions, cmd.options)
	if err != nil {
		log.Error().Err(err).Msg("invalid plugin option")
		return 1
	}

	if cfg.OutputDir == "" {
		log.Error().Msg("No output directory specified (set --output= or output_dir)")
		return 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error().Err(err).Msg("failed to create output directory")
		return 1
	}

	schemaPath := argv[0]
	result := compileOptions(cfg, log).Compile(schemaPath)
	if noInterface(result) {
		reportWarnings(log, result.Warnings)
		outPath := filepath.Join(cfg.OutputDir, placeholderName(schemaPath))
		log.Info().
			Str("schema", schemaPath).
			Str("file", outPath).
			Msg("not a DSI interface, writing placeholder")
		if err := writeFile(outPath, []byte(placeholderContent)); err != nil {
			log.Error().Err(err).Msg("failed to write placeholder")
			return 1
		}
		return 0
	}
	if !report(log, result) {
		return 1
	}

	requestBuf, err := dsijson.Encode(dsijson.NewRequest(result.Session, options))
	if err != nil {
		log.Error().Err(err).Msg("failed to encode plugin request")
		return 1
	}

	pluginFile, err := locatePlugin(cfg.PluginPath, cfg.Language)
	if err != nil {
		log.Error().Err(err).Msg("plugin not found")
		return 1
	}
	pluginBin, err := os.ReadFile(pluginFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to read plugin")
		return 1
	}
	log.Debug().
		Str("plugin", pluginFile).
		Int("request_bytes", len(requestBuf)).
		Msg("running plugin")

	responseBuf, err := runPlugin(ctx, pluginBin, cfg.Language, requestBuf)
	if err != nil {
		log.Error().Err(err).Str("plugin", pluginFile).Msg("plugin failed")
		return 1
	}
	response, err := dsijson.DecodeAs[dsijson.Response](responseBuf)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode plugin response")
		return 1
	}
	if response.Error != "" {
		log.Error().Str("plugin", pluginFile).Msg(strings.TrimSpace(response.Error))
		return 1
	}
	if len(response.OutputFiles) == 0 {
		log.Error().Msg("Plugin did not generate any output files")
		return 1
	}

	for _, outputFile := range response.OutputFiles {
		if err := writeOutputFile(log, cfg.OutputDir, outputFile, cmd.force); err != nil {
			log.Error().Err(err).Msg("failed to write output file")
			return 1
		}
	}
	return 0
}

func parsePluginOptions(base map[string]string, args []string) (map[string]string, error) {
	options := make(map[string]string, len(base)+len(args))
	for k, v := range base {
		options[k] = v
	}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("Invalid plugin option %q: expected KEY=VALUE", arg)
		}
		options[k] = v
	}
	return options, nil
}

// locatePlugin finds dsigen-codegen-LANGUAGE.wasm in a list of
// directories.
func locatePlugin(pluginPath, language string) (string, error) {
	if pluginPath == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $DSIGEN_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("dsigen-codegen-%s.wasm", language)
	for _, dir := range filepath.SplitList(pluginPath) {
		if dir == "" {
			continue
		}
		pluginFile := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginFile); err == nil {
			return pluginFile, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path", basename)
}

func outPath(outDir string, file dsijson.OutputFile) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %#v: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %#v: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %#v: absolute path component %q", parts, part)
		}
		if strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("Invalid output path %#v: component %q contains a path separator", parts, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}

// writeOutputFile writes one generated file. Files whose content is
// unchanged are left untouched unless force is set.
func writeOutputFile(log zerolog.Logger, outDir string, file dsijson.OutputFile, force bool) error {
	path, err := outPath(outDir, file)
	if err != nil {
		return err
	}
	content := []byte(file.Content)
	if !force {
		if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
			log.Debug().Str("file", path).Msg("output unchanged")
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	log.Debug().Str("file", path).Int("bytes", len(content)).Msg("writing output")
	return writeFile(path, content)
}
