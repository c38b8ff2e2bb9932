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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"go.dsigen.org/dsigen/encoding/dsijson"
	"go.dsigen.org/dsigen/internal/testutil"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		testutil.AssertNoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		testutil.AssertNoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	buf, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	return string(buf)
}

var navSchemas = map[string]string{
	"Nav.hbsi": `<DSI>
  <Extern>true</Extern>
  <Version><Major>1</Major><Minor>0</Minor></Version>
  <Includes>
    <Include><Name>common/Geo.hbtd</Name><Major>1</Major></Include>
  </Includes>
  <Attributes>
    <Attribute><Name>Target</Name><ID>1</ID><Type>Geo::Position</Type><Notify>OnChange</Notify></Attribute>
  </Attributes>
</DSI>`,
	"include/common/Geo.hbtd": `<DSI>
  <Version><Major>1</Major><Minor>1</Minor></Version>
  <DataTypes>
    <DataType>
      <Name>Position</Name>
      <Kind>Structure</Kind>
      <Fields>
        <Field><Name>lat</Name><Type>Double</Type></Field>
      </Fields>
    </DataType>
  </DataTypes>
</DSI>`,
	"Local.hbsi": `<DSI><Version><Major>1</Major><Minor>0</Minor></Version></DSI>`,
	"Broken.hbsi": `<DSI>
  <Extern>true</Extern>
  <Attributes>
    <Attribute><Name>A</Name><ID>1</ID><Type>Missing</Type></Attribute>
  </Attributes>
</DSI>`,
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DSIGEN_TEST_GEN", "generated")
	writeFiles(t, dir, map[string]string{
		"dsigen.yaml": `
search_paths:
  - include
  - /usr/share/dsi
output_dir: ${DSIGEN_TEST_GEN}/cpp
plugin_path: plugins
plugin_options:
  style: compact
verbose: true
`,
	})

	cfg, err := LoadConfig(filepath.Join(dir, "dsigen.yaml"))
	testutil.AssertNoError(t, err)
	testutil.ExpectSliceEq(t, []string{
		filepath.Join(dir, "include"),
		"/usr/share/dsi",
	}, cfg.SearchPaths)
	testutil.ExpectEq(t, filepath.Join(dir, "generated", "cpp"), cfg.OutputDir)
	testutil.ExpectEq(t, filepath.Join(dir, "plugins"), cfg.PluginPath)
	testutil.ExpectEq(t, "text", cfg.Language)
	testutil.ExpectEq(t, "compact", cfg.PluginOptions["style"])
	testutil.ExpectTrue(t, cfg.Verbose)
}

func TestLoadConfigDefault(t *testing.T) {
	t.Setenv("DSIGEN_PLUGIN_PATH", "/opt/dsigen/plugins")
	cfg, err := LoadConfig("")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, len(cfg.SearchPaths))
	testutil.ExpectEq(t, "/opt/dsigen/plugins", cfg.PluginPath)
	testutil.ExpectEq(t, "text", cfg.Language)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	testutil.ExpectMatch(t, `^read config: `, errString(err))

	writeFiles(t, dir, map[string]string{"bad.yaml": "search_paths: {"})
	_, err = LoadConfig(filepath.Join(dir, "bad.yaml"))
	testutil.ExpectMatch(t, `^parse config `, errString(err))
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func TestParsePluginOptions(t *testing.T) {
	options, err := parsePluginOptions(
		map[string]string{"style": "compact", "header": "yes"},
		[]string{"style=full", "prefix=DSI", "empty="},
	)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "full", options["style"])
	testutil.ExpectEq(t, "yes", options["header"])
	testutil.ExpectEq(t, "DSI", options["prefix"])
	testutil.ExpectEq(t, "", options["empty"])

	_, err = parsePluginOptions(nil, []string{"novalue"})
	testutil.AssertError(t, err)
	_, err = parsePluginOptions(nil, []string{"=x"})
	testutil.AssertError(t, err)
}

func TestLocatePlugin(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFiles(t, second, map[string]string{"dsigen-codegen-text.wasm": ""})

	found, err := locatePlugin(joinList([]string{first, second}), "text")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, filepath.Join(second, "dsigen-codegen-text.wasm"), found)

	_, err = locatePlugin(joinList([]string{first, second}), "cpp")
	testutil.ExpectMatch(t, `dsigen-codegen-cpp\.wasm not found`, errString(err))

	_, err = locatePlugin("", "text")
	testutil.ExpectMatch(t, `No plugin path set`, errString(err))
}

func TestOutPath(t *testing.T) {
	got, err := outPath("/out", dsijson.OutputFile{Path: []string{"gen", "Nav.txt"}})
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, filepath.Join("/out", "gen", "Nav.txt"), got)

	for _, parts := range [][]string{
		nil,
		{""},
		{"."},
		{"gen", ".."},
		{"/etc", "passwd"},
		{"gen/Nav.txt"},
	} {
		_, err := outPath("/out", dsijson.OutputFile{Path: parts})
		if err == nil {
			t.Errorf("outPath(%#v): expected error", parts)
		}
	}
}

func TestWriteOutputFile(t *testing.T) {
	dir := t.TempDir()
	log := zerolog.Nop()
	file := dsijson.OutputFile{Path: []string{"gen", "Nav.txt"}, Content: "interface\n"}
	path := filepath.Join(dir, "gen", "Nav.txt")

	testutil.AssertNoError(t, writeOutputFile(log, dir, file, false))
	testutil.ExpectEq(t, "interface\n", readFile(t, path))

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	testutil.AssertNoError(t, os.Chtimes(path, past, past))

	testutil.AssertNoError(t, writeOutputFile(log, dir, file, false))
	info, err := os.Stat(path)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, info.ModTime().Equal(past))

	testutil.AssertNoError(t, writeOutputFile(log, dir, file, true))
	info, err = os.Stat(path)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, info.ModTime().After(past))

	file.Content = "changed\n"
	testutil.AssertNoError(t, writeOutputFile(log, dir, file, false))
	testutil.ExpectEq(t, "changed\n", readFile(t, path))
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)
	out := filepath.Join(dir, "Nav.txt")

	rc := execute(context.Background(), []string{
		"compile", "--no-color",
		"-I", filepath.Join(dir, "include"),
		"-o", out,
		filepath.Join(dir, "Nav.hbsi"),
	})
	testutil.AssertEq(t, 0, rc)
	testutil.ExpectNoDiff(t, strings.Join([]string{
		`interface "Nav" version 1.0`,
		`include "Geo" version 1.0`,
		`attribute 1 "Target" : Geo::Position notify OnChange`,
		``,
	}, "\n"), readFile(t, out))
}

func TestCompileCommandNotInterface(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)
	out := filepath.Join(dir, "Local.txt")

	rc := execute(context.Background(), []string{
		"compile", "--no-color", "-o", out, filepath.Join(dir, "Local.hbsi"),
	})
	testutil.AssertEq(t, 0, rc)
	testutil.ExpectEq(t, placeholderContent, readFile(t, out))
}

func TestCompileCommandErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)
	out := filepath.Join(dir, "Broken.txt")

	rc := execute(context.Background(), []string{
		"compile", "--no-color", "-o", out, filepath.Join(dir, "Broken.hbsi"),
	})
	testutil.ExpectEq(t, 1, rc)
	_, err := os.Stat(out)
	testutil.ExpectTrue(t, os.IsNotExist(err))

	// The include cannot be found without its search path.
	rc = execute(context.Background(), []string{
		"compile", "--no-color", "-o", out, filepath.Join(dir, "Nav.hbsi"),
	})
	testutil.ExpectEq(t, 1, rc)

	rc = execute(context.Background(), []string{"compile"})
	testutil.ExpectEq(t, 1, rc)
}

func TestCodegenCommandNotInterface(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)
	outDir := filepath.Join(dir, "gen")

	rc := execute(context.Background(), []string{
		"codegen", "--no-color", "-o", outDir, filepath.Join(dir, "Local.hbsi"),
	})
	testutil.AssertEq(t, 0, rc)
	testutil.ExpectEq(t, placeholderContent, readFile(t, filepath.Join(outDir, "DSILocalStream.cpp")))
}

func TestCodegenCommandMissingPlugin(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)

	rc := execute(context.Background(), []string{
		"codegen", "--no-color",
		"-I", filepath.Join(dir, "include"),
		"-o", filepath.Join(dir, "gen"),
		"--plugin-path", t.TempDir(),
		filepath.Join(dir, "Nav.hbsi"),
	})
	testutil.ExpectEq(t, 1, rc)

	rc = execute(context.Background(), []string{
		"codegen", "--no-color", filepath.Join(dir, "Nav.hbsi"),
	})
	testutil.ExpectEq(t, 1, rc)
}

func TestSchemaWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)

	w, err := newSchemaWatcher(zerolog.Nop())
	testutil.AssertNoError(t, err)
	defer w.Close()

	nav := filepath.Join(dir, "Nav.hbsi")
	geo := filepath.Join(dir, "include", "common", "Geo.hbtd")
	testutil.AssertNoError(t, w.track([]string{filepath.ToSlash(nav), filepath.ToSlash(geo)}))
	testutil.ExpectEq(t, 2, len(w.dirs))

	testutil.ExpectTrue(t, w.relevant(fsnotify.Event{Name: nav, Op: fsnotify.Write}))
	testutil.ExpectTrue(t, w.relevant(fsnotify.Event{Name: geo, Op: fsnotify.Create}))
	testutil.ExpectTrue(t, w.relevant(fsnotify.Event{Name: geo, Op: fsnotify.Rename}))
	testutil.ExpectFalse(t, w.relevant(fsnotify.Event{Name: nav, Op: fsnotify.Chmod}))
	testutil.ExpectFalse(t, w.relevant(fsnotify.Event{
		Name: filepath.Join(dir, "Local.hbsi"),
		Op:   fsnotify.Write,
	}))

	testutil.AssertNoError(t, w.track([]string{filepath.ToSlash(nav)}))
	testutil.ExpectFalse(t, w.relevant(fsnotify.Event{Name: geo, Op: fsnotify.Write}))
	testutil.ExpectEq(t, 2, len(w.dirs))
}

func TestSchemaWatcherLoop(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, navSchemas)
	nav := filepath.Join(dir, "Nav.hbsi")

	w, err := newSchemaWatcher(zerolog.Nop())
	testutil.AssertNoError(t, err)
	defer w.Close()
	testutil.AssertNoError(t, w.track([]string{nav}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	builds := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.loop(ctx, 10*time.Millisecond, func() {
			builds <- struct{}{}
		})
	}()

	testutil.AssertNoError(t, os.WriteFile(nav, []byte(navSchemas["Nav.hbsi"]+"\n"), 0o644))
	select {
	case <-builds:
	case <-ctx.Done():
		t.Fatal("no rebuild after schema change")
	}
	cancel()
	testutil.ExpectNoError(t, <-done)
}
