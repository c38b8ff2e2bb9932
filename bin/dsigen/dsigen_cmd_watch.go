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
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"go.dsigen.org/dsigen/compiler"
	"go.dsigen.org/dsigen/encoding/dsitext"
)

type cmdWatch struct {
	*globals
	outPath  string
	debounce time.Duration
}

func (*cmdWatch) help() *commandHelp {
	return &commandHelp{
		usage:   "watch SCHEMA",
		summary: "Recompile a schema whenever it or a schema it loads changes",
		minArgs: 1,
		maxArgs: 1,
	}
}

func (cmd *cmdWatch) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "write the interface dump to this file after each build")
	flags.DurationVar(&cmd.debounce, "debounce", 100*time.Millisecond, "delay between a change and the rebuild")
}

func (cmd *cmdWatch) run(ctx context.Context, argv []string) int {
	cfg, log, err := cmd.setup(os.Stderr)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := newSchemaWatcher(log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create watcher")
		return 1
	}
	defer w.Close()

	root, err := filepath.Abs(argv[0])
	if err != nil {
		log.Error().Err(err).Msg("invalid schema path")
		return 1
	}
	opts := compileOptions(cfg, log)
	build := func() {
		result := opts.Compile(argv[0])
		files := append([]string{root}, result.Session.Files()...)
		if err := w.track(files); err != nil {
			log.Error().Err(err).Msg("failed to watch schema files")
		}
		if !report(log, result) {
			return
		}
		if err := cmd.write(result.Interface); err != nil {
			log.Error().Err(err).Msg("failed to write output")
			return
		}
		log.Info().
			Str("schema", result.Interface.Name()).
			Int("files", len(result.Session.Files())).
			Msg("build succeeded")
	}

	build()
	if err := w.loop(ctx, cmd.debounce, build); err != nil {
		log.Error().Err(err).Msg("watch failed")
		return 1
	}
	return 0
}

func (cmd *cmdWatch) write(si *compiler.ServiceInterface) error {
	output := dsitext.Encode(si)
	if cmd.outPath == "" {
		_, err := io.WriteString(os.Stdout, output)
		return err
	}
	return writeFile(cmd.outPath, []byte(output))
}

// schemaWatcher watches the directories of every schema file read by the
// last build. Directories are watched instead of files so that editors
// which replace files on save are noticed.
type schemaWatcher struct {
	log     zerolog.Logger
	watcher *fsnotify.Watcher
	dirs    map[string]bool
	files   map[string]bool
}

func newSchemaWatcher(log zerolog.Logger) (*schemaWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &schemaWatcher{
		log:     log,
		watcher: watcher,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
	}, nil
}

func (w *schemaWatcher) Close() error {
	return w.watcher.Close()
}

// track replaces the set of relevant files. Directories already watched
// stay watched.
func (w *schemaWatcher) track(files []string) error {
	w.files = make(map[string]bool, len(files))
	for _, file := range files {
		file = filepath.Clean(filepath.FromSlash(file))
		w.files[file] = true
		dir := filepath.Dir(file)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
		w.log.Debug().Str("dir", dir).Msg("watching directory")
	}
	return nil
}

func (w *schemaWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

// loop calls build after each burst of changes to a tracked file, until
// ctx is done.
func (w *schemaWatcher) loop(ctx context.Context, debounce time.Duration, build func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("schema changed")
			timer.Reset(debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("file watcher error")

		case <-timer.C:
			build()

		case <-ctx.Done():
			return nil
		}
	}
}
