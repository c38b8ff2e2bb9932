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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "dsigen.yaml"

// Config is the contents of a dsigen.yaml file. Relative paths are
// relative to the directory containing the file.
type Config struct {
	SearchPaths   []string          `yaml:"search_paths"`
	PluginPath    string            `yaml:"plugin_path"`
	OutputDir     string            `yaml:"output_dir"`
	Language      string            `yaml:"language"`
	PluginOptions map[string]string `yaml:"plugin_options"`
	Verbose       bool              `yaml:"verbose"`
}

// LoadConfig reads the configuration file at path. An empty path selects
// ./dsigen.yaml, which may be absent.
func LoadConfig(path string) (*Config, error) {
	optional := false
	if path == "" {
		path = defaultConfigFile
		optional = true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			cfg := &Config{}
			setDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	setDefaults(&cfg)
	return &cfg, nil
}

func (cfg *Config) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for ii, p := range cfg.SearchPaths {
		cfg.SearchPaths[ii] = abs(p)
	}
	cfg.OutputDir = abs(cfg.OutputDir)
	if cfg.PluginPath != "" {
		var dirs []string
		for _, p := range filepath.SplitList(cfg.PluginPath) {
			dirs = append(dirs, abs(p))
		}
		cfg.PluginPath = joinList(dirs)
	}
}

func setDefaults(cfg *Config) {
	if cfg.PluginPath == "" {
		cfg.PluginPath = os.Getenv("DSIGEN_PLUGIN_PATH")
	}
	if cfg.Language == "" {
		cfg.Language = "text"
	}
}
