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

// Command build compiles a code generator plugin to a WebAssembly reactor
// module with TinyGo. Arguments after the flags are passed to
// "tinygo build" before the package path.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	tinygo   = flag.String("tinygo", "tinygo", "path to the tinygo binary, or a name looked up in $PATH")
	output   = flag.String("output", "", "path of the .wasm file to write")
	chdir    = flag.String("chdir", "", "directory to run tinygo in")
	goSdkBin = flag.String("go-sdk-bin", "", "directory holding the go binary used by tinygo")
	wasmOpt  = flag.String("wasm-opt", "", "path to the wasm-opt binary")
)

func main() {
	flag.Parse()
	if *output == "" || flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s -output=PLUGIN.wasm [tinygo flags...] PACKAGE\n", os.Args[0])
		os.Exit(1)
	}
	pwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cmd := exec.Command(toolPath(pwd, *tinygo), tinygoArgs(pwd, *output, flag.Args())...)
	cmd.Env = tinygoEnv(pwd, os.Environ())
	cmd.Dir = filepath.Join(pwd, *chdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// tinygoArgs builds a reactor module, which exports its functions without
// running main when instantiated.
func tinygoArgs(pwd, output string, args []string) []string {
	out := []string{
		"build",
		"-o=" + filepath.Join(pwd, output),
		"-target=wasip1",
		"-buildmode=c-shared",
		"-no-debug",
	}
	return append(out, args...)
}

func tinygoEnv(pwd string, environ []string) []string {
	env := []string{
		"HOME=" + filepath.Join(os.TempDir(), "tinygo-home"),
	}
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") && *goSdkBin != "" {
			continue
		}
		if strings.HasPrefix(kv, "HOME=") {
			continue
		}
		env = append(env, kv)
	}
	if *goSdkBin != "" {
		env = append(env, "PATH="+filepath.Join(pwd, *goSdkBin))
	}
	if *wasmOpt != "" {
		env = append(env, "WASMOPT="+filepath.Join(pwd, *wasmOpt))
	}
	return env
}

func toolPath(pwd, tool string) string {
	if filepath.IsAbs(tool) || !strings.ContainsRune(tool, filepath.Separator) {
		return tool
	}
	return filepath.Join(pwd, tool)
}
