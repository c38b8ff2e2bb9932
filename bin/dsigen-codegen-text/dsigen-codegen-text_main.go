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

//go:generate go run ../../internal/build -output=dsigen-codegen-text.wasm .

package main

import (
	"fmt"
	"log"
	"os"

	"go.dsigen.org/dsigen/encoding/dsijson"
	"go.dsigen.org/dsigen/encoding/dsitext"
)

// When run as a command, the plugin reads a JSON request from a file and
// prints the generated files. Inside the wasm host main is never called.
func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		log.Fatalf("usage: %s REQUEST_JSON", os.Args[0])
	}
	requestPath := args[0]

	requestBuf, err := os.ReadFile(requestPath)
	if err != nil {
		log.Fatalf("ReadFile(%q): %v", requestPath, err)
	}
	request, err := dsijson.DecodeAs[dsijson.Request](requestBuf)
	if err != nil {
		log.Fatalf("Decode(%q): %v", requestPath, err)
	}
	response, err := generate(request)
	if err != nil {
		log.Fatal(err)
	}
	for _, file := range response.OutputFiles {
		fmt.Printf("==> %s <==\n%s", file.Path, file.Content)
	}
}

// generate emits one text dump per interface. Dependencies are only
// dumped when the "dependencies" option is "true".
func generate(request *dsijson.Request) (*dsijson.Response, error) {
	if request.Interface == nil {
		return nil, fmt.Errorf("Request has no interface")
	}
	interfaces := []*dsijson.Interface{request.Interface}
	switch opt := request.PluginOptions["dependencies"]; opt {
	case "", "false":
	case "true":
		interfaces = append(interfaces, request.Dependencies...)
	default:
		return nil, fmt.Errorf("Invalid value %q for option \"dependencies\"", opt)
	}

	response := &dsijson.Response{}
	for _, iface := range interfaces {
		if iface.Name == "" {
			return nil, fmt.Errorf("Interface without a name")
		}
		response.OutputFiles = append(response.OutputFiles, dsijson.OutputFile{
			Path:    []string{iface.Name + ".dsitext"},
			Content: dsitext.EncodeModel(iface),
		})
	}
	return response, nil
}
