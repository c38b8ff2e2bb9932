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

	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	pluginAllocate   = "dsigen_codegen_allocate"
	pluginDeallocate = "dsigen_codegen_deallocate"
	pluginGenerate   = "dsigen_codegen_generate/"
)

// runPlugin instantiates a code generator plugin and passes it one
// request. Requests and responses are exchanged through the plugin's
// memory, each prefixed with its little-endian uint32 length.
func runPlugin(ctx context.Context, pluginBin []byte, language string, request []byte) ([]byte, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, err
	}

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, err
	}
	moduleConfig := wasm.NewModuleConfig().
		WithStderr(os.Stderr).
		WithStartFunctions("_initialize")
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, err
	}
	mem := plugin.Memory()
	if mem == nil {
		return nil, fmt.Errorf("Plugin does not export its memory")
	}

	wasmAlloc := plugin.ExportedFunction(pluginAllocate)
	if wasmAlloc == nil {
		return nil, fmt.Errorf("Plugin does not export %s", pluginAllocate)
	}
	wasmDealloc := plugin.ExportedFunction(pluginDeallocate)
	wasmGenerate := plugin.ExportedFunction(pluginGenerate + language)
	if wasmGenerate == nil {
		return nil, fmt.Errorf("Plugin does not support language %q", language)
	}

	requestPtr, err := allocate(ctx, wasmAlloc, uint32(4+len(request)))
	if err != nil {
		return nil, err
	}
	if !mem.WriteUint32Le(requestPtr, uint32(len(request))) || !mem.Write(requestPtr+4, request) {
		return nil, fmt.Errorf("Failed to write request message")
	}

	responsePtrPtr, err := allocate(ctx, wasmAlloc, 4)
	if err != nil {
		return nil, err
	}

	results, err := wasmGenerate.Call(ctx, uint64(requestPtr), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, fmt.Errorf("Failed to read response message pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, fmt.Errorf("Failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, fmt.Errorf("Failed to read response message")
	}
	response := bytes.Clone(responseBuf)

	if wasmDealloc != nil {
		for _, ptr := range []uint32{requestPtr, responsePtrPtr, responsePtr} {
			if _, err := wasmDealloc.Call(ctx, uint64(ptr)); err != nil {
				return nil, err
			}
		}
	}

	if rc != 0 && len(response) == 0 {
		return nil, fmt.Errorf("Plugin failed with status %d", rc)
	}
	return response, nil
}

func allocate(ctx context.Context, alloc api.Function, size uint32) (uint32, error) {
	results, err := alloc.Call(ctx, uint64(size))
	if err != nil {
		return 0, err
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("Plugin failed to allocate %d bytes", size)
	}
	return ptr, nil
}
