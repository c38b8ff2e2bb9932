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
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"go.dsigen.org/dsigen/encoding/dsijson"
)

var buffers = make(map[*uint8][]uint8)

//go:export dsigen_codegen_allocate
func dsigenCodegenAllocate(len uint32) *uint8 {
	if len == 0 || len > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(len))
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

//go:export dsigen_codegen_deallocate
func dsigenCodegenDeallocate(ptr *uint8) {
	delete(buffers, ptr)
}

//go:export dsigen_codegen_generate/text
func dsigenCodegenGenerateText(requestPtr *uint8, responsePtrPtr **uint8) uint8 {
	requestLen := binary.LittleEndian.Uint32(unsafe.Slice(requestPtr, 4))
	requestBuf := unsafe.Slice((*uint8)(unsafe.Add(unsafe.Pointer(requestPtr), 4)), requestLen)

	request, err := dsijson.DecodeAs[dsijson.Request](requestBuf)
	if err != nil {
		return respondError(responsePtrPtr, fmt.Errorf("Decode[Request]: %w", err))
	}
	response, err := generate(request)
	if err != nil {
		return respondError(responsePtrPtr, err)
	}
	responseBuf, err := dsijson.Encode(response)
	if err != nil {
		return respondError(responsePtrPtr, fmt.Errorf("Encode[Response]: %w", err))
	}
	respond(responsePtrPtr, responseBuf)
	return 0
}

func respondError(responsePtrPtr **uint8, err error) uint8 {
	responseBuf, _ := dsijson.Encode(&dsijson.Response{Error: err.Error()})
	respond(responsePtrPtr, responseBuf)
	return 1
}

// respond stores a length-prefixed copy of msg and publishes its address.
func respond(responsePtrPtr **uint8, msg []byte) {
	response := binary.LittleEndian.AppendUint32(make([]byte, 0, 4+len(msg)), uint32(len(msg)))
	response = append(response, msg...)
	responsePtr := unsafe.SliceData(response)
	buffers[responsePtr] = response
	*responsePtrPtr = responsePtr
}
