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

package compiler

import (
	"fmt"
)

type Warning struct {
	code    uint32
	message string
	file    string
}

func (w *Warning) String() string {
	if w.file != "" {
		return fmt.Sprintf("W%d: %s: %s", w.code, w.file, w.message)
	}
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) File() string {
	return w.file
}

func warnUnknownElement(parent, child, file string) *Warning {
	return &Warning{
		code:    4000,
		message: fmt.Sprintf("Unknown XML tag: %s / %s", parent, child),
		file:    file,
	}
}

func warnEnumValue(enum, id string, err error, file string) *Warning {
	msg := err.Error()
	if e, ok := err.(*Error); ok {
		msg = e.Message()
	}
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("Value of %s.%s is unresolved: %s", enum, id, msg),
		file:    file,
	}
}
