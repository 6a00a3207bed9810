/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ioutil provides small io.ReadWriteCloser helpers used to test
// the stream and bitio packages without touching disk, plus a
// reserved-file-name check.
package ioutil

import (
	"bytes"
	"errors"
	"runtime"
	"strings"
)

// BufferStream is a closable read/write stream of bytes backed by a
// bytes.Buffer; it stands in for a temp file in unit tests of the
// stream/bitio readers and writers.
type BufferStream struct {
	buf    *bytes.Buffer
	closed bool
}

// NewBufferStream creates a BufferStream, optionally pre-filled with data.
func NewBufferStream(data ...[]byte) *BufferStream {
	this := &BufferStream{}

	if len(data) == 1 {
		this.buf = bytes.NewBuffer(data[0])
	} else {
		this.buf = bytes.NewBuffer(make([]byte, 0))
	}

	return this
}

// Write appends b to the stream. Returns an error if the stream is closed.
func (this *BufferStream) Write(b []byte) (int, error) {
	if this.closed {
		return 0, errors.New("stream closed")
	}

	return this.buf.Write(b)
}

// Read reads from the stream at the current read offset. Returns an
// error if the stream is closed, or (0, io.EOF) once drained.
func (this *BufferStream) Read(b []byte) (int, error) {
	if this.closed {
		return 0, errors.New("stream closed")
	}

	return this.buf.Read(b)
}

// Close makes the stream unavailable for future reads or writes.
func (this *BufferStream) Close() error {
	this.closed = true
	return nil
}

// Len returns the number of unread bytes in the stream.
func (this *BufferStream) Len() int {
	return this.buf.Len()
}

// Bytes returns the unread portion of the underlying buffer.
func (this *BufferStream) Bytes() []byte {
	return this.buf.Bytes()
}

// IsReservedName reports whether fileName collides with a Windows
// reserved device name (AUX, CON, COM1, ...). Always false off Windows.
func IsReservedName(fileName string) bool {
	if runtime.GOOS != "windows" {
		return false
	}

	var reserved = []string{"AUX", "COM0", "COM1", "COM2", "COM3", "COM4", "COM5", "COM6",
		"COM7", "COM8", "COM9", "CON", "LPT0", "LPT1", "LPT2",
		"LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9", "NUL", "PRN"}

	for _, r := range reserved {
		if strings.EqualFold(fileName, r) {
			return true
		}
	}

	return false
}
