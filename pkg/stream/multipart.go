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

package stream

import (
	"fmt"
	"os"
)

// MultiPartWriter is a typed Writer[T] that rolls over to a fresh
// "<base>.part.<i>" file (i zero-padded to five digits) once the current
// part reaches partSize bytes, per spec.md §4.1. Used where a single
// logical stream would otherwise exceed a filesystem's practical
// single-file size.
type MultiPartWriter[T any] struct {
	base     string
	partSize int64
	codec    Codec[T]

	partIdx   int
	partBytes int64
	itemSize  int

	f *os.File
	w *Writer[T]

	perBuf, nBufs int
}

// NewMultiPartWriter creates a part writer rolling at partSize bytes.
func NewMultiPartWriter[T any](base string, partSize int64, codec Codec[T], itemsPerBuffer, nBuffers int) (*MultiPartWriter[T], error) {
	mpw := &MultiPartWriter[T]{
		base:     base,
		partSize: partSize,
		codec:    codec,
		itemSize: codec.Size(),
		perBuf:   itemsPerBuffer,
		nBufs:    nBuffers,
	}

	if err := mpw.openPart(); err != nil {
		return nil, err
	}

	return mpw, nil
}

func (mpw *MultiPartWriter[T]) partPath(i int) string {
	return fmt.Sprintf("%s.part.%05d", mpw.base, i)
}

func (mpw *MultiPartWriter[T]) openPart() error {
	path := mpw.partPath(mpw.partIdx)

	f, err := os.Create(path)

	if err != nil {
		return &ioError{op: "create", path: path, err: err}
	}

	mpw.f = f
	mpw.w = NewWriter[T](f, path, mpw.codec, mpw.perBuf, mpw.nBufs)
	mpw.partBytes = 0
	return nil
}

// Push appends x to the current part, rolling to a new part first if
// the current one has reached partSize bytes.
func (mpw *MultiPartWriter[T]) Push(x T) error {
	if mpw.partBytes >= mpw.partSize {
		if err := mpw.w.Close(); err != nil {
			return err
		}

		mpw.partIdx++

		if err := mpw.openPart(); err != nil {
			return err
		}
	}

	mpw.w.Push(x)
	mpw.partBytes += int64(mpw.itemSize)
	return nil
}

// GetPartsCount returns the number of parts created so far (including
// the currently open one).
func (mpw *MultiPartWriter[T]) GetPartsCount() int {
	return mpw.partIdx + 1
}

// PartPath returns the path of part i.
func (mpw *MultiPartWriter[T]) PartPath(i int) string {
	return mpw.partPath(i)
}

// Close flushes and closes the current part.
func (mpw *MultiPartWriter[T]) Close() error {
	return mpw.w.Close()
}
