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

// Package stream implements the streamed-I/O abstractions of spec.md
// §4.1: typed writer/reader (forward and backward), multi-stream
// writer/reader, multi-part writer, and the disk-backed FIFO that
// backs radix-heap bucket spill. The forward writer/reader and the
// multi-stream writer/reader are goroutine producer/consumer pairs
// trading fixed-size buffers over channels (the backward reader and
// the FIFO do their I/O on the caller's goroutine), the idiomatic Go
// analogue of the teacher's thread-plus-condvar buffer pool in
// io.CompressedOutputStream/CompressedInputStream: a channel send
// blocks exactly where a condvar wait would, and the channel's
// capacity is the buffer pool's page count.
package stream

import (
	"encoding/binary"

	"github.com/dominikkempa/fsais-sub000/internal/packedint"
)

// Codec packs/unpacks a fixed-size element of type T to/from a little-endian
// byte slice, the serialization contract every typed stream in this
// package is built on.
type Codec[T any] interface {
	// Size returns the fixed number of bytes one element occupies on disk.
	Size() int

	// Put encodes v into dst[0:Size()].
	Put(dst []byte, v T)

	// Get decodes one element from src[0:Size()].
	Get(src []byte) T
}

// Uint64Codec packs a uint64 value using a packed width in {1,2,3,4,5,6,8}
// bytes, used for symbol and text-offset streams (§3 per-block streams,
// §6 packed integer widths).
type Uint64Codec struct {
	Width packedint.ByteWidth
}

func (c Uint64Codec) Size() int { return int(c.Width) }

func (c Uint64Codec) Put(dst []byte, v uint64) {
	packedint.PutUint64(dst, c.Width, v)
}

func (c Uint64Codec) Get(src []byte) uint64 {
	return packedint.Uint64(src, c.Width)
}

// PairCodec packs a (key uint64, value uint64) pair, each half at its
// own packed width.
type PairCodec struct {
	KeyWidth   packedint.ByteWidth
	ValueWidth packedint.ByteWidth
}

func (c PairCodec) Size() int { return int(c.KeyWidth) + int(c.ValueWidth) }

type Pair struct {
	Key   uint64
	Value uint64
}

func (c PairCodec) Put(dst []byte, v Pair) {
	packedint.PutUint64(dst, c.KeyWidth, v.Key)
	packedint.PutUint64(dst[c.KeyWidth:], c.ValueWidth, v.Value)
}

func (c PairCodec) Get(src []byte) Pair {
	return Pair{
		Key:   packedint.Uint64(src, c.KeyWidth),
		Value: packedint.Uint64(src[c.KeyWidth:], c.ValueWidth),
	}
}

// byteOrder names the little-endian byte order of the packed encodings
// in this package; no code in the package reads it.
var byteOrder = binary.LittleEndian
