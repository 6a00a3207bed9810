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
	"io"
	"os"
)

// FIFO is a disk-backed queue: two in-RAM ring buffers (head, for the
// next items to pop, and tail, for the most recently pushed items) with
// a backing file absorbing whatever does not fit in RAM. While the
// queue is small enough that everything fits between head and tail, no
// file is ever touched at all. This is the same head/tail-plus-overflow
// shape as the original em_queue design: push appends to tail, and once
// tail is full it is appended to the backing file; pop drains head, and
// once head is empty it is refilled either from the file (if non-empty)
// or directly from tail.
type FIFO[T any] struct {
	codec    Codec[T]
	itemSize int
	path     string

	head    []T
	headPos int
	tail    []T
	capItem int

	f        *os.File
	fileLen  int64 // bytes still unread at the front of the file
	readOff  int64 // byte offset of next unread file record
	writeOff int64 // byte offset for the next file append

	size int64
}

// NewFIFO creates an empty disk-backed FIFO; path names the (lazily
// created) overflow file, and capacity bounds each RAM ring buffer in
// items.
func NewFIFO[T any](path string, codec Codec[T], capacity int) *FIFO[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &FIFO[T]{
		codec:    codec,
		itemSize: codec.Size(),
		path:     path,
		head:     make([]T, 0, capacity),
		tail:     make([]T, 0, capacity),
		capItem:  capacity,
	}
}

// Size returns the number of items currently enqueued.
func (q *FIFO[T]) Size() int64 { return q.size }

// Empty reports whether the queue holds no items.
func (q *FIFO[T]) Empty() bool { return q.size == 0 }

// Push enqueues x at the tail.
func (q *FIFO[T]) Push(x T) error {
	if len(q.tail) == q.capItem {
		if err := q.spillTail(); err != nil {
			return err
		}
	}

	q.tail = append(q.tail, x)
	q.size++
	return nil
}

// spillTail appends the full tail buffer to the backing file and
// empties it, opening the file lazily on first use.
func (q *FIFO[T]) spillTail() error {
	if q.f == nil {
		f, err := os.Create(q.path)

		if err != nil {
			return &ioError{op: "create", path: q.path, err: err}
		}

		q.f = f
	}

	raw := make([]byte, len(q.tail)*q.itemSize)

	for i, x := range q.tail {
		q.codec.Put(raw[i*q.itemSize:], x)
	}

	if _, err := q.f.WriteAt(raw, q.writeOff); err != nil {
		return &ioError{op: "write", path: q.path, err: err}
	}

	q.writeOff += int64(len(raw))
	q.fileLen += int64(len(raw))
	q.tail = q.tail[:0]
	return nil
}

// Pop dequeues and returns the item at the front.
func (q *FIFO[T]) Pop() (T, error) {
	var zero T

	if q.size == 0 {
		return zero, io.EOF
	}

	if q.headPos >= len(q.head) {
		if err := q.refillHead(); err != nil {
			return zero, err
		}
	}

	x := q.head[q.headPos]
	q.headPos++
	q.size--
	return x, nil
}

// refillHead pulls the next chunk of items into head, preferring the
// backing file (FIFO order) and falling back to tail when the file is
// exhausted, i.e. everything still enqueued is in RAM.
func (q *FIFO[T]) refillHead() error {
	q.head = q.head[:0]
	q.headPos = 0

	if q.fileLen > 0 {
		n := int64(q.capItem)

		if n*int64(q.itemSize) > q.fileLen {
			n = q.fileLen / int64(q.itemSize)
		}

		raw := make([]byte, n*int64(q.itemSize))

		if _, err := q.f.ReadAt(raw, q.readOff); err != nil && err != io.EOF {
			return &ioError{op: "read", path: q.path, err: err}
		}

		q.readOff += int64(len(raw))
		q.fileLen -= int64(len(raw))

		for i := int64(0); i < n; i++ {
			q.head = append(q.head, q.codec.Get(raw[i*int64(q.itemSize):]))
		}

		return nil
	}

	q.head, q.tail = q.tail, q.head[:0]
	return nil
}

// IOBytes returns the total number of bytes ever spilled to the backing
// file (monotonically increasing, even across items already popped
// back out), used as the I/O-volume metric of structures built on FIFO.
func (q *FIFO[T]) IOBytes() int64 { return q.writeOff }

// Close releases and deletes the backing file, if one was ever created.
func (q *FIFO[T]) Close() error {
	if q.f == nil {
		return nil
	}

	err := q.f.Close()
	os.Remove(q.path)
	return err
}
