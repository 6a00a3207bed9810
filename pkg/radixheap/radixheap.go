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

// Package radixheap implements a monotone external-memory radix heap:
// a priority queue whose keys, once extracted, never decrease, which is
// exactly the access pattern the induce-sort passes of package sais
// drive it with (every item pushed carries a key no smaller than the
// most recently extracted key). Each of the O(64/radixLog) buckets is
// itself a stream.FIFO, so a bucket larger than RAM spills to disk
// automatically; pushes and pops are otherwise O(1) amortized, with the
// O(bucket size) cost of a redistribution paid only each time the
// lower bound actually advances past a bucket boundary. This mirrors
// the single-radix_log bucket-by-XOR-magnitude design of the original
// specialized em_radix_heap.
package radixheap

import (
	"errors"
	"math/bits"

	"github.com/dominikkempa/fsais-sub000/internal/packedint"
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

// ErrEmpty is returned by ExtractMin when the heap holds no items.
var ErrEmpty = errors.New("radixheap: extract from empty heap")

// Item is one (key, value) pair stored in the heap.
type Item[V any] struct {
	Key   uint64
	Value V
}

// itemCodec packs an Item[V] as a fixed-width key followed by the
// caller-supplied value encoding, so buckets can spill through
// stream.FIFO like any other typed stream.
type itemCodec[V any] struct {
	keyWidth packedint.ByteWidth
	value    stream.Codec[V]
}

func (c itemCodec[V]) Size() int { return int(c.keyWidth) + c.value.Size() }

func (c itemCodec[V]) Put(dst []byte, v Item[V]) {
	packedint.PutUint64(dst, c.keyWidth, v.Key)
	c.value.Put(dst[c.keyWidth:], v.Value)
}

func (c itemCodec[V]) Get(src []byte) Item[V] {
	return Item[V]{
		Key:   packedint.Uint64(src, c.keyWidth),
		Value: c.value.Get(src[c.keyWidth:]),
	}
}

// RadixHeap is a monotone external-memory priority queue.
type RadixHeap[V any] struct {
	radixLog   uint
	lowerBound uint64
	codec      itemCodec[V]
	spillBase  string
	ramPerFIFO int

	buckets []*stream.FIFO[Item[V]]
	nonEmpty []int64 // per-bucket item count, tracked outside the FIFO

	size int64
}

// New creates an empty radix heap. radixLog is the number of key bits
// grouped per bucket level (spec.md §4.2/§9 picks a single radixLog for
// every recursion level, rather than a per-level schedule); keyBound is
// an upper bound on every key ever pushed, used only to size the bucket
// array; spillBase names the path prefix each bucket's overflow file is
// derived from; valueCodec packs V for disk spill; ramPerFIFO bounds
// each bucket's in-RAM ring buffers (see stream.FIFO).
func New[V any](radixLog uint, keyBound uint64, spillBase string, valueCodec stream.Codec[V], ramPerFIFO int) *RadixHeap[V] {
	if radixLog == 0 {
		radixLog = 1
	}

	keyWidth := packedint.WidthForBound(keyBound + 1)
	numBuckets := 2 + 64/int(radixLog)

	h := &RadixHeap[V]{
		radixLog:   radixLog,
		codec:      itemCodec[V]{keyWidth: keyWidth, value: valueCodec},
		spillBase:  spillBase,
		ramPerFIFO: ramPerFIFO,
		buckets:    make([]*stream.FIFO[Item[V]], numBuckets),
		nonEmpty:   make([]int64, numBuckets),
	}

	for i := range h.buckets {
		h.buckets[i] = stream.NewFIFO[Item[V]](bucketPath(spillBase, i), h.codec, ramPerFIFO)
	}

	return h
}

func bucketPath(base string, i int) string {
	return base + ".bucket." + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	var buf [20]byte
	pos := len(buf)

	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}

	return string(buf[pos:])
}

// bucketIndex returns the bucket a key maps to relative to lower.
func bucketIndex(key, lower uint64, radixLog uint) int {
	if key == lower {
		return 0
	}

	x := key ^ lower
	msb := bits.Len64(x) - 1
	return 1 + msb/int(radixLog)
}

// Push inserts (key, value). key must be >= the most recently extracted
// key, the heap's lower bound (its monotonicity invariant); violating this is a
// caller bug, so it panics rather than returning an error, matching the
// teacher's own panic-on-violated-precondition style for unrecoverable
// internal invariants.
func (h *RadixHeap[V]) Push(key uint64, value V) {
	if key < h.lowerBound {
		panic("radixheap: pushed key below current lower bound")
	}

	idx := bucketIndex(key, h.lowerBound, h.radixLog)

	if err := h.buckets[idx].Push(Item[V]{Key: key, Value: value}); err != nil {
		panic(err)
	}

	h.nonEmpty[idx]++
	h.size++
}

// MinCompare reports whether the current lower bound (the most recently
// extracted key, 0 before any extraction) is < k. It does not look at
// the keys still in the heap: the result says nothing about whether the
// smallest of them is <= k, and it is true even when the heap is empty.
func (h *RadixHeap[V]) MinCompare(k uint64) bool {
	return h.lowerBound < k
}

// Size returns the number of items currently enqueued.
func (h *RadixHeap[V]) Size() int64 { return h.size }

// Empty reports whether the heap holds no items.
func (h *RadixHeap[V]) Empty() bool { return h.size == 0 }

// IOVolume returns the total number of bytes ever spilled to disk
// across every bucket.
func (h *RadixHeap[V]) IOVolume() int64 {
	var total int64

	for _, b := range h.buckets {
		total += b.IOBytes()
	}

	return total
}

// ExtractMin removes and returns the smallest-key item in the heap.
func (h *RadixHeap[V]) ExtractMin() (uint64, V, error) {
	var zero V

	if h.size == 0 {
		return 0, zero, ErrEmpty
	}

	for {
		if h.nonEmpty[0] > 0 {
			it, err := h.buckets[0].Pop()

			if err != nil {
				panic(err)
			}

			h.nonEmpty[0]--
			h.size--
			return it.Key, it.Value, nil
		}

		idx := -1

		for i := 1; i < len(h.buckets); i++ {
			if h.nonEmpty[i] > 0 {
				idx = i
				break
			}
		}

		if idx < 0 {
			return 0, zero, ErrEmpty
		}

		h.redistribute(idx)
	}
}

// redistribute drains bucket idx, advances the lower bound to the
// smallest key found in it, and reinserts every item at the bucket its
// new (smaller) XOR distance to the new lower bound maps to. Because
// every key in bucket idx differed from the old lower bound by a value
// with highest set bit in the same radixLog-sized digit, and the new
// lower bound is itself one of those keys, every redistributed item's
// new bucket index is strictly less than idx -- so this terminates in
// at most len(buckets) redistributions per ExtractMin call.
func (h *RadixHeap[V]) redistribute(idx int) {
	n := h.nonEmpty[idx]
	items := make([]Item[V], 0, n)

	for i := int64(0); i < n; i++ {
		it, err := h.buckets[idx].Pop()

		if err != nil {
			panic(err)
		}

		items = append(items, it)
	}

	h.nonEmpty[idx] = 0

	newLower := items[0].Key

	for _, it := range items[1:] {
		if it.Key < newLower {
			newLower = it.Key
		}
	}

	h.lowerBound = newLower

	for _, it := range items {
		j := bucketIndex(it.Key, h.lowerBound, h.radixLog)

		if err := h.buckets[j].Push(it); err != nil {
			panic(err)
		}

		h.nonEmpty[j]++
	}
}

// Close releases every bucket's backing file.
func (h *RadixHeap[V]) Close() error {
	var first error

	for _, b := range h.buckets {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
