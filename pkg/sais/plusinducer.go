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

package sais

import (
	"os"

	fsais "github.com/dominikkempa/fsais-sub000"
	"github.com/dominikkempa/fsais-sub000/internal/packedint"
	"github.com/dominikkempa/fsais-sub000/pkg/radixheap"
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

// slotHeap is the monotone-priority-queue reformation of SA-IS's flat
// sa[] scan: instead of visiting slot 0,1,...,n-1 in order and reading
// whatever induction already placed there, every induced item is pushed
// keyed by the exact slot it targets, and ExtractMin replays the same
// slots in the same ascending order the original in-RAM scan would
// have visited them in -- but skipping empty slots, and able to spill
// to disk through the radix heap's FIFO-backed buckets when a
// character's bucket is larger than RAM. This is the structural
// substitution that turns the teacher's induceSuffixArray /
// sortLMSSuffixes loops into external-memory passes.
type slotHeap struct {
	h *radixheap.RadixHeap[Offset]
}

func newSlotHeap(n int64, spillBase string, opts *Options) *slotHeap {
	valueCodec := radixheapValueCodec(n)
	return &slotHeap{h: radixheap.New[Offset](opts.RadixLog, uint64(n), spillBase, valueCodec, ramItemsPerBucket(opts))}
}

func radixheapValueCodec(n int64) stream.Codec[Offset] {
	return offsetCodec{w: packedint.WidthForBound(uint64(n) + 1)}
}

type offsetCodec struct{ w packedint.ByteWidth }

func (c offsetCodec) Size() int                { return int(c.w) }
func (c offsetCodec) Put(dst []byte, v Offset) { packedint.PutUint64(dst, c.w, v) }
func (c offsetCodec) Get(src []byte) Offset    { return packedint.Uint64(src, c.w) }

func ramItemsPerBucket(opts *Options) int {
	n := int(opts.RAMBudget / 64)

	if n < 64 {
		n = 64
	}

	return n
}

func (s *slotHeap) push(slot int64, value Offset) { s.h.Push(uint64(slot), value) }

func (s *slotHeap) empty() bool { return s.h.Empty() }

// next returns the next (slot, value) pair in ascending slot order.
func (s *slotHeap) next() (int64, Offset) {
	k, v, err := s.h.ExtractMin()

	if err != nil {
		panic(err)
	}

	return int64(k), v
}

func (s *slotHeap) close() error { return s.h.Close() }

// slotWriter streams a 0=empty/1+value-shifted slot array of n entries
// to disk in ascending slot order, the same convention plusinducer.go
// and minusinducer.go's in-RAM predecessors used, but realized as a
// genuine sequential stream.Writer instead of a make([]Offset, n)
// allocation: because every induction pass's heap.next() visits its own
// touched slots in strictly increasing order (each slot is targeted by
// at most one push, via a monotonically advancing bucket counter), the
// full n-sized result can be produced by a single forward merge between
// "the next slot the heap reports" and "the next slot the output cursor
// is at", filling every skipped slot with the empty sentinel as the
// cursor passes it.
type slotWriter struct {
	w      *stream.Writer[Offset]
	cursor int64
	n      int64
}

func newSlotWriter(path string, n int64, codec offsetCodec) (*slotWriter, error) {
	f, err := os.Create(path)

	if err != nil {
		return nil, err
	}

	return &slotWriter{w: stream.NewWriter[Offset](f, path, codec, 4096, 3), n: n}, nil
}

// fill advances the cursor up to (not including) slot i, emitting the
// empty sentinel for every slot skipped, then writes v at i.
func (s *slotWriter) fill(i int64, v Offset) {
	for s.cursor < i {
		s.w.Push(0)
		s.cursor++
	}

	s.w.Push(v)
	s.cursor++
}

func (s *slotWriter) finish() error {
	for s.cursor < s.n {
		s.w.Push(0)
		s.cursor++
	}

	return s.w.Close()
}

// InducePlusStarSubstrings runs the forward (L-type) half of LMS
// substring sorting: every S* position is seeded at the back of its own
// bucket (in reverse text order -- SA-IS only needs the correct bucket,
// not a particular intra-bucket order, at this stage, per the proof
// behind sortLMSSuffixes), then every L-type position's rank is induced
// by scanning buckets left to right. Grounded on the teacher's
// sortLMSSuffixes "sal" half and, in the original prototype,
// induce_plus_star_substrings.hpp.
//
// types is a disk-backed random-access array (blockpre.go), queried by
// position as each induced predecessor is discovered; the result (one
// Offset per text position, ascending slot order, 0 meaning "not placed
// by this pass") is written to outPath and returned as a (path, n)
// handle rather than a slice, so this pass's own working memory never
// grows with n.
func InducePlusStarSubstrings(text []Symbol, types *diskArray, sstarInTextOrder []Offset, bucketStart, bucketEnd []int64, outPath string, spillBase string, level int, opts *Options) (string, int64, error) {
	n := int64(len(text))
	heap := newSlotHeap(n, spillBase+".plus", opts)
	defer heap.close()

	// Seed directly into the heap -- no intermediate seedSlot map is
	// built; each S* position's bucket-back slot is computed and pushed
	// in the same loop.
	bucketPtr := append([]int64(nil), bucketEnd...)

	for i := len(sstarInTextOrder) - 1; i >= 0; i-- {
		p := sstarInTextOrder[i]
		sym := text[p]
		bucketPtr[sym]--
		heap.push(bucketPtr[sym], p)
	}

	bucketNext := append([]int64(nil), bucketStart...)
	codec := offsetCodec{w: packedint.WidthForBound(uint64(n) + 1)}

	sw, err := newSlotWriter(outPath, n, codec)

	if err != nil {
		return "", 0, err
	}

	for !heap.empty() {
		i, j := heap.next()
		sw.fill(i, 1+j)

		if j == 0 {
			continue
		}

		p := j - 1

		if suffixType(types.get(int64(p))) != typeL {
			continue
		}

		sym := text[p]
		target := bucketNext[sym]
		bucketNext[sym]++
		heap.push(target, p)
	}

	if err := sw.finish(); err != nil {
		return "", 0, err
	}

	if opts != nil {
		opts.notify(fsais.EvtPlusInduce, level, n)
	}

	return outPath, n, nil
}
