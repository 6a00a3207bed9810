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
	"io"
	"os"

	fsais "github.com/dominikkempa/fsais-sub000"
	"github.com/dominikkempa/fsais-sub000/internal/packedint"
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

// descSlotWriter is slotWriter's mirror image: the minus-star and final
// backward passes extract from their reversed-key heap in descending
// slot order (n-1 down to 0), so the natural way to stream their result
// out -- without ever buffering more than the current run of empty
// slots -- is a cursor counting down instead of up. A consumer wanting
// ascending order reads the resulting file with a BackwardReader, which
// reverses it back.
type descSlotWriter struct {
	w      *stream.Writer[Offset]
	cursor int64
}

func newDescSlotWriter(path string, n int64, codec offsetCodec) (*descSlotWriter, error) {
	f, err := os.Create(path)

	if err != nil {
		return nil, err
	}

	return &descSlotWriter{w: stream.NewWriter[Offset](f, path, codec, 4096, 3), cursor: n - 1}, nil
}

func (s *descSlotWriter) fill(i int64, v Offset) {
	for s.cursor > i {
		s.w.Push(0)
		s.cursor--
	}

	s.w.Push(v)
	s.cursor--
}

func (s *descSlotWriter) finish() error {
	for s.cursor >= 0 {
		s.w.Push(0)
		s.cursor--
	}

	return s.w.Close()
}

func openOffsetBackward(path string, n int64, codec offsetCodec) (*stream.BackwardReader[Offset], *os.File, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, nil, err
	}

	fi, err := f.Stat()

	if err != nil {
		f.Close()
		return nil, nil, err
	}

	br, err := stream.NewBackwardReader[Offset](f, path, codec, fi.Size())

	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return br, f, nil
}

// InduceMinusStarSubstrings runs the backward (S-type) half of LMS
// substring sorting, completing the order the plus-star pass started:
// scanning buckets right to left, every S-type predecessor of an
// already-placed suffix is induced into the back of its own bucket.
// Grounded on the teacher's sortLMSSuffixes "sas" half and, in the
// original prototype, em_induce_minus_star_substrings.hpp.
//
// plusPath/plusN is the (path, n) handle InducePlusStarSubstrings
// returned, read back with a BackwardReader to replay it in the
// descending order the original in-RAM "for i := n-1; i >= 0" scan
// used. The result is written to outPath in the same descending order
// the pass naturally produces it in (see descSlotWriter) and returned
// as a (path, n) handle.
func InduceMinusStarSubstrings(text []Symbol, types *diskArray, plusPath string, plusN int64, bucketEnd []int64, outPath string, spillBase string, level int, opts *Options) (string, int64, error) {
	n := int64(len(text))
	heap := newSlotHeap(n, spillBase+".minus", opts)
	defer heap.close()

	bucketNext := append([]int64(nil), bucketEnd...)

	// reversedKey turns the ascending-only radixheap.RadixHeap into a
	// descending-slot scan: pushing (maxKey-slot) and reading back
	// slot = maxKey-key visits slot n-1 down to 0 in order.
	maxKey := uint64(n)
	codec := offsetCodec{w: packedint.WidthForBound(uint64(plusN) + 1)}

	pr, pf, err := openOffsetBackward(plusPath, plusN, codec)

	if err != nil {
		return "", 0, err
	}

	for i := n - 1; i >= 0; i-- {
		v := pr.Read()

		if v == 0 {
			continue
		}

		heap.h.Push(maxKey-uint64(i), v-1)
	}

	if err := pf.Close(); err != nil {
		return "", 0, err
	}

	dw, err := newDescSlotWriter(outPath, n, offsetCodec{w: packedint.WidthForBound(uint64(n) + 1)})

	if err != nil {
		return "", 0, err
	}

	for !heap.empty() {
		rk, j := heap.next()
		i := int64(maxKey - uint64(rk))
		dw.fill(i, 1+j)

		if j == 0 {
			continue
		}

		p := j - 1

		if suffixType(types.get(int64(p))) == typeL {
			continue
		}

		sym := text[p]
		bucketNext[sym]--
		target := bucketNext[sym]
		heap.h.Push(maxKey-uint64(target), p)
	}

	if err := dw.finish(); err != nil {
		return "", 0, err
	}

	if opts != nil {
		opts.notify(fsais.EvtMinusInduce, level, n)
	}

	return outPath, n, nil
}

// sstarSortedOrder reads off the fully-ordered list of S* positions
// from the combined plus/minus induction result: because the two
// passes together sort every LMS substring's bucket-relative position
// exactly as the in-RAM algorithm's sortLMSSuffixes does, reading the
// minus pass's output file in ascending slot order (a BackwardReader
// over its descending on-disk layout) and keeping only S*-typed
// positions yields the S* positions in lexicographic substring order
// directly, without needing the in-place compaction the teacher's
// postProcessLMS performs (that compaction exists only to avoid a
// second n-sized array in the original in-place algorithm). The result
// is streamed out to outPath rather than collected into a slice.
func sstarSortedOrder(minusPath string, minusN int64, types *diskArray, outPath string) (string, int64, error) {
	codec := offsetCodec{w: packedint.WidthForBound(uint64(minusN) + 1)}

	br, bf, err := openOffsetBackward(minusPath, minusN, codec)

	if err != nil {
		return "", 0, err
	}

	of, err := os.Create(outPath)

	if err != nil {
		bf.Close()
		return "", 0, err
	}

	w := stream.NewWriter[Offset](of, outPath, codec, 4096, 3)
	var count int64

	for i := int64(0); i < minusN; i++ {
		v := br.Read()

		if v == 0 {
			continue
		}

		p := v - 1

		if suffixType(types.get(int64(p))) == typeSStar {
			w.Push(p)
			count++
		}
	}

	if err := bf.Close(); err != nil {
		return "", 0, err
	}

	if err := w.Close(); err != nil {
		return "", 0, err
	}

	return outPath, count, nil
}

// NameSStarSubstrings assigns a lexicographic name (a dense rank
// starting at 1) to every S* position, given the sorted order computed
// by sstarSortedOrder. Two consecutive sorted S* substrings get the
// same name iff they are character-for-character identical up to the
// shorter one's end, which is only possible when both have equal length
// (the distance to the following S* position, or to the end of text for
// the last one) -- otherwise one is a proper prefix of the other and,
// being different LMS substrings (the one ending in the sentinel
// aside), they are never equal as substrings.
//
// The (position, name) pairs are emitted, in sorted order, as two
// logical streams of a single stream.MultiWriter -- the genuine
// external-memory analogue of the original design's
// lex_sorted_minus_star stream -- instead of collected into a
// names map[Offset]Offset: Symbol and Offset are the same uint64 alias,
// so one MultiWriter[uint64] instance carries both streams through a
// single shared I/O goroutine.
func NameSStarSubstrings(text []Symbol, types *diskArray, sortedPath string, sortedCount int64, posOutPath, nameOutPath string, level int, opts *Options) (numNames int64, err error) {
	n := int64(len(text))
	codec := offsetCodec{w: packedint.WidthForBound(uint64(n) + 1)}

	sf, err := os.Open(sortedPath)

	if err != nil {
		return 0, err
	}

	sr := stream.NewReader[Offset](sf, sortedPath, codec, 4096, 3)

	pf, err := os.Create(posOutPath)

	if err != nil {
		sr.Close()
		return 0, err
	}

	nf, err := os.Create(nameOutPath)

	if err != nil {
		pf.Close()
		sr.Close()
		return 0, err
	}

	mw := stream.NewMultiWriter[uint64]([]io.WriteCloser{pf, nf}, []string{posOutPath, nameOutPath}, codec, 4096, 6)

	sstarLen := func(p Offset) int64 {
		for q := int64(p) + 1; q < n; q++ {
			if suffixType(types.get(q)) == typeSStar {
				return q - int64(p)
			}
		}

		return n - int64(p)
	}

	var name int64
	var prev Offset
	prevLen := int64(-1)

	for idx := int64(0); idx < sortedCount; idx++ {
		p := sr.Read()
		plen := sstarLen(p)
		diff := true

		if idx > 0 && plen == prevLen {
			diff = false

			for k := int64(0); k < plen; k++ {
				if text[int64(p)+k] != text[int64(prev)+k] {
					diff = true
					break
				}
			}
		}

		if diff {
			name++
		}

		mw.Push(0, uint64(p))
		mw.Push(1, uint64(name))

		prev = p
		prevLen = plen
	}

	if err := sr.Close(); err != nil {
		return 0, err
	}

	mw.CloseStream(0)
	mw.CloseStream(1)

	if err := mw.Close(); err != nil {
		return 0, err
	}

	if opts != nil {
		opts.notify(fsais.EvtMinusInduce, level, sortedCount)
	}

	return name, nil
}
