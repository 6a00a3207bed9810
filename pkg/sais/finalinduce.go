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
)

// FinalInduce expands the fully and correctly sorted S* suffixes
// (sortedSStar, produced directly by the recursion or by the naive
// base case) into the complete suffix array of text, by the same
// two-pass forward/backward induced sort as the substring passes, seeded
// this time with real suffixes instead of substrings. Grounded on the
// teacher's stage-3 bucket seeding plus induceSuffixArray, and on the
// original prototype's em_induce_minus_and_plus_suffixes.hpp, which
// performs both halves of this expansion as one combined external pass.
//
// Both passes stream their own working slot array through disk (via
// slotWriter/descSlotWriter, the same sequential-merge devices
// plusinducer.go/minusinducer.go use) instead of a make([]Offset, n)
// plus a make([]bool, n) "placed" side array: since every slot is
// touched at most once per pass, "was this slot filled" is exactly
// "did the merge cursor reach it", which the writer already tracks.
// The one remaining n-sized RAM structure is the function's own return
// value, read back once the backward pass has finished -- see the note
// by the final read loop.
func FinalInduce(text []Symbol, types *diskArray, sortedSStar []Offset, bucketStart, bucketEnd []int64, spillBase string, level int, opts *Options) ([]Offset, error) {
	n := int64(len(text))
	codec := offsetCodec{w: packedint.WidthForBound(uint64(n) + 1)}

	// Forward pass: induce every L-type suffix left to right, seeded by
	// placing every sorted S* suffix at the back of its bucket in
	// reverse sorted order (the teacher's stage-3 "put all left-most S
	// characters into their buckets" loop), pushed straight into the
	// heap with no intermediate seedSlot map.
	lheap := newSlotHeap(n, spillBase+".final.l", opts)
	fwdSeed := append([]int64(nil), bucketEnd...)

	for i := len(sortedSStar) - 1; i >= 0; i-- {
		p := sortedSStar[i]
		sym := text[p]
		fwdSeed[sym]--
		lheap.push(fwdSeed[sym], p)
	}

	fwdNext := append([]int64(nil), bucketStart...)
	fwdPath := spillBase + ".final.fwd"

	fw, err := newSlotWriter(fwdPath, n, codec)

	if err != nil {
		return nil, err
	}

	for !lheap.empty() {
		i, j := lheap.next()
		fw.fill(i, 1+j)

		if j == 0 {
			continue
		}

		p := j - 1

		if suffixType(types.get(int64(p))) != typeL {
			continue
		}

		sym := text[p]
		target := fwdNext[sym]
		fwdNext[sym]++
		lheap.push(target, p)
	}

	if err := lheap.close(); err != nil {
		return nil, err
	}

	if err := fw.finish(); err != nil {
		return nil, err
	}

	// Backward pass: induce every S-type suffix right to left, using
	// the same reversed-key trick as the minus-star substring pass,
	// reading the forward pass's output backward (BackwardReader
	// restores ascending text order from its descending on-disk layout)
	// to find every slot it already placed and re-seed it.
	sheap := newSlotHeap(n, spillBase+".final.s", opts)
	bwdNext := append([]int64(nil), bucketEnd...)
	maxKey := uint64(n)

	// Bootstrap: position n-1 is always S-type (the rightmost position
	// in the text, by definition of the classification in
	// ClassifyTypes), and is exactly the position the implicit
	// end-of-text marker -- smaller than every real suffix -- induces
	// first. When it is plain S (not S*) it never appears in
	// sortedSStar and so was never seeded above; with no sentinel
	// entry of its own to chain-react from, it must be seeded directly
	// here, mirroring the teacher's manual pre-loop step in
	// induceSuffixArray. When it IS S* (possible whenever the position
	// before it is L), it was already placed correctly by the ordinary
	// seeding loop above, and seeding it again here would push it into
	// the heap twice.
	if suffixType(types.get(n-1)) != typeSStar {
		lastSym := text[n-1]
		bwdNext[lastSym]--
		sheap.h.Push(maxKey-uint64(bwdNext[lastSym]), Offset(n-1))
	}

	fr, ff, err := openOffsetBackward(fwdPath, n, codec)

	if err != nil {
		return nil, err
	}

	for i := n - 1; i >= 0; i-- {
		v := fr.Read()

		if v == 0 {
			continue
		}

		sheap.h.Push(maxKey-uint64(i), v-1)
	}

	if err := ff.Close(); err != nil {
		return nil, err
	}

	os.Remove(fwdPath)

	bwdPath := spillBase + ".final.bwd"

	dw, err := newDescSlotWriter(bwdPath, n, codec)

	if err != nil {
		return nil, err
	}

	for !sheap.empty() {
		rk, j := sheap.next()
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
		bwdNext[sym]--
		target := bwdNext[sym]
		sheap.h.Push(maxKey-uint64(target), p)
	}

	if err := sheap.close(); err != nil {
		return nil, err
	}

	if err := dw.finish(); err != nil {
		return nil, err
	}

	// The finished suffix array sits in bwdPath in descending slot
	// order (the order the backward pass produced it in); a
	// BackwardReader restores ascending order. This materialization
	// into a single n-sized []Offset is the one RAM structure this
	// package still allocates per level at full text size -- every
	// scratch structure used to get here (types, both passes' slot
	// arrays, the naming pairs) stayed disk-backed throughout. It
	// remains because ComputeSuffixArray's public contract returns
	// []Offset; see DESIGN.md for why that boundary was kept.
	br, bf, err := openOffsetBackward(bwdPath, n, codec)

	if err != nil {
		return nil, err
	}

	order := make([]Offset, n)

	for i := int64(0); i < n; i++ {
		v := br.Read()

		if v != 0 {
			order[i] = v - 1
		}
	}

	if err := bf.Close(); err != nil {
		return nil, err
	}

	os.Remove(bwdPath)

	if opts != nil {
		opts.notify(fsais.EvtFinalInduce, level, n)
	}

	return order, nil
}
