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

// SStarPositionsInTextOrder scans the disk-backed type array for S*
// positions and returns them in increasing text-position order (the
// order recursive text construction needs, as opposed to
// sstarSortedOrder's lexicographic order). The result is bounded by the
// number of S* positions, which is at most half of n and shrinks by at
// least that factor at every further recursion level (the standard
// SA-IS recursion bound), so -- unlike types/slot/order, which are
// full-n working structures recomputed fresh and held at every level --
// keeping this one in RAM is the same accepted footprint as holding the
// recursive text itself (see BuildRecursiveText).
func SStarPositionsInTextOrder(types *diskArray, n int64) []Offset {
	out := make([]Offset, 0, n/8+1)

	for i := int64(0); i < n; i++ {
		if suffixType(types.get(i)) == typeSStar {
			out = append(out, Offset(i))
		}
	}

	return out
}

// BuildRecursiveText produces the reduced-alphabet text the next
// recursion level sorts: one symbol per S* position, in text order,
// each replaced by its lexicographic name. Grounded on the teacher's
// name-compaction loop in computeSuffixArray's stage 2 (the
// ComputeSuffixArray(sa[m+newfs:], ...) recursive call), generalized
// from an in-place array transplant to an explicit external-memory
// text, per the original em_compute_sa.hpp recursion-text builder.
//
// NameSStarSubstrings emits (position, name) pairs in lexicographic
// order, but the recursive text needs them in text order; reconciling
// the two orderings takes one disk-backed scatter step (write each name
// at its text position into a byPos diskArray) followed by one
// sequential gather over inTextOrder. Both the scatter target and the
// final text are bounded by n and by len(inTextOrder) respectively --
// len(inTextOrder) is this level's S* count, the shrinking dimension
// described on SStarPositionsInTextOrder, so materializing the result
// in RAM here matches the existing recursion-to-recursion footprint
// rather than adding a new one.
func BuildRecursiveText(inTextOrder []Offset, n int64, posPath, namePath string, pairCount int64, numNames int64) ([]Symbol, error) {
	byPos, err := newDiskArray(namePath+".byPos", n, packedint.WidthForBound(uint64(numNames)+1))

	if err != nil {
		return nil, err
	}

	defer removeDiskArray(byPos)

	pf, err := os.Open(posPath)

	if err != nil {
		return nil, err
	}

	nf, err := os.Open(namePath)

	if err != nil {
		pf.Close()
		return nil, err
	}

	pairCodec := offsetCodec{w: packedint.WidthForBound(uint64(n) + 1)}
	mr := stream.NewMultiReader[uint64]([]io.ReadCloser{pf, nf}, pairCodec, 4096, 6)

	for i := int64(0); i < pairCount; i++ {
		p := mr.Read(0)
		name := mr.Read(1)
		byPos.set(int64(p), name)
	}

	if err := mr.Close(); err != nil {
		return nil, err
	}

	rec := make([]Symbol, len(inTextOrder))

	for i, p := range inTextOrder {
		rec[i] = Symbol(byPos.get(int64(p)))
	}

	return rec, nil
}

// TranslateRecursiveSA maps a suffix array computed over the recursive
// text (indices into inTextOrder) back to the original text's S*
// positions, i.e. the fully-sorted order of every S* suffix.
func TranslateRecursiveSA(recSA []Offset, inTextOrder []Offset) []Offset {
	out := make([]Offset, len(recSA))

	for i, r := range recSA {
		out[i] = inTextOrder[r]
	}

	return out
}

func notifyRecursiveText(level int, size int64, opts *Options) {
	if opts != nil {
		opts.notify(fsais.EvtRecursiveText, level, size)
	}
}
