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
	"fmt"
	"os"

	fsais "github.com/dominikkempa/fsais-sub000"
	"github.com/dominikkempa/fsais-sub000/internal/packedint"
	"github.com/dominikkempa/fsais-sub000/internal/xxh"
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

// ramBytesPerSymbol estimates the in-RAM footprint (text + types +
// suffix array, in bytes) of running the naive base case directly on a
// text of the given length, used by the recursion controller to decide
// whether a level can skip the external-memory pipeline entirely.
// SA-IS's own recursive int arrays dominate: one int per symbol for
// data, one int per symbol for sa, plus scratch -- about 24 bytes/symbol
// is a safe working estimate for the 64-bit int slices naive.go uses.
const ramBytesPerSymbol = 24

// DefaultOptions returns reasonable defaults: an 8-bit radix-heap digit,
// a 2,000,000-symbol small-alphabet cutoff (spec.md §9 OQ-2), and an
// empty TempDir, which places spill files in the current directory.
func DefaultOptions() Options {
	return Options{
		RAMBudget:              256 << 20,
		RadixLog:               8,
		SmallAlphabetThreshold: 2_000_000,
		TempDir:                "",
	}
}

// ComputeSuffixArray is the recursion controller (spec.md §4.8): it
// builds the suffix array of text over an alphabet of the given size,
// recursing through the external-memory induced-sort pipeline
// (classify -> plus/minus substring induction -> naming -> recursive
// text -> recurse -> final induction) until the text is small enough
// for the in-memory base case, per the RAM budget formula above.
func ComputeSuffixArray(text []Symbol, alphabetSize int64, opts Options) ([]Offset, error) {
	return computeSuffixArrayLevel(text, alphabetSize, 0, opts)
}

func computeSuffixArrayLevel(text []Symbol, alphabetSize int64, level int, opts Options) ([]Offset, error) {
	n := int64(len(text))

	opts.notify(fsais.EvtRecursionStart, level, n)

	if n*ramBytesPerSymbol <= opts.RAMBudget || n < 2 {
		opts.notify(fsais.EvtNaiveBaseCase, level, n)
		sa := NaiveSuffixArray(text, int(alphabetSize))
		opts.notify(fsais.EvtRecursionEnd, level, n)
		return sa, nil
	}

	spillBase := fmt.Sprintf("%s/level%d-%s", opts.tempDir(), level, xxh.Suffix())

	// Stage text on disk and classify it through the same disk-backed,
	// single-backward-pass preprocessor the external pipeline always
	// uses (blockpre.go), rather than the whole-array in-RAM classifier
	// this controller used to keep for its own recursion: that in-RAM
	// duplicate produced a full n-sized []suffixType at every level the
	// recursion actually exercises, exactly the structure spec.md §5's
	// memory invariant bounds.
	textPath := spillBase + ".text"
	symbolWidth := packedint.WidthForBound(uint64(alphabetSize))

	if err := writeSymbols(textPath, text, symbolWidth); err != nil {
		return nil, err
	}

	types, _, err := ClassifyTypes(textPath, n, symbolWidth, spillBase+".types", level, &opts)

	if err != nil {
		return nil, err
	}

	defer removeDiskArray(types)
	defer os.Remove(textPath)

	bucketStart, bucketEnd := bucketBoundaries(text, alphabetSize)

	// inTextOrder is bounded by numSStar, at most n/2 and shrinking by
	// the same factor at every further level (the standard SA-IS
	// recursion bound), so -- unlike types, which is this level's own
	// full-n working structure -- keeping it in RAM matches the
	// recursion's own footprint rather than adding a new one (see
	// recursive.go).
	inTextOrder := SStarPositionsInTextOrder(types, n)

	plusPath, plusN, err := InducePlusStarSubstrings(text, types, inTextOrder, bucketStart, bucketEnd, spillBase+".plus.slot", spillBase, level, &opts)

	if err != nil {
		return nil, err
	}

	defer os.Remove(plusPath)

	minusPath, minusN, err := InduceMinusStarSubstrings(text, types, plusPath, plusN, bucketEnd, spillBase+".minus.slot", spillBase, level, &opts)

	if err != nil {
		return nil, err
	}

	defer os.Remove(minusPath)

	sortedPath, sortedCount, err := sstarSortedOrder(minusPath, minusN, types, spillBase+".sorted")

	if err != nil {
		return nil, err
	}

	defer os.Remove(sortedPath)

	numNames, err := NameSStarSubstrings(text, types, sortedPath, sortedCount, spillBase+".names.pos", spillBase+".names.val", level, &opts)

	if err != nil {
		return nil, err
	}

	defer os.Remove(spillBase + ".names.pos")
	defer os.Remove(spillBase + ".names.val")

	notifyRecursiveText(level, int64(len(inTextOrder)), &opts)

	recText, err := BuildRecursiveText(inTextOrder, n, spillBase+".names.pos", spillBase+".names.val", sortedCount, numNames)

	if err != nil {
		return nil, err
	}

	var recSA []Offset

	if numNames == int64(len(inTextOrder)) {
		// Every name distinct: the recursive text is already its own
		// suffix array's inverse permutation (identity after ranking),
		// exactly the teacher's `name == m` shortcut in
		// computeSuffixArrayInt (the "name < m" recursion guard).
		recSA = identityRank(recText)
	} else {
		recSA, err = computeSuffixArrayLevel(recText, numNames+1, level+1, opts)

		if err != nil {
			return nil, err
		}
	}

	sortedSStar := TranslateRecursiveSA(recSA, inTextOrder)

	sa, err := FinalInduce(text, types, sortedSStar, bucketStart, bucketEnd, spillBase, level, &opts)

	if err != nil {
		return nil, err
	}

	opts.notify(fsais.EvtRecursionEnd, level, n)

	return sa, nil
}

// writeSymbols packs text to path at the given width, the disk form
// ClassifyTypes and the rest of the external-memory pipeline read text
// through.
func writeSymbols(path string, text []Symbol, width packedint.ByteWidth) error {
	f, err := os.Create(path)

	if err != nil {
		return err
	}

	w := stream.NewWriter[Symbol](f, path, stream.Uint64Codec{Width: width}, 4096, 3)

	for _, s := range text {
		w.Push(s)
	}

	return w.Close()
}

func bucketBoundaries(text []Symbol, alphabetSize int64) (start, end []int64) {
	counts := make([]int64, alphabetSize)

	for _, s := range text {
		counts[s]++
	}

	start = make([]int64, alphabetSize)
	end = make([]int64, alphabetSize)
	var sum int64

	for i, c := range counts {
		start[i] = sum
		sum += c
		end[i] = sum
	}

	return start, end
}

// identityRank returns the suffix array of a text whose symbols are the
// pairwise-distinct names 1..n: each suffix sorts by its unique first
// symbol alone, so position i goes to slot text[i]-1.
func identityRank(text []Symbol) []Offset {
	n := len(text)
	rank := make([]Offset, n)

	for i := range text {
		rank[text[i]-1] = Offset(i)
	}

	return rank
}

func (o *Options) tempDir() string {
	if o.TempDir == "" {
		return "."
	}

	return o.TempDir
}
