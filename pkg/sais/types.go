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

// Package sais builds the suffix array of a text too large to fit in
// RAM by external-memory induced sorting: a block preprocessor types
// every position as L, S or S* in bounded RAM, two induced-sort passes
// (plus-star and minus-star) resolve S* suffixes against an
// externally-held radix heap, a namer turns sorted S* substrings into a
// recursion text, the recursion runs again (falling back to an
// in-memory SA-IS base case once the text fits in RAM), and a final
// induced-sort pass expands the recursively-sorted S* suffixes into the
// full suffix array. Every stage is grounded on one file of the
// original em-sais prototype named in its own doc comment.
package sais

import (
	"time"

	fsais "github.com/dominikkempa/fsais-sub000"
)

// Symbol is one input-alphabet symbol.
type Symbol = uint64

// Offset indexes a position in a text or a suffix/rank array.
type Offset = uint64

// Options bounds a single recursion level's run: how much RAM it may
// use, how many bits a radix-heap bucket groups, and where to place
// temporary files (spec.md §4.8, §6.4).
type Options struct {
	// RAMBudget is the number of bytes this level may use for
	// in-memory buffers (sort buffers, radix-heap page caches, block
	// preprocessor arrays). Does not bound disk usage.
	RAMBudget int64

	// RadixLog is the bucket-digit width used by every radix heap this
	// level opens (spec.md §9 OQ-1: one width for the whole run, not a
	// per-level schedule).
	RadixLog uint

	// SmallAlphabetThreshold is the alphabet-size cutoff between a
	// small-alphabet and a large-alphabet naming variant (spec.md §9
	// OQ-2 keeps it literal rather than deriving it from RAMBudget).
	// NameSStarSubstrings has a single variant that compares symbols
	// directly, and no code in this package reads this field.
	SmallAlphabetThreshold int64

	// TempDir is the directory every spill file for this run is
	// created under.
	TempDir string

	// Listener receives progress events (may be nil).
	Listener fsais.Listener
}

func (o *Options) notify(evtType, level int, size int64) {
	if o.Listener != nil {
		o.Listener.ProcessEvent(fsais.NewEvent(evtType, level, size, time.Time{}))
	}
}

// suffixType is the L/S/S* classification of one text position,
// computed right-to-left: a position is S if it starts a suffix
// smaller than its successor's, L otherwise, and S* ("minus star") if
// it is S and its predecessor is L (spec.md §4.3).
type suffixType uint8

const (
	typeL suffixType = iota
	typeS
	typeSStar
)
