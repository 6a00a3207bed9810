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

package radixheap

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dominikkempa/fsais-sub000/internal/packedint"
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

func newTestHeap(t *testing.T, keyBound uint64) *RadixHeap[uint64] {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "heap")
	valueCodec := stream.Uint64Codec{Width: packedint.WidthForBound(keyBound + 1)}
	h := New[uint64](4, keyBound, base, valueCodec, 8)

	t.Cleanup(func() {
		h.Close()
		os.RemoveAll(dir)
	})

	return h
}

// TestMonotoneExtraction feeds keys in several monotone-nondecreasing
// batches (pushing only keys >= the last extracted key, exactly the
// access pattern the induce-sort passes use) and checks ExtractMin
// returns each key with its own value and never a key smaller than the
// one extracted before it.
func TestMonotoneExtraction(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h := newTestHeap(t, 1<<20)

	var extracted []uint64
	lastMin := uint64(0)

	for batch := 0; batch < 200; batch++ {
		n := 1 + rng.Intn(20)

		for i := 0; i < n; i++ {
			key := lastMin + uint64(rng.Intn(1000))
			h.Push(key, key)
		}

		if rng.Intn(3) != 0 {
			continue
		}

		k, v, err := h.ExtractMin()

		if err != nil {
			t.Fatalf("ExtractMin: %v", err)
		}

		if v != k {
			t.Fatalf("value mismatch: key=%d value=%d", k, v)
		}

		if len(extracted) > 0 && k < extracted[len(extracted)-1] {
			t.Fatalf("extraction not monotone: got %d after %d", k, extracted[len(extracted)-1])
		}

		extracted = append(extracted, k)
		lastMin = k
	}

	for !h.Empty() {
		k, _, err := h.ExtractMin()

		if err != nil {
			t.Fatalf("ExtractMin: %v", err)
		}

		if len(extracted) > 0 && k < extracted[len(extracted)-1] {
			t.Fatalf("extraction not monotone at drain: got %d after %d", k, extracted[len(extracted)-1])
		}

		extracted = append(extracted, k)
	}

	if !sort.SliceIsSorted(extracted, func(i, j int) bool { return extracted[i] < extracted[j] }) {
		t.Fatalf("extraction sequence not sorted: %v", extracted)
	}
}

// TestMatchesReferenceSort pushes a large batch of keys all upfront
// (trivially monotone, since nothing has been extracted yet) and checks
// the extraction order matches a plain sort of the same keys.
func TestMatchesReferenceSort(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	h := newTestHeap(t, 1<<24)

	const n = 5000
	keys := make([]uint64, n)

	for i := range keys {
		keys[i] = uint64(rng.Intn(1 << 24))
		h.Push(keys[i], keys[i])
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for i := 0; i < n; i++ {
		k, _, err := h.ExtractMin()

		if err != nil {
			t.Fatalf("ExtractMin at %d: %v", i, err)
		}

		if k != keys[i] {
			t.Fatalf("index %d: want %d got %d", i, keys[i], k)
		}
	}

	if !h.Empty() {
		t.Fatalf("heap not empty after draining all pushed items")
	}
}

func TestPushBelowLowerBoundPanics(t *testing.T) {
	h := newTestHeap(t, 1<<10)
	h.Push(100, 100)

	if _, _, err := h.ExtractMin(); err != nil {
		t.Fatalf("ExtractMin: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic pushing a key below the lower bound")
		}
	}()

	h.Push(50, 50)
}
