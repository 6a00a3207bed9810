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
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dominikkempa/fsais-sub000/internal/packedint"
)

var u64Codec = Uint64Codec{Width: packedint.Width8}

// TestWriterReaderRoundTrip is property P6 (round-trip) for the plain
// forward Writer/Reader pair.
func TestWriterReaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.bin")

	f, err := os.Create(path)

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	w := NewWriter[uint64](f, path, u64Codec, 7, 3)
	want := make([]uint64, 5000)
	rng := rand.New(rand.NewSource(1))

	for i := range want {
		want[i] = rng.Uint64()
		w.Push(want[i])
	}

	if err := w.Close(); err != nil {
		t.Fatalf("writer close: %v", err)
	}

	rf, err := os.Open(path)

	if err != nil {
		t.Fatalf("open: %v", err)
	}

	r := NewReader[uint64](rf, path, u64Codec, 11, 4)
	got := make([]uint64, 0, len(want))

	for !r.Empty() {
		got = append(got, r.Read())
	}

	if err := r.Close(); err != nil {
		t.Fatalf("reader close: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("length mismatch: want %d got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: want %d got %d", i, want[i], got[i])
		}
	}
}

// TestBackwardReaderReversesOrder checks the backward reader replays a
// stream written forward in exactly reverse order.
func TestBackwardReaderReversesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.bin")

	f, err := os.Create(path)

	if err != nil {
		t.Fatalf("create: %v", err)
	}

	w := NewWriter[uint64](f, path, u64Codec, 5, 2)
	n := 777

	for i := 0; i < n; i++ {
		w.Push(uint64(i))
	}

	if err := w.Close(); err != nil {
		t.Fatalf("writer close: %v", err)
	}

	rf, err := os.Open(path)

	if err != nil {
		t.Fatalf("open: %v", err)
	}

	fi, err := rf.Stat()

	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	br, err := NewBackwardReader[uint64](rf, path, u64Codec, fi.Size())

	if err != nil {
		t.Fatalf("new backward reader: %v", err)
	}

	for i := n - 1; i >= 0; i-- {
		if br.Empty() {
			t.Fatalf("unexpected end of stream at i=%d", i)
		}

		if v := br.Read(); v != uint64(i) {
			t.Fatalf("want %d got %d", i, v)
		}
	}

	if !br.Empty() {
		t.Fatalf("expected end of stream")
	}

	if err := br.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

// TestMultiWriterReaderRoundTrip is property P6 for k independently
// addressable logical streams sharing one I/O goroutine each side.
func TestMultiWriterReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	k := 5
	paths := make([]string, k)
	wfiles := make([]*os.File, k)

	for i := 0; i < k; i++ {
		paths[i] = filepath.Join(dir, "s"+string(rune('0'+i))+".bin")
		f, err := os.Create(paths[i])

		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}

		wfiles[i] = f
	}

	mw := NewMultiWriter[uint64](toWriteClosers(wfiles), paths, u64Codec, 4, 6)

	want := make([][]uint64, k)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < k; i++ {
		count := 10 + rng.Intn(500)
		want[i] = make([]uint64, count)

		for j := 0; j < count; j++ {
			want[i][j] = rng.Uint64()
			mw.Push(i, want[i][j])
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("multiwriter close: %v", err)
	}

	rfiles := make([]*os.File, k)

	for i := 0; i < k; i++ {
		f, err := os.Open(paths[i])

		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}

		rfiles[i] = f
	}

	mr := NewMultiReader[uint64](toReadClosers(rfiles), u64Codec, 4, 6)

	for i := 0; i < k; i++ {
		got := make([]uint64, 0, len(want[i]))

		for !mr.Empty(i) {
			got = append(got, mr.Read(i))
		}

		if len(got) != len(want[i]) {
			t.Fatalf("stream %d: length mismatch: want %d got %d", i, len(want[i]), len(got))
		}

		for j := range want[i] {
			if got[j] != want[i][j] {
				t.Fatalf("stream %d index %d: want %d got %d", i, j, want[i][j], got[j])
			}
		}
	}

	if err := mr.Close(); err != nil {
		t.Fatalf("multireader close: %v", err)
	}
}

func toWriteClosers(files []*os.File) []io.WriteCloser {
	out := make([]io.WriteCloser, len(files))

	for i, f := range files {
		out[i] = f
	}

	return out
}

func toReadClosers(files []*os.File) []io.ReadCloser {
	out := make([]io.ReadCloser, len(files))

	for i, f := range files {
		out[i] = f
	}

	return out
}

// TestMultiPartWriterRollsOver checks that pushing past partSize spills
// into successive "<base>.part.<i>" files and that concatenating their
// contents in part order reproduces the original sequence.
func TestMultiPartWriterRollsOver(t *testing.T) {
	base := filepath.Join(t.TempDir(), "parts")

	mpw, err := NewMultiPartWriter[uint64](base, 8*int64(u64Codec.Size()), u64Codec, 4, 2)

	if err != nil {
		t.Fatalf("new: %v", err)
	}

	want := make([]uint64, 500)

	for i := range want {
		want[i] = uint64(i * 3)

		if err := mpw.Push(want[i]); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	if err := mpw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if mpw.GetPartsCount() < 2 {
		t.Fatalf("expected multiple parts, got %d", mpw.GetPartsCount())
	}

	got := make([]uint64, 0, len(want))

	for i := 0; i < mpw.GetPartsCount(); i++ {
		f, err := os.Open(mpw.PartPath(i))

		if err != nil {
			t.Fatalf("open part %d: %v", i, err)
		}

		r := NewReader[uint64](f, mpw.PartPath(i), u64Codec, 4, 2)

		for !r.Empty() {
			got = append(got, r.Read())
		}

		if err := r.Close(); err != nil {
			t.Fatalf("close part %d: %v", i, err)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("length mismatch: want %d got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: want %d got %d", i, want[i], got[i])
		}
	}
}

// TestFIFOMatchesReferenceQueue is property P7 (FIFO trace fidelity): a
// randomized interleaving of Push/Pop calls, spilling well past the RAM
// buffer capacity, must reproduce a plain Go slice-backed queue exactly.
func TestFIFOMatchesReferenceQueue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fifo.bin")
	q := NewFIFO[uint64](path, u64Codec, 16)
	defer q.Close()

	var ref []uint64
	rng := rand.New(rand.NewSource(123))

	for step := 0; step < 20000; step++ {
		if len(ref) == 0 || rng.Intn(3) != 0 {
			v := rng.Uint64()
			ref = append(ref, v)

			if err := q.Push(v); err != nil {
				t.Fatalf("push: %v", err)
			}
		} else {
			want := ref[0]
			ref = ref[1:]

			got, err := q.Pop()

			if err != nil {
				t.Fatalf("pop: %v", err)
			}

			if got != want {
				t.Fatalf("step %d: want %d got %d", step, want, got)
			}
		}

		if int64(len(ref)) != q.Size() {
			t.Fatalf("step %d: size mismatch: want %d got %d", step, len(ref), q.Size())
		}
	}

	for len(ref) > 0 {
		want := ref[0]
		ref = ref[1:]

		got, err := q.Pop()

		if err != nil {
			t.Fatalf("final drain pop: %v", err)
		}

		if got != want {
			t.Fatalf("final drain: want %d got %d", want, got)
		}
	}

	if !q.Empty() {
		t.Fatalf("expected empty queue")
	}

	if _, err := q.Pop(); err == nil {
		t.Fatalf("expected error popping an empty queue")
	}
}
