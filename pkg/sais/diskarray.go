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

	"github.com/dominikkempa/fsais-sub000/internal/packedint"
)

// diskArray is a fixed-width, disk-backed random-access array of n
// elements. pkg/stream's Writer/Reader/BackwardReader are built for
// sequential replay and cannot serve this package's one genuinely
// point-access pattern: every induction step, at an arbitrary
// heap-extracted position p, asks "what type is p" or "what symbol
// starts p", and p is not related to the scan's own current position.
// diskArray answers that with one ReadAt/WriteAt per call, so the RAM
// cost of a lookup never depends on n.
type diskArray struct {
	f     *os.File
	width packedint.ByteWidth
}

// newDiskArray creates a zero-filled array of n elements, each width
// bytes wide, backed by a fresh file at path.
func newDiskArray(path string, n int64, width packedint.ByteWidth) (*diskArray, error) {
	f, err := os.Create(path)

	if err != nil {
		return nil, err
	}

	if err := f.Truncate(n * int64(width)); err != nil {
		f.Close()
		return nil, err
	}

	return &diskArray{f: f, width: width}, nil
}

// set writes v at index i. Any I/O failure is fatal (spec.md §7: no
// local recovery from a disk error mid-run).
func (d *diskArray) set(i int64, v uint64) {
	buf := make([]byte, d.width)
	packedint.PutUint64(buf, d.width, v)

	if _, err := d.f.WriteAt(buf, i*int64(d.width)); err != nil {
		panic(err)
	}
}

// get reads the value at index i.
func (d *diskArray) get(i int64) uint64 {
	buf := make([]byte, d.width)

	if _, err := d.f.ReadAt(buf, i*int64(d.width)); err != nil {
		panic(err)
	}

	return packedint.Uint64(buf, d.width)
}

func (d *diskArray) path() string { return d.f.Name() }

func (d *diskArray) close() error { return d.f.Close() }

// removeDiskArray closes and deletes the backing file; callers use this
// once an array's level of recursion is done with it.
func removeDiskArray(d *diskArray) {
	if d == nil {
		return
	}

	p := d.path()
	d.close()
	os.Remove(p)
}
