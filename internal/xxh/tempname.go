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

// Package xxh derives short random-looking suffixes for temp file names
// from XXHash64, the same non-cryptographic hash the teacher codec uses
// for block checksums.
package xxh

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dominikkempa/fsais-sub000/hash"
)

var counter uint64

// Suffix returns an 8 hex-digit tag suitable for disambiguating temp
// files that share a base name (queue id, block id, recursion level).
// It is not a security token: collisions are merely unlikely, not
// infeasible, which is the same guarantee the spec places on "random".
func Suffix() string {
	n := atomic.AddUint64(&counter, 1)

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(buf[8:16], n)

	h, _ := hash.NewXXHash64(0x5A15534149530000) // "ZSAIS" seed, arbitrary
	return fmt.Sprintf("%08x", uint32(h.Hash(buf[:])))
}
