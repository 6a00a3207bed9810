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

// Package packedint provides the 3-, 5- and 6-byte little-endian packed
// unsigned integer types used as the on-disk width for block ids and
// text offsets. They are opaque interchange types: arithmetic happens
// after widening to uint64 via ToU64/FromU64.
package packedint

import "math"

// U24 is a 3-byte little-endian unsigned integer (lo 2 bytes, hi 1 byte).
type U24 struct {
	Lo uint16
	Hi uint8
}

// MinU24 is the zero value of U24.
var MinU24 = U24{}

// MaxU24 is the largest representable U24.
var MaxU24 = U24{Lo: math.MaxUint16, Hi: math.MaxUint8}

// U24FromU64 truncates and packs a uint64 into a U24. The caller is
// responsible for ensuring v <= MaxU24 widened (capacity errors are
// detected by the width-selection logic in pkg/sais, not here).
func U24FromU64(v uint64) U24 {
	return U24{Lo: uint16(v), Hi: uint8(v >> 16)}
}

// ToU64 widens a U24 back to a uint64.
func (u U24) ToU64() uint64 {
	return uint64(u.Hi)<<16 | uint64(u.Lo)
}

// U40 is a 5-byte little-endian unsigned integer (lo 4 bytes, hi 1 byte).
type U40 struct {
	Lo uint32
	Hi uint8
}

var MinU40 = U40{}
var MaxU40 = U40{Lo: math.MaxUint32, Hi: math.MaxUint8}

func U40FromU64(v uint64) U40 {
	return U40{Lo: uint32(v), Hi: uint8(v >> 32)}
}

func (u U40) ToU64() uint64 {
	return uint64(u.Hi)<<32 | uint64(u.Lo)
}

// U48 is a 6-byte little-endian unsigned integer (lo 4 bytes, hi 2 bytes).
type U48 struct {
	Lo uint32
	Hi uint16
}

var MinU48 = U48{}
var MaxU48 = U48{Lo: math.MaxUint32, Hi: math.MaxUint16}

func U48FromU64(v uint64) U48 {
	return U48{Lo: uint32(v), Hi: uint16(v >> 32)}
}

func (u U48) ToU64() uint64 {
	return uint64(u.Hi)<<32 | uint64(u.Lo)
}

// ByteWidth is the number of bytes a packed width occupies on disk.
type ByteWidth int

const (
	Width1 ByteWidth = 1
	Width2 ByteWidth = 2
	Width3 ByteWidth = 3
	Width4 ByteWidth = 4
	Width5 ByteWidth = 5
	Width6 ByteWidth = 6
	Width8 ByteWidth = 8
)

// WidthForBound returns the smallest packed byte width that can hold
// every value in [0, bound), matching the "block id fits in the
// smallest unsigned width that covers n_B" rule.
func WidthForBound(bound uint64) ByteWidth {
	switch {
	case bound <= 1<<8:
		return Width1
	case bound <= 1<<16:
		return Width2
	case bound <= 1<<24:
		return Width3
	case bound <= 1<<32:
		return Width4
	case bound <= 1<<40:
		return Width5
	case bound <= 1<<48:
		return Width6
	default:
		return Width8
	}
}

// PutUint64 writes v into dst using the given packed width, little-endian,
// truncating to width bytes. dst must have at least int(w) bytes.
func PutUint64(dst []byte, w ByteWidth, v uint64) {
	for i := 0; i < int(w); i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

// Uint64 reads a packed little-endian value of the given width from src.
func Uint64(src []byte, w ByteWidth) uint64 {
	var v uint64
	for i := 0; i < int(w); i++ {
		v |= uint64(src[i]) << (8 * uint(i))
	}
	return v
}
