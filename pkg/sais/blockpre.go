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
	"github.com/dominikkempa/fsais-sub000/pkg/stream"
)

// ClassifyTypes computes the L/S/S* type of every position of the n
// symbols stored at textPath (packed at symbolWidth bytes each) without
// ever holding more than one text symbol in RAM at a time, by reading
// the text backwards (stream.BackwardReader) exactly once, matching the
// single right-to-left pass the original im_induce_substrings block
// preprocessor performs for an in-RAM block.
//
// The result is staged into typesPath as a diskArray rather than
// replayed as a stream: every later induction step needs the type of an
// arbitrary, heap-determined earlier position, a point-query pattern no
// sequential reader can serve without restarting from the beginning of
// the file. One byte per position is spent rather than shaving to a
// single S/L bit plus a side S* list, since a position's S*-ness is only
// known once its successor has already been classified and written --
// cheaper to overwrite the one byte in place (diskArray supports
// arbitrary WriteAt) than to maintain two separate on-disk structures
// that must stay in lock-step.
func ClassifyTypes(textPath string, n int64, symbolWidth packedint.ByteWidth, typesPath string, level int, opts *Options) (types *diskArray, numSStar int64, err error) {
	textCodec := stream.Uint64Codec{Width: symbolWidth}

	tf, err := os.Open(textPath)

	if err != nil {
		return nil, 0, err
	}

	fi, err := tf.Stat()

	if err != nil {
		tf.Close()
		return nil, 0, err
	}

	br, err := stream.NewBackwardReader[Symbol](tf, textPath, textCodec, fi.Size())

	if err != nil {
		tf.Close()
		return nil, 0, err
	}

	types, err = newDiskArray(typesPath, n, packedint.Width1)

	if err != nil {
		br.Close()
		return nil, 0, err
	}

	prevType := typeS
	var prevSymbol Symbol
	havePrev := false

	for i := n - 1; i >= 0; i-- {
		sym := br.Read()

		var cur suffixType

		if !havePrev {
			cur = typeS // the rightmost real position is always S
		} else if sym < prevSymbol {
			cur = typeS
		} else if sym > prevSymbol {
			cur = typeL
		} else {
			cur = prevType
		}

		types.set(i, uint64(cur))

		// Position i+1's type was already written last iteration; only
		// now, seeing i was L and i+1 was S, do we know i+1 is S* --
		// overwrite it in place.
		if havePrev && cur == typeL && prevType == typeS {
			types.set(i+1, uint64(typeSStar))
			numSStar++
		}

		prevType = cur
		prevSymbol = sym
		havePrev = true
	}

	if err := br.Close(); err != nil {
		return nil, 0, err
	}

	if opts != nil {
		opts.notify(fsais.EvtBlockPreprocess, level, numSStar)
	}

	return types, numSStar, nil
}
