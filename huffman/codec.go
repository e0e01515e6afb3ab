// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/b-riemann/rfg/internal/bitstream"
)

// Encoded streams are length-prefixed: the first 8 bytes hold the exact
// bit count as a little-endian unsigned integer, followed by the packed
// code bits zero-padded to a byte boundary. The prefix lets the decoder
// stop at the precise end of the stream instead of guessing where the
// padding begins.

// Encode emits the code for each symbol into a packed, length-prefixed
// bit stream. It fails with ErrSymbolNotInDictionary if a symbol has no
// code, which indicates the dictionary was derived from a different
// frequency set than the input.
func Encode[S Symbol](symbols []S, dict map[S]Code) ([]byte, error) {
	payload := &bytes.Buffer{}
	payload.Write(make([]byte, 8))
	bw := bitstream.NewWriter(payload)
	for _, s := range symbols {
		code, ok := dict[s]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrSymbolNotInDictionary, s)
		}
		code.writeTo(bw)
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	out := payload.Bytes()
	binary.LittleEndian.PutUint64(out[:8], bw.BitsWritten())
	return out, nil
}

// Decode walks the tree over a length-prefixed bit stream: each 0 bit
// descends left, each 1 bit right, and reaching a leaf emits its symbol
// and restarts at the root. It fails with ErrTruncatedStream if the
// declared bit count exceeds the available data or ends mid-codeword.
func Decode[S Symbol](data []byte, t *Tree[S]) ([]S, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: missing bit count", ErrTruncatedStream)
	}
	nbits := binary.LittleEndian.Uint64(data[:8])
	if nbits > uint64(len(data)-8)*8 {
		return nil, fmt.Errorf("%w: %v bits declared, %v available", ErrTruncatedStream, nbits, (len(data)-8)*8)
	}
	br := bitstream.NewReader(bytes.NewReader(data[8:]))
	var symbols []S
	nd := t.root
	for i := uint64(0); i < nbits; i++ {
		if br.ReadBit() {
			nd = nd.right
		} else {
			nd = nd.left
		}
		if nd.isLeaf() {
			symbols = append(symbols, nd.sym)
			nd = t.root
		}
	}
	if nd != t.root {
		return nil, fmt.Errorf("%w: stream ends mid-codeword", ErrTruncatedStream)
	}
	return symbols, nil
}
