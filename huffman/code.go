// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"strings"

	"github.com/b-riemann/rfg/internal/bitstream"
)

// Code is a variable-length bit string assigned to a symbol, packed
// MSB-first. The zero value is the empty code.
type Code struct {
	packed []byte
	n      int
}

// Len returns the number of bits in the code.
func (c Code) Len() int {
	return c.n
}

// Bit returns bit i of the code, counting from the most significant.
func (c Code) Bit(i int) bool {
	return c.packed[i/8]>>(7-uint(i%8))&1 == 1
}

// appended returns a copy of c with one more bit. Codes share no backing
// storage, so dictionary entries remain valid as the walk continues.
func (c Code) appended(bit bool) Code {
	packed := make([]byte, (c.n+8)/8)
	copy(packed, c.packed)
	if bit {
		packed[c.n/8] |= 0x80 >> uint(c.n%8)
	}
	return Code{packed: packed, n: c.n + 1}
}

func (c Code) writeTo(bw *bitstream.Writer) {
	for i := 0; i < c.n; i++ {
		bw.WriteBit(c.Bit(i))
	}
}

// String renders the code as a string of 0s and 1s.
func (c Code) String() string {
	out := &strings.Builder{}
	for i := 0; i < c.n; i++ {
		if c.Bit(i) {
			out.WriteByte('1')
		} else {
			out.WriteByte('0')
		}
	}
	return out.String()
}

// Dictionary derives the symbol-to-code mapping from the tree by a
// depth-first walk: descending into the left child appends a 0 bit,
// the right child a 1 bit. Every leaf contributes exactly one entry.
func (t *Tree[S]) Dictionary() map[S]Code {
	dict := make(map[S]Code)
	var walk func(nd *node[S], prefix Code)
	walk = func(nd *node[S], prefix Code) {
		if nd.isLeaf() {
			dict[nd.sym] = prefix
			return
		}
		walk(nd.left, prefix.appended(false))
		walk(nd.right, prefix.appended(true))
	}
	walk(t.root, Code{})
	return dict
}
