// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/b-riemann/rfg/internal/bitstream"
	"github.com/grailbio/base/file"
)

// The serialized tree is a recursive bit grammar:
//
//	node := '0' node node          (internal)
//	      | '1' <symbol bits, MSB-first>
//
// The root is always internal, so the top-level framing is the
// serialization of its two children and the root's own 0 bit is omitted.
// The grammar is self-delimiting: a reader consumes exactly the bits
// that encode the tree, which makes the trailing zero padding of the
// final byte safe. The symbol bit width (8 or 16) is not part of the
// format and must be known out-of-band; tree files written for
// different widths are not interchangeable and cannot be detected.

// MarshalBits serializes the tree, zero-padded to a byte boundary.
func (t *Tree[S]) MarshalBits() []byte {
	buf := &bytes.Buffer{}
	bw := bitstream.NewWriter(buf)
	width := symbolBits[S]()
	t.root.left.marshal(bw, width)
	t.root.right.marshal(bw, width)
	bw.Flush()
	return buf.Bytes()
}

func (nd *node[S]) marshal(bw *bitstream.Writer, width int) {
	if nd.isLeaf() {
		bw.WriteBit(true)
		bw.WriteBits(uint64(nd.sym), width)
		return
	}
	bw.WriteBit(false)
	nd.left.marshal(bw, width)
	nd.right.marshal(bw, width)
}

// TreeFromBits reconstructs a tree serialized by MarshalBits. The type
// parameter selects the symbol bit width the stream was written with.
// Weights are not part of the serialized form; the returned tree has
// zero weights throughout.
func TreeFromBits[S Symbol](data []byte) (*Tree[S], error) {
	br := bitstream.NewReader(bytes.NewReader(data))
	width := symbolBits[S]()
	left, err := unmarshalNode[S](br, width)
	if err != nil {
		return nil, err
	}
	right, err := unmarshalNode[S](br, width)
	if err != nil {
		return nil, err
	}
	return &Tree[S]{root: &node[S]{left: left, right: right}}, nil
}

func unmarshalNode[S Symbol](br *bitstream.Reader, width int) (*node[S], error) {
	leaf := br.ReadBit()
	if br.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedStream, br.Err())
	}
	if leaf {
		sym := br.ReadBits(width)
		if br.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedStream, br.Err())
		}
		return &node[S]{sym: S(sym)}, nil
	}
	left, err := unmarshalNode[S](br, width)
	if err != nil {
		return nil, err
	}
	right, err := unmarshalNode[S](br, width)
	if err != nil {
		return nil, err
	}
	return &node[S]{left: left, right: right}, nil
}

// Save writes the serialized tree to the named file. Paths are resolved
// through the file package, so any registered implementation (local
// files, s3 etc) may be used.
func (t *Tree[S]) Save(ctx context.Context, path string) error {
	f, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	if _, err := f.Writer(ctx).Write(t.MarshalBits()); err != nil {
		f.Close(ctx)
		return err
	}
	return f.Close(ctx)
}

// LoadTree reads a tree previously written by Save.
func LoadTree[S Symbol](ctx context.Context, path string) (*Tree[S], error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f.Reader(ctx))
	if cerr := f.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return TreeFromBits[S](data)
}
