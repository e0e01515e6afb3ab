// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package rfg implements an experimental lossless text compressor for
// natural-language corpora such as Wikipedia XML dumps. The pipeline
// rewrites the input with a reversible XML/capitalization preprocessor,
// reverses it, replaces every byte by its rank under a variable-order
// suffix-matching model (the "rotund" transform), collapses the
// resulting runs of zero ranks, and entropy-codes the final symbol
// stream with a deterministic Huffman coder.
//
// The rank transform is the interesting part: for each position a
// data-dependent permutation of the byte alphabet is computed from the
// already-processed suffix alone, so the decoder can reconstruct the
// identical permutation from the partially-decoded stream and invert
// the mapping with no side channel. Encoder and decoder are rigorously
// symmetric; any deviation produces total desynchronization.
package rfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/b-riemann/rfg/huffman"
)

// ErrEmptyInput is returned when a transform is applied to an empty
// buffer.
var ErrEmptyInput = errors.New("rfg: empty input")

// Progress reports how far a rank transform has advanced, in symbols.
type Progress struct {
	Done  int
	Total int
}

type options struct {
	progressCh chan<- Progress
	ctrl       ControlChars
	ctrlSet    bool
}

// Option configures the transforms and the compression pipeline.
type Option func(*options)

// SendUpdates sets a channel for progress updates. Updates are dropped
// if the channel is full, so a slow consumer cannot stall the codec.
func SendUpdates(ch chan<- Progress) Option {
	return func(o *options) {
		o.progressCh = ch
	}
}

// WithControlChars fixes the preprocessor control characters instead of
// picking them from the input's unused symbols. Both bytes must be
// absent from the input.
func WithControlChars(ctrl ControlChars) Option {
	return func(o *options) {
		o.ctrl = ctrl
		o.ctrlSet = true
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

func (o *options) update(done, total int) {
	if o.progressCh == nil {
		return
	}
	select {
	case o.progressCh <- Progress{Done: done, Total: total}:
	default:
	}
}

func reverseBytes(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out
}

// Compress runs the full pipeline over a materialized input buffer and
// returns a self-contained archive. Unless fixed with WithControlChars,
// the preprocessor control characters are the two smallest byte values
// that do not occur in the input.
func Compress(ctx context.Context, input []byte, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}
	ctrl := o.ctrl
	if o.ctrlSet {
		if bytes.IndexByte(input, ctrl.XMLEnd) >= 0 || bytes.IndexByte(input, ctrl.Upper) >= 0 {
			return nil, errors.New("rfg: control characters occur in the input")
		}
	} else {
		unused := UnusedSymbols(input)
		if len(unused) < 2 {
			return nil, errors.New("rfg: no unused symbols available for control characters")
		}
		ctrl = ControlChars{XMLEnd: unused[0], Upper: unused[1]}
	}

	prepped := Prepare(input, ctrl)
	ranks, err := RotundEncode(ctx, reverseBytes(prepped), opts...)
	if err != nil {
		return nil, err
	}
	symbols := EncodeNullRuns(ranks)
	freqs, err := huffman.CountFreqs(symbols)
	if err != nil {
		return nil, err
	}
	tree, err := huffman.FromWeights(freqs)
	if err != nil {
		return nil, err
	}
	encoded, err := huffman.Encode(symbols, tree.Dictionary())
	if err != nil {
		return nil, err
	}
	return writeContainer(ctrl, tree.MarshalBits(), encoded), nil
}

// Decompress inverts Compress.
func Decompress(ctx context.Context, data []byte, opts ...Option) ([]byte, error) {
	ctrl, treeBits, encoded, err := parseContainer(data)
	if err != nil {
		return nil, err
	}
	tree, err := huffman.TreeFromBits[uint16](treeBits)
	if err != nil {
		return nil, err
	}
	symbols, err := huffman.Decode(encoded, tree)
	if err != nil {
		return nil, err
	}
	ranks := DecodeNullRuns(symbols)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("rfg: archive contains no rank stream")
	}
	reversed, err := RotundDecode(ctx, ranks, opts...)
	if err != nil {
		return nil, err
	}
	return Unprepare(reverseBytes(reversed), ctrl)
}
