// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitstream_test

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/b-riemann/rfg/internal/bitstream"
)

func TestWriterPacking(t *testing.T) {
	for _, tc := range []struct {
		bits []bool
		want []byte
	}{
		{[]bool{true}, []byte{0x80}},
		{[]bool{false, true}, []byte{0x40}},
		{[]bool{true, true, true, true, true, true, true, true}, []byte{0xff}},
		{[]bool{true, false, true, false, true, false, true, false, true}, []byte{0xaa, 0x80}},
	} {
		buf := &bytes.Buffer{}
		bw := bitstream.NewWriter(buf)
		for _, bit := range tc.bits {
			bw.WriteBit(bit)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}
		if got, want := buf.Bytes(), tc.want; !bytes.Equal(got, want) {
			t.Errorf("got %02x, want %02x", got, want)
		}
		if got, want := bw.BitsWritten(), uint64(len(tc.bits)); got != want {
			t.Errorf("got %v bits, want %v", got, want)
		}
	}
}

func TestWriteBitsMSBFirst(t *testing.T) {
	buf := &bytes.Buffer{}
	bw := bitstream.NewWriter(buf)
	bw.WriteBits(0x5, 3) // 101
	bw.WriteBits(0x1, 1) // 1
	bw.WriteBits(0xf0, 8)
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got, want := buf.Bytes(), []byte{0xbf, 0x00}; !bytes.Equal(got, want) {
		t.Errorf("got %02x, want %02x", got, want)
	}
}

func TestReadBits(t *testing.T) {
	br := bitstream.NewReader(bytes.NewReader([]byte{0xbf, 0x00}))
	if got, want := br.ReadBits(3), uint64(0x5); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := br.ReadBit(), true; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := br.ReadBits(8), uint64(0xf0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := br.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := br.BitsRead(), uint64(12); got != want {
		t.Errorf("got %v bits read, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	// A writer followed by a reader over the same buffer reproduces the
	// written bit sequence, possibly extended by up to 7 trailing zero
	// bits.
	src := rand.New(rand.NewSource(0x1234))
	for _, nbits := range []int{1, 7, 8, 9, 63, 64, 65, 1000, 4099} {
		bits := make([]bool, nbits)
		for i := range bits {
			bits[i] = src.Intn(2) == 1
		}
		buf := &bytes.Buffer{}
		bw := bitstream.NewWriter(buf)
		for _, bit := range bits {
			bw.WriteBit(bit)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}
		if got, want := buf.Len(), (nbits+7)/8; got != want {
			t.Errorf("%v bits: got %v bytes, want %v", nbits, got, want)
		}
		br := bitstream.NewReader(buf)
		for i, want := range bits {
			if got := br.ReadBit(); got != want {
				t.Fatalf("%v bits: bit %v: got %v, want %v", nbits, i, got, want)
			}
		}
		// Padding reads back as zero bits.
		for br.BitsRead() < uint64(8*((nbits+7)/8)) {
			if got, want := br.ReadBit(), false; got != want {
				t.Errorf("%v bits: non-zero padding bit", nbits)
			}
		}
		if err := br.Err(); err != nil {
			t.Fatalf("%v bits: unexpected error: %v", nbits, err)
		}
	}
}

func TestReaderExhaustion(t *testing.T) {
	br := bitstream.NewReader(bytes.NewReader([]byte{0xff}))
	if got, want := br.ReadBits(8), uint64(0xff); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := br.ReadBits(1), uint64(0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := br.Err(), io.ErrUnexpectedEOF; !errors.Is(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// The error is sticky.
	br.ReadBits(8)
	if got, want := br.Err(), io.ErrUnexpectedEOF; !errors.Is(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

type errorWriter struct{}

func (errorWriter) Write(buf []byte) (int, error) {
	return 0, errors.New("oops")
}

func TestWriterError(t *testing.T) {
	bw := bitstream.NewWriter(errorWriter{})
	bw.WriteBits(0xffff, 16)
	if err := bw.Err(); err == nil || err.Error() != "oops" {
		t.Errorf("expected an error or different error to the one received: %v", err)
	}
	if err := bw.Flush(); err == nil || err.Error() != "oops" {
		t.Errorf("expected an error or different error to the one received: %v", err)
	}
}
