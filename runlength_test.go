// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rfg_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/b-riemann/rfg"
)

func TestNullRunSymbols(t *testing.T) {
	for _, tc := range []struct {
		data []byte
		want []uint16
	}{
		{[]byte{5}, []uint16{5}},
		{[]byte{0}, []uint16{256}},
		{[]byte{0, 0, 0}, []uint16{258}},
		{[]byte{1, 0, 0, 2}, []uint16{1, 257, 2}},
		{[]byte{0, 7, 0}, []uint16{256, 7, 256}},
	} {
		got := rfg.EncodeNullRuns(tc.data)
		if len(got) != len(tc.want) {
			t.Fatalf("%v: got %v, want %v", tc.data, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%v: got %v, want %v", tc.data, got, tc.want)
				break
			}
		}
		if back := rfg.DecodeNullRuns(got); !bytes.Equal(back, tc.data) {
			t.Errorf("%v: round trip gave %v", tc.data, back)
		}
	}
}

func TestNullRunSplitsLongRuns(t *testing.T) {
	data := make([]byte, 70000)
	symbols := rfg.EncodeNullRuns(data)
	if got, want := len(symbols), 2; got != want {
		t.Fatalf("got %v symbols, want %v", got, want)
	}
	if got, want := symbols[0], uint16(65535); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := rfg.DecodeNullRuns(symbols), data; !bytes.Equal(got, want) {
		t.Error("round trip failed")
	}
}

func TestNullRunRandomRoundTrip(t *testing.T) {
	src := rand.New(rand.NewSource(11))
	data := make([]byte, 5000)
	for i := range data {
		// Zero-heavy, like a rank stream.
		if src.Intn(4) > 0 {
			data[i] = 0
		} else {
			data[i] = byte(1 + src.Intn(255))
		}
	}
	if got := rfg.DecodeNullRuns(rfg.EncodeNullRuns(data)); !bytes.Equal(got, data) {
		t.Error("round trip failed")
	}
}
