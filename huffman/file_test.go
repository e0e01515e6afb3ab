// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffman_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/b-riemann/rfg/huffman"
)

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	freqs, err := huffman.CountFreqs([]uint8("the quick brown fox"))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := huffman.FromWeights(freqs)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tree.bin")
	if err := tree.Save(ctx, path); err != nil {
		t.Fatal(err)
	}
	restored, err := huffman.LoadTree[uint8](ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := restored.String(), tree.String(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadMissing(t *testing.T) {
	ctx := context.Background()
	if _, err := huffman.LoadTree[uint8](ctx, filepath.Join(t.TempDir(), "no-such-tree")); err == nil {
		t.Error("expected an error")
	}
}
