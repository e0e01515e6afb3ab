// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rfg

import (
	"context"
	"sort"
)

const alphabetSize = 256

// checkInterval is the step count between context checks and progress
// updates during the rank transform.
const checkInterval = 4096

// Rotund computes the rank permutation for a context: a sequence of all
// 256 byte values ordered by decreasing likelihood of preceding content
// in the underlying stream. It is a pure function of its argument; the
// decoder relies on obtaining the identical permutation from the
// identical context.
//
// A candidate position a contributes when content[a+1] matches the first
// context byte. Its overlap is how far content matches the run starting
// at a+1, and the byte content[a] is scored by the lexicographic key
// (best overlap, count of candidates achieving it). Byte values with
// equal scores rank in ascending order, so a context with no candidates
// yields the identity permutation.
func Rotund(content []byte) []byte {
	var bestOverlap, tieCount [alphabetSize]int
	if len(content) > 0 {
		first := content[0]
		for a := 0; a+1 < len(content); a++ {
			if content[a+1] != first {
				continue
			}
			scoreCandidate(&bestOverlap, &tieCount, content[a], matchOverlap(content, a))
		}
	}
	return rankPermutation(&bestOverlap, &tieCount)
}

// matchOverlap returns the largest k >= 1 such that content[:k] equals
// content[a+1:a+1+k], capped by the end of content. The caller has
// already established k >= 1.
func matchOverlap(content []byte, a int) int {
	overlap := 1
	for {
		b := overlap + 1
		c := a + b
		if c >= len(content) || content[overlap] != content[c] {
			return overlap
		}
		overlap = b
	}
}

func scoreCandidate(bestOverlap, tieCount *[alphabetSize]int, target byte, overlap int) {
	ti := int(target)
	switch {
	case bestOverlap[ti] > overlap:
	case bestOverlap[ti] == overlap:
		tieCount[ti]++
	default:
		bestOverlap[ti] = overlap
		tieCount[ti] = 1
	}
}

func rankPermutation(bestOverlap, tieCount *[alphabetSize]int) []byte {
	perm := make([]byte, alphabetSize)
	for i := range perm {
		perm[i] = byte(i)
	}
	// Stable sort over the identity permutation: ties keep ascending
	// byte order, which the decoder depends on.
	sort.SliceStable(perm, func(i, j int) bool {
		bi, bj := int(perm[i]), int(perm[j])
		if bestOverlap[bi] != bestOverlap[bj] {
			return bestOverlap[bi] > bestOverlap[bj]
		}
		return tieCount[bi] > tieCount[bj]
	})
	return perm
}

// rotundIndex incrementally indexes the processed suffix of a buffer by
// byte value, so that each codec step only visits candidate positions
// whose successor byte matches the head of the context. The scores are
// order-independent, hence the indexed scan matches Rotund bit-for-bit.
type rotundIndex struct {
	data      []byte
	positions [alphabetSize][]int
}

func newRotundIndex(data []byte) *rotundIndex {
	return &rotundIndex{data: data}
}

// add records position n; the byte at n becomes a first-byte candidate
// anchor for later (smaller n) contexts.
func (ri *rotundIndex) add(n int) {
	b := ri.data[n]
	ri.positions[b] = append(ri.positions[b], n)
}

// rotund computes Rotund(ri.data[n:]) using the index. Every indexed
// position is > n, so each x maps to candidate a = x-n-1 within the
// context with content[a+1] equal to the first context byte.
func (ri *rotundIndex) rotund(n int) []byte {
	content := ri.data[n:]
	var bestOverlap, tieCount [alphabetSize]int
	for _, x := range ri.positions[content[0]] {
		a := x - n - 1
		scoreCandidate(&bestOverlap, &tieCount, content[a], matchOverlap(content, a))
	}
	return rankPermutation(&bestOverlap, &tieCount)
}

// RotundEncode transforms a (reversed) byte stream into its rank stream.
// The last input byte is emitted verbatim as the seed; every further
// rank is the position of the preceding byte in the permutation computed
// from the already-processed suffix. The transform is quadratic in the
// input length, so the context is checked periodically and progress
// updates are sent if requested via SendUpdates.
func RotundEncode(ctx context.Context, reversed []byte, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)
	l := len(reversed)
	if l == 0 {
		return nil, ErrEmptyInput
	}
	ranks := make([]byte, l)
	n := l - 1
	ranks[0] = reversed[n]
	if l == 1 {
		return ranks, nil
	}
	index := newRotundIndex(reversed)
	for m := 1; ; m++ {
		if m%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o.update(m, l)
		}
		rotund := index.rotund(n)
		index.add(n)
		n--
		ranks[m] = rankOf(rotund, reversed[n])
		if n == 0 {
			break
		}
	}
	o.update(l, l)
	return ranks, nil
}

// RotundDecode reconstructs the byte stream from its rank stream. It
// mirrors RotundEncode exactly: at every step both sides compute the
// permutation from the same already-known suffix, so the mapping between
// ranks and bytes is reconstructed online with no side channel.
func RotundDecode(ctx context.Context, ranks []byte, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)
	l := len(ranks)
	if l == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]byte, l)
	n := l - 1
	out[n] = ranks[0]
	if l == 1 {
		return out, nil
	}
	index := newRotundIndex(out)
	for m := 1; ; m++ {
		if m%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o.update(m, l)
		}
		rotund := index.rotund(n)
		index.add(n)
		n--
		out[n] = rotund[ranks[m]]
		if n == 0 {
			break
		}
	}
	o.update(l, l)
	return out, nil
}

func rankOf(rotund []byte, target byte) byte {
	for i, b := range rotund {
		if b == target {
			return byte(i)
		}
	}
	panic("rfg: permutation is missing a byte value")
}
