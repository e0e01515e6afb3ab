// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rfg

import (
	"encoding/binary"

	"github.com/b-riemann/rfg/huffman"
)

// ArchiveInfo describes the contents of an archive without decoding the
// rank stream.
type ArchiveInfo struct {
	Control   ControlChars
	TreeBytes int
	Tree      *huffman.Tree[uint16]
	DataBits  uint64
	DataBytes int
}

// Stat parses an archive's header and Huffman tree.
func Stat(archive []byte) (*ArchiveInfo, error) {
	ctrl, treeBits, encoded, err := parseContainer(archive)
	if err != nil {
		return nil, err
	}
	tree, err := huffman.TreeFromBits[uint16](treeBits)
	if err != nil {
		return nil, err
	}
	info := &ArchiveInfo{
		Control:   ctrl,
		TreeBytes: len(treeBits),
		Tree:      tree,
		DataBytes: len(encoded),
	}
	if len(encoded) >= 8 {
		info.DataBits = binary.LittleEndian.Uint64(encoded[:8])
	}
	return info, nil
}

// Symbols decodes the archive's 16-bit symbol stream, the form the rank
// stream takes after null-run coding.
func (info *ArchiveInfo) Symbols(archive []byte) ([]uint16, error) {
	_, _, encoded, err := parseContainer(archive)
	if err != nil {
		return nil, err
	}
	return huffman.Decode(encoded, info.Tree)
}
