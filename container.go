// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rfg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Archive layout:
//
//	.magic:32           = "RFG1"
//	.xml_end:8          preprocessor control char for closing tags
//	.upper:8            preprocessor control char for capital letters
//	.tree_size:64       little-endian byte length of the tree section
//	.tree:tree_size*8   serialized 16-bit-symbol Huffman tree
//	.bits:...           length-prefixed Huffman bit stream
//
// The tree grammar is self-delimiting, so the byte length is only
// needed to locate the start of the bit stream.

var containerMagic = []byte("RFG1")

const containerHeaderSize = 4 + 2 + 8

func writeContainer(ctrl ControlChars, treeBits, encoded []byte) []byte {
	out := make([]byte, 0, containerHeaderSize+len(treeBits)+len(encoded))
	out = append(out, containerMagic...)
	out = append(out, ctrl.XMLEnd, ctrl.Upper)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(treeBits)))
	out = append(out, treeBits...)
	out = append(out, encoded...)
	return out
}

func parseContainer(data []byte) (ctrl ControlChars, treeBits, encoded []byte, err error) {
	if len(data) < containerHeaderSize {
		err = fmt.Errorf("rfg: archive header is too small: %v", len(data))
		return
	}
	if !bytes.Equal(data[:4], containerMagic) {
		err = fmt.Errorf("rfg: wrong archive magic: %x", data[:4])
		return
	}
	ctrl = ControlChars{XMLEnd: data[4], Upper: data[5]}
	treeSize := binary.LittleEndian.Uint64(data[6:14])
	rest := data[containerHeaderSize:]
	if treeSize > uint64(len(rest)) {
		err = fmt.Errorf("rfg: archive tree section of %v bytes exceeds remaining %v", treeSize, len(rest))
		return
	}
	treeBits = rest[:treeSize]
	encoded = rest[treeSize:]
	return
}
