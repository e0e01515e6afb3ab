// Copyright 2024 the rfg authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rfg

import (
	"errors"
)

// ControlChars are the two marker bytes the preprocessor substitutes
// into the stream. Neither may occur in the input; UnusedSymbols reports
// safe choices.
type ControlChars struct {
	XMLEnd byte // replaces a whole closing tag
	Upper  byte // prefixes a lowered capital letter
}

// UnusedSymbols returns, in ascending order, the byte values that never
// occur in content.
func UnusedSymbols(content []byte) []byte {
	var used [alphabetSize]bool
	for _, b := range content {
		used[b] = true
	}
	out := make([]byte, 0, alphabetSize)
	for i := 0; i < alphabetSize; i++ {
		if !used[i] {
			out = append(out, byte(i))
		}
	}
	return out
}

// Prepare rewrites a Wikipedia-style XML byte stream into a form with
// less surface variety: every closing tag collapses to the single
// ctrl.XMLEnd byte, and every ASCII capital letter is lowered and
// prefixed with ctrl.Upper. Unprepare inverts the rewrite by replaying
// the tag nesting from the opening tags, which remain in the stream.
func Prepare(input []byte, ctrl ControlChars) []byte {
	out := make([]byte, 0, len(input))
	for n := 0; n < len(input); n++ {
		ch := input[n]
		switch {
		case ch == '<' && n+1 < len(input) && input[n+1] == '/':
			n += 2
			for n < len(input) && input[n] != '>' {
				n++
			}
			out = append(out, ctrl.XMLEnd)
		case ch >= 'A' && ch <= 'Z':
			out = append(out, ctrl.Upper, ch+32)
		default:
			out = append(out, ch)
		}
	}
	return out
}

// prepState tracks the open-tag nesting while a stream is unprepared.
type prepState struct {
	xmlTags [][]byte
}

// fetchTag records the tag name of an opening tag. Attributes are
// stripped at the first space; self-closing tags are not recorded since
// no closing tag will ever refer to them.
func (ps *prepState) fetchTag(input []byte) {
	if len(input) < 3 {
		return
	}
	b, c := 2, 0
	for input[b] != '>' {
		if c == 0 && input[b] == ' ' {
			c = b
		}
		b++
		if b >= len(input) {
			break
		}
	}
	if input[b-1] == '/' {
		return
	}
	if c != 0 {
		b = c
	}
	ps.xmlTags = append(ps.xmlTags, input[1:b])
}

func (ps *prepState) popTag() ([]byte, bool) {
	if len(ps.xmlTags) == 0 {
		return nil, false
	}
	tag := ps.xmlTags[len(ps.xmlTags)-1]
	ps.xmlTags = ps.xmlTags[:len(ps.xmlTags)-1]
	return tag, true
}

// Unprepare inverts Prepare. It fails if a ctrl.XMLEnd marker appears
// with no matching opening tag or a ctrl.Upper marker ends the stream,
// both of which mean the input was not produced by Prepare with the
// same control characters.
func Unprepare(input []byte, ctrl ControlChars) ([]byte, error) {
	out := make([]byte, 0, len(input))
	ps := &prepState{}
	for n := 0; n < len(input); n++ {
		ch := input[n]
		if ch == '<' {
			ps.fetchTag(input[n:])
		}
		switch ch {
		case ctrl.Upper:
			n++
			if n >= len(input) {
				return nil, errors.New("rfg: dangling capitalization marker")
			}
			out = append(out, input[n]-32)
		case ctrl.XMLEnd:
			tag, ok := ps.popTag()
			if !ok {
				return nil, errors.New("rfg: closing tag marker with no open tag")
			}
			out = append(out, '<', '/')
			// The recorded name still carries capitalization markers.
			for i := 0; i < len(tag); i++ {
				if tag[i] == ctrl.Upper && i+1 < len(tag) {
					i++
					out = append(out, tag[i]-32)
					continue
				}
				out = append(out, tag[i])
			}
			out = append(out, '>')
		default:
			out = append(out, ch)
		}
	}
	return out, nil
}
