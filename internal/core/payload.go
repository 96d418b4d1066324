package core

import (
	"bufio"
	"bytes"
	"io"
)

// utf8BOM is prepended by some Windows editors and breaks JSON parsing.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewBOMSkippingReader returns a reader over r with a leading UTF-8 byte
// order mark removed.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// ReadPayload reads a whole report or errors document from r.
func ReadPayload(r io.Reader) ([]byte, error) {
	return io.ReadAll(NewBOMSkippingReader(r))
}
