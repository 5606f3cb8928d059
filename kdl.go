package kdl

import (
	"bytes"
	"io"
	"strings"
)

// Parse parses data as a KDL document. Parsing stops at the first error,
// which is a *ParseError; no partial document is returned.
func Parse(data []byte, opts ...ParseOption) (*Document, error) {
	return ParseReader(bytes.NewReader(data), opts...)
}

// ParseString is like Parse but takes a string.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	return ParseReader(strings.NewReader(s), opts...)
}

// ParseReader parses a KDL document read from r.
func ParseReader(r io.Reader, opts ...ParseOption) (*Document, error) {
	o, err := newParseOptions(opts)
	if err != nil {
		return nil, err
	}
	return newParser(r, o).parseDocument()
}

// Marshal returns the text form of doc.
func Marshal(doc *Document, opts ...EmitOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
