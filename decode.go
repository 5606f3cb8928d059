package kdl

import (
	"errors"
	"io"
)

// Decoder reads a KDL document from an input stream.
type Decoder struct {
	r    io.Reader
	opts []ParseOption
}

// NewDecoder returns a new decoder that reads from r.
//
// The decoder may buffer data from r as necessary. It is the caller's
// responsibility to call Close on r if required.
func NewDecoder(r io.Reader, opts ...ParseOption) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the whole input and parses it as one document.
func (d *Decoder) Decode() (*Document, error) {
	if d.r == nil {
		return nil, errors.New("kdl: Decode(nil reader)")
	}
	return ParseReader(d.r, d.opts...)
}
