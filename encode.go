package kdl

import (
	"errors"
	"io"
)

// Encoder writes KDL documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts EmitterOptions
}

// NewEncoder returns a new encoder that writes to w, starting from
// DefaultEmitterOptions.
func NewEncoder(w io.Writer, opts ...EmitOption) *Encoder {
	o := DefaultEmitterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{w: w, opts: o}
}

// Encode writes the text form of doc. Only write errors are returned.
func (e *Encoder) Encode(doc *Document) error {
	if e.w == nil {
		return errors.New("kdl: Encode(nil writer)")
	}
	return newFormatter(e.w, e.opts).formatDocument(doc)
}
