package kdl

import kdlerrors "github.com/KimNorgaard/go-kdl/errors"

type (
	Position       = kdlerrors.Position
	LexError       = kdlerrors.LexError
	LexErrorKind   = kdlerrors.LexErrorKind
	ParseError     = kdlerrors.ParseError
	ParseErrorKind = kdlerrors.ParseErrorKind
	NumberError    = kdlerrors.NumberError
	RangeError     = kdlerrors.RangeError
	BuildError     = kdlerrors.BuildError
)

var (
	ErrDepthExceeded = kdlerrors.ErrDepthExceeded
	ErrInvalidOption = kdlerrors.ErrInvalidOption
)
