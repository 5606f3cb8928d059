// Package errors defines the error types reported while lexing, parsing and
// building KDL documents.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDepthExceeded is wrapped by a ParseError when children blocks nest
	// deeper than the configured maximum.
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
	// ErrInvalidOption is returned by options given out-of-range arguments.
	ErrInvalidOption = errors.New("invalid option")
)

// Position is a location in the source text. Line and Column are 1-based,
// Column counts runes and Offset counts bytes.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LexErrorKind classifies malformed raw text.
type LexErrorKind int

const (
	UnterminatedString LexErrorKind = iota + 1
	UnterminatedComment
	InvalidEscape
	InvalidRawString
	InvalidUTF8
	InvalidCharacter
	InvalidMultiline
)

var lexErrorKindNames = map[LexErrorKind]string{
	UnterminatedString:  "unterminated string",
	UnterminatedComment: "unterminated block comment",
	InvalidEscape:       "invalid escape sequence",
	InvalidRawString:    "invalid raw string delimiter",
	InvalidUTF8:         "invalid utf-8",
	InvalidCharacter:    "invalid character",
	InvalidMultiline:    "invalid multiline string",
}

func (k LexErrorKind) String() string {
	if s, ok := lexErrorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LexErrorKind(%d)", int(k))
}

// LexError reports malformed raw text at Pos.
type LexError struct {
	Kind   LexErrorKind
	Pos    Position
	Detail string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("kdl: lex error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.message())
}

func (e *LexError) message() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// ParseErrorKind classifies structural errors.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota + 1
	UnterminatedChildren
	MissingIdentifier
	InvalidTypeAnnotation
	InvalidNumber
	OutOfRange
	DepthExceeded
	Lex
)

var parseErrorKindNames = map[ParseErrorKind]string{
	UnexpectedToken:       "unexpected token",
	UnterminatedChildren:  "unterminated children block",
	MissingIdentifier:     "missing identifier",
	InvalidTypeAnnotation: "invalid type annotation",
	InvalidNumber:         "invalid number",
	OutOfRange:            "value out of range",
	DepthExceeded:         "depth exceeded",
	Lex:                   "lex error",
}

func (k ParseErrorKind) String() string {
	if s, ok := parseErrorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError represents the error that aborted a parse. It includes the
// position of the error and, for delegated failures, the underlying error.
type ParseError struct {
	Kind    ParseErrorKind
	Pos     Position
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		var lexErr *LexError
		if errors.As(e.Err, &lexErr) {
			msg = lexErr.message()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("kdl: parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NumberError reports a malformed numeric literal.
type NumberError struct {
	Lexeme string
	Reason string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("malformed number %q: %s", e.Lexeme, e.Reason)
}

// RangeError reports a value that does not fit its numeric type annotation.
type RangeError struct {
	Annotation string
	Value      string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s does not fit in (%s)", e.Value, e.Annotation)
}

// BuildError reports a node that violates the document invariants.
type BuildError struct {
	Node   string
	Reason string
}

func (e *BuildError) Error() string {
	if e.Node == "" {
		return "kdl: invalid node: " + e.Reason
	}
	return fmt.Sprintf("kdl: invalid node %q: %s", e.Node, e.Reason)
}
