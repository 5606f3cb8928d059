package kdl

import (
	"fmt"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
	"github.com/KimNorgaard/go-kdl/internal/lexer"
	"github.com/KimNorgaard/go-kdl/internal/number"
)

const defaultMaxDepth = 1000

// ParseOption configures parsing.
type ParseOption func(*parseOptions) error

type parseOptions struct {
	maxDepth int
	version  Version
}

func newParseOptions(opts []ParseOption) (*parseOptions, error) {
	o := &parseOptions{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MaxDepth returns a ParseOption that sets the maximum nesting depth of
// children blocks. This guards against stack exhaustion on adversarial
// input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) ParseOption {
	return func(o *parseOptions) error {
		if n <= 0 {
			return fmt.Errorf("kdl: %w: max depth must be a positive integer", kdlerrors.ErrInvalidOption)
		}
		o.maxDepth = n
		return nil
	}
}

// Version selects the accepted language version.
type Version int

const (
	// VersionAuto accepts either version. The first construct that only
	// one version allows decides, and syntax of the other version is an
	// error from then on.
	VersionAuto Version = iota
	// Version1 accepts only KDL v1: bare true/false/null, r"..." raw
	// strings, the \/ escape and newlines inside quoted strings.
	Version1
	// Version2 accepts only KDL v2: #true/#false/#null, #"..."# raw strings,
	// """ multiline strings, the \s and whitespace escapes, bare
	// identifier values and whitespace around '=' or inside type
	// annotations.
	Version2
)

// WithVersion returns a ParseOption restricting input to one language
// version.
func WithVersion(v Version) ParseOption {
	return func(o *parseOptions) error {
		if v < VersionAuto || v > Version2 {
			return fmt.Errorf("kdl: %w: unknown version %d", kdlerrors.ErrInvalidOption, int(v))
		}
		o.version = v
		return nil
	}
}

func (v Version) lexer() lexer.Version {
	switch v {
	case Version1:
		return lexer.Version1
	case Version2:
		return lexer.Version2
	}
	return lexer.VersionAuto
}

// EscapeMode selects which characters are escaped in quoted strings.
// Control characters, backslashes and quotes are always escaped.
type EscapeMode uint8

const (
	// EscapeNewline escapes line breaks.
	EscapeNewline EscapeMode = 1 << iota
	// EscapeTab escapes tabs.
	EscapeTab
	// EscapeNonASCII escapes every code point above U+007E.
	EscapeNonASCII

	// EscapeDefault passes printable unicode through unchanged.
	EscapeDefault = EscapeNewline | EscapeTab
	// EscapeASCIIMode produces pure ASCII strings.
	EscapeASCIIMode = EscapeDefault | EscapeNonASCII
)

// IdentifierMode selects when node names, property keys and type
// annotations are quoted.
type IdentifierMode int

const (
	// PreferBareIdentifiers quotes only identifiers that are not valid
	// bare identifiers.
	PreferBareIdentifiers IdentifierMode = iota
	// QuoteAllIdentifiers quotes every identifier.
	QuoteAllIdentifiers
	// ASCIIIdentifiers additionally quotes identifiers containing non-ASCII
	// characters.
	ASCIIIdentifiers
)

// FloatMode shapes floating point literals. Integers are unaffected.
type FloatMode struct {
	// AlwaysWriteDecimalPoint writes ".0" after integral mantissas, also
	// in scientific notation.
	AlwaysWriteDecimalPoint bool
	// AlwaysWriteDecimalPointOrExponent writes ".0" after integral values
	// that have no exponent, so floats never read back as integers.
	AlwaysWriteDecimalPointOrExponent bool
	CapitalE                          bool
	ExponentPlus                      bool
	Plus                              bool
	// MinExponent is the smallest decimal exponent magnitude at which
	// scientific notation is used. Zero always writes plain decimals.
	MinExponent int
}

func (m FloatMode) format() number.FloatFormat {
	return number.FloatFormat{
		AlwaysWriteDecimalPoint:           m.AlwaysWriteDecimalPoint,
		AlwaysWriteDecimalPointOrExponent: m.AlwaysWriteDecimalPointOrExponent,
		CapitalE:                          m.CapitalE,
		ExponentPlus:                      m.ExponentPlus,
		Plus:                              m.Plus,
		MinExponent:                       m.MinExponent,
	}
}

// EmitterOptions controls the text produced by Emit. Use
// DefaultEmitterOptions as a starting point; the zero value disables
// indentation and never uses scientific notation for floats.
type EmitterOptions struct {
	// Indent is the number of spaces per nesting level.
	Indent         int
	EscapeMode     EscapeMode
	IdentifierMode IdentifierMode
	FloatMode      FloatMode
	// Colors wraps tokens in terminal colors when non-nil.
	Colors *Colors
}

// DefaultEmitterOptions returns four-space indentation, unicode
// passthrough, bare identifiers where possible and floats that switch to
// scientific notation at an exponent of 4.
func DefaultEmitterOptions() EmitterOptions {
	return EmitterOptions{
		Indent:         4,
		EscapeMode:     EscapeDefault,
		IdentifierMode: PreferBareIdentifiers,
		FloatMode: FloatMode{
			AlwaysWriteDecimalPointOrExponent: true,
			MinExponent:                       4,
		},
	}
}

// EmitOption adjusts the EmitterOptions used by an Encoder or Marshal.
type EmitOption func(*EmitterOptions)

// WithEmitterOptions replaces all emitter options with o.
func WithEmitterOptions(o EmitterOptions) EmitOption {
	return func(opts *EmitterOptions) {
		*opts = o
	}
}

// Indent sets the number of spaces per nesting level.
func Indent(n int) EmitOption {
	return func(opts *EmitterOptions) {
		opts.Indent = n
	}
}

// WithColors enables colored output using c.
func WithColors(c *Colors) EmitOption {
	return func(opts *EmitterOptions) {
		opts.Colors = c
	}
}
