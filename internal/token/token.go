package token

import (
	"unicode/utf8"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
)

// Type is the type of a token.
type Type string

// Token represents a lexical token.
type Token struct {
	Type Type
	// Literal is the decoded text for strings, the verbatim lexeme for
	// numbers and identifiers, and the spelling for keywords.
	Literal string
	Pos     kdlerrors.Position
	// Space is set when whitespace, a comment or a line continuation
	// separates this token from the previous one.
	Space bool
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Literals
	IDENT      Type = "IDENT"      // node, key, my-name
	STRING     Type = "STRING"     // "hello world"
	RAW_STRING Type = "RAW_STRING" // #"C:\path"#, r"C:\path"
	NUMBER     Type = "NUMBER"     // 12, -0x1f, 1.5e3

	// Keywords
	TRUE    Type = "TRUE"
	FALSE   Type = "FALSE"
	NULL    Type = "NULL"
	INF     Type = "INF"
	NEG_INF Type = "NEG_INF"
	NAN     Type = "NAN"

	// Delimiters
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	EQUALS    Type = "="
	SEMICOLON Type = ";"

	NEWLINE   Type = "NEWLINE"
	SLASHDASH Type = "/-"
)

var keywords = map[string]Type{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

var hashKeywords = map[string]Type{
	"#true":  TRUE,
	"#false": FALSE,
	"#null":  NULL,
	"#inf":   INF,
	"#-inf":  NEG_INF,
	"#nan":   NAN,
}

// LookupIdent checks the keywords table for a bare word.
// If the word is a keyword, it returns the keyword's token type.
// Otherwise, it returns IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// LookupHashKeyword resolves a '#'-prefixed keyword such as "#true".
func LookupHashKeyword(word string) (Type, bool) {
	tok, ok := hashKeywords[word]
	return tok, ok
}

// IsValue reports whether t can start a value.
func (t Type) IsValue() bool {
	switch t {
	case IDENT, STRING, RAW_STRING, NUMBER, TRUE, FALSE, NULL, INF, NEG_INF, NAN:
		return true
	}
	return false
}

// IsString reports whether t is a string usable as an identifier.
func (t Type) IsString() bool {
	return t == IDENT || t == STRING || t == RAW_STRING
}

// IsNewline reports whether r ends a line. CRLF is handled by the lexer.
func IsNewline(r rune) bool {
	switch r {
	case '\r', '\n', 0x0B, 0x0C, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// IsWhitespace reports whether r is unicode whitespace other than newlines.
func IsWhitespace(r rune) bool {
	switch r {
	case '\t', ' ', 0xA0, 0x1680, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// IsDisallowed reports whether r may never appear literally in a document.
func IsDisallowed(r rune) bool {
	switch {
	case r < 0x20:
		return r != '\t' && !IsNewline(r)
	case r == 0x7F:
		return true
	case r >= 0x200E && r <= 0x200F, r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	}
	return false
}

// IsIdentChar reports whether r may appear in a bare identifier.
func IsIdentChar(r rune) bool {
	switch r {
	case '\\', '/', '(', ')', '{', '}', '[', ']', ';', '"', '#', '=':
		return false
	}
	return r > 0x20 && !IsWhitespace(r) && !IsNewline(r) && !IsDisallowed(r) && r <= utf8.MaxRune
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// IsNumberStart reports whether a word beginning with a, b is lexed as a
// number rather than an identifier.
func IsNumberStart(a, b, c rune) bool {
	switch {
	case IsDigit(a):
		return true
	case a == '+' || a == '-':
		return IsDigit(b) || (b == '.' && IsDigit(c))
	case a == '.':
		return IsDigit(b)
	}
	return false
}

// IsBareIdentifier reports whether s can be written without quotes and read
// back as the same identifier string.
func IsBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, reserved := keywords[s]; reserved {
		return false
	}
	switch s {
	case "inf", "-inf", "+inf", "nan":
		return false
	}
	var first [3]rune
	i := 0
	for _, r := range s {
		if r == utf8.RuneError || !IsIdentChar(r) {
			return false
		}
		if i < len(first) {
			first[i] = r
			i++
		}
	}
	return !IsNumberStart(first[0], first[1], first[2])
}
