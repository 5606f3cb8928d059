package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
	"github.com/KimNorgaard/go-kdl/internal/debug"
	"github.com/KimNorgaard/go-kdl/internal/token"
)

const eof = -1

// Version restricts the accepted syntax to one language version.
type Version int

const (
	// VersionAuto locks onto the version of the first construct that only
	// one of KDL v1 and v2 accepts.
	VersionAuto Version = iota
	Version1
	Version2
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "KDL v1"
	case Version2:
		return "KDL v2"
	}
	return "auto"
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithVersion restricts the lexer to the spellings of one language version.
func WithVersion(v Version) Option {
	return func(l *Lexer) {
		l.version = v
	}
}

// Lexer holds the state for tokenizing KDL source.
type Lexer struct {
	r       *bufio.Reader
	buf     bytes.Buffer
	ch      rune
	size    int
	invalid bool
	pos     kdlerrors.Position
	version Version
	space   bool
	err     *kdlerrors.LexError
}

// New creates and returns a new Lexer.
func New(r io.Reader, opts ...Option) *Lexer {
	l := &Lexer{
		r:   bufio.NewReader(r),
		pos: kdlerrors.Position{Line: 1, Column: 1},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readRune()
	if l.ch == 0xFEFF {
		l.advance()
		l.pos.Column = 1
	}
	return l
}

// Err returns the error behind the most recent ILLEGAL token.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// Version returns the version in effect. An auto-detecting lexer reports
// VersionAuto until it has seen version-specific syntax.
func (l *Lexer) Version() Version {
	return l.version
}

// Require reports whether syntax of version v is allowed. An auto-detecting
// lexer is locked to v by the first call.
func (l *Lexer) Require(v Version) bool {
	if l.version == VersionAuto {
		if debug.Lex() {
			debug.Logf("lex locked to %s", v)
		}
		l.version = v
		return true
	}
	return l.version == v
}

// conflict describes syntax of version want found in a document of
// another version.
func (l *Lexer) conflict(what string, want Version) string {
	return fmt.Sprintf("%s requires %s, the document is %s", what, want, l.version)
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() token.Token {
	tok := l.nextToken()
	if debug.Lex() {
		debug.Logf("lex %s %q at %s space=%t", tok.Type, tok.Literal, tok.Pos, tok.Space)
	}
	return tok
}

func (l *Lexer) nextToken() token.Token { //nolint:gocognit
	l.space = false
	if err := l.skipSpace(); err != nil {
		return l.illegal(err)
	}
	tok := token.Token{Pos: l.pos, Space: l.space}
	if l.invalid {
		return l.illegal(l.errorf(kdlerrors.InvalidUTF8, l.pos, ""))
	}
	switch l.ch {
	case eof:
		tok.Type = token.EOF
		return tok
	case '(', ')', '{', '}', ';', '=':
		tok.Type = token.Type(l.ch)
		tok.Literal = string(l.ch)
		l.advance()
		return tok
	case '/':
		if l.peekRune() == '-' {
			l.advance()
			l.advance()
			tok.Type = token.SLASHDASH
			tok.Literal = "/-"
			return tok
		}
		return l.illegal(l.errorf(kdlerrors.InvalidCharacter, tok.Pos, "unexpected '/'"))
	case '"':
		return l.readQuoted(tok)
	case '#':
		next := l.peekRune()
		if next == '"' || next == '#' {
			return l.readRaw(tok, false)
		}
		return l.readHashKeyword(tok)
	}
	if token.IsNewline(l.ch) {
		tok.Type = token.NEWLINE
		tok.Literal = l.readNewline()
		return tok
	}
	if l.ch == 'r' {
		if next := l.peekRune(); next == '"' || next == '#' {
			return l.readRaw(tok, true)
		}
	}
	if token.IsIdentChar(l.ch) {
		a, b, c := l.peek3()
		word := l.readWord()
		tok.Literal = word
		if token.IsNumberStart(a, b, c) {
			tok.Type = token.NUMBER
			return tok
		}
		switch word {
		case "inf", "-inf", "+inf", "nan":
			return l.illegal(l.errorf(kdlerrors.InvalidCharacter, tok.Pos,
				fmt.Sprintf("bare %q is ambiguous, write #%s or quote it", word, strings.TrimPrefix(word, "+"))))
		}
		tok.Type = token.LookupIdent(word)
		if tok.Type != token.IDENT && !l.Require(Version1) {
			return l.illegal(l.errorf(kdlerrors.InvalidCharacter, tok.Pos,
				fmt.Sprintf("%s; write #%s", l.conflict(fmt.Sprintf("bare keyword %q", word), Version1), word)))
		}
		return tok
	}
	return l.illegal(l.errorf(kdlerrors.InvalidCharacter, tok.Pos, fmt.Sprintf("unexpected %q", l.ch)))
}

func (l *Lexer) illegal(err *kdlerrors.LexError) token.Token {
	l.err = err
	return token.Token{Type: token.ILLEGAL, Literal: err.Error(), Pos: err.Pos, Space: l.space}
}

func (l *Lexer) errorf(kind kdlerrors.LexErrorKind, pos kdlerrors.Position, detail string) *kdlerrors.LexError {
	return &kdlerrors.LexError{Kind: kind, Pos: pos, Detail: detail}
}

func (l *Lexer) readRune() {
	r, size, err := l.r.ReadRune()
	if err != nil {
		l.ch = eof
		l.size = 0
		l.invalid = false
		return
	}
	l.ch = r
	l.size = size
	l.invalid = r == utf8.RuneError && size == 1
}

func (l *Lexer) advance() {
	if l.ch == eof {
		return
	}
	newline := token.IsNewline(l.ch) && (l.ch != '\r' || l.peekRune() != '\n')
	l.pos.Offset += l.size
	if newline {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.readRune()
}

func (l *Lexer) peekRune() rune {
	// Prioritize the returned slice, as Peek can return both bytes and an error
	bytes, _ := l.r.Peek(utf8.UTFMax)
	if len(bytes) == 0 {
		return eof
	}
	r, _ := utf8.DecodeRune(bytes)
	return r
}

// peek3 returns the current rune and the two that follow it.
func (l *Lexer) peek3() (rune, rune, rune) {
	bytes, _ := l.r.Peek(utf8.UTFMax * 2)
	b, c := rune(eof), rune(eof)
	if len(bytes) > 0 {
		var n int
		b, n = utf8.DecodeRune(bytes)
		if len(bytes) > n {
			c, _ = utf8.DecodeRune(bytes[n:])
		}
	}
	return l.ch, b, c
}

// peekString reports whether the input following the current rune starts
// with s.
func (l *Lexer) peekString(s string) bool {
	bytes, _ := l.r.Peek(len(s))
	return string(bytes) == s
}

func (l *Lexer) readNewline() string {
	if l.ch == '\r' && l.peekRune() == '\n' {
		l.advance()
		l.advance()
		return "\r\n"
	}
	s := string(l.ch)
	l.advance()
	return s
}

func (l *Lexer) readWord() string {
	l.buf.Reset()
	for !l.invalid && l.ch != eof && token.IsIdentChar(l.ch) {
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	return l.buf.String()
}

// skipSpace consumes whitespace, comments and line continuations. Newlines
// are left for the caller because they terminate nodes.
func (l *Lexer) skipSpace() *kdlerrors.LexError {
	for {
		switch {
		case l.ch != eof && token.IsWhitespace(l.ch):
			l.space = true
			l.advance()
		case l.ch == '/' && l.peekRune() == '*':
			l.space = true
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case l.ch == '/' && l.peekRune() == '/':
			l.space = true
			l.skipLineComment()
		case l.ch == '\\':
			l.space = true
			if err := l.skipContinuation(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != eof && !token.IsNewline(l.ch) {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() *kdlerrors.LexError {
	start := l.pos
	depth := 0
	for {
		switch {
		case l.ch == eof:
			return l.errorf(kdlerrors.UnterminatedComment, start, "")
		case l.ch == '/' && l.peekRune() == '*':
			depth++
			l.advance()
			l.advance()
		case l.ch == '*' && l.peekRune() == '/':
			depth--
			l.advance()
			l.advance()
			if depth == 0 {
				return nil
			}
		default:
			l.advance()
		}
	}
}

func (l *Lexer) skipContinuation() *kdlerrors.LexError {
	start := l.pos
	l.advance() // consume '\'
	for {
		switch {
		case l.ch != eof && token.IsWhitespace(l.ch):
			l.advance()
		case l.ch == '/' && l.peekRune() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case l.ch == '/' && l.peekRune() == '/':
			l.skipLineComment()
		case l.ch == eof:
			return nil
		case token.IsNewline(l.ch):
			l.readNewline()
			return nil
		default:
			return l.errorf(kdlerrors.InvalidCharacter, start, "line continuation must be followed by a newline")
		}
	}
}

func (l *Lexer) readHashKeyword(tok token.Token) token.Token {
	l.advance() // consume '#'
	word := "#" + l.readWord()
	typ, ok := token.LookupHashKeyword(word)
	if !ok {
		return l.illegal(l.errorf(kdlerrors.InvalidCharacter, tok.Pos, fmt.Sprintf("unknown keyword %q", word)))
	}
	if !l.Require(Version2) {
		return l.illegal(l.errorf(kdlerrors.InvalidCharacter, tok.Pos, l.conflict(fmt.Sprintf("keyword %q", word), Version2)))
	}
	tok.Type = typ
	tok.Literal = word
	return tok
}

// readQuoted reads an escaped string starting at the opening quote.
func (l *Lexer) readQuoted(tok token.Token) token.Token {
	if l.peekString(`""`) {
		if !l.Require(Version2) {
			return l.illegal(l.errorf(kdlerrors.InvalidMultiline, tok.Pos, l.conflict("a multiline string", Version2)))
		}
		return l.readMultiline(tok, false, 0)
	}
	l.advance() // consume opening quote
	l.buf.Reset()
	for {
		switch {
		case l.ch == eof:
			return l.illegal(l.errorf(kdlerrors.UnterminatedString, tok.Pos, ""))
		case l.invalid:
			return l.illegal(l.errorf(kdlerrors.InvalidUTF8, l.pos, "in string"))
		case l.ch == '"':
			l.advance()
			s, err := l.unescape(l.buf.String(), tok.Pos)
			if err != nil {
				return l.illegal(err)
			}
			tok.Type = token.STRING
			tok.Literal = s
			return tok
		case l.ch == '\\':
			l.buf.WriteRune(l.ch)
			l.advance()
			if l.ch == eof {
				return l.illegal(l.errorf(kdlerrors.UnterminatedString, tok.Pos, ""))
			}
			l.buf.WriteRune(l.ch)
			l.advance()
		case token.IsNewline(l.ch) && !l.Require(Version1):
			return l.illegal(l.errorf(kdlerrors.InvalidCharacter, l.pos, l.conflict("a newline in a single-line string", Version1)))
		case token.IsDisallowed(l.ch):
			return l.illegal(l.errorf(kdlerrors.InvalidCharacter, l.pos, fmt.Sprintf("U+%04X in string", l.ch)))
		default:
			l.buf.WriteRune(l.ch)
			l.advance()
		}
	}
}

// readRaw reads a raw string. legacy selects the r"..." spelling.
func (l *Lexer) readRaw(tok token.Token, legacy bool) token.Token {
	switch {
	case legacy && !l.Require(Version1):
		return l.illegal(l.errorf(kdlerrors.InvalidRawString, tok.Pos, l.conflict(`an r"..." raw string`, Version1)))
	case !legacy && !l.Require(Version2):
		return l.illegal(l.errorf(kdlerrors.InvalidRawString, tok.Pos, l.conflict(`a #"..."# raw string`, Version2)))
	}
	if legacy {
		l.advance() // consume 'r'
	}
	hashes := 0
	for l.ch == '#' {
		hashes++
		l.advance()
	}
	if l.ch != '"' {
		return l.illegal(l.errorf(kdlerrors.InvalidRawString, tok.Pos, "expected '\"' after '#'"))
	}
	if !legacy && hashes > 0 && l.peekString(`""`) {
		return l.readMultiline(tok, true, hashes)
	}
	l.advance() // consume opening quote
	closing := `"` + strings.Repeat("#", hashes)
	l.buf.Reset()
	for {
		switch {
		case l.ch == eof:
			return l.illegal(l.errorf(kdlerrors.UnterminatedString, tok.Pos, ""))
		case l.invalid:
			return l.illegal(l.errorf(kdlerrors.InvalidUTF8, l.pos, "in raw string"))
		case l.ch == '"' && l.peekString(closing[1:]):
			for range closing {
				l.advance()
			}
			tok.Type = token.RAW_STRING
			tok.Literal = l.buf.String()
			return tok
		case !legacy && token.IsNewline(l.ch):
			return l.illegal(l.errorf(kdlerrors.InvalidRawString, l.pos, "newline in a single-line raw string"))
		case token.IsDisallowed(l.ch):
			return l.illegal(l.errorf(kdlerrors.InvalidCharacter, l.pos, fmt.Sprintf("U+%04X in string", l.ch)))
		default:
			l.buf.WriteRune(l.ch)
			l.advance()
		}
	}
}

// readMultiline reads a """-delimited string, with hashes set for the raw
// form. The body is dedented by the whitespace preceding the closing quotes.
func (l *Lexer) readMultiline(tok token.Token, raw bool, hashes int) token.Token {
	closing := `"""` + strings.Repeat("#", hashes)
	for range 3 {
		l.advance() // consume opening quotes
	}
	for l.ch != eof && token.IsWhitespace(l.ch) {
		l.advance()
	}
	if l.ch == eof || !token.IsNewline(l.ch) {
		return l.illegal(l.errorf(kdlerrors.InvalidMultiline, tok.Pos, "opening quotes must be followed by a newline"))
	}
	l.readNewline()

	var lines []string
	l.buf.Reset()
	for {
		switch {
		case l.ch == eof:
			return l.illegal(l.errorf(kdlerrors.UnterminatedString, tok.Pos, ""))
		case l.invalid:
			return l.illegal(l.errorf(kdlerrors.InvalidUTF8, l.pos, "in multiline string"))
		case l.ch == '"' && l.peekString(closing[1:]):
			for range closing {
				l.advance()
			}
			lines = append(lines, l.buf.String())
			s, err := dedent(lines, tok.Pos)
			if err == nil && !raw {
				s, err = l.unescape(s, tok.Pos)
			}
			if err != nil {
				return l.illegal(err)
			}
			tok.Type = token.STRING
			if raw {
				tok.Type = token.RAW_STRING
			}
			tok.Literal = s
			return tok
		case token.IsNewline(l.ch):
			l.readNewline()
			lines = append(lines, l.buf.String())
			l.buf.Reset()
		case l.ch == '\\' && !raw:
			l.buf.WriteRune(l.ch)
			l.advance()
			if l.ch != eof && !l.invalid && !token.IsNewline(l.ch) {
				l.buf.WriteRune(l.ch)
				l.advance()
			}
		case token.IsDisallowed(l.ch):
			return l.illegal(l.errorf(kdlerrors.InvalidCharacter, l.pos, fmt.Sprintf("U+%04X in string", l.ch)))
		default:
			l.buf.WriteRune(l.ch)
			l.advance()
		}
	}
}

// dedent strips the indentation given by the final line from all lines.
func dedent(lines []string, pos kdlerrors.Position) (string, *kdlerrors.LexError) {
	indent := lines[len(lines)-1]
	if strings.TrimFunc(indent, token.IsWhitespace) != "" {
		return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidMultiline, Pos: pos, Detail: "closing quotes must be on their own line"}
	}
	body := lines[:len(lines)-1]
	out := make([]string, len(body))
	for i, line := range body {
		if strings.TrimFunc(line, token.IsWhitespace) == "" {
			continue
		}
		rest, ok := strings.CutPrefix(line, indent)
		if !ok {
			return "", &kdlerrors.LexError{
				Kind:   kdlerrors.InvalidMultiline,
				Pos:    pos,
				Detail: fmt.Sprintf("line %d does not start with the closing line's indentation", i+1),
			}
		}
		out[i] = rest
	}
	return strings.Join(out, "\n"), nil
}

// unescape resolves escape sequences in the body of a quoted string. The
// escapes \/ (KDL v1) and \s or escaped whitespace (KDL v2) lock the
// version.
func (l *Lexer) unescape(s string, pos kdlerrors.Position) (string, *kdlerrors.LexError) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(s) {
			return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidEscape, Pos: pos, Detail: `trailing '\'`}
		}
		r, n := utf8.DecodeRuneInString(s[i:])
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '/':
			if !l.Require(Version1) {
				return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidEscape, Pos: pos, Detail: l.conflict(`\/`, Version1)}
			}
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 's':
			if !l.Require(Version2) {
				return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidEscape, Pos: pos, Detail: l.conflict(`\s`, Version2)}
			}
			b.WriteByte(' ')
		case 'u':
			v, width, ok := readUnicodeEscape(s[i+1:])
			if !ok {
				return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidEscape, Pos: pos, Detail: `malformed \u{...} escape`}
			}
			b.WriteRune(v)
			i += 1 + width
			continue
		default:
			if token.IsWhitespace(r) || token.IsNewline(r) {
				if !l.Require(Version2) {
					return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidEscape, Pos: pos, Detail: l.conflict("escaped whitespace", Version2)}
				}
				for i < len(s) {
					r, n = utf8.DecodeRuneInString(s[i:])
					if !token.IsWhitespace(r) && !token.IsNewline(r) {
						break
					}
					i += n
				}
				continue
			}
			return "", &kdlerrors.LexError{Kind: kdlerrors.InvalidEscape, Pos: pos, Detail: fmt.Sprintf(`\%c`, r)}
		}
		i += n
	}
	return b.String(), nil
}

// readUnicodeEscape parses "{HEX}" at the start of s and returns the code
// point and the number of bytes consumed.
func readUnicodeEscape(s string) (rune, int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, 0, false
	}
	end := strings.IndexByte(s, '}')
	if end < 2 || end > 7 {
		return 0, 0, false
	}
	var v rune
	for _, c := range s[1:end] {
		var d rune
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'f':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, 0, false
		}
		v = v*16 + d
	}
	if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, 0, false
	}
	return v, end + 1, true
}
