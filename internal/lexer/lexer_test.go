package lexer

import (
	"errors"
	"strings"
	"testing"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
	"github.com/KimNorgaard/go-kdl/internal/token"
	"github.com/stretchr/testify/require"
)

type tokenExpectation struct {
	Type    token.Type
	Literal string
}

// all drains l, stopping after EOF or the first ILLEGAL token.
func all(l *Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}

func lexAll(t *testing.T, input string, opts ...Option) []token.Token {
	t.Helper()
	return all(New(strings.NewReader(input), opts...))
}

func requireTokens(t *testing.T, input string, expected []tokenExpectation, opts ...Option) {
	t.Helper()
	toks := lexAll(t, input, opts...)
	got := make([]tokenExpectation, len(toks))
	for i, tok := range toks {
		got[i] = tokenExpectation{tok.Type, tok.Literal}
	}
	require.Equal(t, expected, got)
}

func TestNextToken(t *testing.T) {
	input := `(tp)node "arg1" 2 3; node2 key=#true {
	child /-x=#null
}
`
	requireTokens(t, input, []tokenExpectation{
		{token.LPAREN, "("},
		{token.IDENT, "tp"},
		{token.RPAREN, ")"},
		{token.IDENT, "node"},
		{token.STRING, "arg1"},
		{token.NUMBER, "2"},
		{token.NUMBER, "3"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "node2"},
		{token.IDENT, "key"},
		{token.EQUALS, "="},
		{token.TRUE, "#true"},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "child"},
		{token.SLASHDASH, "/-"},
		{token.IDENT, "x"},
		{token.EQUALS, "="},
		{token.NULL, "#null"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestComments(t *testing.T) {
	input := "a /* outer /* inner */ still */ b // trailing\nc"
	requireTokens(t, input, []tokenExpectation{
		{token.IDENT, "a"},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "c"},
		{token.EOF, ""},
	})
}

func TestLineContinuation(t *testing.T) {
	input := "node1 \\ // COMMENT\n    \"gar\\u{e7}on\"\nnode2"
	toks := lexAll(t, input)
	require.Equal(t, token.IDENT, toks[0].Type)
	require.Equal(t, token.STRING, toks[1].Type)
	require.Equal(t, "garçon", toks[1].Literal)
	require.True(t, toks[1].Space)
	require.Equal(t, token.NEWLINE, toks[2].Type)
	require.Equal(t, 3, toks[3].Pos.Line)
}

func TestNewlines(t *testing.T) {
	input := "a\r\nb\rc\u0085d\u2028e\u000cf"
	toks := lexAll(t, input)
	var lines []int
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			lines = append(lines, tok.Pos.Line)
		}
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, lines)
	require.Equal(t, "\r\n", toks[1].Literal)
}

func TestPositions(t *testing.T) {
	toks := lexAll(t, "ab  \"é\" cd\n  x")
	require.Equal(t, kdlerrors.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	require.Equal(t, kdlerrors.Position{Line: 1, Column: 5, Offset: 4}, toks[1].Pos)
	require.Equal(t, kdlerrors.Position{Line: 1, Column: 9, Offset: 9}, toks[2].Pos)
	require.Equal(t, kdlerrors.Position{Line: 2, Column: 3, Offset: 14}, toks[4].Pos)
	require.False(t, toks[0].Space)
	require.True(t, toks[1].Space)
}

func TestByteOrderMark(t *testing.T) {
	toks := lexAll(t, "\uFEFFnode")
	require.Equal(t, token.IDENT, toks[0].Type)
	require.Equal(t, "node", toks[0].Literal)
	require.Equal(t, 1, toks[0].Pos.Column)
}

func TestNumbersAndWords(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"123", token.NUMBER},
		{"-1_000", token.NUMBER},
		{"+0x1f", token.NUMBER},
		{"1.5e-3", token.NUMBER},
		{"-.5", token.NUMBER},
		{"1abc", token.NUMBER},
		{"-", token.IDENT},
		{"-flag", token.IDENT},
		{"+", token.IDENT},
		{"a.b", token.IDENT},
		{"🎉", token.IDENT},
		{"r", token.IDENT},
		{"#inf", token.INF},
		{"#-inf", token.NEG_INF},
		{"#nan", token.NAN},
		{"false", token.FALSE},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			require.Equal(t, tt.typ, toks[0].Type)
			require.Equal(t, tt.input, toks[0].Literal)
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		typ      token.Type
		expected string
	}{
		{"escapes", `"a\n\t\"\\\b\f\r"`, token.STRING, "a\n\t\"\\\b\f\r"},
		{"v1 slash escape", `"\/"`, token.STRING, "/"},
		{"v2 space escape", `"a\sb"`, token.STRING, "a b"},
		{"v1 literal newline", "\"a\nb\"", token.STRING, "a\nb"},
		{"unicode escape", `"\u{1F388}"`, token.STRING, "🎈"},
		{"whitespace escape", "\"a \\\n    b\"", token.STRING, "a b"},
		{"raw v2", `#"C:\path"#`, token.RAW_STRING, `C:\path`},
		{"raw v2 hashes", `##"a "# b"##`, token.RAW_STRING, `a "# b`},
		{"raw v1", `r"C:\path"`, token.RAW_STRING, `C:\path`},
		{"raw v1 hashes", `r#"a "quoted" b"#`, token.RAW_STRING, `a "quoted" b`},
		{"empty raw", `#""#`, token.RAW_STRING, ""},
		{"multiline", "\"\"\"\n    hello\n      world\n    \"\"\"", token.STRING, "hello\n  world"},
		{"multiline blank lines", "\"\"\"\n  a\n\n  b\n  \"\"\"", token.STRING, "a\n\nb"},
		{"multiline escapes", "\"\"\"\n  a\\tb\n  \"\"\"", token.STRING, "a\tb"},
		{"multiline empty", "\"\"\"\n\"\"\"", token.STRING, ""},
		{"raw multiline", "#\"\"\"\n  a\\tb\n  \"\"\"#", token.RAW_STRING, `a\tb`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			require.Len(t, toks, 2, "%v", toks)
			require.Equal(t, tt.typ, toks[0].Type)
			require.Equal(t, tt.expected, toks[0].Literal)
			require.Equal(t, token.EOF, toks[1].Type)
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  kdlerrors.LexErrorKind
		line  int
		col   int
	}{
		{"unterminated string", `node "abc`, kdlerrors.UnterminatedString, 1, 6},
		{"unterminated comment", "node /* abc /* */", kdlerrors.UnterminatedComment, 1, 6},
		{"invalid escape", `node "\q"`, kdlerrors.InvalidEscape, 1, 6},
		{"bad unicode escape", `"\u{110000}"`, kdlerrors.InvalidEscape, 1, 1},
		{"surrogate escape", `"\u{d800}"`, kdlerrors.InvalidEscape, 1, 1},
		{"raw without quote", `node #abc`, kdlerrors.InvalidCharacter, 1, 6},
		{"raw hashes without quote", `node ##abc"`, kdlerrors.InvalidRawString, 1, 6},
		{"unterminated raw", `#"abc"`, kdlerrors.UnterminatedString, 1, 1},
		{"invalid utf8", "node \xff", kdlerrors.InvalidUTF8, 1, 6},
		{"invalid utf8 in string", "\"a\xffb\"", kdlerrors.InvalidUTF8, 1, 3},
		{"control character", "node \x01", kdlerrors.InvalidCharacter, 1, 6},
		{"bare inf", "node inf", kdlerrors.InvalidCharacter, 1, 6},
		{"stray slash", "node / x", kdlerrors.InvalidCharacter, 1, 6},
		{"continuation without newline", "node \\ x", kdlerrors.InvalidCharacter, 1, 6},
		{"multiline without newline", `"""abc"""`, kdlerrors.InvalidMultiline, 1, 1},
		{"multiline bad indent", "\"\"\"\n  a\n b\n  \"\"\"", kdlerrors.InvalidMultiline, 1, 1},
		{"multiline text before close", "\"\"\"\n  a\n  b\"\"\"", kdlerrors.InvalidMultiline, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(strings.NewReader(tt.input))
			toks := all(l)
			last := toks[len(toks)-1]
			require.Equal(t, token.ILLEGAL, last.Type, "%v", toks)

			var lexErr *kdlerrors.LexError
			require.True(t, errors.As(l.Err(), &lexErr))
			require.Equal(t, tt.kind, lexErr.Kind, lexErr.Error())
			require.Equal(t, tt.line, lexErr.Pos.Line)
			require.Equal(t, tt.col, lexErr.Pos.Column)
		})
	}
}

func TestVersionRestrictions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		version Version
		ok      bool
	}{
		{"v1 bare true", "true", Version1, true},
		{"v1 hash true", "#true", Version1, false},
		{"v1 r raw", `r"x"`, Version1, true},
		{"v1 hash raw", `#"x"#`, Version1, false},
		{"v1 multiline", "\"\"\"\nx\n\"\"\"", Version1, false},
		{"v2 bare true", "true", Version2, false},
		{"v2 hash true", "#true", Version2, true},
		{"v2 r raw", `r"x"`, Version2, false},
		{"v2 hash raw", `#"x"#`, Version2, true},
		{"v1 space escape", `"\s"`, Version1, false},
		{"v1 escaped whitespace", "\"a\\  b\"", Version1, false},
		{"v1 literal newline", "\"a\nb\"", Version1, true},
		{"v2 slash escape", `"\/"`, Version2, false},
		{"v2 literal newline", "\"a\nb\"", Version2, false},
		{"v2 raw newline", "#\"a\nb\"#", Version2, false},
		{"auto v1 keyword then v2 keyword", `true #false`, VersionAuto, false},
		{"auto v1 raw then v2 raw", `r"a" #"b"#`, VersionAuto, false},
		{"auto v2 raw then v1 keyword", `#"a"# null`, VersionAuto, false},
		{"auto v1 escape then v2 escape", `"\/" "\s"`, VersionAuto, false},
		{"auto mixed escapes in one string", `"\/\s"`, VersionAuto, false},
		{"auto raw newline", "#\"a\nb\"#", VersionAuto, false},
		{"auto consistent v1", `true r"a" "\/" null`, VersionAuto, true},
		{"auto consistent v2", "#true #\"a\"# \"\\s\" \"\"\"\nx\n\"\"\"", VersionAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(strings.NewReader(tt.input), WithVersion(tt.version))
			toks := all(l)
			if tt.ok {
				require.Equal(t, token.EOF, toks[len(toks)-1].Type, "%v", toks)
				require.NoError(t, l.Err())
			} else {
				require.Equal(t, token.ILLEGAL, toks[len(toks)-1].Type)
				require.Error(t, l.Err())
			}
		})
	}
}

func TestVersionLock(t *testing.T) {
	tests := []struct {
		input    string
		expected Version
	}{
		{`node "plain" 1 ident`, VersionAuto},
		{`node null`, Version1},
		{`node r"x"`, Version1},
		{`node "\/"`, Version1},
		{"node \"a\nb\"", Version1},
		{`node #null`, Version2},
		{`node #"x"#`, Version2},
		{`node "\s"`, Version2},
		{"node \"\"\"\n  x\n  \"\"\"", Version2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(strings.NewReader(tt.input))
			toks := all(l)
			require.Equal(t, token.EOF, toks[len(toks)-1].Type, "%v", toks)
			require.Equal(t, tt.expected, l.Version())
		})
	}

	l := New(strings.NewReader("a #true\nb true"))
	toks := all(l)
	last := toks[len(toks)-1]
	require.Equal(t, token.ILLEGAL, last.Type)
	require.Equal(t, 2, last.Pos.Line)
	require.ErrorContains(t, l.Err(), "the document is KDL v2")
}
