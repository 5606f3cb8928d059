package kdl

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-kdl/internal/number"
	"github.com/KimNorgaard/go-kdl/internal/token"
)

// formatter writes a Document to an output stream. After the first write
// error all further output is dropped and the error is kept in err.
type formatter struct {
	w      io.Writer
	indent string
	opts   EmitterOptions
	err    error
	// v2 is set for documents holding #inf, #-inf or #nan. Keywords then
	// take their #-prefixed spelling and line breaks in strings are always
	// escaped, so the output stays within one language version.
	v2 bool
}

// newFormatter returns a new formatter that writes to w.
func newFormatter(w io.Writer, opts EmitterOptions) *formatter {
	var indentStr string
	if opts.Indent > 0 {
		indentStr = strings.Repeat(" ", opts.Indent)
	}
	return &formatter{w: w, indent: indentStr, opts: opts}
}

func (f *formatter) write(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, s)
}

func (f *formatter) paint(attr ColorAttr, s string) string {
	if f.opts.Colors == nil {
		return s
	}
	return f.opts.Colors.Color(attr)(s)
}

func (f *formatter) writeIndent(depth int) {
	if f.indent == "" {
		return
	}
	for i := 0; i < depth; i++ {
		f.write(f.indent)
	}
}

func (f *formatter) formatDocument(d *Document) error {
	if d != nil {
		f.v2 = hasNonFinite(d.Nodes)
		f.writeNodes(d.Nodes, 0)
	}
	return f.err
}

func hasNonFinite(nodes []*Node) bool {
	for _, n := range nodes {
		for _, v := range n.Args {
			if v.nonFinite() {
				return true
			}
		}
		for _, prop := range n.Props {
			if prop.Value.nonFinite() {
				return true
			}
		}
		if hasNonFinite(n.Children) {
			return true
		}
	}
	return false
}

func (v Value) nonFinite() bool {
	return v.kind == KindFloat && (math.IsInf(v.f, 0) || math.IsNaN(v.f))
}

func (f *formatter) keyword(s string) string {
	if f.v2 {
		s = "#" + s
	}
	return f.paint(KeywordColor, s)
}

func (f *formatter) writeNodes(nodes []*Node, depth int) {
	for _, n := range nodes {
		f.writeNode(n, depth)
	}
}

func (f *formatter) writeNode(n *Node, depth int) {
	f.writeIndent(depth)
	if n.Type != "" {
		f.writeTypeAnnotation(n.Type)
	}
	f.write(f.paint(NodeNameColor, f.identifier(n.Name)))
	for _, v := range n.Args {
		f.write(" ")
		f.writeValue(v)
	}
	for _, prop := range n.Props {
		f.write(" ")
		f.write(f.paint(PropKeyColor, f.identifier(prop.Key)))
		f.write(f.paint(PunctColor, "="))
		f.writeValue(prop.Value)
	}
	if n.Children != nil {
		f.write(" " + f.paint(PunctColor, "{") + "\n")
		f.writeNodes(n.Children, depth+1)
		f.writeIndent(depth)
		f.write(f.paint(PunctColor, "}"))
	}
	f.write("\n")
}

func (f *formatter) writeTypeAnnotation(t string) {
	f.write(f.paint(PunctColor, "(") + f.paint(TypeColor, f.identifier(t)) + f.paint(PunctColor, ")"))
}

func (f *formatter) writeValue(v Value) {
	if v.typ != "" {
		f.writeTypeAnnotation(v.typ)
	}
	switch v.kind {
	case KindString:
		f.write(f.paint(StringColor, f.quote(v.s)))
	case KindInteger:
		s := strconv.FormatInt(v.i, 10)
		if v.big != nil {
			s = v.big.String()
		}
		f.write(f.paint(NumberColor, s))
	case KindFloat:
		f.write(f.paint(NumberColor, number.FormatFloat(v.f, f.opts.FloatMode.format())))
	case KindBool:
		f.write(f.keyword(strconv.FormatBool(v.b)))
	default:
		f.write(f.keyword("null"))
	}
}

// identifier returns s bare when the identifier mode and the grammar
// allow it, and quoted otherwise.
func (f *formatter) identifier(s string) string {
	bare := false
	switch f.opts.IdentifierMode {
	case PreferBareIdentifiers:
		bare = token.IsBareIdentifier(s)
	case ASCIIIdentifiers:
		bare = token.IsBareIdentifier(s) && isASCII(s)
	}
	if bare {
		return s
	}
	return f.quote(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x7f {
			return false
		}
	}
	return true
}

// quote returns s as a quoted string literal, escaped per the escape mode.
func (f *formatter) quote(s string) string {
	mode := f.opts.EscapeMode
	if f.v2 {
		mode |= EscapeNewline
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid bytes cannot be represented; substitute U+FFFD.
			b.WriteString(`\u{fffd}`)
			i++
			continue
		}
		i += size
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n' && mode&EscapeNewline != 0:
			b.WriteString(`\n`)
		case r == '\r' && mode&EscapeNewline != 0:
			b.WriteString(`\r`)
		case r == '\t' && mode&EscapeTab != 0:
			b.WriteString(`\t`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		case token.IsDisallowed(r) || r < 0x20,
			mode&EscapeNewline != 0 && token.IsNewline(r),
			mode&EscapeNonASCII != 0 && r > 0x7e:
			fmt.Fprintf(&b, `\u{%x}`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Emit returns the text form of doc. The output is fully determined by
// doc and opts, and ends with a newline after the last node.
func Emit(doc *Document, opts EmitterOptions) string {
	var b strings.Builder
	// strings.Builder never fails.
	_ = newFormatter(&b, opts).formatDocument(doc)
	return b.String()
}

// String returns v as a literal, including its type annotation, using
// DefaultEmitterOptions.
func (v Value) String() string {
	var b strings.Builder
	f := newFormatter(&b, DefaultEmitterOptions())
	f.writeValue(v)
	return b.String()
}
