package kdl

import (
	"fmt"
	"io"
	"math"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
	"github.com/KimNorgaard/go-kdl/internal/debug"
	"github.com/KimNorgaard/go-kdl/internal/lexer"
	"github.com/KimNorgaard/go-kdl/internal/number"
	"github.com/KimNorgaard/go-kdl/internal/token"
)

// parser transforms a stream of tokens into a Document. It stops at the
// first error.
type parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	depth    int
	maxDepth int
}

func newParser(r io.Reader, o *parseOptions) *parser {
	p := &parser{
		l:        lexer.New(r, lexer.WithVersion(o.version.lexer())),
		maxDepth: o.maxDepth,
	}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	if p.curToken.Type == token.ILLEGAL {
		// The lexer has no more to offer; keep the error token in place.
		p.peekToken = p.curToken
		return
	}
	p.peekToken = p.l.NextToken()
}

func (p *parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// fail builds a ParseError at the current token. An ILLEGAL token always
// reports the underlying lex error instead.
func (p *parser) fail(kind kdlerrors.ParseErrorKind, format string, args ...any) error {
	if p.curTokenIs(token.ILLEGAL) {
		return &kdlerrors.ParseError{Kind: kdlerrors.Lex, Pos: p.curToken.Pos, Err: p.l.Err()}
	}
	return &kdlerrors.ParseError{Kind: kind, Pos: p.curToken.Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(expected string) error {
	return p.fail(kdlerrors.UnexpectedToken, "unexpected %s, expected %s", describe(p.curToken), expected)
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "newline"
	case token.IDENT, token.NUMBER:
		return fmt.Sprintf("%q", tok.Literal)
	case token.STRING, token.RAW_STRING:
		return "string"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func (p *parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

func (p *parser) parseDocument() (*Document, error) {
	nodes, err := p.parseNodes(token.Token{})
	if err != nil {
		return nil, err
	}
	return &Document{Nodes: nodes}, nil
}

// parseNodes parses nodes up to the end of input, or up to the closing
// brace of the block opened by open. It returns with curToken on the EOF
// or closing brace.
func (p *parser) parseNodes(open token.Token) ([]*Node, error) {
	inChildren := open.Type == token.LBRACE
	nodes := []*Node{}
	for {
		p.skipNewlines()
		switch p.curToken.Type {
		case token.EOF:
			if inChildren {
				return nil, &kdlerrors.ParseError{
					Kind:    kdlerrors.UnterminatedChildren,
					Pos:     open.Pos,
					Message: "children block is never closed",
				}
			}
			return nodes, nil
		case token.RBRACE:
			if !inChildren {
				return nil, p.unexpected("a node")
			}
			return nodes, nil
		}
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
}

// parseNode parses one node including its terminator. A slashdashed node
// is validated and then dropped, returning nil.
func (p *parser) parseNode() (*Node, error) {
	elided := false
	if p.curTokenIs(token.SLASHDASH) {
		elided = true
		p.nextToken()
		p.skipNewlines()
	}

	node := &Node{}
	if p.curTokenIs(token.LPAREN) {
		typ, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		node.Type = typ
	}
	if !p.curToken.Type.IsString() || p.curToken.Literal == "" {
		return nil, p.fail(kdlerrors.MissingIdentifier, "expected node name, found %s", describe(p.curToken))
	}
	node.Name = p.curToken.Literal
	p.nextToken()

	if debug.Parse() {
		debug.Logf("parse node %q depth=%d elided=%t", node.Name, p.depth, elided)
	}

	if err := p.parseNodeBody(node); err != nil {
		return nil, err
	}
	if elided {
		return nil, nil
	}
	return node, nil
}

// parseNodeBody parses entries and children blocks up to and including the
// node terminator. A closing brace or the end of input also ends the node
// but is left in curToken. Once a children block, elided or not, has been
// seen only further children blocks may follow.
func (p *parser) parseNodeBody(node *Node) error { //nolint:gocognit
	propIndex := map[string]int{}
	sawChildren := false
	sawElidedChildren := false
	for {
		switch p.curToken.Type {
		case token.NEWLINE, token.SEMICOLON:
			p.nextToken()
			return nil
		case token.EOF:
			return nil
		case token.RBRACE:
			if p.depth == 0 {
				return p.unexpected("a node terminator")
			}
			return nil
		case token.LBRACE:
			if sawChildren {
				return p.unexpected("a node terminator")
			}
			children, err := p.parseChildren()
			if err != nil {
				return err
			}
			node.Children = children
			sawChildren = true
			continue
		case token.SLASHDASH:
			slashdash := p.curToken
			p.nextToken()
			p.skipNewlines()
			if p.curTokenIs(token.LBRACE) {
				if _, err := p.parseChildren(); err != nil {
					return err
				}
				sawElidedChildren = true
				continue
			}
			if sawChildren || sawElidedChildren {
				return p.unexpected("a children block after /-")
			}
			if !slashdash.Space {
				return &kdlerrors.ParseError{
					Kind:    kdlerrors.UnexpectedToken,
					Pos:     slashdash.Pos,
					Message: `unexpected "/-", expected whitespace before argument or property`,
				}
			}
			if _, _, _, err := p.parseEntry(); err != nil {
				return err
			}
			continue
		}

		if sawChildren || sawElidedChildren {
			return p.unexpected("a node terminator")
		}
		if !p.curTokenIs(token.LPAREN) && !p.curToken.Type.IsValue() {
			return p.unexpected("an argument, property or node terminator")
		}
		if !p.curToken.Space {
			return p.unexpected("whitespace before argument or property")
		}
		key, isProp, v, err := p.parseEntry()
		if err != nil {
			return err
		}
		if !isProp {
			node.Args = append(node.Args, v)
			continue
		}
		if i, ok := propIndex[key]; ok {
			node.Props[i].Value = v
			continue
		}
		propIndex[key] = len(node.Props)
		node.Props = append(node.Props, Property{Key: key, Value: v})
	}
}

// parseChildren parses a '{' ... '}' block and leaves curToken after the
// closing brace.
func (p *parser) parseChildren() ([]*Node, error) {
	open := p.curToken
	p.depth++
	if p.depth > p.maxDepth {
		return nil, &kdlerrors.ParseError{
			Kind:    kdlerrors.DepthExceeded,
			Pos:     open.Pos,
			Message: fmt.Sprintf("children nested deeper than %d levels", p.maxDepth),
			Err:     kdlerrors.ErrDepthExceeded,
		}
	}
	p.nextToken()
	nodes, err := p.parseNodes(open)
	if err != nil {
		return nil, err
	}
	p.nextToken() // consume '}'
	p.depth--
	return nodes, nil
}

// parseEntry parses a property (key=value) or an argument.
func (p *parser) parseEntry() (key string, isProp bool, v Value, err error) {
	if p.curToken.Type.IsString() && p.peekToken.Type == token.EQUALS {
		key = p.curToken.Literal
		if key == "" {
			return "", false, Value{}, p.fail(kdlerrors.MissingIdentifier, "empty property key")
		}
		p.nextToken()
		eq := p.curToken
		p.nextToken()
		if (eq.Space || p.curToken.Space) && !p.l.Require(lexer.Version2) {
			return "", false, Value{}, &kdlerrors.ParseError{
				Kind:    kdlerrors.UnexpectedToken,
				Pos:     eq.Pos,
				Message: "whitespace around '=' requires KDL v2",
			}
		}
		v, err = p.parseValue()
		return key, true, v, err
	}
	v, err = p.parseValue()
	return "", false, v, err
}

func (p *parser) parseValue() (Value, error) {
	var typ string
	if p.curTokenIs(token.LPAREN) {
		var err error
		if typ, err = p.parseTypeAnnotation(); err != nil {
			return Value{}, err
		}
	}

	tok := p.curToken
	var v Value
	switch tok.Type {
	case token.STRING, token.RAW_STRING:
		v = String(tok.Literal)
	case token.IDENT:
		if !p.l.Require(lexer.Version2) {
			return Value{}, p.unexpected("a value; bare identifiers are values only in KDL v2")
		}
		v = String(tok.Literal)
	case token.NUMBER:
		n, err := number.Parse(tok.Literal)
		if err != nil {
			return Value{}, &kdlerrors.ParseError{Kind: kdlerrors.InvalidNumber, Pos: tok.Pos, Err: err}
		}
		v = valueFromNumber(n)
	case token.TRUE:
		v = Bool(true)
	case token.FALSE:
		v = Bool(false)
	case token.NULL:
		v = Null()
	case token.INF:
		v = Float(math.Inf(1))
	case token.NEG_INF:
		v = Float(math.Inf(-1))
	case token.NAN:
		v = Float(math.NaN())
	default:
		return Value{}, p.unexpected("a value")
	}

	if typ != "" {
		var err error
		if v, err = ApplyTypeAnnotation(v, typ); err != nil {
			return Value{}, &kdlerrors.ParseError{Kind: kdlerrors.OutOfRange, Pos: tok.Pos, Err: err}
		}
	}
	p.nextToken()
	return v, nil
}

// parseTypeAnnotation parses '(' identifier ')' and checks that the
// annotated element follows without whitespace. Whitespace inside the
// parentheses is KDL v2 syntax.
func (p *parser) parseTypeAnnotation() (string, error) {
	p.nextToken() // consume '('
	if p.curToken.Space && !p.l.Require(lexer.Version2) {
		return "", p.fail(kdlerrors.InvalidTypeAnnotation, "whitespace inside a type annotation requires KDL v2")
	}
	if !p.curToken.Type.IsString() {
		return "", p.fail(kdlerrors.InvalidTypeAnnotation, "expected type name, found %s", describe(p.curToken))
	}
	typ := p.curToken.Literal
	if typ == "" {
		return "", p.fail(kdlerrors.InvalidTypeAnnotation, "empty type annotation")
	}
	p.nextToken()
	if !p.curTokenIs(token.RPAREN) {
		return "", p.fail(kdlerrors.InvalidTypeAnnotation, "expected ')', found %s", describe(p.curToken))
	}
	if p.curToken.Space && !p.l.Require(lexer.Version2) {
		return "", p.fail(kdlerrors.InvalidTypeAnnotation, "whitespace inside a type annotation requires KDL v2")
	}
	p.nextToken()
	if p.curToken.Space {
		return "", p.fail(kdlerrors.InvalidTypeAnnotation, "whitespace between type annotation and annotated element")
	}
	return typ, nil
}
