// Package parser implements a total, backtracking-free-where-possible
// recursive-descent parser for the FlowScript DSL, producing the AST
// defined in internal/ast. The parser never panics and never consults
// external state; it reports every syntax problem as a *herrors.Diagnostic
// (§4.1 Parser contract).
package parser

import (
	"fmt"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/herrors"
	"github.com/flowscript/flowscript/internal/lexer"
	"github.com/flowscript/flowscript/internal/token"
)

// Parser turns a token stream into an AST. Three tokens of lookahead are
// buffered so the typed-name form `Type:name` can be distinguished from a
// plain mapping key without backtracking.
type Parser struct {
	l *lexer.Lexer

	cur, peek, peek2 token.Token

	errors []*herrors.Diagnostic
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.advance()
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.peek2
	p.peek2 = p.l.NextToken()
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []*herrors.Diagnostic { return p.errors }

func (p *Parser) errorf(sp ast.Span, format string, args ...interface{}) {
	p.errors = append(p.errors, herrors.At(herrors.SyntaxError, sp, fmt.Sprintf(format, args...)))
}

func (p *Parser) curSpan() ast.Span {
	return ast.Span{StartLine: p.cur.Line, StartCol: p.cur.Column, EndLine: p.cur.Line, EndCol: p.cur.Column}
}

func (p *Parser) expect(k token.Kind) bool {
	if p.cur.Kind != k {
		p.errorf(p.curSpan(), "expected %s, got %s (%q)", k, p.cur.Kind, p.cur.Lit)
		return false
	}
	p.advance()
	return true
}

// Parse parses an entire program (a possibly brace-enclosed record) and
// returns its AST (a *ast.Dict) or accumulated syntax errors.
func Parse(src string) (*ast.Dict, []*herrors.Diagnostic) {
	p := New(src)
	dict := p.parseTopLevel()
	return dict, p.errors
}

// ParseExpression parses a single standalone expression, e.g. the condition
// text embedded in a `switch` combinator's string keys (§4.5). Unlike
// Parse, it does not expect a record of semicolon-separated items.
func ParseExpression(src string) (ast.Node, []*herrors.Diagnostic) {
	p := New(src)
	expr := p.parseExpression()
	if p.cur.Kind != token.EOF {
		p.errorf(p.curSpan(), "unexpected trailing input %s (%q)", p.cur.Kind, p.cur.Lit)
	}
	return expr, p.errors
}

func (p *Parser) parseTopLevel() *ast.Dict {
	start := p.curSpan()
	braced := false
	if p.cur.Kind == token.LBRACE {
		braced = true
		p.advance()
	}

	var items []ast.Node
	for p.cur.Kind != token.EOF && !(braced && p.cur.Kind == token.RBRACE) {
		item := p.parseItem()
		if item != nil {
			items = append(items, item)
		}
		if p.cur.Kind == token.SEMICOLON {
			p.advance()
			continue
		}
		if p.cur.Kind == token.EOF || (braced && p.cur.Kind == token.RBRACE) {
			break
		}
		p.errorf(p.curSpan(), "expected ';' between items, got %s", p.cur.Kind)
		p.advance()
	}

	if braced {
		p.expect(token.RBRACE)
	}

	return &ast.Dict{Sp: spanBetween(start, p.curSpan()), Items: items}
}

func spanBetween(a, b ast.Span) ast.Span {
	return ast.Span{StartLine: a.StartLine, StartCol: a.StartCol, EndLine: b.EndLine, EndCol: b.EndCol}
}

// lookaheadIsTypedName reports whether the parser is positioned at the
// start of `CNAME ":" (CNAME | dotted-CNAME)`, i.e. cur is an identifier,
// peek is ':', and peek2 is itself an identifier (not a value literal or
// an operator), which is the one shape `typed_name` may take (§4.1).
func (p *Parser) lookaheadIsTypedName() bool {
	return p.cur.Kind == token.IDENT && p.peek.Kind == token.COLON && p.peek2.Kind == token.IDENT
}

func (p *Parser) parseTypedVar() *ast.TypedVar {
	sp := p.curSpan()
	typ := p.cur.Lit
	p.advance() // type ident
	p.advance() // ':'
	name := p.cur.Lit
	end := p.curSpan()
	p.advance() // name ident
	return &ast.TypedVar{Sp: spanBetween(sp, end), Type: typ, Name: name}
}

// parseItem parses one record item: a Declaration, a Pair, or a bare Call
// statement (§4.1, §4.4 "Record evaluation").
func (p *Parser) parseItem() ast.Node {
	if p.lookaheadIsTypedName() {
		tv := p.parseTypedVar()
		switch p.cur.Kind {
		case token.ASSIGN:
			p.advance()
			val := p.parseDeclOrMappingValue()
			return &ast.Declaration{Sp: spanBetween(tv.Sp, val.Span()), Target: tv, Value: val}
		case token.COLON:
			p.advance()
			val := p.parseDeclOrMappingValue()
			return &ast.Pair{Sp: spanBetween(tv.Sp, val.Span()), Key: tv, Value: val}
		default:
			p.errorf(tv.Sp, "expected ':=' or ':' after typed name %s", tv)
			return tv
		}
	}

	key := p.parseKeyAtom()
	if p.cur.Kind == token.COLON {
		p.advance()
		val := p.parseDeclOrMappingValue()
		return &ast.Pair{Sp: spanBetween(key.Span(), val.Span()), Key: key, Value: val}
	}
	if v, ok := key.(*ast.Var); ok && p.cur.Kind == token.ASSIGN {
		// Untyped `name := expr`: a declaration with no type annotation
		// (§4.4's scope-ordering example `{a := 1; b := a + 1}` uses this
		// form; the type-checking step is simply skipped at evaluation).
		p.advance()
		val := p.parseDeclOrMappingValue()
		tv := &ast.TypedVar{Sp: v.Sp, Name: v.Name}
		return &ast.Declaration{Sp: spanBetween(tv.Sp, val.Span()), Target: tv, Value: val}
	}
	if call, ok := key.(*ast.Call); ok {
		return call
	}
	p.errorf(key.Span(), "expected ':' after key %s", key)
	return key
}

// parseKeyAtom parses the restricted set of forms valid.in mapping-key
// position: a literal value, a wildcard tuple, a function call, or a bare
// (possibly dotted) identifier.
func (p *Parser) parseKeyAtom() ast.Node {
	switch p.cur.Kind {
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.IDENT:
		name := p.cur.Lit
		sp := p.curSpan()
		p.advance()
		if p.cur.Kind == token.LPAREN {
			return p.parseCallTail(sp, &ast.Var{Sp: sp, Name: name})
		}
		return &ast.Var{Sp: sp, Name: name}
	default:
		return p.parseAtom()
	}
}

// parseDeclOrMappingValue parses the RHS grammar `(expression | tuple_inline)`:
// a bare comma-separated sequence collapsing to a single node, a Tuple, or -
// when shaped like `(params), {body}, (returns)` - a FunctionLit.
func (p *Parser) parseDeclOrMappingValue() ast.Node {
	first := p.parseTupleItem()
	items := []ast.Node{first}
	for p.cur.Kind == token.COMMA {
		p.advance()
		items = append(items, p.parseTupleItem())
	}

	if len(items) == 1 {
		return items[0]
	}

	if fn, ok := tryBuildFunctionLit(items); ok {
		return fn
	}

	return &ast.Tuple{Sp: spanBetween(items[0].Span(), items[len(items)-1].Span()), Items: items}
}

// parseTupleItem parses one element of a bare or parenthesised tuple: a
// typed name, or a full expression.
func (p *Parser) parseTupleItem() ast.Node {
	if p.lookaheadIsTypedName() {
		return p.parseTypedVar()
	}
	return p.parseExpression()
}
