package parser

import (
	"strconv"
	"strings"

	"github.com/flowscript/flowscript/internal/ast"
	"github.com/flowscript/flowscript/internal/token"
)

// parseExpression is the entry point for the full precedence chain,
// loosest to tightest (§4.1 "Ambiguity Policy"):
//
//	or > and > not > pipe > comparison > additive > multiplicative > power > atom
//
// Placing pipe between comparison and 'and' means `a |> f == 1 and b` parses
// as `(a |> (f == 1)) and b`, not `a |> (f == 1 and b)`.
func (p *Parser) parseExpression() ast.Node {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Node {
	left := p.parseAnd()
	for p.cur.Kind == token.OR || p.cur.Kind == token.BAR {
		sp := p.curSpan()
		p.advance()
		right := p.parseAnd()
		left = &ast.BinOp{Sp: spanBetween(left.Span(), right.Span()), Op: "or", Left: left, Right: right}
		_ = sp
	}
	return left
}

func (p *Parser) parseAnd() ast.Node {
	left := p.parseNot()
	for p.cur.Kind == token.AND || p.cur.Kind == token.AMP {
		p.advance()
		right := p.parseNot()
		left = &ast.BinOp{Sp: spanBetween(left.Span(), right.Span()), Op: "and", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNot() ast.Node {
	if p.cur.Kind == token.NOT {
		sp := p.curSpan()
		p.advance()
		operand := p.parseNot()
		return &ast.UnaryOp{Sp: spanBetween(sp, operand.Span()), Op: "not", Operand: operand}
	}
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Node {
	left := p.parseComparison()
	if p.cur.Kind != token.PIPE {
		return left
	}
	stages := []ast.Node{left}
	for p.cur.Kind == token.PIPE {
		p.advance()
		stages = append(stages, p.parseComparison())
	}
	return &ast.Pipe{Sp: spanBetween(stages[0].Span(), stages[len(stages)-1].Span()), Stages: stages}
}

var comparisonOps = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=", token.GT: ">", token.LT: "<", token.GTE: ">=", token.LTE: "<=",
}

func (p *Parser) parseComparison() ast.Node {
	left := p.parseAdditive()
	for {
		op, ok := comparisonOps[p.cur.Kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinOp{Sp: spanBetween(left.Span(), right.Span()), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() ast.Node {
	left := p.parseMultiplicative()
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		op := "+"
		if p.cur.Kind == token.MINUS {
			op = "-"
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinOp{Sp: spanBetween(left.Span(), right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Node {
	left := p.parseUnary()
	for p.cur.Kind == token.STAR || p.cur.Kind == token.SLASH || p.cur.Kind == token.PERCENT {
		op := map[token.Kind]string{token.STAR: "*", token.SLASH: "/", token.PERCENT: "%"}[p.cur.Kind]
		p.advance()
		right := p.parseUnary()
		left = &ast.BinOp{Sp: spanBetween(left.Span(), right.Span()), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Node {
	if p.cur.Kind == token.MINUS {
		sp := p.curSpan()
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryOp{Sp: spanBetween(sp, operand.Span()), Op: "-", Operand: operand}
	}
	return p.parsePower()
}

// parsePower is right-associative: 2^3^2 == 2^(3^2).
func (p *Parser) parsePower() ast.Node {
	left := p.parsePostfix()
	if p.cur.Kind == token.CARET {
		p.advance()
		right := p.parseUnary() // allow -x as exponent and right-recursion
		return &ast.BinOp{Sp: spanBetween(left.Span(), right.Span()), Op: "^", Left: left, Right: right}
	}
	return left
}

// parsePostfix parses an atom followed by any call-application tails, which
// lets a parenthesised or pipe-produced function value be invoked directly.
func (p *Parser) parsePostfix() ast.Node {
	node := p.parseAtom()
	for p.cur.Kind == token.LPAREN {
		node = p.parseCallTail(node.Span(), node)
	}
	return node
}

func (p *Parser) parseAtom() ast.Node {
	sp := p.curSpan()
	switch p.cur.Kind {
	case token.NUMBER:
		lit := p.cur.Lit
		p.advance()
		if strings.Contains(lit, ".") {
			f, _ := strconv.ParseFloat(lit, 64)
			return &ast.Number{Sp: sp, Flt: f, Float: true}
		}
		i, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			f, _ := strconv.ParseFloat(lit, 64)
			return &ast.Number{Sp: sp, Flt: f, Float: true}
		}
		return &ast.Number{Sp: sp, Int: i}
	case token.STRING:
		lit := p.cur.Lit
		p.advance()
		return &ast.String{Sp: sp, Value: lit}
	case token.TRUE:
		p.advance()
		return &ast.Bool{Sp: sp, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.Bool{Sp: sp, Value: false}
	case token.STAR:
		p.advance()
		return &ast.Any{Sp: sp}
	case token.LBRACE:
		return p.parseDict()
	case token.LBRACKET:
		return p.parseList()
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.IDENT:
		name := p.cur.Lit
		p.advance()
		v := ast.Node(&ast.Var{Sp: sp, Name: name})
		if p.cur.Kind == token.LPAREN {
			v = p.parseCallTail(sp, v)
		}
		return v
	default:
		p.errorf(sp, "unexpected token %s (%q)", p.cur.Kind, p.cur.Lit)
		p.advance()
		return &ast.Var{Sp: sp, Name: "<error>"}
	}
}

func (p *Parser) parseCallTail(sp ast.Span, callee ast.Node) *ast.Call {
	p.advance() // '('
	var args []ast.Arg
	for p.cur.Kind != token.RPAREN && p.cur.Kind != token.EOF {
		args = append(args, p.parseArg())
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	end := p.curSpan()
	p.expect(token.RPAREN)
	return &ast.Call{Sp: spanBetween(sp, end), Callee: callee, Args: args}
}

// parseArg parses one call argument: `name: expr` (keyword) or `expr`
// (positional). Lookahead of two tokens (IDENT COLON) distinguishes a
// keyword argument from a bare identifier expression.
func (p *Parser) parseArg() ast.Arg {
	if p.cur.Kind == token.IDENT && p.peek.Kind == token.COLON && p.peek2.Kind != token.COLON {
		name := p.cur.Lit
		p.advance()
		p.advance()
		return ast.Arg{Name: name, Value: p.parseExpression()}
	}
	return ast.Arg{Value: p.parseExpression()}
}

// parseParenOrTuple parses `( ... )`. A single element collapses to that
// element (plain grouping parens); two or more become a Tuple.
func (p *Parser) parseParenOrTuple() ast.Node {
	sp := p.curSpan()
	p.advance() // '('
	if p.cur.Kind == token.RPAREN {
		end := p.curSpan()
		p.advance()
		return &ast.Tuple{Sp: spanBetween(sp, end)}
	}
	var items []ast.Node
	items = append(items, p.parseTupleItem())
	for p.cur.Kind == token.COMMA {
		p.advance()
		if p.cur.Kind == token.RPAREN {
			break
		}
		items = append(items, p.parseTupleItem())
	}
	end := p.curSpan()
	p.expect(token.RPAREN)
	if len(items) == 1 {
		return items[0]
	}
	return &ast.Tuple{Sp: spanBetween(sp, end), Items: items}
}

func (p *Parser) parseList() ast.Node {
	sp := p.curSpan()
	p.advance() // '['
	var items []ast.Node
	for p.cur.Kind != token.RBRACKET && p.cur.Kind != token.EOF {
		items = append(items, p.parseTupleItem())
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	end := p.curSpan()
	p.expect(token.RBRACKET)
	return &ast.List{Sp: spanBetween(sp, end), Items: items}
}

func (p *Parser) parseDict() *ast.Dict {
	return p.parseTopLevel()
}
