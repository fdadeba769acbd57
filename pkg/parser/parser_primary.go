package parser

import (
	"strings"

	"github.com/sqlgauge/sqlgauge/pkg/token"
)

// parsePrimaryExpr parses a primary expression: a literal, column
// reference, function call, CASE, CAST, EXISTS, subquery, or
// parenthesized expression.
func (p *Parser) parsePrimaryExpr() Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &Literal{Type: LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit
	case token.STRING:
		lit := &Literal{Type: LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit
	case token.TRUE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "TRUE"}
	case token.FALSE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "FALSE"}
	case token.NULL:
		p.nextToken()
		return &Literal{Type: LiteralNull, Value: "NULL"}
	case token.CASE:
		return p.parseCaseExpr()
	case token.CAST:
		return p.parseCastExpr()
	case token.EXISTS:
		return p.parseExistsExpr()
	case token.LPAREN:
		return p.parseParenOrSubquery()
	case token.IDENT:
		return p.parseIdentExpr()
	case token.LEFT, token.RIGHT:
		// LEFT and RIGHT are also string function names.
		if p.checkPeek(token.LPAREN) {
			return p.parseFuncCall(p.token.Literal)
		}
	}

	p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), "expression")
	p.nextToken()
	return &Literal{Type: LiteralNull, Value: "NULL"}
}

// parseIdentExpr parses an expression starting with an identifier:
// a column reference, qualified column, t.*, or function call.
func (p *Parser) parseIdentExpr() Expr {
	name := p.token.Literal

	if p.checkPeek(token.LPAREN) {
		return p.parseFuncCall(name)
	}

	p.nextToken()

	if p.match(token.DOT) {
		switch p.token.Type {
		case token.STAR:
			p.nextToken()
			return &StarExpr{Table: name}
		case token.IDENT:
			col := p.token.Literal
			p.nextToken()
			return &ColumnRef{Table: name, Column: col}
		default:
			p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), "column name or *")
			return &ColumnRef{Table: name}
		}
	}

	return &ColumnRef{Column: name}
}

// parseFuncCall parses name([DISTINCT] args) or name(*).
func (p *Parser) parseFuncCall(name string) Expr {
	fn := &FuncCall{Name: strings.ToUpper(name)}
	p.nextToken() // function name
	p.expect(token.LPAREN)

	if p.match(token.STAR) {
		fn.Star = true
		p.expect(token.RPAREN)
		return fn
	}

	if !p.check(token.RPAREN) {
		if p.match(token.DISTINCT) {
			fn.Distinct = true
		}
		for {
			fn.Args = append(fn.Args, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.expect(token.RPAREN)
	return fn
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCaseExpr() Expr {
	expr := &CaseExpr{}
	p.expect(token.CASE)

	if !p.check(token.WHEN) {
		expr.Operand = p.parseExpr()
	}

	for p.match(token.WHEN) {
		var when WhenClause
		when.Condition = p.parseExpr()
		p.expect(token.THEN)
		when.Result = p.parseExpr()
		expr.Whens = append(expr.Whens, when)
	}

	if p.match(token.ELSE) {
		expr.Else = p.parseExpr()
	}

	p.expect(token.END)
	return expr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() Expr {
	p.expect(token.CAST)
	p.expect(token.LPAREN)

	expr := &CastExpr{}
	expr.Expr = p.parseExpr()
	p.expect(token.AS)
	expr.TypeName = p.parseTypeName()
	p.expect(token.RPAREN)
	return expr
}

// parseTypeName parses a type name in a CAST, including multi-word
// types (double precision) and parameterized types (varchar(10),
// numeric(10, 2)).
func (p *Parser) parseTypeName() string {
	var parts []string
	for p.check(token.IDENT) {
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}
	if len(parts) == 0 {
		p.errorf(ErrUnexpectedToken, p.tokenDesc(p.token), "type name")
		return ""
	}

	name := strings.Join(parts, " ")
	if p.match(token.LPAREN) {
		var args []string
		for p.check(token.NUMBER) {
			args = append(args, p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		name += "(" + strings.Join(args, ", ") + ")"
	}
	return name
}

// parseExistsExpr parses EXISTS (subquery). A preceding NOT is handled
// as a unary operator.
func (p *Parser) parseExistsExpr() Expr {
	p.expect(token.EXISTS)
	p.expect(token.LPAREN)
	sel := p.parseSelectStmt()
	p.expect(token.RPAREN)
	return &ExistsExpr{Select: sel}
}

// parseParenOrSubquery parses (expr) or (SELECT ...).
func (p *Parser) parseParenOrSubquery() Expr {
	p.expect(token.LPAREN)

	if p.check(token.SELECT) || p.check(token.WITH) {
		sel := p.parseSelectStmt()
		p.expect(token.RPAREN)
		return &SubqueryExpr{Select: sel}
	}

	expr := p.parseExpr()
	p.expect(token.RPAREN)
	return &ParenExpr{Expr: expr}
}
